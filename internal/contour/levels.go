package contour

import (
	"runtime"
	"sync"

	"github.com/san-kum/isoflow/internal/field"
)

// ExtractLevels extracts one Level per iso-value, in the order given.
// Levels are processed concurrently; g must not change until it returns.
func ExtractLevels(g field.Sampler, levels []float64) []Level {
	out := make([]Level, len(levels))
	parallelFor(len(levels), 2, func(start, end int) {
		for k := start; k < end; k++ {
			out[k] = Level{Value: levels[k], Segments: Extract(g, levels[k])}
		}
	})
	return out
}

// parallelFor splits [0, n) into contiguous chunks of at least minChunk
// items and runs fn on each chunk in its own goroutine.
func parallelFor(n, minChunk int, fn func(start, end int)) {
	workers := runtime.GOMAXPROCS(0)
	if minChunk < 1 {
		minChunk = 1
	}
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers <= 1 {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(start, end)
		}()
	}
	wg.Wait()
}
