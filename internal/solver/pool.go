package solver

import "sync"

// BufferPool recycles scratch slices of one fixed length.
type BufferPool struct {
	pool sync.Pool
	size int
}

func NewBufferPool(size int) *BufferPool {
	return &BufferPool{
		size: size,
		pool: sync.Pool{
			New: func() any {
				b := make([]float64, size)
				return &b
			},
		},
	}
}

func (p *BufferPool) Size() int { return p.size }

// Get returns a zeroed slice of the pool's length.
func (p *BufferPool) Get() []float64 {
	return *p.pool.Get().(*[]float64)
}

// Put returns b to the pool. Slices of the wrong length are dropped.
func (p *BufferPool) Put(b []float64) {
	if len(b) != p.size {
		return
	}
	clear(b)
	p.pool.Put(&b)
}
