package field

import "errors"

// Configuration errors for grids and iso sweeps.
var (
	// ErrEmptyGrid indicates a grid with a non-positive width or height.
	ErrEmptyGrid = errors.New("field: grid dimensions must be positive")

	// ErrSizeMismatch indicates a sample slice whose length is not width*height.
	ErrSizeMismatch = errors.New("field: sample count does not match grid dimensions")

	// ErrEmptySweep indicates an iso sweep that yields no levels.
	ErrEmptySweep = errors.New("field: iso sweep yields no levels")

	// ErrNonPositiveStep indicates an iso sweep with step <= 0.
	ErrNonPositiveStep = errors.New("field: iso sweep step must be positive")

	// ErrTooManyLevels indicates a sweep finer than MaxLevels.
	ErrTooManyLevels = errors.New("field: iso sweep yields too many levels")

	// ErrNonFinite indicates a NaN or infinite iso value or sweep bound.
	ErrNonFinite = errors.New("field: iso value is not finite")
)
