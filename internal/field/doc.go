// Package field holds the value types shared by the producer and the
// renderer: a structured 2D scalar [Grid], the read-only [Sampler] view the
// contour extractor works against, and the iso-value [Sweep].
//
// Samples are stored row-major: sample (i, j) lives at index j*width+i, with
// i the column and j the row. Grid dimensions never change after
// construction; only sample values do.
package field
