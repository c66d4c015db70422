// Package contour extracts isolines from a 2D scalar field with marching
// squares.
//
// Each cell is classified by which of its four corners are at or above the
// iso-value (upper-left is bit 0, upper-right bit 1, lower-left bit 2,
// lower-right bit 3). A 16-entry table maps the classification to the pairs
// of cell edges the isoline joins, and the crossing point on each edge is
// found by linear interpolation. The two ambiguous saddle classifications
// are resolved with the bilinear value at the cell center.
//
// [Extract] is pure: it never mutates its input and the same grid and
// iso-value always yield the same segments.
package contour
