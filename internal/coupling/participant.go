// Package coupling drives a coupling participant and publishes the fields it
// produces into snapshot channels, one channel per mesh and field.
//
// The [Adapter] is the producer side of the visualizer: each step it reads
// every field into a private staging grid, publishes the staging grid under
// a short write lock, then asks the participant to advance.
package coupling

import "fmt"

// MeshInfo describes a structured mesh exposed by a participant. Vertices
// are numbered row-major, so vertex j*Width+i sits at grid sample (i, j).
type MeshInfo struct {
	Name   string
	Width  int
	Height int
	Fields []string
}

// Key identifies one published field.
type Key struct {
	Mesh  string
	Field string
}

func (k Key) String() string { return fmt.Sprintf("%s/%s", k.Mesh, k.Field) }

// Participant is the coupling process seen from the visualizer.
type Participant interface {
	// Meshes lists the meshes and fields to visualize. It must return the
	// same layout for the participant's whole lifetime.
	Meshes() []MeshInfo

	// IsCouplingOngoing reports whether another step is available.
	IsCouplingOngoing() bool

	// ReadBlockScalarData writes the current values of field at the given
	// vertices into dst, in vertexIDs order.
	ReadBlockScalarData(mesh, field string, vertexIDs []int, dst []float64) error

	// Advance completes a step of length dt and returns the participant's
	// next suggested step length.
	Advance(dt float64) (float64, error)

	// Finalize releases the participant. It is called once, after the
	// producer loop has stopped.
	Finalize() error
}
