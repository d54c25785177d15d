// Package tetmesh post-processes the output of a volumetric tetrahedralization
// engine into a region aware mesh: region labels are derived from the raw
// per-tetrahedron attributes, regions can be hidden through a visibility mask,
// the boundary surface of the visible tetrahedra is extracted for display and
// the result is compacted and exported.
package tetmesh

import (
	"context"

	"gonum.org/v1/gonum/spatial/r3"
)

// Surface is a closed triangulated surface ready to be handed to an Engine.
// Triangle corners are always 0-based indices into Vertices. IndexBase
// records the numbering convention the engine uses for the given input format
// and is subtracted from the engine output corner indices.
type Surface struct {
	Name      string
	Vertices  []r3.Vec
	Triangles [][3]int
	// Regions are seed points marking enclosed volumes. Engines that support
	// region attributes assign the seed Attribute to every tetrahedron in the
	// volume the seed lies in.
	Regions []RegionSeed
	// Holes are points inside volumes that must stay empty.
	Holes     []r3.Vec
	IndexBase int
}

// RegionSeed marks a region of a Surface with an attribute value.
type RegionSeed struct {
	Point     r3.Vec
	Attribute float64
	// MaxVolume is a volume constraint for the region. Zero means unconstrained.
	MaxVolume float64
}

// RawMesh is the untouched output of an Engine. Corner indices follow the
// engine numbering convention.
type RawMesh struct {
	Points []r3.Vec
	Tetras [][4]int
	// Attributes holds one opaque value per tetrahedron. Engines must emit the
	// exact same value for every tetrahedron of a region.
	Attributes []float64
	// Faces optionally holds the convex hull or boundary faces reported by the engine.
	Faces [][3]int
}

// Mesh is a processed tetrahedral mesh with 0-based corner indices and one
// region label per tetrahedron.
type Mesh struct {
	Vertices []r3.Vec
	Tetras   [][4]int
	// Regions holds the label of each tetrahedron, in [0, NumRegions).
	Regions    []int
	NumRegions int
	// Hull holds the engine reported faces, if any.
	Hull [][3]int
}

// Engine is a tetrahedralization engine. switches is passed through
// untouched and its meaning is defined by the engine.
type Engine interface {
	Tetrahedralize(ctx context.Context, switches string, s Surface) (RawMesh, error)
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(ctx context.Context, switches string, s Surface) (RawMesh, error)

// Tetrahedralize calls f.
func (f EngineFunc) Tetrahedralize(ctx context.Context, switches string, s Surface) (RawMesh, error) {
	return f(ctx, switches, s)
}

// Loader reads a Surface from a file.
type Loader interface {
	Load(path string) (Surface, error)
}
