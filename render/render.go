// Package render converts triangle surfaces to and from STL and draws
// shaded previews of them.
package render

import (
	"io"

	"github.com/milkpku/tetmesh/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Triangle3 is a triangle in 3D space with counter clockwise winding seen
// from the side its normal points to.
type Triangle3 [3]r3.Vec

// Normal returns the unit normal of t, or the zero vector if t is degenerate.
func (t Triangle3) Normal() r3.Vec {
	return d3.TriangleNormal(t[0], t[1], t[2])
}

// Degenerate returns true if two vertices of t are within tol of each other.
func (t Triangle3) Degenerate(tol float64) bool {
	return d3.EqualWithin(t[0], t[1], tol) ||
		d3.EqualWithin(t[1], t[2], tol) ||
		d3.EqualWithin(t[2], t[0], tol)
}

// Renderer streams triangles. ReadTriangles returns io.EOF once exhausted.
type Renderer interface {
	ReadTriangles(t []Triangle3) (int, error)
}

// FaceTriangles resolves indexed faces against vertices.
func FaceTriangles(vertices []r3.Vec, faces [][3]int) []Triangle3 {
	tris := make([]Triangle3, len(faces))
	for i, f := range faces {
		tris[i] = Triangle3{vertices[f[0]], vertices[f[1]], vertices[f[2]]}
	}
	return tris
}

// MeshRenderer is a Renderer over an indexed triangle mesh.
type MeshRenderer struct {
	vertices []r3.Vec
	faces    [][3]int
}

// NewMeshRenderer returns a Renderer yielding one triangle per face.
func NewMeshRenderer(vertices []r3.Vec, faces [][3]int) *MeshRenderer {
	return &MeshRenderer{vertices: vertices, faces: faces}
}

// ReadTriangles implements Renderer.
func (m *MeshRenderer) ReadTriangles(t []Triangle3) (int, error) {
	if len(m.faces) == 0 {
		return 0, io.EOF
	}
	n := copy(t, FaceTriangles(m.vertices, m.faces[:min(len(t), len(m.faces))]))
	m.faces = m.faces[n:]
	return n, nil
}
