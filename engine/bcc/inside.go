package bcc

import (
	"math"

	"github.com/milkpku/tetmesh/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// insideTester classifies points against a closed surface by counting the
// crossings of a ray cast along +X. Triangles are bucketed on a YZ grid so
// a query only visits the triangles its ray can hit.
type insideTester struct {
	tris   [][3]r3.Vec
	bb     d3.Box
	n      [2]int
	cellSz [2]float64
	bucket [][]int32
	jitter r3.Vec
}

func newInsideTester(vertices []r3.Vec, faces [][3]int) *insideTester {
	t := &insideTester{
		tris: make([][3]r3.Vec, len(faces)),
		bb:   d3.BoundingBox(vertices),
	}
	for i, f := range faces {
		t.tris[i] = [3]r3.Vec{vertices[f[0]], vertices[f[1]], vertices[f[2]]}
	}
	sz := t.bb.Size()
	side := max(int(math.Sqrt(float64(len(faces)))), 1)
	t.n = [2]int{side, side}
	t.cellSz = [2]float64{sz.Y / float64(side), sz.Z / float64(side)}
	t.bucket = make([][]int32, side*side)
	for i, tri := range t.tris {
		tb := d3.BoundingBox(tri[:])
		j0, k0 := t.cellOf(tb.Min.Y, tb.Min.Z)
		j1, k1 := t.cellOf(tb.Max.Y, tb.Max.Z)
		for j := j0; j <= j1; j++ {
			for k := k0; k <= k1; k++ {
				t.bucket[j*t.n[1]+k] = append(t.bucket[j*t.n[1]+k], int32(i))
			}
		}
	}
	// Offset queries off the lattice planes so rays do not graze edges of
	// axis aligned surfaces.
	diag := t.bb.Diagonal()
	t.jitter = r3.Vec{Y: 1.2345677e-7 * diag, Z: 7.654321e-8 * diag}
	return t
}

func (t *insideTester) cellOf(y, z float64) (int, int) {
	j, k := 0, 0
	if t.cellSz[0] > 0 {
		j = int((y - t.bb.Min.Y) / t.cellSz[0])
	}
	if t.cellSz[1] > 0 {
		k = int((z - t.bb.Min.Z) / t.cellSz[1])
	}
	return min(max(j, 0), t.n[0]-1), min(max(k, 0), t.n[1]-1)
}

// inside reports whether p lies inside the surface.
func (t *insideTester) inside(p r3.Vec) bool {
	if !t.bb.Contains(p) {
		return false
	}
	p = r3.Add(p, t.jitter)
	dir := r3.Vec{X: 1}
	j, k := t.cellOf(p.Y, p.Z)
	crossings := 0
	for _, i := range t.bucket[j*t.n[1]+k] {
		tri := &t.tris[i]
		if d, ok := d3.RayTriangle(p, dir, tri[0], tri[1], tri[2]); ok && d > 0 {
			crossings++
		}
	}
	return crossings%2 == 1
}
