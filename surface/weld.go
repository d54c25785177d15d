package surface

import (
	"errors"
	"fmt"
	"math"

	"github.com/milkpku/tetmesh/internal/d3"
	"github.com/milkpku/tetmesh/render"
	"gonum.org/v1/gonum/spatial/r3"
)

// Weld merges the corners of triangle soup into shared vertices. Corners
// that fall in the same tol sized cell are merged. Triangles that collapse
// after merging are dropped.
// tol should be of the order of 1/1000th of the smallest triangle edge. If
// zero it is inferred automatically.
func Weld(triangles []render.Triangle3, tol float64) (vertices []r3.Vec, faces [][3]int, err error) {
	if len(triangles) == 0 {
		return nil, nil, errors.New("no triangles to weld")
	}
	bb := d3.EmptyBox()
	minDist2 := math.MaxFloat64
	maxDist2 := -math.MaxFloat64
	for i := range triangles {
		for j, vert := range triangles[i] {
			bb = bb.Include(vert)
			vert2 := triangles[i][(j+1)%3]
			side2 := r3.Norm2(r3.Sub(vert2, vert))
			if side2 > 0 {
				minDist2 = math.Min(minDist2, side2)
			}
			maxDist2 = math.Max(maxDist2, side2)
		}
	}
	if maxDist2 <= 0 {
		return nil, nil, errors.New("all triangles are degenerate")
	}
	suggested := math.Sqrt(minDist2) / 256
	if tol > math.Sqrt(maxDist2)/2 {
		return nil, nil, fmt.Errorf("vertex tolerance is too large to weld mesh, suggested tolerance: %g", suggested)
	}
	if tol == 0 {
		tol = suggested
	}
	maxDim := d3.Max(bb.Size())
	div := maxDim / tol
	if div > math.MaxInt64/2 {
		return nil, nil, errors.New("tolerance too small. overflowed int64")
	}
	// vertex index cache
	cache := make(map[[3]int64]int)
	ri := 1 / tol
	faces = make([][3]int, 0, len(triangles))
	for _, tri := range triangles {
		var f [3]int
		for j, vert := range tri {
			// Scale vert to be integer in resolution-space.
			v := r3.Scale(ri, r3.Sub(vert, bb.Min))
			vi := [3]int64{int64(math.Round(v.X)), int64(math.Round(v.Y)), int64(math.Round(v.Z))}
			idx, ok := cache[vi]
			if !ok {
				idx = len(vertices)
				cache[vi] = idx
				vertices = append(vertices, vert)
			}
			f[j] = idx
		}
		if f[0] == f[1] || f[1] == f[2] || f[2] == f[0] {
			continue
		}
		faces = append(faces, f)
	}
	if len(faces) == 0 {
		return nil, nil, errors.New("all triangles collapsed while welding")
	}
	return vertices, faces, nil
}

// OpenEdges returns the number of edges not shared by exactly two faces with
// opposite directions. A closed consistently oriented surface has none.
func OpenEdges(faces [][3]int) int {
	directed := make(map[[2]int]int, 3*len(faces))
	for _, f := range faces {
		for j := range f {
			directed[[2]int{f[j], f[(j+1)%3]}]++
		}
	}
	open := 0
	for e, n := range directed {
		if n != 1 || directed[[2]int{e[1], e[0]}] != 1 {
			open++
		}
	}
	return open
}
