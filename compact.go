package tetmesh

import "gonum.org/v1/gonum/spatial/r3"

// Compacted is the result of Compact.
type Compacted struct {
	Vertices []r3.Vec
	Tetras   [][4]int
	Faces    [][3]int
	// OldToNew maps an input vertex index to its compacted index, or -1 if
	// the vertex was dropped.
	OldToNew []int
	// NewToOld maps a compacted vertex index to its input index.
	NewToOld []int
}

// Compact drops the vertices not referenced by tetras or faces and renumbers
// the elements accordingly. Retained vertices keep their original relative
// order. The inputs are not modified.
func Compact(vertices []r3.Vec, tetras [][4]int, faces [][3]int) (Compacted, error) {
	nv := len(vertices)
	used := make([]bool, nv)
	for i, t := range tetras {
		for j, v := range t {
			if v < 0 || v >= nv {
				return Compacted{}, &IndexError{Element: "tetrahedron", Index: i, Corner: j, Value: v, Limit: nv}
			}
			used[v] = true
		}
	}
	for i, f := range faces {
		for j, v := range f {
			if v < 0 || v >= nv {
				return Compacted{}, &IndexError{Element: "face", Index: i, Corner: j, Value: v, Limit: nv}
			}
			used[v] = true
		}
	}
	c := Compacted{OldToNew: make([]int, nv)}
	for old, u := range used {
		if !u {
			c.OldToNew[old] = -1
			continue
		}
		c.OldToNew[old] = len(c.NewToOld)
		c.NewToOld = append(c.NewToOld, old)
	}
	c.Vertices = make([]r3.Vec, len(c.NewToOld))
	for n, old := range c.NewToOld {
		c.Vertices[n] = vertices[old]
	}
	c.Tetras = make([][4]int, len(tetras))
	for i, t := range tetras {
		for j, v := range t {
			c.Tetras[i][j] = c.OldToNew[v]
		}
	}
	if faces != nil {
		c.Faces = make([][3]int, len(faces))
		for i, f := range faces {
			for j, v := range f {
				c.Faces[i][j] = c.OldToNew[v]
			}
		}
	}
	return c, nil
}
