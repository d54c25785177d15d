package tetgen

import (
	"fmt"
	"io"

	"github.com/milkpku/tetmesh/internal/tgfmt"
	"gonum.org/v1/gonum/spatial/r3"
)

// ReadNode parses a TetGen .node file. It returns the points and the index
// of the first point, which gives the numbering base of the other files.
func ReadNode(r io.Reader) (points []r3.Vec, base int, err error) {
	sc := tgfmt.NewScanner(r)
	fields, err := sc.Next()
	if err != nil {
		return nil, 0, fmt.Errorf("node header: %w", err)
	}
	hdr, err := sc.Ints(fields, 2)
	if err != nil {
		return nil, 0, err
	}
	if hdr[1] != 3 {
		return nil, 0, sc.Errorf("dimension must be 3, got %d", hdr[1])
	}
	if hdr[0] < 0 {
		return nil, 0, sc.Errorf("negative point count %d", hdr[0])
	}
	points = make([]r3.Vec, 0, tgfmt.Capacity(hdr[0]))
	for i := 0; i < hdr[0]; i++ {
		if fields, err = sc.Next(); err != nil {
			return nil, 0, fmt.Errorf("point %d: %w", i, err)
		}
		id, err := sc.Ints(fields, 1)
		if err != nil {
			return nil, 0, err
		}
		if i == 0 {
			base = id[0]
		} else if id[0] != base+i {
			return nil, 0, sc.Errorf("point index %d out of sequence", id[0])
		}
		xyz, err := sc.Floats(fields[1:], 3)
		if err != nil {
			return nil, 0, err
		}
		points = append(points, r3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]})
	}
	return points, base, nil
}

// ReadEle parses a TetGen .ele file. Only the four corner nodes of each
// tetrahedron are kept. attributes holds the region attribute of each
// tetrahedron, or zeros when the file carries none.
func ReadEle(r io.Reader) (tetras [][4]int, attributes []float64, err error) {
	sc := tgfmt.NewScanner(r)
	fields, err := sc.Next()
	if err != nil {
		return nil, nil, fmt.Errorf("element header: %w", err)
	}
	hdr, err := sc.Ints(fields, 3)
	if err != nil {
		return nil, nil, err
	}
	nt, perTet, nattr := hdr[0], hdr[1], hdr[2]
	if perTet != 4 && perTet != 10 {
		return nil, nil, sc.Errorf("unsupported %d nodes per tetrahedron", perTet)
	}
	if nt < 0 {
		return nil, nil, sc.Errorf("negative tetrahedron count %d", nt)
	}
	tetras = make([][4]int, 0, tgfmt.Capacity(nt))
	attributes = make([]float64, 0, tgfmt.Capacity(nt))
	for i := 0; i < nt; i++ {
		if fields, err = sc.Next(); err != nil {
			return nil, nil, fmt.Errorf("tetrahedron %d: %w", i, err)
		}
		corners, err := sc.Ints(fields, 1+perTet)
		if err != nil {
			return nil, nil, err
		}
		tetras = append(tetras, [4]int{corners[1], corners[2], corners[3], corners[4]})
		var attr float64
		if nattr > 0 {
			a, err := sc.Floats(fields[1+perTet:], 1)
			if err != nil {
				return nil, nil, err
			}
			attr = a[0]
		}
		attributes = append(attributes, attr)
	}
	return tetras, attributes, nil
}

// ReadFace parses a TetGen .face file.
func ReadFace(r io.Reader) (faces [][3]int, err error) {
	sc := tgfmt.NewScanner(r)
	fields, err := sc.Next()
	if err != nil {
		return nil, fmt.Errorf("face header: %w", err)
	}
	nf, err := sc.Count(fields, "face")
	if err != nil {
		return nil, err
	}
	faces = make([][3]int, 0, tgfmt.Capacity(nf))
	for i := 0; i < nf; i++ {
		if fields, err = sc.Next(); err != nil {
			return nil, fmt.Errorf("face %d: %w", i, err)
		}
		corners, err := sc.Ints(fields, 4)
		if err != nil {
			return nil, err
		}
		faces = append(faces, [3]int{corners[1], corners[2], corners[3]})
	}
	return faces, nil
}
