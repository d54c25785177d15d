package surface

import (
	"fmt"
	"io"

	"github.com/milkpku/tetmesh"
	"github.com/milkpku/tetmesh/internal/tgfmt"
	"gonum.org/v1/gonum/spatial/r3"
)

// ReadOFF parses an OFF polygon file. Faces are split into triangle fans.
func ReadOFF(r io.Reader) (tetmesh.Surface, error) {
	sc := tgfmt.NewScanner(r)
	var s tetmesh.Surface
	fields, err := sc.Next()
	if err != nil {
		return s, fmt.Errorf("header: %w", err)
	}
	if fields[0] != "OFF" {
		return s, sc.Errorf("missing OFF header")
	}
	fields = fields[1:]
	if len(fields) == 0 {
		// Counts on their own line.
		if fields, err = sc.Next(); err != nil {
			return s, fmt.Errorf("counts: %w", err)
		}
	}
	counts, err := sc.Ints(fields, 2)
	if err != nil {
		return s, err
	}
	nv, nf := counts[0], counts[1]
	if nv < 0 || nf < 0 {
		return s, sc.Errorf("negative counts %d vertices %d faces", nv, nf)
	}
	s.Vertices = make([]r3.Vec, 0, tgfmt.Capacity(nv))
	for i := 0; i < nv; i++ {
		if fields, err = sc.Next(); err != nil {
			return s, fmt.Errorf("vertex %d: %w", i, err)
		}
		xyz, err := sc.Floats(fields, 3)
		if err != nil {
			return s, err
		}
		s.Vertices = append(s.Vertices, r3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]})
	}
	s.Triangles = make([][3]int, 0, tgfmt.Capacity(nf))
	for i := 0; i < nf; i++ {
		if fields, err = sc.Next(); err != nil {
			return s, fmt.Errorf("face %d: %w", i, err)
		}
		n, err := sc.Ints(fields, 1)
		if err != nil {
			return s, err
		}
		if n[0] < 3 {
			return s, sc.Errorf("face %d has %d corners", i, n[0])
		}
		corners, err := sc.Ints(fields[1:], n[0])
		if err != nil {
			return s, err
		}
		for j, c := range corners {
			if c < 0 || c >= nv {
				return s, &tetmesh.IndexError{Element: "triangle", Index: i, Corner: j, Value: c, Limit: nv}
			}
		}
		for j := 1; j+1 < len(corners); j++ {
			s.Triangles = append(s.Triangles, [3]int{corners[0], corners[j], corners[j+1]})
		}
	}
	return s, nil
}
