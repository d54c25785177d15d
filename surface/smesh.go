package surface

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/milkpku/tetmesh"
	"github.com/milkpku/tetmesh/internal/tgfmt"
	"gonum.org/v1/gonum/spatial/r3"
)

// ReadSMesh parses a TetGen .smesh surface. The node list must be inline.
// The index of the first node sets the IndexBase of the surface. Polygonal
// facets are split into triangle fans. Region lines provide the seeds.
func ReadSMesh(r io.Reader) (tetmesh.Surface, error) {
	sc := tgfmt.NewScanner(r)
	var s tetmesh.Surface
	fields, err := sc.Next()
	if err != nil {
		return s, fmt.Errorf("node header: %w", err)
	}
	nv, err := sc.Count(fields, "node")
	if err != nil {
		return s, err
	}
	if nv == 0 {
		return s, sc.Errorf("node list must be inline, got %d nodes", nv)
	}
	if len(fields) > 1 && fields[1] != "3" {
		return s, sc.Errorf("dimension must be 3, got %s", fields[1])
	}
	s.Vertices = make([]r3.Vec, 0, tgfmt.Capacity(nv))
	for i := 0; i < nv; i++ {
		fields, err = sc.Next()
		if err != nil {
			return s, fmt.Errorf("node %d: %w", i, err)
		}
		id, err := sc.Ints(fields, 1)
		if err != nil {
			return s, err
		}
		if i == 0 {
			if id[0] != 0 && id[0] != 1 {
				return s, sc.Errorf("first node index must be 0 or 1, got %d", id[0])
			}
			s.IndexBase = id[0]
		} else if id[0] != i+s.IndexBase {
			return s, sc.Errorf("node index %d out of sequence", id[0])
		}
		xyz, err := sc.Floats(fields[1:], 3)
		if err != nil {
			return s, err
		}
		s.Vertices = append(s.Vertices, r3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]})
	}

	fields, err = sc.Next()
	if err != nil {
		return s, fmt.Errorf("facet header: %w", err)
	}
	nf, err := sc.Count(fields, "facet")
	if err != nil {
		return s, err
	}
	s.Triangles = make([][3]int, 0, tgfmt.Capacity(nf))
	for i := 0; i < nf; i++ {
		fields, err = sc.Next()
		if err != nil {
			return s, fmt.Errorf("facet %d: %w", i, err)
		}
		n, err := sc.Ints(fields, 1)
		if err != nil {
			return s, err
		}
		if n[0] < 3 {
			return s, sc.Errorf("facet %d has %d corners", i, n[0])
		}
		corners, err := sc.Ints(fields[1:], n[0])
		if err != nil {
			return s, err
		}
		for j := range corners {
			corners[j] -= s.IndexBase
			if corners[j] < 0 || corners[j] >= nv {
				return s, &tetmesh.IndexError{Element: "triangle", Index: i, Corner: j, Value: corners[j], Limit: nv}
			}
		}
		for j := 1; j+1 < len(corners); j++ {
			s.Triangles = append(s.Triangles, [3]int{corners[0], corners[j], corners[j+1]})
		}
	}

	// Hole and region sections are optional.
	fields, err = sc.Next()
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return s, nil
	} else if err != nil {
		return s, err
	}
	nh, err := sc.Count(fields, "hole")
	if err != nil {
		return s, err
	}
	for i := 0; i < nh; i++ {
		fields, err = sc.Next()
		if err != nil {
			return s, fmt.Errorf("hole %d: %w", i, err)
		}
		xyz, err := sc.Floats(fields[1:], 3)
		if err != nil {
			return s, err
		}
		s.Holes = append(s.Holes, r3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]})
	}
	fields, err = sc.Next()
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return s, nil
	} else if err != nil {
		return s, err
	}
	nr, err := sc.Count(fields, "region")
	if err != nil {
		return s, err
	}
	for i := 0; i < nr; i++ {
		fields, err = sc.Next()
		if err != nil {
			return s, fmt.Errorf("region %d: %w", i, err)
		}
		vals, err := sc.Floats(fields[1:], 4)
		if err != nil {
			return s, err
		}
		seed := tetmesh.RegionSeed{
			Point:     r3.Vec{X: vals[0], Y: vals[1], Z: vals[2]},
			Attribute: vals[3],
		}
		if len(fields) > 5 {
			maxvol, err := sc.Floats(fields[5:], 1)
			if err != nil {
				return s, err
			}
			seed.MaxVolume = maxvol[0]
		}
		s.Regions = append(s.Regions, seed)
	}
	return s, sc.Done()
}

// WriteSMesh writes s as a TetGen .smesh file numbered from s.IndexBase.
func WriteSMesh(w io.Writer, s tetmesh.Surface) error {
	bw := bufio.NewWriter(w)
	base := s.IndexBase
	buf := make([]byte, 0, 128)
	appendVec := func(buf []byte, v r3.Vec) []byte {
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, v.X, 'g', -1, 64)
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, v.Y, 'g', -1, 64)
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, v.Z, 'g', -1, 64)
		return buf
	}
	fmt.Fprintf(bw, "# %s\n%d 3 0 0\n", s.Name, len(s.Vertices))
	for i, v := range s.Vertices {
		buf = strconv.AppendInt(buf[:0], int64(i+base), 10)
		buf = appendVec(buf, v)
		buf = append(buf, '\n')
		bw.Write(buf)
	}
	fmt.Fprintf(bw, "%d 0\n", len(s.Triangles))
	for _, t := range s.Triangles {
		buf = append(buf[:0], '3')
		for _, v := range t {
			buf = append(buf, ' ')
			buf = strconv.AppendInt(buf, int64(v+base), 10)
		}
		buf = append(buf, '\n')
		bw.Write(buf)
	}
	fmt.Fprintf(bw, "%d\n", len(s.Holes))
	for i, h := range s.Holes {
		buf = strconv.AppendInt(buf[:0], int64(i+base), 10)
		buf = appendVec(buf, h)
		buf = append(buf, '\n')
		bw.Write(buf)
	}
	fmt.Fprintf(bw, "%d\n", len(s.Regions))
	for i, rg := range s.Regions {
		buf = strconv.AppendInt(buf[:0], int64(i+base), 10)
		buf = appendVec(buf, rg.Point)
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, rg.Attribute, 'g', -1, 64)
		if rg.MaxVolume > 0 {
			buf = append(buf, ' ')
			buf = strconv.AppendFloat(buf, rg.MaxVolume, 'g', -1, 64)
		}
		buf = append(buf, '\n')
		bw.Write(buf)
	}
	return bw.Flush()
}
