package tetio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// Read parses a tetio stream. Element indices are checked against the
// vertex count once the whole stream has been read.
func Read(r io.Reader) (Data, error) {
	var (
		d          Data
		hasRegions bool
		lineno     int
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)
		var err error
		switch fields[0] {
		case "txn":
			if len(d.Vertices) > 0 || len(d.Tetras) > 0 {
				err = errors.New("txn must precede vertex and tetrahedron lines")
				break
			}
			hasRegions = true
			var n []int
			n, err = parseInts(fields[1:], 1)
			if err == nil && n[0] < 0 {
				err = fmt.Errorf("negative region count %d", n[0])
			}
			if err == nil {
				d.NumRegions = n[0]
			}
		case "v":
			var v r3.Vec
			v, err = parseVertex(fields[1:])
			d.Vertices = append(d.Vertices, v)
		case "t":
			want := 4
			if hasRegions {
				want = 5
			}
			var n []int
			n, err = parseInts(fields[1:], want)
			if err == nil {
				d.Tetras = append(d.Tetras, [4]int{n[0], n[1], n[2], n[3]})
				if hasRegions {
					if n[4] < 0 || n[4] >= d.NumRegions {
						err = fmt.Errorf("region %d not in [0,%d)", n[4], d.NumRegions)
						break
					}
					d.Regions = append(d.Regions, n[4])
				}
			}
		case "f":
			var n []int
			n, err = parseInts(fields[1:], 3)
			if err == nil {
				d.Faces = append(d.Faces, [3]int{n[0], n[1], n[2]})
			}
		default:
			err = fmt.Errorf("unknown directive %q", fields[0])
		}
		if err != nil {
			return Data{}, fmt.Errorf("tetio: line %d: %w", lineno, err)
		}
	}
	if err := sc.Err(); err != nil {
		return Data{}, fmt.Errorf("tetio: line %d: %w", lineno+1, err)
	}
	if hasRegions && d.Regions == nil {
		d.Regions = []int{}
	}
	nv := len(d.Vertices)
	for i, t := range d.Tetras {
		for _, v := range t {
			if v < 0 || v >= nv {
				return Data{}, fmt.Errorf("tetio: tetrahedron %d references vertex %d of %d", i, v, nv)
			}
		}
	}
	for i, f := range d.Faces {
		for _, v := range f {
			if v < 0 || v >= nv {
				return Data{}, fmt.Errorf("tetio: face %d references vertex %d of %d", i, v, nv)
			}
		}
	}
	return d, nil
}

// ReadFile reads the named tetio file.
func ReadFile(path string) (Data, error) {
	fp, err := os.Open(path)
	if err != nil {
		return Data{}, err
	}
	defer fp.Close()
	return Read(bufio.NewReader(fp))
}

func parseVertex(fields []string) (r3.Vec, error) {
	if len(fields) != 3 {
		return r3.Vec{}, fmt.Errorf("want 3 coordinates, got %d", len(fields))
	}
	var c [3]float64
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return r3.Vec{}, err
		}
		c[i] = x
	}
	return r3.Vec{X: c[0], Y: c[1], Z: c[2]}, nil
}

func parseInts(fields []string, want int) ([]int, error) {
	if len(fields) != want {
		return nil, fmt.Errorf("want %d integers, got %d", want, len(fields))
	}
	n := make([]int, want)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		n[i] = v
	}
	return n, nil
}
