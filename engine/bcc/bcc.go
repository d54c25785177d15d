// Package bcc implements a tetrahedralization engine that fills a closed
// surface with a body centred cubic lattice of tetrahedra. It needs no
// external program and produces isotropic but unconforming meshes: the
// tetrahedra approximate the enclosed volume without matching the surface.
package bcc

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/milkpku/tetmesh"
	"github.com/milkpku/tetmesh/internal/d3"
	"go.uber.org/zap"
)

// DefaultCells is the lattice resolution used when neither the switches nor
// the Engine set one.
const DefaultCells = 16

// Engine is a tetmesh.Engine.
//
// The switch string is scanned for r<cells>, the number of lattice cells
// along the longest side of the surface bounding box. Other switches are
// ignored so TetGen switch strings can be passed unchanged.
//
// Every lattice node is emitted, including those of tetrahedra outside the
// surface. Tetrahedra are numbered from the surface IndexBase and wound like
// TetGen output, to be used with tetmesh.SwapFirstTwoColumns. The attribute
// of a tetrahedron is the attribute of the region seed nearest to its
// centroid, or 0 if the surface has no seeds. Holes are not supported.
type Engine struct {
	Cells int
	Log   *zap.Logger
}

var _ tetmesh.Engine = Engine{}

// Tetrahedralize implements tetmesh.Engine.
func (e Engine) Tetrahedralize(ctx context.Context, switches string, s tetmesh.Surface) (tetmesh.RawMesh, error) {
	cells := e.Cells
	if cells <= 0 {
		cells = DefaultCells
	}
	cells, err := parseSwitches(switches, cells)
	if err != nil {
		return tetmesh.RawMesh{}, err
	}
	if len(s.Vertices) == 0 || len(s.Triangles) == 0 {
		return tetmesh.RawMesh{}, fmt.Errorf("bcc: empty surface")
	}
	log := e.Log
	if log == nil {
		log = zap.NewNop()
	}
	start := time.Now()
	bb := d3.BoundingBox(s.Vertices)
	size := d3.Max(bb.Size()) / float64(cells)
	if !(size > 0) {
		return tetmesh.RawMesh{}, fmt.Errorf("bcc: surface has no extent")
	}
	// One spare cell on every side keeps the surface away from the lattice border.
	l := newLattice(bb.Enlarge(d3.Elem(2*size)), size)
	nodes, all := l.mesh()
	inside := newInsideTester(s.Vertices, s.Triangles)
	seeds := newSeedIndex(s.Regions)
	raw := tetmesh.RawMesh{
		Points: nodes,
		Tetras: make([][4]int, 0, len(all)/2),
	}
	for i, tet := range all {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return tetmesh.RawMesh{}, err
			}
		}
		a, b, c, d := nodes[tet[0]], nodes[tet[1]], nodes[tet[2]], nodes[tet[3]]
		centroid := d3.TetraCentroid(a, b, c, d)
		if !inside.inside(centroid) {
			continue
		}
		if d3.SignedVolume(a, b, c, d) > 0 {
			tet[0], tet[1] = tet[1], tet[0]
		}
		raw.Tetras = append(raw.Tetras, numbered(tet, s.IndexBase))
		raw.Attributes = append(raw.Attributes, seeds.attribute(centroid))
	}
	log.Debug("bcc lattice filled", zap.Int("cells", len(l.cells)), zap.Float64("cellSize", size),
		zap.Int("nodes", len(nodes)), zap.Int("latticeTetras", len(all)), zap.Int("inside", len(raw.Tetras)),
		zap.Duration("elapsed", time.Since(start)))
	return raw, nil
}

func numbered(tet [4]int, base int) [4]int {
	return [4]int{tet[0] + base, tet[1] + base, tet[2] + base, tet[3] + base}
}

// parseSwitches extracts r<cells> from switches.
func parseSwitches(switches string, cells int) (int, error) {
	for i := 0; i < len(switches); i++ {
		if switches[i] != 'r' {
			continue
		}
		j := i + 1
		for j < len(switches) && switches[j] >= '0' && switches[j] <= '9' {
			j++
		}
		n, err := strconv.Atoi(switches[i+1 : j])
		if err != nil {
			return 0, fmt.Errorf("bcc: switch r needs a cell count in %q", switches)
		}
		if n < 2 {
			return 0, fmt.Errorf("bcc: lattice of %d cells too coarse", n)
		}
		cells = n
		i = j - 1
	}
	return cells, nil
}

