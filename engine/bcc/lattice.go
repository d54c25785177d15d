package bcc

import (
	"math"

	"github.com/milkpku/tetmesh/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// lattice is a body centred cubic lattice over a box. Each cell holds a
// centre node and shares its eight corner nodes with its neighbours. Tetrahedra
// join the centres of two face adjacent cells with an edge of their shared face.
// See Molino, Bridson, Fedkiw: Tetrahedral Mesh Generation for Deformable Bodies.
type lattice struct {
	cells []cell
	div   [3]int
	size  float64
}

type corner int

// Cell node indices. Same ordering as d3.Box.Vertices.
const (
	c000 corner = iota
	cx00
	cxy0
	c0y0
	c00z
	cx0z
	cxyz
	c0yz
	cctr // centre node.
	nCellNodes
)

var unnumbered = [nCellNodes]int{-1, -1, -1, -1, -1, -1, -1, -1, -1}

type cell struct {
	nodes [nCellNodes]int
	pos   r3.Vec
	// face neighbours, nil at the lattice border.
	xp, xm *cell
	yp, ym *cell
	zp, zm *cell
}

func (c *cell) nodeAt(idx corner) int {
	if c == nil {
		return -1
	}
	return c.nodes[idx]
}

// sharedNode returns the number already given to corner idx by a
// neighbouring cell, or -1.
func (c *cell) sharedNode(idx corner) int {
	var nx, ny, nz int
	switch idx {
	case c000:
		nx = c.xm.nodeAt(cx00)
		ny = c.ym.nodeAt(c0y0)
		nz = c.zm.nodeAt(c00z)
	case cx00:
		nx = c.xp.nodeAt(c000)
		ny = c.ym.nodeAt(cxy0)
		nz = c.zm.nodeAt(cx0z)
	case cxy0:
		nx = c.xp.nodeAt(c0y0)
		ny = c.yp.nodeAt(cx00)
		nz = c.zm.nodeAt(cxyz)
	case c0y0:
		nx = c.xm.nodeAt(cxy0)
		ny = c.yp.nodeAt(c000)
		nz = c.zm.nodeAt(c0yz)
	case c00z:
		nx = c.xm.nodeAt(cx0z)
		ny = c.ym.nodeAt(c0yz)
		nz = c.zp.nodeAt(c000)
	case cx0z:
		nx = c.xp.nodeAt(c00z)
		ny = c.ym.nodeAt(cxyz)
		nz = c.zp.nodeAt(cx00)
	case cxyz:
		nx = c.xp.nodeAt(c0yz)
		ny = c.yp.nodeAt(cx0z)
		nz = c.zp.nodeAt(cxy0)
	case c0yz:
		nx = c.xm.nodeAt(cxyz)
		ny = c.yp.nodeAt(c00z)
		nz = c.zp.nodeAt(c0y0)
	default:
		return -1
	}
	if nx >= 0 && ny >= 0 && nx != ny ||
		nx >= 0 && nz >= 0 && nx != nz ||
		nz >= 0 && ny >= 0 && nz != ny {
		panic("bcc: inconsistent corner numbering")
	}
	return max(nx, ny, nz)
}

// newLattice covers b with cubic cells of the given size.
func newLattice(b d3.Box, size float64) *lattice {
	sz := b.Size()
	div := [3]int{
		max(int(math.Ceil(sz.X/size)), 1),
		max(int(math.Ceil(sz.Y/size)), 1),
		max(int(math.Ceil(sz.Z/size)), 1),
	}
	l := &lattice{
		cells: make([]cell, div[0]*div[1]*div[2]),
		div:   div,
		size:  size,
	}
	for i := 0; i < div[0]; i++ {
		x := (float64(i)+0.5)*size + b.Min.X
		for j := 0; j < div[1]; j++ {
			y := (float64(j)+0.5)*size + b.Min.Y
			for k := 0; k < div[2]; k++ {
				z := (float64(k)+0.5)*size + b.Min.Z
				c := l.at(i, j, k)
				*c = cell{pos: r3.Vec{X: x, Y: y, Z: z}, nodes: unnumbered}
				c.xm, c.xp = l.at(i-1, j, k), l.at(i+1, j, k)
				c.ym, c.yp = l.at(i, j-1, k), l.at(i, j+1, k)
				c.zm, c.zp = l.at(i, j, k-1), l.at(i, j, k+1)
			}
		}
	}
	return l
}

func (l *lattice) at(i, j, k int) *cell {
	if i < 0 || j < 0 || k < 0 || i >= l.div[0] || j >= l.div[1] || k >= l.div[2] {
		return nil
	}
	return &l.cells[i*l.div[1]*l.div[2]+j*l.div[2]+k]
}

// mesh numbers every lattice node and returns the nodes together with all
// lattice tetrahedra. Cells are visited in index order so the x, y and z
// predecessors of a cell are always numbered before it.
func (l *lattice) mesh() (nodes []r3.Vec, tetras [][4]int) {
	nodes = make([]r3.Vec, 0, 2*len(l.cells))
	tetras = make([][4]int, 0, 12*len(l.cells))
	for i := range l.cells {
		c := &l.cells[i]
		bb := d3.CenteredBox(c.pos, d3.Elem(l.size))
		vert := bb.Vertices()
		c.nodes[cctr] = len(nodes)
		nodes = append(nodes, c.pos)
		for in := c000; in < cctr; in++ {
			if v := c.sharedNode(in); v >= 0 {
				c.nodes[in] = v
				continue
			}
			c.nodes[in] = len(nodes)
			nodes = append(nodes, vert[in])
		}
		tetras = append(tetras, c.tetras()...)
	}
	return nodes, tetras
}

// tetras returns the tetrahedra joining c to its already numbered x, y and
// z predecessors. Each shared face yields four tetrahedra, one per face edge.
func (c *cell) tetras() (tetras [][4]int) {
	ctr := c.nodes[cctr]
	n := &c.nodes
	if c.zm != nil && c.zm.nodes[cctr] >= 0 {
		zctr := c.zm.nodes[cctr]
		tetras = append(tetras,
			[4]int{ctr, n[c000], n[cx00], zctr},
			[4]int{ctr, n[cx00], n[cxy0], zctr},
			[4]int{ctr, n[cxy0], n[c0y0], zctr},
			[4]int{ctr, n[c0y0], n[c000], zctr},
		)
	}
	if c.ym != nil && c.ym.nodes[cctr] >= 0 {
		yctr := c.ym.nodes[cctr]
		tetras = append(tetras,
			[4]int{ctr, n[cx00], n[c000], yctr},
			[4]int{ctr, n[cx0z], n[cx00], yctr},
			[4]int{ctr, n[c00z], n[cx0z], yctr},
			[4]int{ctr, n[c000], n[c00z], yctr},
		)
	}
	if c.xm != nil && c.xm.nodes[cctr] >= 0 {
		xctr := c.xm.nodes[cctr]
		tetras = append(tetras,
			[4]int{ctr, n[c000], n[c0y0], xctr},
			[4]int{ctr, n[c00z], n[c000], xctr},
			[4]int{ctr, n[c0yz], n[c00z], xctr},
			[4]int{ctr, n[c0y0], n[c0yz], xctr},
		)
	}
	return tetras
}
