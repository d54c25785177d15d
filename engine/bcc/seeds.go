package bcc

import (
	"github.com/milkpku/tetmesh"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// seedIndex finds the region seed nearest to a point.
type seedIndex struct {
	tree *kdtree.Tree
}

func newSeedIndex(seeds []tetmesh.RegionSeed) *seedIndex {
	if len(seeds) == 0 {
		return nil
	}
	pts := make(seedPoints, len(seeds))
	for i, s := range seeds {
		pts[i] = seedPoint{pos: s.Point, attr: s.Attribute}
	}
	return &seedIndex{tree: kdtree.New(pts, false)}
}

// attribute returns the attribute of the seed nearest to p, or 0 if there
// are no seeds.
func (s *seedIndex) attribute(p r3.Vec) float64 {
	if s == nil {
		return 0
	}
	nearest, _ := s.tree.Nearest(seedPoint{pos: p})
	return nearest.(seedPoint).attr
}

type seedPoint struct {
	pos  r3.Vec
	attr float64
}

func (p seedPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(seedPoint)
	switch d {
	case 0:
		return p.pos.X - q.pos.X
	case 1:
		return p.pos.Y - q.pos.Y
	case 2:
		return p.pos.Z - q.pos.Z
	}
	panic("bcc: illegal dimension")
}

func (p seedPoint) Dims() int { return 3 }

func (p seedPoint) Distance(c kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(p.pos, c.(seedPoint).pos))
}

type seedPoints []seedPoint

func (p seedPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p seedPoints) Len() int { return len(p) }
func (p seedPoints) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}

func (p seedPoints) Pivot(d kdtree.Dim) int {
	pl := seedPlane{dim: d, points: p}
	return kdtree.Partition(pl, kdtree.MedianOfMedians(pl))
}

type seedPlane struct {
	dim    kdtree.Dim
	points seedPoints
}

func (p seedPlane) Less(i, j int) bool {
	return p.points[i].Compare(p.points[j], p.dim) < 0
}
func (p seedPlane) Swap(i, j int) {
	p.points[i], p.points[j] = p.points[j], p.points[i]
}
func (p seedPlane) Len() int { return len(p.points) }
func (p seedPlane) Slice(start, end int) kdtree.SortSlicer {
	p.points = p.points[start:end]
	return p
}
