package tetmesh

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ExtractRegions converts raw engine output into a Mesh with 0-based corner
// indices and compact region labels.
//
// Corner indices are shifted down by min(offset, smallest tetrahedron corner
// index) so an engine that numbers from a lower base than announced still
// yields valid indices. Hull faces are shifted by the same amount. Every
// shifted index must lie in [0, len(raw.Points)), otherwise an *IndexError
// is returned.
//
// Labels are assigned in order of first appearance of each distinct attribute
// value, so R distinct values yield the labels 0..R-1.
func ExtractRegions(raw RawMesh, offset int) (*Mesh, error) {
	if raw.Points == nil || raw.Tetras == nil || raw.Attributes == nil || len(raw.Tetras) == 0 {
		return nil, ErrEmptyResult
	}
	if len(raw.Attributes) != len(raw.Tetras) {
		return nil, fmt.Errorf("engine returned %d attributes for %d tetrahedra", len(raw.Attributes), len(raw.Tetras))
	}
	shift := offset
	for _, tet := range raw.Tetras {
		for _, c := range tet {
			if c < shift {
				shift = c
			}
		}
	}
	np := len(raw.Points)
	tetras := make([][4]int, len(raw.Tetras))
	for i, tet := range raw.Tetras {
		for j := range tet {
			v := tet[j] - shift
			if v < 0 || v >= np {
				return nil, &IndexError{Element: "tetrahedron", Index: i, Corner: j, Value: v, Limit: np}
			}
			tetras[i][j] = v
		}
	}
	var hull [][3]int
	if len(raw.Faces) > 0 {
		hull = make([][3]int, len(raw.Faces))
		for i, f := range raw.Faces {
			for j := range f {
				v := f[j] - shift
				if v < 0 || v >= np {
					return nil, &IndexError{Element: "face", Index: i, Corner: j, Value: v, Limit: np}
				}
				hull[i][j] = v
			}
		}
	}
	labels, n := RegionLabels(raw.Attributes)
	vertices := make([]r3.Vec, np)
	copy(vertices, raw.Points)
	return &Mesh{
		Vertices:   vertices,
		Tetras:     tetras,
		Regions:    labels,
		NumRegions: n,
		Hull:       hull,
	}, nil
}

// RegionLabels maps each attribute to the label of its value, labels being
// handed out from 0 in order of first appearance. It returns the labels and
// the number of distinct values.
//
// Values are compared exactly. Positive and negative zero compare equal and
// NaN values compare equal when their bit patterns match.
func RegionLabels(attributes []float64) (labels []int, n int) {
	seen := make(map[uint64]int)
	labels = make([]int, len(attributes))
	for i, attr := range attributes {
		key := attributeKey(attr)
		label, ok := seen[key]
		if !ok {
			label = len(seen)
			seen[key] = label
		}
		labels[i] = label
	}
	return labels, len(seen)
}

func attributeKey(v float64) uint64 {
	if v == 0 {
		return 0 // -0 == +0
	}
	return math.Float64bits(v)
}
