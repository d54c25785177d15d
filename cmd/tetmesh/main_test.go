package main

import (
	"testing"

	"github.com/milkpku/tetmesh/tetio"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestMeshFromData(t *testing.T) {
	d := tetio.Data{
		Vertices: []r3.Vec{{}, {X: 1}, {Y: 1}, {Z: 1}},
		Tetras:   [][4]int{{0, 1, 2, 3}, {1, 0, 2, 3}},
	}
	m := meshFromData(d)
	if m.NumRegions != 1 || len(m.Regions) != 2 {
		t.Errorf("no region column: got %d regions, labels %v", m.NumRegions, m.Regions)
	}

	d.Regions = []int{0, 2}
	d.NumRegions = 2
	if m := meshFromData(d); m.NumRegions != 3 {
		t.Errorf("label beyond declared count: got %d regions, want 3", m.NumRegions)
	}
}

func TestReplaceExt(t *testing.T) {
	for _, tc := range []struct{ in, ext, want string }{
		{"part.smesh", ".tet", "part.tet"},
		{"dir/part.v2.stl", ".png", "dir/part.v2.png"},
		{"noext", ".tet", "noext.tet"},
	} {
		if got := replaceExt(tc.in, tc.ext); got != tc.want {
			t.Errorf("replaceExt(%q, %q) = %q, want %q", tc.in, tc.ext, got, tc.want)
		}
	}
}
