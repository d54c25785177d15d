package report

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/milkpku/tetmesh"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot/vg"
)

func testMesh() *tetmesh.Mesh {
	// Unit tetrahedron twice, the second scaled by 2, and one more region.
	v := []r3.Vec{
		{}, {X: 1}, {Y: 1}, {Z: 1},
		{X: 5}, {X: 7}, {X: 5, Y: 2}, {X: 5, Z: 2},
	}
	return &tetmesh.Mesh{
		Vertices:   v,
		Tetras:     [][4]int{{0, 1, 2, 3}, {4, 5, 6, 7}, {1, 0, 2, 3}},
		Regions:    []int{0, 0, 1},
		NumRegions: 2,
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(testMesh())
	if s.Vertices != 8 || s.Tetras != 3 || len(s.Regions) != 2 {
		t.Fatalf("unexpected summary %+v", s)
	}
	if s.Orientation.Positive != 2 || s.Orientation.Negative != 1 {
		t.Errorf("unexpected orientation %+v", s.Orientation)
	}
	r := s.Regions[0]
	if r.Tetras != 2 || math.Abs(r.Volume-9.0/6) > 1e-12 {
		t.Errorf("region 0: got %+v", r)
	}
	if math.Abs(r.MinVolume-1.0/6) > 1e-12 || math.Abs(r.MaxVolume-8.0/6) > 1e-12 {
		t.Errorf("region 0 extremes: got %+v", r)
	}
	if r := s.Regions[1]; r.Tetras != 1 || r.StdDev != 0 || math.Abs(r.MeanVolume-1.0/6) > 1e-12 {
		t.Errorf("region 1: got %+v", r)
	}
	var b bytes.Buffer
	if err := s.WriteText(&b); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), "tetrahedra 3") || strings.Count(b.String(), "\n") != 7 {
		t.Errorf("unexpected text report:\n%s", b.String())
	}
}

func TestPlotRegions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regions.png")
	if err := PlotRegions(Summarize(testMesh()), path, 4*vg.Inch, 3*vg.Inch); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("empty plot file")
	}
	if err := PlotRegions(Summary{}, path, vg.Inch, vg.Inch); err == nil {
		t.Error("empty summary plotted")
	}
}
