package surface

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/milkpku/tetmesh"
	"github.com/milkpku/tetmesh/render"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gonum.org/v1/gonum/spatial/r3"
)

func cube() ([]r3.Vec, [][3]int) {
	var v []r3.Vec
	for i := 0; i < 8; i++ {
		v = append(v, r3.Vec{X: float64(i & 1), Y: float64(i >> 1 & 1), Z: float64(i >> 2 & 1)})
	}
	faces := [][3]int{
		{0, 2, 3}, {0, 3, 1}, {4, 5, 7}, {4, 7, 6},
		{0, 1, 5}, {0, 5, 4}, {2, 6, 7}, {2, 7, 3},
		{0, 4, 6}, {0, 6, 2}, {1, 3, 7}, {1, 7, 5},
	}
	return v, faces
}

func TestWeld(t *testing.T) {
	vertices, faces := cube()
	soup := render.FaceTriangles(vertices, faces)
	// Perturb one corner below the weld tolerance.
	soup[5][1] = r3.Add(soup[5][1], r3.Vec{X: 1e-9})
	// Degenerate sliver that collapses onto one vertex.
	soup = append(soup, render.Triangle3{{}, {X: 1e-9}, {Y: 1e-9}})
	welded, wfaces, err := Weld(soup, 1e-6)
	if err != nil {
		t.Fatal(err)
	}
	if len(welded) != 8 {
		t.Errorf("got %d vertices, want 8", len(welded))
	}
	if len(wfaces) != 12 {
		t.Errorf("got %d faces, want 12", len(wfaces))
	}
	if n := OpenEdges(wfaces); n != 0 {
		t.Errorf("welded cube has %d open edges", n)
	}
	if _, _, err := Weld(soup, 10); err == nil {
		t.Error("oversized tolerance accepted")
	}
	if _, _, err := Weld(nil, 0); err == nil {
		t.Error("empty soup accepted")
	}
}

func TestOpenEdges(t *testing.T) {
	_, faces := cube()
	if n := OpenEdges(faces[1:]); n != 3 {
		t.Errorf("got %d open edges, want 3", n)
	}
	flipped := append([][3]int(nil), faces...)
	flipped[0] = [3]int{flipped[0][1], flipped[0][0], flipped[0][2]}
	if n := OpenEdges(flipped); n == 0 {
		t.Error("inconsistent winding not detected")
	}
}

const twoRegionSMesh = `# two stacked unit cubes
12 3 0 0
1 0 0 0
2 1 0 0
3 1 1 0
4 0 1 0
5 0 0 1
6 1 0 1
7 1 1 1
8 0 1 1
9 0 0 2
10 1 0 2
11 1 1 2
12 0 1 2
11 1
4 1 4 3 2 1
4 5 6 7 8 0
4 1 2 6 5 1
4 2 3 7 6 1
4 3 4 8 7 1
4 4 1 5 8 1
4 9 10 11 12 1
4 5 6 10 9 1
4 6 7 11 10 1
4 7 8 12 11 1
4 8 5 9 12 1
1
1 5 5 5
2
1 0.5 0.5 0.5 10
2 0.5 0.5 1.5 20 0.01
`

func TestReadSMesh(t *testing.T) {
	s, err := ReadSMesh(strings.NewReader(twoRegionSMesh))
	if err != nil {
		t.Fatal(err)
	}
	if s.IndexBase != 1 {
		t.Errorf("got index base %d, want 1", s.IndexBase)
	}
	if len(s.Vertices) != 12 || len(s.Triangles) != 22 {
		t.Fatalf("got %d vertices %d triangles", len(s.Vertices), len(s.Triangles))
	}
	if s.Triangles[0] != [3]int{0, 3, 2} || s.Triangles[1] != [3]int{0, 2, 1} {
		t.Errorf("facet not fanned from its first corner: %v", s.Triangles[:2])
	}
	if len(s.Holes) != 1 || s.Holes[0] != (r3.Vec{X: 5, Y: 5, Z: 5}) {
		t.Errorf("unexpected holes %v", s.Holes)
	}
	want := []tetmesh.RegionSeed{
		{Point: r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}, Attribute: 10},
		{Point: r3.Vec{X: 0.5, Y: 0.5, Z: 1.5}, Attribute: 20, MaxVolume: 0.01},
	}
	if len(s.Regions) != 2 || s.Regions[0] != want[0] || s.Regions[1] != want[1] {
		t.Errorf("got regions %+v, want %+v", s.Regions, want)
	}
}

func TestSMeshRoundTrip(t *testing.T) {
	vertices, faces := cube()
	for _, base := range []int{0, 1} {
		in := tetmesh.Surface{
			Name:      "cube",
			Vertices:  vertices,
			Triangles: faces,
			Regions:   []tetmesh.RegionSeed{{Point: r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}, Attribute: -3.25, MaxVolume: 0.125}},
			IndexBase: base,
		}
		var b bytes.Buffer
		if err := WriteSMesh(&b, in); err != nil {
			t.Fatal(err)
		}
		out, err := ReadSMesh(&b)
		if err != nil {
			t.Fatalf("base %d: %v", base, err)
		}
		if out.IndexBase != base || len(out.Vertices) != 8 || len(out.Triangles) != 12 {
			t.Fatalf("base %d: got %+v", base, out)
		}
		for i := range faces {
			if out.Triangles[i] != faces[i] {
				t.Errorf("base %d: triangle %d got %v, want %v", base, i, out.Triangles[i], faces[i])
			}
		}
		if len(out.Regions) != 1 || out.Regions[0] != in.Regions[0] {
			t.Errorf("base %d: got regions %+v", base, out.Regions)
		}
	}
}

func TestReadSMeshErrors(t *testing.T) {
	for name, src := range map[string]string{
		"empty":          "",
		"external nodes": "0 3 0 0\n",
		"2d":             "3 2 0 0\n",
		"bad base":       "1 3 0 0\n2 0 0 0\n",
		"sequence":       "2 3 0 0\n0 0 0 0\n2 1 1 1\n",
		"corner":         "3 3 0 0\n0 0 0 0\n1 1 0 0\n2 0 1 0\n1 0\n3 0 1 3\n",
		"short facet":    "3 3 0 0\n0 0 0 0\n1 1 0 0\n2 0 1 0\n1 0\n2 0 1\n",
		"trailing":       "3 3 0 0\n0 0 0 0\n1 1 0 0\n2 0 1 0\n1 0\n3 0 1 2\n0\n0\nextra\n",
		"negative nodes": "-1 3 0 0\n",
		"negative facet": "3 3 0 0\n0 0 0 0\n1 1 0 0\n2 0 1 0\n-2 0\n",
		"negative holes": "3 3 0 0\n0 0 0 0\n1 1 0 0\n2 0 1 0\n1 0\n3 0 1 2\n-1\n",
		"huge nodes":     "2000000000 3 0 0\n0 0 0 0\n",
	} {
		if _, err := ReadSMesh(strings.NewReader(src)); err == nil {
			t.Errorf("%s: no error", name)
		}
	}
}

func TestReadOFFErrors(t *testing.T) {
	for name, src := range map[string]string{
		"negative vertices": "OFF\n-1 2 0\n",
		"negative faces":    "OFF\n3 -1 0\n0 0 0\n1 0 0\n0 1 0\n",
		"huge vertices":     "OFF\n2000000000 1 0\n0 0 0\n",
		"short face":        "OFF 3 1 0\n0 0 0\n1 0 0\n0 1 0\n2 0 1\n",
		"missing face":      "OFF 3 1 0\n0 0 0\n1 0 0\n0 1 0\n",
	} {
		if _, err := ReadOFF(strings.NewReader(src)); err == nil {
			t.Errorf("%s: no error", name)
		}
	}
}

func TestReadOFF(t *testing.T) {
	const src = `OFF
# square pyramid
5 2 0
0 0 0
1 0 0
1 1 0
0 1 0
0.5 0.5 1
4 0 3 2 1
3 0 1 4
`
	s, err := ReadOFF(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Vertices) != 5 || len(s.Triangles) != 3 || s.IndexBase != 0 {
		t.Fatalf("got %+v", s)
	}
	if s.Triangles[2] != [3]int{0, 1, 4} {
		t.Errorf("got %v", s.Triangles[2])
	}
	if _, err := ReadOFF(strings.NewReader("PLY\n")); err == nil {
		t.Error("missing header accepted")
	}
	if _, err := ReadOFF(strings.NewReader("OFF 3 1 0\n0 0 0\n1 0 0\n0 1 0\n3 0 1 5\n")); !errors.Is(err, tetmesh.ErrIndexOutOfRange) {
		t.Errorf("want ErrIndexOutOfRange, got %v", err)
	}
}

func TestLoader(t *testing.T) {
	dir := t.TempDir()
	vertices, faces := cube()
	stlPath := filepath.Join(dir, "cube.stl")
	if err := render.CreateSTL(stlPath, render.NewMeshRenderer(vertices, faces)); err != nil {
		t.Fatal(err)
	}
	smeshPath := filepath.Join(dir, "stack.smesh")
	if err := os.WriteFile(smeshPath, []byte(twoRegionSMesh), 0o644); err != nil {
		t.Fatal(err)
	}
	var l Loader
	s, err := l.Load(stlPath)
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "cube" || len(s.Vertices) != 8 || len(s.Triangles) != 12 || OpenEdges(s.Triangles) != 0 {
		t.Errorf("unexpected STL surface %q: %d vertices %d triangles", s.Name, len(s.Vertices), len(s.Triangles))
	}
	s, err = l.Load(smeshPath)
	if err != nil {
		t.Fatal(err)
	}
	if s.IndexBase != 1 || len(s.Regions) != 2 {
		t.Errorf("unexpected smesh surface %+v", s)
	}

	_, err = l.Load(filepath.Join(dir, "missing.stl"))
	var lerr *tetmesh.LoadError
	if !errors.As(err, &lerr) || !errors.Is(err, fs.ErrNotExist) || !errors.Is(err, tetmesh.ErrLoad) {
		t.Errorf("missing file: got %v", err)
	}
	if _, err := l.Load(filepath.Join(dir, "cube.obj")); !errors.Is(err, tetmesh.ErrLoad) {
		t.Errorf("unsupported format: got %v", err)
	}
}

func TestLoaderMalformed(t *testing.T) {
	dir := t.TempDir()
	for name, src := range map[string]string{
		"negative.off":   "OFF\n-1 2 0\n",
		"faces.off":      "OFF\n3 -1 0\n0 0 0\n1 0 0\n0 1 0\n",
		"negative.smesh": "3 3 0 0\n0 0 0 0\n1 1 0 0\n2 0 1 0\n-2 0\n",
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := Loader{}.Load(path)
		var lerr *tetmesh.LoadError
		if !errors.As(err, &lerr) || lerr.Path != path {
			t.Errorf("%s: got %v, want *tetmesh.LoadError", name, err)
		}
	}
}

func TestLoaderOpenSurface(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.off")
	if err := os.WriteFile(path, []byte("OFF 3 1 0\n0 0 0\n1 0 0\n0 1 0\n3 0 1 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	core, logs := observer.New(zap.WarnLevel)
	if _, err := (Loader{Log: zap.New(core)}).Load(path); err != nil {
		t.Fatal(err)
	}
	warned := logs.FilterMessage("surface is not closed").All()
	if len(warned) != 1 || warned[0].ContextMap()["openEdges"] != int64(3) {
		t.Errorf("got warnings %v", logs.All())
	}

	vertices, faces := cube()
	closed := filepath.Join(t.TempDir(), "cube.stl")
	if err := render.CreateSTL(closed, render.NewMeshRenderer(vertices, faces)); err != nil {
		t.Fatal(err)
	}
	core, logs = observer.New(zap.WarnLevel)
	if _, err := (Loader{Log: zap.New(core)}).Load(closed); err != nil {
		t.Fatal(err)
	}
	if logs.Len() != 0 {
		t.Errorf("closed surface warned: %v", logs.All())
	}
}

func TestSample(t *testing.T) {
	names := SampleNames()
	if len(names) != 4 || names[0] != "box" {
		t.Errorf("unexpected sample names %v", names)
	}
	s, err := Sample("twin", 24)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Triangles) == 0 || len(s.Regions) != 2 {
		t.Fatalf("got %d triangles %d regions", len(s.Triangles), len(s.Regions))
	}
	for i, tri := range s.Triangles {
		for _, v := range tri {
			if v < 0 || v >= len(s.Vertices) {
				t.Fatalf("triangle %d references vertex %d", i, v)
			}
		}
	}
	if _, err := Sample("torus", 24); err == nil {
		t.Error("unknown sample accepted")
	}
	if _, err := Sample("box", 1); err == nil {
		t.Error("coarse resolution accepted")
	}
}
