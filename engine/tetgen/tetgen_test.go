package tetgen

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/milkpku/tetmesh"
	"gonum.org/v1/gonum/spatial/r3"
)

const nodeFile = `# generated
4  3  1  1
   1    0  0  0    0.5  1
   2    1  0  0    0.5  1
   3    0  1  0    0.5  1
   4    0  0  1    0.5  0
`

const eleFile = `1  4  1
    1     2     1     3     4    5
`

const faceFile = `4  1
    1     1     3     2  -1
    2     1     2     4  -1
    3     2     3     4  -1
    4     3     1     4  -1
`

func TestReadNode(t *testing.T) {
	points, base, err := ReadNode(strings.NewReader(nodeFile))
	if err != nil {
		t.Fatal(err)
	}
	if base != 1 || len(points) != 4 || points[3] != (r3.Vec{Z: 1}) {
		t.Errorf("got base %d points %v", base, points)
	}
	for name, src := range map[string]string{
		"2d":       "1 2 0 0\n1 0 0\n",
		"sequence": "2 3 0 0\n0 0 0 0\n2 1 1 1\n",
		"short":    "2 3 0 0\n0 0 0 0\n",
		"number":   "1 3 0 0\n0 0 x 0\n",
		"negative": "-4 3 0 0\n",
	} {
		if _, _, err := ReadNode(strings.NewReader(src)); err == nil {
			t.Errorf("%s: no error", name)
		}
	}
}

func TestReadEle(t *testing.T) {
	tetras, attrs, err := ReadEle(strings.NewReader(eleFile))
	if err != nil {
		t.Fatal(err)
	}
	if len(tetras) != 1 || tetras[0] != [4]int{2, 1, 3, 4} || attrs[0] != 5 {
		t.Errorf("got %v %v", tetras, attrs)
	}
	// Second order elements without attributes.
	src := "2 10 0\n0 0 1 2 3 4 5 6 7 8 9\n1 1 2 3 10 11 12 13 14 15 16\n"
	tetras, attrs, err = ReadEle(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if tetras[1] != [4]int{1, 2, 3, 10} || attrs[0] != 0 || attrs[1] != 0 {
		t.Errorf("got %v %v", tetras, attrs)
	}
	if _, _, err := ReadEle(strings.NewReader("1 6 0\n0 0 1 2 3 4 5\n")); err == nil {
		t.Error("unsupported element accepted")
	}
	if _, _, err := ReadEle(strings.NewReader("1 4 1\n0 0 1 2 3\n")); err == nil {
		t.Error("missing attribute accepted")
	}
	if _, _, err := ReadEle(strings.NewReader("-1 4 0\n")); err == nil {
		t.Error("negative count accepted")
	}
	if _, _, err := ReadEle(strings.NewReader("2000000000 4 0\n0 0 1 2 3\n")); err == nil {
		t.Error("truncated element list accepted")
	}
}

func TestReadFace(t *testing.T) {
	faces, err := ReadFace(strings.NewReader(faceFile))
	if err != nil {
		t.Fatal(err)
	}
	if len(faces) != 4 || faces[0] != [3]int{1, 3, 2} {
		t.Errorf("got %v", faces)
	}
	if _, err := ReadFace(strings.NewReader("-2 0\n")); err == nil {
		t.Error("negative count accepted")
	}
}

// fakeTetgen writes an executable shell script standing in for tetgen.
func fakeTetgen(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "tetgen")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func testSurface() tetmesh.Surface {
	return tetmesh.Surface{
		Name:      "tetra",
		Vertices:  []r3.Vec{{}, {X: 1}, {Y: 1}, {Z: 1}},
		Triangles: [][3]int{{0, 2, 1}, {0, 1, 3}, {1, 2, 3}, {2, 0, 3}},
		IndexBase: 1,
	}
}

func TestTetrahedralize(t *testing.T) {
	script := `test "$1" = "-pqA" || { echo "unexpected switches $1"; exit 2; }
test "$2" = "input.smesh" || exit 2
head -n 2 input.smesh | grep -q "^4 3 0 0" || { echo "bad smesh"; exit 3; }
cat > input.1.node <<'EOF'
` + nodeFile + `EOF
cat > input.1.ele <<'EOF'
` + eleFile + `EOF
cat > input.1.face <<'EOF'
` + faceFile + `EOF
`
	work := t.TempDir()
	e := Engine{Path: fakeTetgen(t, script), Dir: work}
	raw, err := e.Tetrahedralize(context.Background(), "pqA", testSurface())
	if err != nil {
		t.Fatal(err)
	}
	if len(raw.Points) != 4 || len(raw.Tetras) != 1 || raw.Attributes[0] != 5 || len(raw.Faces) != 4 {
		t.Fatalf("unexpected output %+v", raw)
	}
	if entries, _ := os.ReadDir(work); len(entries) != 0 {
		t.Errorf("work directory left behind: %v", entries)
	}

	p, err := tetmesh.NewPipeline(tetmesh.PipelineConfig{Engine: e})
	if err != nil {
		t.Fatal(err)
	}
	if err := p.SetSurface(testSurface()); err != nil {
		t.Fatal(err)
	}
	if err := p.Tetrahedralize(context.Background(), "pqA"); err != nil {
		t.Fatal(err)
	}
	m := p.Mesh()
	if m.Tetras[0] != [4]int{0, 1, 2, 3} {
		t.Errorf("got tetrahedron %v, want [0 1 2 3]", m.Tetras[0])
	}
	if r := tetmesh.CheckOrientation(m.Vertices, m.Tetras); r.Positive != 1 {
		t.Errorf("tetrahedron not positive after orientation: %+v", r)
	}
	if len(m.Hull) != 4 || m.Hull[0] != [3]int{2, 0, 1} {
		t.Errorf("unexpected hull %v", m.Hull)
	}
}

func TestTetrahedralizeFailures(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		timeout time.Duration
		kind    tetmesh.EngineFailure
		msg     string
	}{
		{name: "exit", script: "echo 'Error:  Invalid switch x'\nexit 3\n", kind: tetmesh.Failed, msg: "Invalid switch"},
		{name: "signal", script: "kill -9 $$\n", kind: tetmesh.Crashed},
		{name: "timeout", script: "exec sleep 10\n", timeout: 100 * time.Millisecond, kind: tetmesh.Crashed, msg: "deadline"},
		{name: "degenerate", script: "printf '0 3 0 0\\n' > input.1.node\nprintf '0 4 0\\n' > input.1.ele\n", kind: tetmesh.Degenerate},
	}
	for _, test := range tests {
		e := Engine{Path: fakeTetgen(t, test.script), Timeout: test.timeout}
		_, err := tetmesh.RunEngine(context.Background(), e, "x", testSurface())
		var terr *tetmesh.TetrahedralizeError
		if !errors.As(err, &terr) {
			t.Errorf("%s: want *TetrahedralizeError, got %v", test.name, err)
			continue
		}
		if terr.Kind != test.kind {
			t.Errorf("%s: got %s, want %s: %v", test.name, terr.Kind, test.kind, err)
		}
		if test.msg != "" && !strings.Contains(err.Error(), test.msg) {
			t.Errorf("%s: error %q does not mention %q", test.name, err, test.msg)
		}
	}
}

func TestTetrahedralizeMissingBinary(t *testing.T) {
	e := Engine{Path: filepath.Join(t.TempDir(), "no-such-tetgen")}
	_, err := tetmesh.RunEngine(context.Background(), e, "", testSurface())
	var terr *tetmesh.TetrahedralizeError
	if !errors.As(err, &terr) || terr.Kind != tetmesh.Failed {
		t.Errorf("want Failed, got %v", err)
	}
}
