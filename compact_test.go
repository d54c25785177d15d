package tetmesh

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestCompactRoundTrip(t *testing.T) {
	vertices := make([]r3.Vec, 10)
	for i := range vertices {
		vertices[i] = r3.Vec{X: float64(i), Y: -float64(i) / 3, Z: float64(i * i)}
	}
	tetras := [][4]int{{9, 2, 5, 7}, {5, 7, 2, 4}}
	faces := [][3]int{{9, 2, 5}, {8, 2, 4}}
	c, err := Compact(vertices, tetras, faces)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Vertices) != 6 {
		t.Fatalf("got %d vertices, want 6", len(c.Vertices))
	}
	for n, old := range c.NewToOld {
		if c.Vertices[n] != vertices[old] {
			t.Errorf("vertex %d: got %v, want %v", n, c.Vertices[n], vertices[old])
		}
		if c.OldToNew[old] != n {
			t.Errorf("maps disagree at %d/%d", n, old)
		}
		if n > 0 && c.NewToOld[n-1] >= old {
			t.Error("relative vertex order not preserved")
		}
	}
	for i, tet := range c.Tetras {
		for j, v := range tet {
			if c.Vertices[v] != vertices[tetras[i][j]] {
				t.Errorf("tetra %d corner %d remapped to wrong vertex", i, j)
			}
		}
	}
	for i, f := range c.Faces {
		for j, v := range f {
			if c.Vertices[v] != vertices[faces[i][j]] {
				t.Errorf("face %d corner %d remapped to wrong vertex", i, j)
			}
		}
	}
	for _, dropped := range []int{0, 1, 3, 6} {
		if c.OldToNew[dropped] != -1 {
			t.Errorf("unreferenced vertex %d kept", dropped)
		}
	}
}

func TestCompactOutOfRange(t *testing.T) {
	_, err := Compact(make([]r3.Vec, 3), [][4]int{{0, 1, 2, 3}}, nil)
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("want ErrIndexOutOfRange, got %v", err)
	}
}

func TestCompactEmpty(t *testing.T) {
	c, err := Compact(make([]r3.Vec, 3), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Vertices) != 0 || len(c.Tetras) != 0 {
		t.Errorf("empty selection must drop every vertex, got %d", len(c.Vertices))
	}
}
