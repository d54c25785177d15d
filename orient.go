package tetmesh

import (
	"fmt"
	"math"

	"github.com/milkpku/tetmesh/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// OrientationConvention selects the winding correction applied once to
// engine output. The correction is fixed: it is not derived from the signed
// volume of each tetrahedron, so replacing the engine requires picking the
// convention that matches the new engine's winding.
type OrientationConvention int

const (
	// SwapFirstTwoColumns exchanges the first two corners of every
	// tetrahedron and hull face. It matches TetGen output.
	SwapFirstTwoColumns OrientationConvention = iota
	// AsEmitted leaves the engine winding untouched.
	AsEmitted
)

func (c OrientationConvention) String() string {
	switch c {
	case SwapFirstTwoColumns:
		return "swap"
	case AsEmitted:
		return "as-emitted"
	}
	return fmt.Sprintf("OrientationConvention(%d)", int(c))
}

// ParseOrientation parses the String form of an OrientationConvention.
func ParseOrientation(s string) (OrientationConvention, error) {
	switch s {
	case "swap", "":
		return SwapFirstTwoColumns, nil
	case "as-emitted":
		return AsEmitted, nil
	}
	return 0, fmt.Errorf("unknown orientation convention %q", s)
}

// Orient applies c to the tetrahedra and hull faces of m in place.
// It must be called exactly once per extracted mesh.
func Orient(m *Mesh, c OrientationConvention) {
	if c != SwapFirstTwoColumns {
		return
	}
	for i := range m.Tetras {
		m.Tetras[i][0], m.Tetras[i][1] = m.Tetras[i][1], m.Tetras[i][0]
	}
	for i := range m.Hull {
		m.Hull[i][0], m.Hull[i][1] = m.Hull[i][1], m.Hull[i][0]
	}
}

// OrientationReport counts tetrahedra by the sign of their volume.
// Boundary faces point outward only for positively oriented tetrahedra.
type OrientationReport struct {
	Positive   int
	Negative   int
	Degenerate int
}

// Consistent returns true if no tetrahedron is inverted.
func (r OrientationReport) Consistent() bool { return r.Negative == 0 }

// CheckOrientation classifies tetras by signed volume. Volumes smaller than a
// tolerance relative to the mesh extent are counted as degenerate.
func CheckOrientation(vertices []r3.Vec, tetras [][4]int) OrientationReport {
	var r OrientationReport
	diag := d3.BoundingBox(vertices).Diagonal()
	tol := 1e-14 * diag * diag * diag
	for _, t := range tetras {
		v := d3.SignedVolume(vertices[t[0]], vertices[t[1]], vertices[t[2]], vertices[t[3]])
		switch {
		case math.Abs(v) <= tol:
			r.Degenerate++
		case v > 0:
			r.Positive++
		default:
			r.Negative++
		}
	}
	return r
}
