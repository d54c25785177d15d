// Package surface loads closed triangle surfaces from STL, TetGen .smesh
// and OFF files and generates sample surfaces.
package surface

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/milkpku/tetmesh"
	"github.com/milkpku/tetmesh/render"
	"go.uber.org/zap"
)

// Loader implements tetmesh.Loader. The file format is chosen by extension.
type Loader struct {
	// WeldTolerance is the distance below which STL vertices are merged.
	// Zero picks a tolerance from the smallest triangle edge.
	WeldTolerance float64
	Log           *zap.Logger
}

var _ tetmesh.Loader = Loader{}

// Load reads the surface at path. Errors are of type *tetmesh.LoadError.
func (l Loader) Load(path string) (tetmesh.Surface, error) {
	s, err := l.load(path)
	if err != nil {
		return tetmesh.Surface{}, &tetmesh.LoadError{Path: path, Err: err}
	}
	s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if l.Log == nil {
		return s, nil
	}
	l.Log.Debug("surface parsed", zap.String("path", path), zap.Int("vertices", len(s.Vertices)),
		zap.Int("triangles", len(s.Triangles)), zap.Int("regions", len(s.Regions)))
	if open := OpenEdges(s.Triangles); open > 0 {
		l.Log.Warn("surface is not closed", zap.String("path", path), zap.Int("openEdges", open))
	}
	return s, nil
}

func (l Loader) load(path string) (tetmesh.Surface, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".stl", ".smesh", ".off":
	default:
		return tetmesh.Surface{}, fmt.Errorf("unsupported surface format %q", ext)
	}
	fp, err := os.Open(path)
	if err != nil {
		return tetmesh.Surface{}, err
	}
	defer fp.Close()
	switch ext {
	case ".stl":
		tris, err := render.ReadSTL(fp)
		if err != nil && !errors.Is(err, render.ErrNormalMismatch) {
			return tetmesh.Surface{}, err
		}
		if err != nil && l.Log != nil {
			l.Log.Warn("STL normals disagree with winding", zap.String("path", path), zap.Error(err))
		}
		vertices, faces, err := Weld(tris, l.WeldTolerance)
		if err != nil {
			return tetmesh.Surface{}, err
		}
		return tetmesh.Surface{Vertices: vertices, Triangles: faces}, nil
	case ".smesh":
		return ReadSMesh(fp)
	default:
		return ReadOFF(fp)
	}
}
