package tetmesh

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/milkpku/tetmesh/tetio"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

// PipelineConfig configures a PipelineState.
type PipelineConfig struct {
	Engine Engine
	// Loader is used by Load. It may be nil if surfaces are only set
	// through SetSurface.
	Loader      Loader
	Orientation OrientationConvention
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// ExportOptions control Export.
type ExportOptions struct {
	IncludeRegionInfo   bool
	IncludeSurfaceFaces bool
	// Compact drops the vertices not referenced by the exported elements.
	Compact   bool
	Precision int
	Comment   string
}

// PipelineState holds the surface, the processed mesh and the visibility
// state of one tetrahedralization session. Failed loads and failed
// tetrahedralizations leave the previous state untouched.
// A PipelineState is not safe for concurrent use.
type PipelineState struct {
	engine      Engine
	loader      Loader
	orientation OrientationConvention
	log         *zap.Logger

	surface     *Surface
	surfacePath string

	mesh *Mesh
	mask VisibilityMask
	// Active subset and its boundary, recomputed whenever mask changes.
	activeTetras  [][4]int
	activeRegions []int
	display       [][3]int
}

// NewPipeline returns a PipelineState with no surface loaded.
func NewPipeline(cfg PipelineConfig) (*PipelineState, error) {
	if cfg.Engine == nil {
		return nil, errors.New("tetmesh: nil engine")
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &PipelineState{
		engine:      cfg.Engine,
		loader:      cfg.Loader,
		orientation: cfg.Orientation,
		log:         log,
	}, nil
}

// Load reads a surface with the configured Loader. On success the surface
// replaces the previous one; the current mesh is kept until the next
// successful Tetrahedralize.
func (p *PipelineState) Load(path string) error {
	if p.loader == nil {
		return &LoadError{Path: path, Err: errors.New("no loader configured")}
	}
	s, err := p.loader.Load(path)
	if err != nil {
		var lerr *LoadError
		if !errors.As(err, &lerr) {
			err = &LoadError{Path: path, Err: err}
		}
		p.log.Warn("surface load failed", zap.String("path", path), zap.Error(err))
		return err
	}
	if err := validateSurface(s); err != nil {
		err = &LoadError{Path: path, Err: err}
		p.log.Warn("surface rejected", zap.String("path", path), zap.Error(err))
		return err
	}
	p.surface = &s
	p.surfacePath = path
	p.log.Info("surface loaded", zap.String("path", path),
		zap.Int("vertices", len(s.Vertices)), zap.Int("triangles", len(s.Triangles)),
		zap.Int("regionSeeds", len(s.Regions)), zap.Int("indexBase", s.IndexBase))
	return nil
}

// SetSurface installs s as the current surface.
func (p *PipelineState) SetSurface(s Surface) error {
	if err := validateSurface(s); err != nil {
		return &LoadError{Path: s.Name, Err: err}
	}
	p.surface = &s
	p.surfacePath = s.Name
	return nil
}

func validateSurface(s Surface) error {
	if len(s.Vertices) == 0 || len(s.Triangles) == 0 {
		return errors.New("surface has no triangles")
	}
	if s.IndexBase < 0 {
		return fmt.Errorf("negative index base %d", s.IndexBase)
	}
	nv := len(s.Vertices)
	for i, tri := range s.Triangles {
		for j, v := range tri {
			if v < 0 || v >= nv {
				return &IndexError{Element: "triangle", Index: i, Corner: j, Value: v, Limit: nv}
			}
		}
	}
	return nil
}

// Surface returns the current surface.
func (p *PipelineState) Surface() (Surface, bool) {
	if p.surface == nil {
		return Surface{}, false
	}
	return *p.surface, true
}

// Tetrahedralize runs the engine on the current surface and replaces the
// processed mesh with the result. The visibility mask is reset to show
// every region.
func (p *PipelineState) Tetrahedralize(ctx context.Context, switches string) error {
	if p.surface == nil {
		return &TetrahedralizeError{Kind: Failed, Switches: switches, Err: errors.New("no surface loaded")}
	}
	start := time.Now()
	raw, err := RunEngine(ctx, p.engine, switches, *p.surface)
	if err != nil {
		p.log.Warn("tetrahedralization failed", zap.String("surface", p.surfacePath), zap.String("switches", switches), zap.Error(err))
		return err
	}
	p.log.Debug("engine finished", zap.Duration("elapsed", time.Since(start)),
		zap.Int("points", len(raw.Points)), zap.Int("tetras", len(raw.Tetras)))
	mesh, err := ExtractRegions(raw, p.surface.IndexBase)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyResult):
			err = &TetrahedralizeError{Kind: Degenerate, Switches: switches, Err: err}
		case errors.Is(err, ErrIndexOutOfRange):
			err = fmt.Errorf("tetrahedralize %s (switches %q): %w", p.surfacePath, switches, err)
		default:
			err = &TetrahedralizeError{Kind: Failed, Switches: switches, Err: err}
		}
		p.log.Warn("engine output rejected", zap.String("surface", p.surfacePath), zap.String("switches", switches), zap.Error(err))
		return err
	}
	Orient(mesh, p.orientation)
	if report := CheckOrientation(mesh.Vertices, mesh.Tetras); !report.Consistent() || report.Degenerate > 0 {
		p.log.Warn("inconsistent tetrahedron orientation", zap.Stringer("convention", p.orientation),
			zap.Int("positive", report.Positive), zap.Int("negative", report.Negative), zap.Int("degenerate", report.Degenerate))
	}
	p.mesh = mesh
	p.mask = NewVisibilityMask(mesh.NumRegions)
	p.refresh()
	p.log.Info("tetrahedralized", zap.String("surface", p.surfacePath), zap.String("switches", switches),
		zap.Int("vertices", len(mesh.Vertices)), zap.Int("tetras", len(mesh.Tetras)),
		zap.Int("regions", mesh.NumRegions), zap.Int("boundaryFaces", len(p.display)))
	return nil
}

// Mesh returns the processed mesh or nil if none has been produced yet.
// The returned mesh must not be modified.
func (p *PipelineState) Mesh() *Mesh { return p.mesh }

// Mask returns a copy of the visibility mask.
func (p *PipelineState) Mask() VisibilityMask {
	return append(VisibilityMask(nil), p.mask...)
}

// SetVisible shows or hides a region and refreshes the display mesh.
func (p *PipelineState) SetVisible(label int, visible bool) error {
	if label < 0 || label >= len(p.mask) {
		return fmt.Errorf("region %d: %w (have %d regions)", label, ErrIndexOutOfRange, len(p.mask))
	}
	if p.mask[label] == visible {
		return nil
	}
	p.mask[label] = visible
	p.refresh()
	return nil
}

// Toggle flips the visibility of a region.
func (p *PipelineState) Toggle(label int) error {
	if label < 0 || label >= len(p.mask) {
		return fmt.Errorf("region %d: %w (have %d regions)", label, ErrIndexOutOfRange, len(p.mask))
	}
	return p.SetVisible(label, !p.mask[label])
}

// ShowAll makes every region visible.
func (p *PipelineState) ShowAll() {
	for i := range p.mask {
		p.mask[i] = true
	}
	p.refresh()
}

func (p *PipelineState) refresh() {
	if p.mesh == nil {
		return
	}
	p.activeTetras, p.activeRegions = FilterRegions(p.mesh.Tetras, p.mesh.Regions, p.mask)
	p.display = Boundary(p.activeTetras)
	p.log.Debug("display refreshed", zap.Int("visibleRegions", p.mask.CountVisible()),
		zap.Int("tetras", len(p.activeTetras)), zap.Int("faces", len(p.display)))
}

// Active returns the visible tetrahedra and their region labels.
func (p *PipelineState) Active() ([][4]int, []int) {
	return p.activeTetras, p.activeRegions
}

// Display returns the surface to show: the boundary of the visible
// tetrahedra once a mesh exists, otherwise the loaded surface.
func (p *PipelineState) Display() (vertices []r3.Vec, faces [][3]int) {
	if p.mesh != nil {
		return p.mesh.Vertices, p.display
	}
	if p.surface != nil {
		return p.surface.Vertices, p.surface.Triangles
	}
	return nil, nil
}

// ExportData assembles the visible part of the mesh as it would be written
// by Export.
func (p *PipelineState) ExportData(opts ExportOptions) (tetio.Data, error) {
	if p.mesh == nil {
		return tetio.Data{}, errors.New("no mesh to export")
	}
	d := tetio.Data{
		Vertices:   p.mesh.Vertices,
		Tetras:     p.activeTetras,
		NumRegions: p.mesh.NumRegions,
	}
	if opts.IncludeRegionInfo {
		d.Regions = p.activeRegions
	}
	if opts.IncludeSurfaceFaces {
		d.Faces = p.display
	}
	if !opts.Compact {
		return d, nil
	}
	c, err := Compact(d.Vertices, d.Tetras, d.Faces)
	if err != nil {
		return tetio.Data{}, err
	}
	d.Vertices, d.Tetras, d.Faces = c.Vertices, c.Tetras, c.Faces
	return d, nil
}

// Export writes the visible part of the mesh to path.
func (p *PipelineState) Export(path string, opts ExportOptions) error {
	d, err := p.ExportData(opts)
	if err != nil {
		return &ExportError{Path: path, Err: err}
	}
	err = tetio.WriteFile(path, d, tetio.Options{
		IncludeRegionInfo:   opts.IncludeRegionInfo,
		IncludeSurfaceFaces: opts.IncludeSurfaceFaces,
		Precision:           opts.Precision,
		Comment:             opts.Comment,
	})
	if err != nil {
		err = &ExportError{Path: path, Err: err}
		p.log.Error("export failed", zap.Error(err))
		return err
	}
	p.log.Info("exported", zap.String("path", path), zap.Int("vertices", len(d.Vertices)),
		zap.Int("tetras", len(d.Tetras)), zap.Int("faces", len(d.Faces)))
	return nil
}
