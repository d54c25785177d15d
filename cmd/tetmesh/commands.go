package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/milkpku/tetmesh"
	"github.com/milkpku/tetmesh/internal/config"
	"github.com/milkpku/tetmesh/internal/logger"
	"github.com/milkpku/tetmesh/render"
	"github.com/milkpku/tetmesh/report"
	"github.com/milkpku/tetmesh/surface"
	"github.com/milkpku/tetmesh/tetio"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"
	"gopkg.in/yaml.v3"
)

func cmdMesh(args []string) {
	fs := flag.NewFlagSet("mesh", flag.ExitOnError)
	output := fs.String("o", "", "Output mesh file (default: <surface>.tet)")
	hide := fs.String("hide", "", "Comma separated region labels to leave out")
	stlPath := fs.String("stl", "", "Also write the boundary of the visible regions as STL")
	precision := fs.Int("precision", -1, "Digits after the decimal point (-1 = config)")
	cfg := setup(fs, args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: tetmesh mesh [options] <surface>")
		os.Exit(1)
	}
	input := fs.Arg(0)
	p := meshSurface(cfg, input)
	hideRegions(p, *hide)

	opts := exportOptions(cfg)
	if *precision >= 0 {
		opts.Precision = *precision
	}
	opts.Comment = fmt.Sprintf("%s meshed with switches %q", filepath.Base(input), cfg.Mesh.Switches)
	out := *output
	if out == "" {
		out = replaceExt(input, ".tet")
	}
	if err := p.Export(out, opts); err != nil {
		fatal(err)
	}
	if *stlPath != "" {
		if err := render.CreateSTL(*stlPath, render.NewMeshRenderer(p.Display())); err != nil {
			fatal(err)
		}
		logger.Log.Info("boundary written", zap.String("path", *stlPath))
	}

	m := p.Mesh()
	active, _ := p.Active()
	fmt.Printf("Mesh:     %s\n", out)
	fmt.Printf("Regions:  %d (%d visible)\n", m.NumRegions, p.Mask().CountVisible())
	fmt.Printf("Tetras:   %d of %d\n", len(active), len(m.Tetras))
	logger.Sync()
}

func exportOptions(cfg *config.Config) tetmesh.ExportOptions {
	return tetmesh.ExportOptions{
		IncludeRegionInfo:   cfg.Export.RegionInfo,
		IncludeSurfaceFaces: cfg.Export.SurfaceFaces,
		Compact:             cfg.Export.Compact,
		Precision:           cfg.Export.Precision,
	}
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	plotPath := fs.String("plot", "", "Save a bar chart of tetrahedra per region")
	cfg := setup(fs, args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: tetmesh info [options] <surface|mesh.tet>")
		os.Exit(1)
	}
	input := fs.Arg(0)
	var m *tetmesh.Mesh
	if strings.EqualFold(filepath.Ext(input), ".tet") {
		d, err := tetio.ReadFile(input)
		if err != nil {
			fatal(err)
		}
		m = meshFromData(d)
	} else {
		m = meshSurface(cfg, input).Mesh()
	}

	s := report.Summarize(m)
	fmt.Printf("Mesh: %s\n", input)
	if err := s.WriteText(os.Stdout); err != nil {
		fatal(err)
	}
	if *plotPath != "" {
		if err := report.PlotRegions(s, *plotPath, 6*vg.Inch, 4*vg.Inch); err != nil {
			fatal(err)
		}
	}
	logger.Sync()
}

// meshFromData converts an exported mesh. Files without a region column
// are reported as a single region.
func meshFromData(d tetio.Data) *tetmesh.Mesh {
	m := &tetmesh.Mesh{
		Vertices:   d.Vertices,
		Tetras:     d.Tetras,
		Regions:    d.Regions,
		NumRegions: d.NumRegions,
	}
	if m.Regions == nil {
		m.Regions = make([]int, len(d.Tetras))
		m.NumRegions = 1
	}
	for _, r := range m.Regions {
		if r >= m.NumRegions {
			m.NumRegions = r + 1
		}
	}
	return m
}

func cmdSample(args []string) {
	fs := flag.NewFlagSet("sample", flag.ExitOnError)
	output := fs.String("o", "", "Output file, .smesh or .stl (default: <name>.smesh)")
	cells := fs.Int("n", 48, "Marching cubes cells along the longest side")
	list := fs.Bool("list", false, "List the available samples")
	setup(fs, args)

	if *list {
		for _, name := range surface.SampleNames() {
			fmt.Println(name)
		}
		return
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: tetmesh sample [options] <name>")
		os.Exit(1)
	}
	s, err := surface.Sample(fs.Arg(0), *cells)
	if err != nil {
		fatal(err)
	}
	out := *output
	if out == "" {
		out = s.Name + ".smesh"
	}
	switch strings.ToLower(filepath.Ext(out)) {
	case ".stl":
		err = render.CreateSTL(out, render.NewMeshRenderer(s.Vertices, s.Triangles))
	case ".smesh":
		err = writeSMeshFile(out, s)
	default:
		err = fmt.Errorf("unsupported sample format %q", filepath.Ext(out))
	}
	if err != nil {
		fatal(err)
	}
	fmt.Printf("Sample:    %s\n", out)
	fmt.Printf("Vertices:  %d\n", len(s.Vertices))
	fmt.Printf("Triangles: %d\n", len(s.Triangles))
	fmt.Printf("Regions:   %d\n", len(s.Regions))
	logger.Sync()
}

func writeSMeshFile(path string, s tetmesh.Surface) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := surface.WriteSMesh(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func cmdPreview(args []string) {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	output := fs.String("o", "", "Output PNG (default: <file>.png)")
	hide := fs.String("hide", "", "Comma separated region labels to leave out")
	surfaceOnly := fs.Bool("surface", false, "Render the input surface without meshing it")
	cfg := setup(fs, args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: tetmesh preview [options] <surface>")
		os.Exit(1)
	}
	input := fs.Arg(0)
	var p *tetmesh.PipelineState
	if *surfaceOnly {
		p = newPipeline(cfg)
		if err := p.Load(input); err != nil {
			fatal(err)
		}
	} else {
		p = meshSurface(cfg, input)
		hideRegions(p, *hide)
	}

	view := render.DefaultView()
	view.Width, view.Height = cfg.Preview.Width, cfg.Preview.Height
	view.Supersample = cfg.Preview.Supersample
	if cfg.Preview.Color != "" {
		view.Color = cfg.Preview.Color
	}
	out := *output
	if out == "" {
		out = replaceExt(input, ".png")
	}
	model, err := render.RenderAll(render.NewMeshRenderer(p.Display()))
	if err != nil {
		fatal(err)
	}
	if err := render.PreviewPNG(out, model, view); err != nil {
		fatal(err)
	}
	fmt.Printf("Preview: %s\n", out)
	logger.Sync()
}

func cmdConfig(args []string) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	save := fs.Bool("save", false, "Save the effective configuration to the user config directory")
	saveTo := fs.String("o", "", "Save the effective configuration to this path")
	cfg := setup(fs, args)

	switch {
	case *saveTo != "":
		if err := cfg.SaveTo(*saveTo); err != nil {
			fatal(err)
		}
		fmt.Printf("Saved: %s\n", *saveTo)
	case *save:
		if err := cfg.Save(); err != nil {
			fatal(err)
		}
		fmt.Printf("Saved: %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
	default:
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fatal(err)
		}
		os.Stdout.Write(data)
	}
}
