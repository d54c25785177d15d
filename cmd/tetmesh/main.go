// tetmesh tetrahedralizes closed surfaces and exports region tagged
// tetrahedral meshes.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/milkpku/tetmesh"
	"github.com/milkpku/tetmesh/engine/bcc"
	"github.com/milkpku/tetmesh/engine/tetgen"
	"github.com/milkpku/tetmesh/internal/config"
	"github.com/milkpku/tetmesh/internal/logger"
	"github.com/milkpku/tetmesh/surface"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "mesh":
		cmdMesh(args)
	case "info":
		cmdInfo(args)
	case "sample":
		cmdSample(args)
	case "preview":
		cmdPreview(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tetmesh - tetrahedral mesh generation and region post-processing

Usage:
  tetmesh <command> [options]

Commands:
  mesh <surface>      Tetrahedralize a surface and export the mesh
  info <file>         Print per region statistics of a surface or .tet mesh
  sample <name>       Write a sample surface (box, sphere, cylinder, twin)
  preview <file>      Render a PNG of a surface or of its visible regions
  config              Print or save the effective configuration

Surfaces are read from .stl, .smesh and .off files.

Examples:
  tetmesh mesh -switches pq1.2A part.smesh
  tetmesh mesh -engine bcc -hide 1 -o shell.tet twin.smesh
  tetmesh info -plot regions.png part.tet
  tetmesh sample -o twin.smesh twin
  tetmesh preview -hide 0 -o inner.png twin.smesh`)
}

// setup parses the shared flags, loads the configuration and initializes
// the global logger.
func setup(fs *flag.FlagSet, args []string) *config.Config {
	var flags config.Flags
	flags.Register(fs)
	fs.Parse(args)

	cfg, err := config.Load(&flags)
	if err != nil {
		fatal(err)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fatal(err)
	}
	return cfg
}

func fatal(err error) {
	logger.Sync()
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func newEngine(cfg *config.Config) tetmesh.Engine {
	if cfg.Engine.Kind == "bcc" {
		return bcc.Engine{Cells: cfg.Engine.BCCCells, Log: logger.Log}
	}
	return tetgen.Engine{
		Path:    cfg.Engine.TetgenPath,
		Timeout: cfg.Engine.Timeout,
		Keep:    cfg.Engine.KeepWorkDir,
		Log:     logger.Log,
	}
}

func newPipeline(cfg *config.Config) *tetmesh.PipelineState {
	orientation, err := tetmesh.ParseOrientation(cfg.Mesh.Orientation)
	if err != nil {
		fatal(err)
	}
	p, err := tetmesh.NewPipeline(tetmesh.PipelineConfig{
		Engine:      newEngine(cfg),
		Loader:      surface.Loader{WeldTolerance: cfg.Mesh.WeldTolerance, Log: logger.Log},
		Orientation: orientation,
		Logger:      logger.Log,
	})
	if err != nil {
		fatal(err)
	}
	return p
}

// meshSurface loads path and tetrahedralizes it with the configured switches.
// Interrupting the process cancels the engine run.
func meshSurface(cfg *config.Config, path string) *tetmesh.PipelineState {
	p := newPipeline(cfg)
	if err := p.Load(path); err != nil {
		fatal(err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := p.Tetrahedralize(ctx, cfg.Mesh.Switches); err != nil {
		fatal(err)
	}
	return p
}

// hideRegions applies a comma separated list of region labels.
func hideRegions(p *tetmesh.PipelineState, list string) {
	if list == "" {
		return
	}
	for _, field := range strings.Split(list, ",") {
		label, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			fatal(fmt.Errorf("invalid region %q", field))
		}
		if err := p.SetVisible(label, false); err != nil {
			fatal(err)
		}
	}
	logger.Log.Debug("regions hidden", zap.String("regions", list),
		zap.Int("visible", p.Mask().CountVisible()))
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
