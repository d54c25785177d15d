package config

import "flag"

// Flags holds the command-line overrides shared by the subcommands.
type Flags struct {
	Config   string
	Debug    bool
	Engine   string
	Tetgen   string
	Switches string
	Cells    int
	Compact  string
	LogFile  string
}

// Register binds f to fs.
func (f *Flags) Register(fs *flag.FlagSet) {
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.Engine, "engine", "", "Tetrahedralization engine: tetgen or bcc")
	fs.StringVar(&f.Tetgen, "tetgen", "", "Path to the tetgen executable")
	fs.StringVar(&f.Switches, "switches", "", "Engine switch string")
	fs.IntVar(&f.Cells, "cells", 0, "BCC lattice cells along the longest side")
	fs.StringVar(&f.Compact, "compact", "", "Drop unreferenced vertices on export: true or false")
	fs.StringVar(&f.LogFile, "log", "", "Log file path")
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config, f *Flags) {
	if f == nil {
		return
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Engine != "" {
		cfg.Engine.Kind = f.Engine
	}
	if f.Tetgen != "" {
		cfg.Engine.TetgenPath = f.Tetgen
	}
	if f.Switches != "" {
		cfg.Mesh.Switches = f.Switches
	}
	if f.Cells > 0 {
		cfg.Engine.BCCCells = f.Cells
	}
	switch f.Compact {
	case "true":
		cfg.Export.Compact = true
	case "false":
		cfg.Export.Compact = false
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
}
