// Package config handles tetmesh configuration loading and management.
package config

import "time"

// Config holds all tetmesh settings.
type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Mesh    MeshConfig    `yaml:"mesh"`
	Export  ExportConfig  `yaml:"export"`
	Preview PreviewConfig `yaml:"preview"`
	Logging LoggingConfig `yaml:"logging"`
}

// EngineConfig selects and configures the tetrahedralization engine.
type EngineConfig struct {
	Kind        string        `yaml:"kind"` // "tetgen" or "bcc"
	TetgenPath  string        `yaml:"tetgen_path"`
	Timeout     time.Duration `yaml:"timeout"`
	KeepWorkDir bool          `yaml:"keep_work_dir"`
	BCCCells    int           `yaml:"bcc_cells"`
}

// MeshConfig holds the surface loading and meshing settings.
type MeshConfig struct {
	Switches      string  `yaml:"switches"`
	Orientation   string  `yaml:"orientation"` // "swap" or "as-emitted"
	WeldTolerance float64 `yaml:"weld_tolerance"`
}

// ExportConfig holds the defaults of the export format.
type ExportConfig struct {
	RegionInfo   bool `yaml:"region_info"`
	SurfaceFaces bool `yaml:"surface_faces"`
	Compact      bool `yaml:"compact"`
	Precision    int  `yaml:"precision"`
}

// PreviewConfig holds the PNG preview settings.
type PreviewConfig struct {
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Supersample int    `yaml:"supersample"`
	Color       string `yaml:"color"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			Kind:       "tetgen",
			TetgenPath: "tetgen",
			Timeout:    5 * time.Minute,
			BCCCells:   16,
		},
		Mesh: MeshConfig{
			Switches:    "pq1.414A",
			Orientation: "swap",
		},
		Export: ExportConfig{
			RegionInfo:   true,
			SurfaceFaces: true,
			Compact:      true,
		},
		Preview: PreviewConfig{
			Width:       800,
			Height:      600,
			Supersample: 2,
			Color:       "#468966",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
