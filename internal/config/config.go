// Package config handles decimation tool configuration loading and management.
package config

// Config holds all tool settings.
type Config struct {
	Decimation DecimationConfig `yaml:"decimation"`
	Cleanup    CleanupConfig    `yaml:"cleanup"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// DecimationConfig holds the simplification targets and quality thresholds.
// Zero values disable the corresponding constraint.
type DecimationConfig struct {
	TargetVertices  int     `yaml:"target_vertices"`  // Stop when this many vertices remain (0 = use ratio)
	TargetRatio     float64 `yaml:"target_ratio"`     // Fraction of vertices to keep, 0 < r <= 1
	AspectRatio     float64 `yaml:"aspect_ratio"`     // Max triangle aspect ratio after a collapse
	EdgeLength      float64 `yaml:"edge_length"`      // Max length of edges produced by a collapse
	MaxValence      int     `yaml:"max_valence"`      // Max vertex valence after a collapse
	NormalDeviation float64 `yaml:"normal_deviation"` // Max normal cone angle in degrees
	HausdorffError  float64 `yaml:"hausdorff_error"`  // Max distance of removed vertices to the mesh
}

// CleanupConfig holds pre-decimation mesh cleanup settings.
type CleanupConfig struct {
	Enabled        bool    `yaml:"enabled"`
	MergeTolerance float64 `yaml:"merge_tolerance"` // STL vertex welding tolerance
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Decimation: DecimationConfig{
			TargetVertices:  0,
			TargetRatio:     0.5,
			AspectRatio:     0,
			EdgeLength:      0,
			MaxValence:      0,
			NormalDeviation: 0,
			HausdorffError:  0,
		},
		Cleanup: CleanupConfig{
			Enabled:        false,
			MergeTolerance: 0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
