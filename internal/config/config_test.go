package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Decimation.TargetRatio != 0.5 {
		t.Errorf("TargetRatio = %g, want 0.5", cfg.Decimation.TargetRatio)
	}
	if cfg.Decimation.TargetVertices != 0 {
		t.Errorf("TargetVertices = %d, want 0", cfg.Decimation.TargetVertices)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestLoadFromFile(t *testing.T) {
	content := `decimation:
  target_vertices: 1000
  normal_deviation: 15
  max_valence: 8
logging:
  level: debug
`
	path := filepath.Join(t.TempDir(), "decimate.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Decimation.TargetVertices != 1000 {
		t.Errorf("TargetVertices = %d, want 1000", cfg.Decimation.TargetVertices)
	}
	if cfg.Decimation.NormalDeviation != 15 {
		t.Errorf("NormalDeviation = %g, want 15", cfg.Decimation.NormalDeviation)
	}
	if cfg.Decimation.MaxValence != 8 {
		t.Errorf("MaxValence = %d, want 8", cfg.Decimation.MaxValence)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	// Unset fields keep their defaults.
	if cfg.Decimation.TargetRatio != 0.5 {
		t.Errorf("TargetRatio = %g, want default 0.5", cfg.Decimation.TargetRatio)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() with missing explicit path should fail")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("decimation: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() with invalid YAML should fail")
	}
}
