package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Vision.CannyLow != 50 || cfg.Vision.CannyHigh != 150 {
		t.Errorf("canny thresholds: got %v/%v, want 50/150", cfg.Vision.CannyLow, cfg.Vision.CannyHigh)
	}
	if cfg.Vision.MinArea != 100 {
		t.Errorf("MinArea: got %v, want 100", cfg.Vision.MinArea)
	}
	if cfg.Vision.InitTimeout != 10*time.Second {
		t.Errorf("InitTimeout: got %v, want 10s", cfg.Vision.InitTimeout)
	}
	if cfg.Registry.Kind != "memory" {
		t.Errorf("Registry.Kind: got %q, want memory", cfg.Registry.Kind)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  mode: release
vision:
  canny_low: 30
  canny_high: 90
  init_timeout: 2s
registry:
  kind: memory
  names:
    n1: Dairy
    n2: Bakery
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Mode != "release" {
		t.Errorf("Server.Mode: got %q, want release", cfg.Server.Mode)
	}
	if cfg.Vision.CannyLow != 30 || cfg.Vision.CannyHigh != 90 {
		t.Errorf("canny thresholds: got %v/%v, want 30/90", cfg.Vision.CannyLow, cfg.Vision.CannyHigh)
	}
	if cfg.Vision.InitTimeout != 2*time.Second {
		t.Errorf("InitTimeout: got %v, want 2s", cfg.Vision.InitTimeout)
	}
	// Untouched keys keep their defaults.
	if cfg.Vision.MinArea != 100 {
		t.Errorf("MinArea: got %v, want 100", cfg.Vision.MinArea)
	}
	if cfg.Registry.Names["n2"] != "Bakery" {
		t.Errorf("Registry.Names[n2]: got %q, want Bakery", cfg.Registry.Names["n2"])
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("STORE_MAP_VISION_MIN_AREA", "250")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Vision.MinArea != 250 {
		t.Errorf("MinArea: got %v, want 250", cfg.Vision.MinArea)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}

	cfg := New("/nonexistent/config.yaml")
	if cfg.Vision.CannyHigh != 150 {
		t.Errorf("New should fall back to defaults, got canny_high=%v", cfg.Vision.CannyHigh)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"even kernel", func(c *Config) { c.Vision.BlurKernel = 4 }, true},
		{"inverted canny", func(c *Config) { c.Vision.CannyLow = 200 }, true},
		{"iou above one", func(c *Config) { c.Vision.IoUThreshold = 1.5 }, true},
		{"unknown registry", func(c *Config) { c.Registry.Kind = "postgres" }, true},
		{"file registry without path", func(c *Config) { c.Registry.Kind = "file" }, true},
		{"file registry with path", func(c *Config) {
			c.Registry.Kind = "file"
			c.Registry.Path = "shelves.yaml"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
