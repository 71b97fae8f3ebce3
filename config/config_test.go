package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if cfg.World.Cols <= 0 || cfg.World.Rows <= 0 {
		t.Errorf("defaults carry empty world dims: %dx%d", cfg.World.Cols, cfg.World.Rows)
	}
	if cfg.Physics.DT <= 0 {
		t.Errorf("defaults carry dt = %g", cfg.Physics.DT)
	}
	wantW := float64(cfg.World.Cols * cfg.Terrain.TileSize)
	if cfg.Derived.WorldW != wantW {
		t.Errorf("Derived.WorldW = %g, want %g", cfg.Derived.WorldW, wantW)
	}
}

func TestLoadOverlay(t *testing.T) {
	defaults, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}

	path := filepath.Join(t.TempDir(), "override.yaml")
	overlay := "world:\n  cols: 48\nherbivore:\n  initial: 7\n"
	if err := os.WriteFile(path, []byte(overlay), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(overlay): %v", err)
	}
	if cfg.World.Cols != 48 {
		t.Errorf("cols = %d, want overridden 48", cfg.World.Cols)
	}
	if cfg.Herbivore.Initial != 7 {
		t.Errorf("herbivore initial = %d, want overridden 7", cfg.Herbivore.Initial)
	}
	// Fields absent from the overlay keep their defaults.
	if cfg.World.Rows != defaults.World.Rows {
		t.Errorf("rows = %d, want default %d", cfg.World.Rows, defaults.World.Rows)
	}
	if cfg.Herbivore.HungerDrain != defaults.Herbivore.HungerDrain {
		t.Errorf("hunger drain = %g, want default %g", cfg.Herbivore.HungerDrain, defaults.Herbivore.HungerDrain)
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	cfg.World.Cols = 0
	cfg.Physics.DT = -1
	cfg.Terrain.BiomeScale = 99
	cfg.Food.RegenMin = 20
	cfg.Food.RegenMax = 5

	err = cfg.Validate()
	if err == nil {
		t.Fatal("Validate accepted a broken config")
	}
	for _, want := range []string{"world:", "physics:", "terrain:", "food:"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q section", err, want)
		}
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("physics:\n  dt: -5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load accepted a config with negative dt")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	cfg.World.Cols = 33

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("re-Load: %v", err)
	}
	if back.World.Cols != 33 {
		t.Errorf("round trip lost cols: got %d, want 33", back.World.Cols)
	}
}
