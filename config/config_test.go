package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoadDefaults verifies the embedded defaults parse and fill the core
// sections.
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}

	if cfg.Sim.Chickens <= 0 {
		t.Errorf("default chicken count = %d, want positive", cfg.Sim.Chickens)
	}
	if cfg.Behavior.FollowDistance <= 0 {
		t.Errorf("default follow distance = %v, want positive", cfg.Behavior.FollowDistance)
	}
	if len(cfg.Behavior.ObstacleLayers) == 0 {
		t.Error("default obstacle layers empty")
	}
	if cfg.Derived.TicksPerSecond <= 0 {
		t.Errorf("derived ticks per second = %v, want positive", cfg.Derived.TicksPerSecond)
	}
	if cfg.Derived.HalfWidth != cfg.World.Width/2 {
		t.Errorf("half width = %v, want %v", cfg.Derived.HalfWidth, cfg.World.Width/2)
	}
}

// TestLoadOverride verifies a partial file overrides only the fields it
// names.
func TestLoadOverride(t *testing.T) {
	defaults, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	override := "sim:\n  chickens: 99\n"
	if err := os.WriteFile(path, []byte(override), 0644); err != nil {
		t.Fatalf("writing override: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(override): %v", err)
	}
	if cfg.Sim.Chickens != 99 {
		t.Errorf("chickens = %d, want overridden 99", cfg.Sim.Chickens)
	}
	if cfg.Behavior.FollowDistance != defaults.Behavior.FollowDistance {
		t.Errorf("follow distance changed by unrelated override: %v", cfg.Behavior.FollowDistance)
	}
}

// TestWriteYAMLRoundtrip verifies a written config loads back equal on the
// fields that matter.
func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	cfg.Sim.Chickens = 7

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load(written): %v", err)
	}
	if back.Sim.Chickens != 7 {
		t.Errorf("chickens after roundtrip = %d, want 7", back.Sim.Chickens)
	}
}
