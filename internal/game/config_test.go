package game

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	a := NewArena(cfg)
	want := Rect{MinX: -11.5, MaxX: 11.5, MinZ: -9.5, MaxZ: 9.5}
	if a.Walk != want {
		t.Fatalf("expected walk bounds %+v, got %+v", want, a.Walk)
	}
	if len(a.Field.Zones()) != 3 {
		t.Fatalf("expected 3 chart zones, got %d", len(a.Field.Zones()))
	}
}

func TestLoadConfig_EmptyDocumentKeepsDefaults(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(""))
	if err != nil {
		t.Fatalf("empty document: %v", err)
	}
	if cfg.Tuning != DefaultTuning() || cfg.Floor != DefaultConfig().Floor {
		t.Fatal("empty document should keep every default")
	}
}

func TestLoadConfig_OverridesTuning(t *testing.T) {
	doc := `
seed: 42
tuning:
  pause_chance: 0.01
  escape_speed: 7.5
`
	cfg, err := LoadConfig(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Seed != 42 || cfg.Tuning.PauseChance != 0.01 || cfg.Tuning.EscapeSpeed != 7.5 {
		t.Fatalf("overrides not applied: seed=%d tuning=%+v", cfg.Seed, cfg.Tuning)
	}
	if cfg.Tuning.TurnRate != DefaultTuning().TurnRate {
		t.Fatal("unrelated tuning fields should keep their defaults")
	}
}

func TestLoadConfig_ZonesReplaceDefaults(t *testing.T) {
	doc := `
zones:
  - name: pie
    bounds: {min_x: -1, max_x: 1, min_z: -1, max_z: 1}
    footprint: {min_x: -1.5, max_x: 1.5, min_z: -1.5, max_z: 1.5}
`
	cfg, err := LoadConfig(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Zones) != 1 || cfg.Zones[0].Name != "pie" {
		t.Fatalf("expected the single pie zone, got %+v", cfg.Zones)
	}
}

func TestLoadConfig_UnknownKeyRejected(t *testing.T) {
	if _, err := LoadConfig(strings.NewReader("tunning:\n  turn_rate: 3\n")); err == nil {
		t.Fatal("expected an error for an unknown key")
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	docs := map[string]string{
		"pause chance":     "tuning:\n  pause_chance: 2\n",
		"negative speed":   "tuning:\n  escape_speed: -1\n",
		"inverted range":   "tuning:\n  retarget_min: 9\n  retarget_max: 3\n",
		"zero weights":     "tuning:\n  strategy_weights: [0, 0, 0, 0, 0, 0]\n",
		"empty floor":      "floor: {min_x: 1, max_x: 1, min_z: 0, max_z: 1}\n",
		"margin too wide":  "walk_margin: 11\n",
		"turn jitter":      "tuning:\n  turn_jitter: 1\n",
		"footprint inside": "zones:\n  - name: x\n    bounds: {min_x: -1, max_x: 1, min_z: -1, max_z: 1}\n    footprint: {min_x: -0.5, max_x: 0.5, min_z: -0.5, max_z: 0.5}\n",
	}
	for name, doc := range docs {
		_, err := LoadConfig(strings.NewReader(doc))
		if !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("%s: expected ErrInvalidConfig, got %v", name, err)
		}
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, []byte("spawn_height: 0.2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if cfg.SpawnHeight != 0.2 {
		t.Fatalf("expected spawn height 0.2, got %.2f", cfg.SpawnHeight)
	}

	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
