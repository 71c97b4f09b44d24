package game

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid scene config")

// Config describes a scene: its geometry, the chart zones and the steering
// constants. The YAML form uses snake_case keys; any key left out keeps its
// default.
type Config struct {
	Floor          Rect    `yaml:"floor"`
	WalkMargin     float64 `yaml:"walk_margin"`
	SpawnArea      Rect    `yaml:"spawn_area"`
	SpawnHeight    float64 `yaml:"spawn_height"`
	GroundHeight   float64 `yaml:"ground_height"`
	PlatformHeight float64 `yaml:"platform_height"`
	Zones          []Zone  `yaml:"zones"`
	Tuning         Tuning  `yaml:"tuning"`
	Seed           int64   `yaml:"seed"` // 0 = seed from the clock
}

// DefaultConfig reproduces the dashboard: a 24x20 floor with three chart
// platforms behind the centre line.
func DefaultConfig() Config {
	return Config{
		Floor:          Rect{MinX: -12, MaxX: 12, MinZ: -10, MaxZ: 10},
		WalkMargin:     0.5,
		SpawnArea:      Rect{MinX: -7, MaxX: 7, MinZ: -5, MaxZ: 5},
		SpawnHeight:    0.1,
		GroundHeight:   0,
		PlatformHeight: 0.1,
		Zones:          DashboardZones(),
		Tuning:         DefaultTuning(),
	}
}

// LoadConfig decodes YAML from r on top of DefaultConfig and validates it.
// A zones list in the document replaces the default zones entirely.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode scene config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads a YAML scene config from path.
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path) // #nosec G304 -- operator-supplied path
	if err != nil {
		return Config{}, fmt.Errorf("open scene config: %w", err)
	}
	defer f.Close()
	return LoadConfig(f)
}

// Validate checks geometric and tuning invariants.
func (c Config) Validate() error {
	if !c.Floor.Valid() {
		return fmt.Errorf("%w: floor %+v is empty", ErrInvalidConfig, c.Floor)
	}
	if c.WalkMargin < 0 || !c.Floor.Inset(c.WalkMargin).Valid() {
		return fmt.Errorf("%w: walk margin %.2f leaves no walkable floor", ErrInvalidConfig, c.WalkMargin)
	}
	if !c.SpawnArea.Valid() {
		return fmt.Errorf("%w: spawn area %+v is empty", ErrInvalidConfig, c.SpawnArea)
	}
	for i, z := range c.Zones {
		if !z.Bounds.Valid() {
			return fmt.Errorf("%w: zone %d (%s) bounds %+v are empty", ErrInvalidConfig, i, z.Name, z.Bounds)
		}
		if !z.Footprint.Valid() {
			return fmt.Errorf("%w: zone %d (%s) footprint %+v is empty", ErrInvalidConfig, i, z.Name, z.Footprint)
		}
		if !z.Footprint.ContainsRect(z.Bounds) {
			return fmt.Errorf("%w: zone %d (%s) footprint must contain its bounds", ErrInvalidConfig, i, z.Name)
		}
	}
	return c.Tuning.validate()
}

func (t Tuning) validate() error {
	type bound struct {
		name   string
		lo, hi float64
	}
	for _, b := range []bound{
		{"stuck_timeout", 0, t.StuckTimeout},
		{"arrival_radius", 0, t.ArrivalRadius},
		{"escape_speed", 0, t.EscapeSpeed},
		{"avoid_speed", 0, t.AvoidSpeed},
		{"walk_speed_max", 0, t.WalkSpeedMax},
		{"turn_rate", 0, t.TurnRate},
		{"avoid_probe", 0, t.AvoidProbe},
	} {
		if b.hi <= b.lo {
			return fmt.Errorf("%w: tuning %s must be > 0, got %g", ErrInvalidConfig, b.name, b.hi)
		}
	}
	for _, b := range []bound{
		{"escape_distance", t.EscapeDistanceMin, t.EscapeDistanceMax},
		{"pause", t.PauseMin, t.PauseMax},
		{"retarget", t.RetargetMin, t.RetargetMax},
		{"walk_speed", t.WalkSpeedMin, t.WalkSpeedMax},
		{"arc_radius", t.ArcRadiusMin, t.ArcRadiusMax},
		{"bounce_band", t.BounceBandMin, t.BounceBandMax},
	} {
		if b.lo < 0 || b.lo > b.hi {
			return fmt.Errorf("%w: tuning %s range [%g,%g] is invalid", ErrInvalidConfig, b.name, b.lo, b.hi)
		}
	}
	if t.PauseChance < 0 || t.PauseChance > 1 {
		return fmt.Errorf("%w: tuning pause_chance %g outside [0,1]", ErrInvalidConfig, t.PauseChance)
	}
	if t.TurnJitter < 0 || t.TurnJitter >= 1 {
		return fmt.Errorf("%w: tuning turn_jitter %g outside [0,1)", ErrInvalidConfig, t.TurnJitter)
	}
	sum := 0.0
	for _, w := range t.StrategyWeights {
		if w < 0 {
			return fmt.Errorf("%w: negative strategy weight %g", ErrInvalidConfig, w)
		}
		sum += w
	}
	if sum <= 0 {
		return fmt.Errorf("%w: strategy weights sum to zero", ErrInvalidConfig)
	}
	return nil
}
