package game

// Arena is the static world every crawler in a scene shares: the floor, the
// walkable bounds, the spawn area, the obstacle field and the steering
// constants. Nothing in it changes once the scene is built.
type Arena struct {
	Floor  Rect // full visible floor
	Walk   Rect // area a crawler's position is clamped to
	Spawn  Rect // where web clicks drop new crawlers
	Field  *ObstacleField
	Tuning Tuning

	SpawnHeight float64
}

// NewArena builds the shared world from a validated config.
func NewArena(cfg Config) *Arena {
	return &Arena{
		Floor:  cfg.Floor,
		Walk:   cfg.Floor.Inset(cfg.WalkMargin),
		Spawn:  cfg.SpawnArea,
		Field:  NewObstacleField(cfg.Zones, cfg.GroundHeight, cfg.PlatformHeight),
		Tuning: cfg.Tuning,

		SpawnHeight: cfg.SpawnHeight,
	}
}

// DefaultArena is the dashboard scene with default tuning.
func DefaultArena() *Arena {
	return NewArena(DefaultConfig())
}
