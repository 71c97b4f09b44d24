package game

// Tuning holds every steering constant a crawler uses. Distances are world
// units, times are seconds, rates are per second.
type Tuning struct {
	// Stuck detection.
	StuckMoveThreshold float64 `yaml:"stuck_move_threshold"`
	StuckTimeout       float64 `yaml:"stuck_timeout"`
	EscapeDistanceMin  float64 `yaml:"escape_distance_min"`
	EscapeDistanceMax  float64 `yaml:"escape_distance_max"`

	// Idle pauses.
	PauseChance float64 `yaml:"pause_chance"` // per frame
	PauseMin    float64 `yaml:"pause_min"`
	PauseMax    float64 `yaml:"pause_max"`

	// Target selection.
	ArrivalRadius    float64    `yaml:"arrival_radius"`
	RetargetMin      float64    `yaml:"retarget_min"`
	RetargetMax      float64    `yaml:"retarget_max"`
	TargetAttempts   int        `yaml:"target_attempts"`
	TargetClearance  float64    `yaml:"target_clearance"`
	StrategyWeights  [6]float64 `yaml:"strategy_weights"`
	ArcRadiusMin     float64    `yaml:"arc_radius_min"`
	ArcRadiusMax     float64    `yaml:"arc_radius_max"`
	PerimeterJitter  float64    `yaml:"perimeter_jitter"`
	WallBand         float64    `yaml:"wall_band"`
	CornerBox        float64    `yaml:"corner_box"`
	OppositeReach    float64    `yaml:"opposite_reach"`
	BounceBandMin    float64    `yaml:"bounce_band_min"`
	BounceBandMax    float64    `yaml:"bounce_band_max"`
	BounceSpreadX    float64    `yaml:"bounce_spread_x"`
	BounceSpreadZ    float64    `yaml:"bounce_spread_z"`
	BlockedRetreat   float64    `yaml:"blocked_retreat"`
	AvoidLookAhead   float64    `yaml:"avoid_look_ahead"`
	AvoidProbe       float64    `yaml:"avoid_probe"`
	AvoidFallback    float64    `yaml:"avoid_fallback"`
	DirectionEpsilon float64    `yaml:"direction_epsilon"`

	// Locomotion.
	EscapeSpeed    float64 `yaml:"escape_speed"`
	AvoidSpeed     float64 `yaml:"avoid_speed"`
	WalkSpeedMin   float64 `yaml:"walk_speed_min"`
	WalkSpeedMax   float64 `yaml:"walk_speed_max"`
	WanderFraction float64 `yaml:"wander_fraction"`
	RideHeight     float64 `yaml:"ride_height"`

	// Orientation.
	TurnRate       float64 `yaml:"turn_rate"`
	EscapeTurnRate float64 `yaml:"escape_turn_rate"`
	TurnJitter     float64 `yaml:"turn_jitter"` // rate is scaled by 1±TurnJitter

	// Cosmetic animation.
	LegPhaseRate     float64 `yaml:"leg_phase_rate"`
	StrideFreq       float64 `yaml:"stride_freq"`
	EscapeStrideFreq float64 `yaml:"escape_stride_freq"`
}

// DefaultTuning returns the constants the dashboard scene ships with.
func DefaultTuning() Tuning {
	return Tuning{
		StuckMoveThreshold: 0.1,
		StuckTimeout:       2.0,
		EscapeDistanceMin:  4,
		EscapeDistanceMax:  8,

		PauseChance: 0.0002,
		PauseMin:    0.3,
		PauseMax:    1.0,

		ArrivalRadius:    1.5,
		RetargetMin:      4,
		RetargetMax:      10,
		TargetAttempts:   20,
		TargetClearance:  0.5,
		StrategyWeights:  [6]float64{0.35, 0.20, 0.15, 0.15, 0.10, 0.05},
		ArcRadiusMin:     8,
		ArcRadiusMax:     14,
		PerimeterJitter:  1.5,
		WallBand:         2,
		CornerBox:        3,
		OppositeReach:    3,
		BounceBandMin:    0.5,
		BounceBandMax:    3.5,
		BounceSpreadX:    8,
		BounceSpreadZ:    6,
		BlockedRetreat:   2,
		AvoidLookAhead:   0.4,
		AvoidProbe:       3,
		AvoidFallback:    4,
		DirectionEpsilon: 0.1,

		EscapeSpeed:    6.0,
		AvoidSpeed:     2.0,
		WalkSpeedMin:   2.5,
		WalkSpeedMax:   5.5,
		WanderFraction: 0.1,
		RideHeight:     0.1,

		TurnRate:       4.0,
		EscapeTurnRate: 8.0,
		TurnJitter:     0.3,

		LegPhaseRate:     8,
		StrideFreq:       6,
		EscapeStrideFreq: 12,
	}
}

// maxTurnRate is the upper bound on yaw speed for a state, including jitter.
func (t *Tuning) maxTurnRate(s CrawlerState) float64 {
	base := t.TurnRate
	if s == CrawlerEscaping {
		base = t.EscapeTurnRate
	}
	return base * (1 + t.TurnJitter)
}
