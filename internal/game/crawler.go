package game

import (
	"fmt"
	"math"
)

// CrawlerState is the steering mode of a crawler.
type CrawlerState int

const (
	CrawlerExploring CrawlerState = iota // walking toward a wander target
	CrawlerAvoiding                      // detouring around a chart
	CrawlerPaused                        // standing still for a moment
	CrawlerEscaping                      // forced run after getting stuck
)

func (cs CrawlerState) String() string {
	switch cs {
	case CrawlerExploring:
		return "exploring"
	case CrawlerAvoiding:
		return "avoiding"
	case CrawlerPaused:
		return "paused"
	case CrawlerEscaping:
		return "escaping"
	default:
		return "unknown"
	}
}

// Rand is the random source a crawler draws from. *math/rand.Rand
// satisfies it; tests inject seeded or scripted sources.
type Rand interface {
	Float64() float64
}

// Pose is what the rendering layer reads each frame.
type Pose struct {
	X, Y, Z float64 // Y is ride height above the surface under the crawler
	Heading float64 // yaw in radians, 0 faces +Z, wrapped to [-π, π]

	// Cosmetic locomotion signals.
	Bob   float64 // vertical offset added on top of Y
	Pitch float64
	Roll  float64
}

// Position returns the rendered position including the bob offset.
func (p Pose) Position() [3]float64 {
	return [3]float64{p.X, p.Y + p.Bob, p.Z}
}

// StepReport describes what happened during one Step.
type StepReport struct {
	Retargeted  bool
	Strategy    ExploreStrategy // valid when Retargeted
	StuckEscape bool            // stuck timer expired and an escape began
	PauseBegan  bool
	Paused      bool // frame was spent paused
	Avoided     bool // an obstacle was in or ahead of the path
	Bounced     bool // the step crossed the walk bounds
	Blocked     bool // the step would have entered a zone and was discarded
	Moved       float64
}

// motion is the per-crawler scratch state. It is only touched by Step.
type motion struct {
	targetX, targetZ float64
	velX, velZ       float64

	pauseTimer    float64 // counts down
	retargetTimer float64 // counts up since the last new target
	retargetAfter float64 // interval drawn at the last retarget
	stuckTimer    float64 // counts up since the last real displacement
	legPhase      float64

	lastX, lastZ     float64 // position at the last real displacement
	escapeX, escapeZ float64 // offset chosen by the last stuck escape

	turnRemaining float64 // heading error left after the last turn
}

// Crawler is one wandering spider. It owns its pose and motion state; the
// arena it walks in is shared and read-only.
type Crawler struct {
	id    int
	label string
	arena *Arena
	rng   Rand

	pose  Pose
	state CrawlerState
	mv    motion
}

// NewCrawler places a crawler at (x,y,z). The start point is clamped to the
// walk bounds, then pushed out of any chart through the nearest edge that
// stays walkable.
func NewCrawler(id int, x, y, z float64, arena *Arena, rng Rand) *Crawler {
	x, z = arena.Walk.Clamp(x, z)
	x, z = arena.Field.EjectWithin(x, z, arena.Walk)

	c := &Crawler{
		id:    id,
		label: fmt.Sprintf("S%d", id),
		arena: arena,
		rng:   rng,
		pose:  Pose{X: x, Y: y, Z: z},
		state: CrawlerExploring,
	}
	// The first target is the spawn point itself, so the first Step picks a
	// real one.
	c.mv.targetX, c.mv.targetZ = x, z
	c.mv.lastX, c.mv.lastZ = x, z
	c.resetRetarget()
	return c
}

// ID returns the crawler's identifier.
func (c *Crawler) ID() int { return c.id }

// Label returns a short display name such as "S3".
func (c *Crawler) Label() string { return c.label }

// Pose returns the current pose.
func (c *Crawler) Pose() Pose { return c.pose }

// State returns the current steering state.
func (c *Crawler) State() CrawlerState { return c.state }

// Target returns the current wander target.
func (c *Crawler) Target() (float64, float64) { return c.mv.targetX, c.mv.targetZ }

// Velocity returns the last committed ground velocity.
func (c *Crawler) Velocity() (float64, float64) { return c.mv.velX, c.mv.velZ }

// StuckFor is how long the crawler has gone without real displacement.
func (c *Crawler) StuckFor() float64 { return c.mv.stuckTimer }

// PauseRemaining is the time left in the current pause.
func (c *Crawler) PauseRemaining() float64 { return c.mv.pauseTimer }

// LegPhase is the accumulated stride phase.
func (c *Crawler) LegPhase() float64 { return c.mv.legPhase }

// EscapeOffset returns the offset chosen by the most recent stuck escape.
func (c *Crawler) EscapeOffset() (float64, float64) { return c.mv.escapeX, c.mv.escapeZ }

// Turning reports whether the heading has not yet caught up with the
// direction of travel.
func (c *Crawler) Turning() bool { return math.Abs(c.mv.turnRemaining) > 0.05 }

// Step advances the crawler by one frame of delta seconds. elapsed is the
// host clock, used only for the idle breathing animation.
func (c *Crawler) Step(delta, elapsed float64) StepReport {
	var rep StepReport
	if delta <= 0 {
		return rep
	}
	t := &c.arena.Tuning
	mv := &c.mv

	// --- Timers ---
	mv.pauseTimer = math.Max(0, mv.pauseTimer-delta)
	mv.retargetTimer += delta
	mv.stuckTimer += delta
	mv.legPhase += delta * t.LegPhaseRate

	// --- Stuck detection ---
	if math.Hypot(c.pose.X-mv.lastX, c.pose.Z-mv.lastZ) > t.StuckMoveThreshold {
		mv.lastX, mv.lastZ = c.pose.X, c.pose.Z
		mv.stuckTimer = 0
	}
	// An escape that is itself stuck re-rolls its direction.
	if mv.stuckTimer > t.StuckTimeout {
		c.beginEscape()
		rep.StuckEscape = true
	}

	// --- Idle pause ---
	if c.state == CrawlerPaused {
		if mv.pauseTimer > 0 {
			c.breathe(elapsed)
			rep.Paused = true
			return rep
		}
		c.state = CrawlerExploring
	}
	if c.state != CrawlerEscaping && c.state != CrawlerAvoiding && c.rng.Float64() < t.PauseChance {
		c.state = CrawlerPaused
		mv.pauseTimer = lerp(t.PauseMin, t.PauseMax, c.rng.Float64())
		mv.velX, mv.velZ = 0, 0
		c.breathe(elapsed)
		rep.PauseBegan = true
		rep.Paused = true
		return rep
	}

	// --- Target selection ---
	if c.distToTarget() < t.ArrivalRadius || mv.retargetTimer > mv.retargetAfter {
		mv.targetX, mv.targetZ, rep.Strategy = c.pickTarget()
		c.resetRetarget()
		c.state = CrawlerExploring
		rep.Retargeted = true
	}

	// --- Desired direction ---
	dirX, dirZ := c.desiredDirection()

	// --- Reactive avoidance ---
	field := c.arena.Field
	here := field.Detect(c.pose.X, c.pose.Z)
	ahead := field.Detect(c.pose.X+dirX*t.AvoidLookAhead, c.pose.Z+dirZ*t.AvoidLookAhead)
	if here.Detected || ahead.Detected {
		if c.state != CrawlerEscaping {
			c.state = CrawlerAvoiding
		}
		dirX, dirZ = c.avoid(dirX, dirZ)
		rep.Avoided = true
	}
	if (c.state == CrawlerAvoiding || c.state == CrawlerEscaping) && c.distToTarget() < t.ArrivalRadius {
		c.state = CrawlerExploring
	}

	// --- Step commit ---
	moving := dirX != 0 || dirZ != 0
	x0, z0 := c.pose.X, c.pose.Z
	nx, nz := x0, z0
	if moving {
		step := c.stepSpeed() * delta
		lateral := (c.rng.Float64()*2 - 1) * t.WanderFraction * step
		nx += dirX*step - dirZ*lateral
		nz += dirZ*step + dirX*lateral
	}

	walk := c.arena.Walk
	if nx < walk.MinX || nx > walk.MaxX {
		c.bounceX(nx, nz)
		nx = clamp(nx, walk.MinX, walk.MaxX)
		rep.Bounced = true
	}
	if nz < walk.MinZ || nz > walk.MaxZ {
		c.bounceZ(nx, nz)
		nz = clamp(nz, walk.MinZ, walk.MaxZ)
		rep.Bounced = true
	}
	if field.Detect(nx, nz).Detected {
		nx, nz = x0, z0
		c.retreat()
		rep.Blocked = true
	}

	rep.Moved = math.Hypot(nx-x0, nz-z0)
	mv.velX, mv.velZ = (nx-x0)/delta, (nz-z0)/delta
	c.pose.X, c.pose.Z = nx, nz
	c.pose.Y = field.SurfaceHeight(nx, nz) + t.RideHeight

	// --- Orientation ---
	if moving {
		rate := t.TurnRate
		if c.state == CrawlerEscaping {
			rate = t.EscapeTurnRate
		}
		rate *= 1 - t.TurnJitter + c.rng.Float64()*2*t.TurnJitter
		c.pose.Heading, mv.turnRemaining = turnToward(c.pose.Heading, math.Atan2(dirX, dirZ), rate*delta)
	} else {
		mv.turnRemaining = 0
	}

	c.animate(moving, elapsed)
	return rep
}

// escapeAttempts bounds how many directions beginEscape draws before it
// falls back to heading for the middle of the walk area.
const escapeAttempts = 8

// beginEscape sends the crawler on a long run in a random direction. A
// direction whose clamped target would count as already reached is redrawn,
// so a crawler pinned in a corner still leaves in Escaping.
func (c *Crawler) beginEscape() {
	t := &c.arena.Tuning
	mv := &c.mv
	walk := c.arena.Walk
	x, z := c.pose.X, c.pose.Z

	angle := c.rng.Float64() * 2 * math.Pi
	dist := lerp(t.EscapeDistanceMin, t.EscapeDistanceMax, c.rng.Float64())
	found := false
	for i := 0; i < escapeAttempts; i++ {
		if i > 0 {
			angle = c.rng.Float64() * 2 * math.Pi
		}
		mv.escapeX = math.Cos(angle) * dist
		mv.escapeZ = math.Sin(angle) * dist
		mv.targetX, mv.targetZ = walk.Clamp(x+mv.escapeX, z+mv.escapeZ)
		if c.distToTarget() >= t.ArrivalRadius {
			found = true
			break
		}
	}
	if !found {
		cx, cz := walk.Center()
		dir := unit(cx-x, cz-z)
		if dir == [2]float64{} {
			dir = [2]float64{1, 0}
		}
		mv.escapeX, mv.escapeZ = dir[0]*dist, dir[1]*dist
		mv.targetX, mv.targetZ = walk.Clamp(x+mv.escapeX, z+mv.escapeZ)
	}
	mv.velX, mv.velZ = 0, 0
	mv.stuckTimer = 0
	mv.pauseTimer = 0
	c.resetRetarget()
	c.state = CrawlerEscaping
}

// avoid picks the first clear detour direction and retargets along it.
func (c *Crawler) avoid(dirX, dirZ float64) (float64, float64) {
	t := &c.arena.Tuning
	if dirX == 0 && dirZ == 0 {
		dirX, dirZ = HeadingVector(c.pose.Heading)
	}

	candidates := [8][2]float64{
		{-dirZ, dirX}, // right
		{dirZ, -dirX}, // left
		{-dirX, -dirZ},
		unit(-dirZ*0.7-dirX*0.3, dirX*0.7-dirZ*0.3),
		unit(dirZ*0.7-dirX*0.3, -dirX*0.7-dirZ*0.3),
		{1, 0},
		{-1, 0},
		{0, 1},
	}
	if c.rng.Float64() > 0.5 {
		candidates[0], candidates[1] = candidates[1], candidates[0]
	}

	x, z := c.pose.X, c.pose.Z
	for _, d := range candidates {
		tx, tz := c.arena.Walk.Clamp(x+d[0]*t.AvoidProbe, z+d[1]*t.AvoidProbe)
		if !c.arena.Field.Detect(tx, tz).Detected {
			c.mv.targetX, c.mv.targetZ = tx, tz
			return d[0], d[1]
		}
	}

	// Nothing clear: head outward, away from the origin quadrant we are in.
	away := unit(signOf(x), signOf(z))
	c.mv.targetX, c.mv.targetZ = c.arena.Walk.Clamp(x+away[0]*t.AvoidFallback, z+away[1]*t.AvoidFallback)
	return away[0], away[1]
}

// retreat retargets after a discarded step, roughly back toward the middle
// of the room with a random spread.
func (c *Crawler) retreat() {
	t := &c.arena.Tuning
	x, z := c.pose.X, c.pose.Z
	angle := math.Atan2(z, x) + math.Pi + (c.rng.Float64()-0.5)*math.Pi
	c.mv.targetX, c.mv.targetZ = c.arena.Walk.Clamp(
		x+math.Cos(angle)*t.BlockedRetreat,
		z+math.Sin(angle)*t.BlockedRetreat,
	)
}

// bounceX retargets toward the far side after leaving the walk bounds on X.
func (c *Crawler) bounceX(nx, nz float64) {
	t := &c.arena.Tuning
	walk := c.arena.Walk
	cx, _ := walk.Center()
	band := lerp(t.BounceBandMin, t.BounceBandMax, c.rng.Float64())
	tx := walk.MaxX - band
	if nx > cx {
		tx = walk.MinX + band
	}
	tz := nz + (c.rng.Float64()-0.5)*t.BounceSpreadZ
	c.mv.targetX, c.mv.targetZ = walk.Clamp(tx, tz)
}

// bounceZ retargets toward the far side after leaving the walk bounds on Z.
func (c *Crawler) bounceZ(nx, nz float64) {
	t := &c.arena.Tuning
	walk := c.arena.Walk
	_, cz := walk.Center()
	band := lerp(t.BounceBandMin, t.BounceBandMax, c.rng.Float64())
	tz := walk.MaxZ - band
	if nz > cz {
		tz = walk.MinZ + band
	}
	tx := nx + (c.rng.Float64()-0.5)*t.BounceSpreadX
	c.mv.targetX, c.mv.targetZ = walk.Clamp(tx, tz)
}

func (c *Crawler) stepSpeed() float64 {
	t := &c.arena.Tuning
	switch c.state {
	case CrawlerEscaping:
		return t.EscapeSpeed
	case CrawlerAvoiding:
		return t.AvoidSpeed
	default:
		return lerp(t.WalkSpeedMin, t.WalkSpeedMax, c.rng.Float64())
	}
}

func (c *Crawler) desiredDirection() (float64, float64) {
	dx := c.mv.targetX - c.pose.X
	dz := c.mv.targetZ - c.pose.Z
	d := math.Hypot(dx, dz)
	if d <= c.arena.Tuning.DirectionEpsilon {
		return 0, 0
	}
	return dx / d, dz / d
}

func (c *Crawler) distToTarget() float64 {
	return math.Hypot(c.mv.targetX-c.pose.X, c.mv.targetZ-c.pose.Z)
}

func (c *Crawler) resetRetarget() {
	t := &c.arena.Tuning
	c.mv.retargetTimer = 0
	c.mv.retargetAfter = lerp(t.RetargetMin, t.RetargetMax, c.rng.Float64())
}

// breathe holds the crawler still with a slow vertical oscillation.
func (c *Crawler) breathe(elapsed float64) {
	c.pose.Y = c.arena.Field.SurfaceHeight(c.pose.X, c.pose.Z) + c.arena.Tuning.RideHeight
	c.pose.Bob = math.Sin(elapsed*2) * 0.02
	c.pose.Pitch, c.pose.Roll = 0, 0
}

// animate sets the stride bob and sway, or idle breathing when standing.
func (c *Crawler) animate(moving bool, elapsed float64) {
	t := &c.arena.Tuning
	phase := c.mv.legPhase
	if !moving {
		c.pose.Bob = math.Sin(elapsed*2) * 0.01
		c.pose.Pitch, c.pose.Roll = 0, 0
		return
	}
	freq := t.StrideFreq
	if c.state == CrawlerEscaping {
		freq = t.EscapeStrideFreq
	}
	c.pose.Bob = math.Sin(phase*freq) * 0.03
	c.pose.Pitch = math.Sin(phase*freq*0.8) * 0.04
	c.pose.Roll = math.Sin(phase*freq*0.6) * 0.02
	if c.state == CrawlerEscaping {
		c.pose.Bob += math.Sin(phase*15) * 0.02
	}
}

func lerp(a, b, f float64) float64 {
	return a + (b-a)*f
}

func unit(x, z float64) [2]float64 {
	d := math.Hypot(x, z)
	if d < 1e-12 {
		return [2]float64{0, 0}
	}
	return [2]float64{x / d, z / d}
}

func signOf(v float64) float64 {
	if v > 0 {
		return 1
	}
	return -1
}
