package game

import (
	"math"
	"math/rand"
	"testing"
)

// seqRand replays a fixed sequence of draws, cycling when exhausted.
type seqRand struct {
	vals []float64
	i    int
}

func (r *seqRand) Float64() float64 {
	if len(r.vals) == 0 {
		return 0.5
	}
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v
}

// testArena builds the dashboard arena with optional tuning edits.
func testArena(edit func(*Tuning)) *Arena {
	cfg := DefaultConfig()
	if edit != nil {
		edit(&cfg.Tuning)
	}
	return NewArena(cfg)
}

func noPauses(t *Tuning) { t.PauseChance = 0 }

func TestNewCrawler_InitialState(t *testing.T) {
	c := NewCrawler(3, 0, 0.1, 0, testArena(nil), rand.New(rand.NewSource(1))) // #nosec G404 -- test
	if c.State() != CrawlerExploring {
		t.Fatalf("expected exploring, got %s", c.State())
	}
	if c.Label() != "S3" || c.ID() != 3 {
		t.Fatalf("unexpected identity %s/%d", c.Label(), c.ID())
	}
	p := c.Pose()
	if p.X != 0 || p.Z != 0 || p.Y != 0.1 || p.Heading != 0 {
		t.Fatalf("unexpected initial pose %+v", p)
	}
	if tx, tz := c.Target(); tx != 0 || tz != 0 {
		t.Fatalf("first target should be the spawn point, got (%.2f,%.2f)", tx, tz)
	}
}

func TestNewCrawler_SpawnInsideZoneIsEjected(t *testing.T) {
	a := testArena(nil)
	for _, p := range [][2]float64{{-8, -3}, {8, -3}, {0, -8}, {0.5, -9.6}} {
		c := NewCrawler(0, p[0], 0.1, p[1], a, rand.New(rand.NewSource(1))) // #nosec G404 -- test
		pose := c.Pose()
		if a.Field.Detect(pose.X, pose.Z).Detected {
			t.Fatalf("spawn (%.1f,%.1f) left the crawler inside a zone at (%.2f,%.2f)", p[0], p[1], pose.X, pose.Z)
		}
		if !a.Walk.Contains(pose.X, pose.Z) {
			t.Fatalf("spawn (%.1f,%.1f) left the crawler outside the walk bounds at (%.2f,%.2f)", p[0], p[1], pose.X, pose.Z)
		}
	}
}

func TestNewCrawler_ClampsToWalkBounds(t *testing.T) {
	c := NewCrawler(0, 20, 0.1, 15, testArena(nil), rand.New(rand.NewSource(1))) // #nosec G404 -- test
	p := c.Pose()
	if p.X != 11.5 || p.Z != 9.5 {
		t.Fatalf("expected (11.5,9.5), got (%.2f,%.2f)", p.X, p.Z)
	}
}

func TestStep_NonPositiveDeltaIsNoop(t *testing.T) {
	c := NewCrawler(0, 1, 0.1, 1, testArena(nil), rand.New(rand.NewSource(1))) // #nosec G404 -- test
	before := c.Pose()
	for _, d := range []float64{0, -0.5} {
		rep := c.Step(d, 1)
		if rep != (StepReport{}) {
			t.Fatalf("delta %.1f produced a report %+v", d, rep)
		}
	}
	if c.Pose() != before {
		t.Fatal("non-positive delta moved the crawler")
	}
}

func TestStep_StuckForcesEscapeSameFrame(t *testing.T) {
	c := NewCrawler(0, 0, 0.1, 0, testArena(noPauses), rand.New(rand.NewSource(7))) // #nosec G404 -- test
	c.mv.stuckTimer = 1.99
	c.mv.lastX, c.mv.lastZ = c.pose.X, c.pose.Z

	delta := 1.0 / 60
	rep := c.Step(delta, 0)
	if !rep.StuckEscape {
		t.Fatal("expected a stuck escape once the timer passed the timeout")
	}
	if c.State() != CrawlerEscaping {
		t.Fatalf("expected escaping in the same frame, got %s", c.State())
	}
	if c.StuckFor() != 0 {
		t.Fatalf("stuck timer should reset to 0, got %.3f", c.StuckFor())
	}
	ox, oz := c.EscapeOffset()
	if d := math.Hypot(ox, oz); d < 4-1e-9 || d > 8+1e-9 {
		t.Fatalf("escape offset length %.3f outside [4,8]", d)
	}
	// Escape speed, plus at most 10% lateral wander.
	lo, hi := 6*delta, 6*delta*math.Sqrt(1.01)
	if rep.Moved < lo-1e-9 || rep.Moved > hi+1e-9 {
		t.Fatalf("escape step %.4f outside [%.4f,%.4f]", rep.Moved, lo, hi)
	}
}

func TestStep_StuckInCornerStillEscapes(t *testing.T) {
	// Draws: retarget interval, an angle pointing out of the corner, the
	// distance, then a redrawn angle pointing back along -X.
	c := NewCrawler(0, 11.5, 0.1, 9.5, testArena(noPauses), &seqRand{vals: []float64{0.5, 0.1, 0.5}})
	c.mv.stuckTimer = 1.99

	rep := c.Step(1.0/60, 0)
	if !rep.StuckEscape {
		t.Fatal("expected a stuck escape")
	}
	if rep.Retargeted {
		t.Fatal("the escape target was treated as reached in the same frame")
	}
	if c.State() != CrawlerEscaping {
		t.Fatalf("expected escaping in the same frame, got %s", c.State())
	}
	tx, tz := c.Target()
	if math.Abs(tx-5.5) > 1e-9 || math.Abs(tz-9.5) > 1e-9 {
		t.Fatalf("expected the redrawn target (5.5,9.5), got (%.2f,%.2f)", tx, tz)
	}
	if d := math.Hypot(tx-c.Pose().X, tz-c.Pose().Z); d < c.arena.Tuning.ArrivalRadius {
		t.Fatalf("escape target only %.2f away", d)
	}
}

func TestStep_StuckInCornerFallsBackTowardCentre(t *testing.T) {
	// Every angle drawn points out of the corner.
	c := NewCrawler(0, 11.5, 0.1, 9.5, testArena(noPauses), &seqRand{vals: []float64{0.1}})
	c.mv.stuckTimer = 1.99

	rep := c.Step(1.0/60, 0)
	if !rep.StuckEscape || c.State() != CrawlerEscaping {
		t.Fatalf("expected an escape, got report %+v state %s", rep, c.State())
	}
	ox, oz := c.EscapeOffset()
	d := math.Hypot(11.5, 9.5)
	wantX, wantZ := -11.5/d*4.4, -9.5/d*4.4
	if math.Abs(ox-wantX) > 1e-9 || math.Abs(oz-wantZ) > 1e-9 {
		t.Fatalf("expected offset toward the centre (%.3f,%.3f), got (%.3f,%.3f)", wantX, wantZ, ox, oz)
	}
}

func TestStep_ArrivalEndsAvoidingAndEscaping(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Zones = nil
	cfg.Tuning.PauseChance = 0
	arena := NewArena(cfg)

	for _, st := range []CrawlerState{CrawlerAvoiding, CrawlerEscaping} {
		c := NewCrawler(0, 0, 0.1, 0, arena, rand.New(rand.NewSource(3))) // #nosec G404 -- test
		c.state = st
		c.mv.targetX, c.mv.targetZ = 1, 0

		rep := c.Step(1.0/60, 0)
		if c.State() != CrawlerExploring {
			t.Fatalf("%s: expected exploring 1.0 from the target, got %s", st, c.State())
		}
		if !rep.Retargeted {
			t.Fatalf("%s: expected a new target on arrival", st)
		}
	}
}

func TestStep_StuckWhileEscapingRerollsOffset(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Zones = nil
	cfg.Tuning.PauseChance = 0
	// Draws: retarget interval, angle π, distance 5.
	c := NewCrawler(0, 0, 0.1, 0, NewArena(cfg), &seqRand{vals: []float64{0.25, 0.5}})
	c.state = CrawlerEscaping
	c.mv.escapeX, c.mv.escapeZ = 3, 0
	c.mv.targetX, c.mv.targetZ = 3, 0
	c.mv.stuckTimer = 1.99

	rep := c.Step(1.0/60, 0)
	if !rep.StuckEscape {
		t.Fatal("expected the stuck escape to fire again")
	}
	if c.State() != CrawlerEscaping {
		t.Fatalf("expected to stay escaping, got %s", c.State())
	}
	if c.StuckFor() != 0 {
		t.Fatalf("stuck timer should reset to 0, got %.3f", c.StuckFor())
	}
	ox, oz := c.EscapeOffset()
	if math.Abs(ox+5) > 1e-9 || math.Abs(oz) > 1e-9 {
		t.Fatalf("expected a re-rolled offset (-5,0), got (%.3f,%.3f)", ox, oz)
	}
}

func TestStep_StuckTimerResetsOnDisplacement(t *testing.T) {
	c := NewCrawler(0, 0, 0.1, 0, testArena(noPauses), rand.New(rand.NewSource(3))) // #nosec G404 -- test
	c.mv.targetX, c.mv.targetZ = 5, 0
	c.mv.retargetAfter = 100

	c.Step(0.1, 0)
	if c.StuckFor() == 0 {
		t.Fatal("first step cannot have measured a displacement yet")
	}
	c.Step(0.1, 0.1)
	if c.StuckFor() != 0 {
		t.Fatalf("stuck timer should reset after moving, got %.3f", c.StuckFor())
	}
}

func TestStep_ConvergesOnTargetThenRetargets(t *testing.T) {
	c := NewCrawler(0, 0, 0.1, 0, testArena(noPauses), rand.New(rand.NewSource(11))) // #nosec G404 -- test
	c.mv.targetX, c.mv.targetZ = 5, 0
	c.mv.retargetAfter = 100

	delta := 1.0 / 60
	prevDist := math.Inf(1)
	for i := 0; i < 600; i++ {
		p := c.Pose()
		d := math.Hypot(5-p.X, 0-p.Z)
		rep := c.Step(delta, float64(i)*delta)
		if rep.Retargeted {
			if d >= 1.5 {
				t.Fatalf("retargeted at distance %.3f, expected < 1.5", d)
			}
			if math.Abs(normalizeAngle(p.Heading-math.Pi/2)) > 0.15 {
				t.Fatalf("expected to face +X on arrival, heading %.3f", p.Heading)
			}
			tx, tz := c.Target()
			if tx == 5 && tz == 0 {
				t.Fatal("retarget kept the old target")
			}
			return
		}
		if d > prevDist+1e-9 {
			t.Fatalf("frame %d: moved away from the target (%.3f -> %.3f)", i, prevDist, d)
		}
		prevDist = d
	}
	t.Fatal("never reached the target")
}

func TestStep_HeadingChangeBounded(t *testing.T) {
	a := testArena(nil)
	rng := rand.New(rand.NewSource(21)) // #nosec G404 -- test
	crawlers := []*Crawler{
		NewCrawler(0, 0, 0.1, 0, a, rng),
		NewCrawler(1, -6, 0.1, 4, a, rng),
		NewCrawler(2, 9, 0.1, -8, a, rng),
	}
	delta := 1.0 / 60
	for i := 0; i < 3000; i++ {
		for _, c := range crawlers {
			before := c.Pose().Heading
			c.Step(delta, float64(i)*delta)
			after := c.Pose().Heading
			limit := a.Tuning.maxTurnRate(c.State()) * delta
			if d := math.Abs(normalizeAngle(after - before)); d > limit+1e-9 {
				t.Fatalf("frame %d %s: heading moved %.4f > %.4f", i, c.Label(), d, limit)
			}
			if after < -math.Pi || after > math.Pi {
				t.Fatalf("heading %.4f not wrapped", after)
			}
		}
	}
}

func TestStep_NeverEntersZoneOrLeavesWalk(t *testing.T) {
	for seed := int64(1); seed <= 8; seed++ {
		a := testArena(nil)
		rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- test
		var crawlers []*Crawler
		for i := 0; i < 4; i++ {
			crawlers = append(crawlers, NewCrawler(i, rng.Float64()*14-7, 0.1, rng.Float64()*10-5, a, rng))
		}
		delta := 1.0 / 60
		for f := 0; f < 3000; f++ {
			for _, c := range crawlers {
				c.Step(delta, float64(f)*delta)
				p := c.Pose()
				if a.Field.Detect(p.X, p.Z).Detected {
					t.Fatalf("seed %d frame %d %s inside a zone at (%.3f,%.3f)", seed, f, c.Label(), p.X, p.Z)
				}
				if p.X < -11.5 || p.X > 11.5 || p.Z < -9.5 || p.Z > 9.5 {
					t.Fatalf("seed %d frame %d %s outside walk bounds at (%.3f,%.3f)", seed, f, c.Label(), p.X, p.Z)
				}
			}
		}
	}
}

func TestStep_PauseHoldsPosition(t *testing.T) {
	c := NewCrawler(0, 2, 0.1, 2, testArena(func(t *Tuning) { t.PauseChance = 1 }), rand.New(rand.NewSource(5))) // #nosec G404 -- test
	rep := c.Step(1.0/60, 0)
	if !rep.PauseBegan || !rep.Paused {
		t.Fatalf("expected a pause to begin, got %+v", rep)
	}
	if c.State() != CrawlerPaused {
		t.Fatalf("expected paused, got %s", c.State())
	}
	if r := c.PauseRemaining(); r < 0.3 || r > 1.0 {
		t.Fatalf("pause length %.3f outside [0.3,1.0]", r)
	}
	for i := 1; i < 30; i++ {
		c.Step(1.0/60, float64(i)/60)
		p := c.Pose()
		if p.X != 2 || p.Z != 2 {
			t.Fatalf("paused crawler moved to (%.3f,%.3f)", p.X, p.Z)
		}
		if vx, vz := c.Velocity(); vx != 0 || vz != 0 {
			t.Fatal("paused crawler has velocity")
		}
	}
}

func TestStep_BouncesOffWalkEdge(t *testing.T) {
	c := NewCrawler(0, 11.4, 0.1, 0, testArena(noPauses), rand.New(rand.NewSource(9))) // #nosec G404 -- test
	c.mv.targetX, c.mv.targetZ = 14, 0
	c.mv.retargetAfter = 100

	rep := c.Step(0.1, 0)
	if !rep.Bounced {
		t.Fatal("expected a bounce at the +X wall")
	}
	if p := c.Pose(); p.X != 11.5 {
		t.Fatalf("expected x clamped to 11.5, got %.3f", p.X)
	}
	if tx, _ := c.Target(); tx > -8 {
		t.Fatalf("bounce should retarget toward the far side, got x=%.2f", tx)
	}
}

func TestStep_AvoidsZoneAhead(t *testing.T) {
	a := testArena(noPauses)
	c := NewCrawler(0, -5.6, 0.1, -3, a, rand.New(rand.NewSource(13))) // #nosec G404 -- test
	c.mv.targetX, c.mv.targetZ = -12, -3
	c.mv.retargetAfter = 100

	rep := c.Step(1.0/60, 0)
	if !rep.Avoided {
		t.Fatal("expected the zone ahead to trigger avoidance")
	}
	if c.State() != CrawlerAvoiding {
		t.Fatalf("expected avoiding, got %s", c.State())
	}
	tx, tz := c.Target()
	if a.Field.Detect(tx, tz).Detected {
		t.Fatalf("detour target (%.2f,%.2f) inside a zone", tx, tz)
	}
	if p := c.Pose(); a.Field.Detect(p.X, p.Z).Detected {
		t.Fatal("avoiding crawler stepped into the zone")
	}
}

func TestAvoid_FallbackWhenEveryProbeBlocked(t *testing.T) {
	cfg := DefaultConfig()
	ring := []Rect{
		{MinX: -4, MaxX: 4, MinZ: 2, MaxZ: 4},
		{MinX: -4, MaxX: 4, MinZ: -4, MaxZ: -2},
		{MinX: 2, MaxX: 4, MinZ: -4, MaxZ: 4},
		{MinX: -4, MaxX: -2, MinZ: -4, MaxZ: 4},
	}
	cfg.Zones = nil
	for _, r := range ring {
		cfg.Zones = append(cfg.Zones, Zone{Bounds: r, Footprint: r})
	}
	c := NewCrawler(0, 0, 0.1, 0, NewArena(cfg), &seqRand{vals: []float64{0.9}})

	dx, dz := c.avoid(1, 0)
	want := -1 / math.Sqrt2
	if math.Abs(dx-want) > 1e-9 || math.Abs(dz-want) > 1e-9 {
		t.Fatalf("expected fallback direction (%.3f,%.3f), got (%.3f,%.3f)", want, want, dx, dz)
	}
	tx, tz := c.Target()
	if math.Abs(tx-4*want) > 1e-9 || math.Abs(tz-4*want) > 1e-9 {
		t.Fatalf("expected fallback target (%.3f,%.3f), got (%.3f,%.3f)", 4*want, 4*want, tx, tz)
	}
}

func TestAvoid_PrefersFirstClearCandidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Zones = nil
	// 0.1 keeps right before left.
	c := NewCrawler(0, 0, 0.1, 0, NewArena(cfg), &seqRand{vals: []float64{0.1}})
	dx, dz := c.avoid(0, 1)
	if dx != -1 || dz != 0 {
		t.Fatalf("expected the first candidate (-1,0), got (%.2f,%.2f)", dx, dz)
	}
	// 0.9 swaps the two sides.
	c = NewCrawler(0, 0, 0.1, 0, NewArena(cfg), &seqRand{vals: []float64{0.9}})
	dx, dz = c.avoid(0, 1)
	if dx != 1 || dz != 0 {
		t.Fatalf("expected the swapped candidate (1,0), got (%.2f,%.2f)", dx, dz)
	}
}

func TestCrawlerState_String(t *testing.T) {
	want := map[CrawlerState]string{
		CrawlerExploring: "exploring",
		CrawlerAvoiding:  "avoiding",
		CrawlerPaused:    "paused",
		CrawlerEscaping:  "escaping",
		CrawlerState(99): "unknown",
	}
	for st, s := range want {
		if st.String() != s {
			t.Fatalf("%d: expected %q got %q", st, s, st.String())
		}
	}
}

func TestPose_PositionIncludesBob(t *testing.T) {
	p := Pose{X: 1, Y: 0.1, Z: -2, Bob: 0.02}
	pos := p.Position()
	if pos[0] != 1 || math.Abs(pos[1]-0.12) > 1e-12 || pos[2] != -2 {
		t.Fatalf("unexpected position %v", pos)
	}
}

func TestStep_DeterministicForSameSeed(t *testing.T) {
	run := func() Pose {
		c := NewCrawler(0, 1, 0.1, 1, testArena(nil), rand.New(rand.NewSource(99))) // #nosec G404 -- test
		for i := 0; i < 1200; i++ {
			c.Step(1.0/60, float64(i)/60)
		}
		return c.Pose()
	}
	if a, b := run(), run(); a != b {
		t.Fatalf("same seed diverged: %+v vs %+v", a, b)
	}
}
