package game

import (
	"fmt"
	"math/rand"
	"sort"
)

// TestSim is a headless simulation harness used by tests and the headless
// report. It mirrors Game.Update but has no Ebiten dependency and supports
// deterministic seeding and structured logging.
type TestSim struct {
	Config   Config
	Scene    *Scene
	SimLog   *SimLog
	Reporter *SimReporter
	Trackers map[int]*CrawlTracker

	Delta       float64 // seconds per frame
	ReportEvery int     // frames between reporter samples; 0 disables

	rng   *rand.Rand
	frame int
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra   simOptionKind = iota // config, seed, verbose, delta; applied first
	simOptTuning                       // tuning overrides, applied on top of the config
	simOptCrawler                      // add crawlers, applied after the scene is built
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithConfig replaces the default scene config.
func WithConfig(cfg Config) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.Config = cfg
	}}
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- test harness
	}}
}

// WithVerbose enables per-frame verbose logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.SimLog = NewSimLog(v)
		ts.Reporter = NewSimReporter(reportWindowFrames, v)
	}}
}

// WithDelta sets the fixed frame time in seconds.
func WithDelta(delta float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.Delta = delta
	}}
}

// WithReportEvery sets how many frames pass between reporter samples.
func WithReportEvery(frames int) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.ReportEvery = frames
	}}
}

// WithTuning edits the steering constants before the arena is built.
func WithTuning(edit func(*Tuning)) SimOption {
	return SimOption{simOptTuning, func(ts *TestSim) {
		edit(&ts.Config.Tuning)
	}}
}

// WithCrawlerAt adds a crawler at (x, z) on the floor.
func WithCrawlerAt(x, z float64) SimOption {
	return SimOption{simOptCrawler, func(ts *TestSim) {
		ts.addCrawler(ts.Scene.SpawnAt(x, ts.Config.SpawnHeight, z))
	}}
}

// WithCrawlers adds n crawlers at random points of the spawn area, as web
// clicks would.
func WithCrawlers(n int) SimOption {
	return SimOption{simOptCrawler, func(ts *TestSim) {
		for i := 0; i < n; i++ {
			ts.addCrawler(ts.Scene.Spawn())
		}
	}}
}

// NewTestSim constructs a TestSim from the given options in ordered passes:
//  1. Infrastructure (config, seed, verbose, delta)
//  2. Tuning overrides
//  3. Build Arena and Scene
//  4. Crawlers
func NewTestSim(opts ...SimOption) *TestSim {
	ts := &TestSim{
		Config:      DefaultConfig(),
		SimLog:      NewSimLog(false),
		Reporter:    NewSimReporter(reportWindowFrames, false),
		Trackers:    map[int]*CrawlTracker{},
		Delta:       1.0 / 60,
		ReportEvery: 60,
		rng:         rand.New(rand.NewSource(1)), // #nosec G404 -- test harness default
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}
	for _, o := range opts {
		if o.kind == simOptTuning {
			o.fn(ts)
		}
	}
	ts.Scene = NewScene(NewArena(ts.Config), 1, WithRand(ts.rng))
	for _, o := range opts {
		if o.kind == simOptCrawler {
			o.fn(ts)
		}
	}
	return ts
}

// addCrawler registers a tracker for a freshly spawned crawler.
func (ts *TestSim) addCrawler(c *Crawler) {
	ts.Trackers[c.id] = NewCrawlTracker(c)
	ts.SimLog.Add(ts.frame, c.label, "scene", "spawn",
		fmt.Sprintf("(%.2f,%.2f)", c.pose.X, c.pose.Z), 0)
}

// Spawn adds a crawler mid-run at (x, z).
func (ts *TestSim) Spawn(x, z float64) *Crawler {
	c := ts.Scene.SpawnAt(x, ts.Config.SpawnHeight, z)
	ts.addCrawler(c)
	return c
}

// Crawlers returns the live crawlers in spawn order.
func (ts *TestSim) Crawlers() []*Crawler {
	return ts.Scene.Crawlers()
}

// RunFrames advances the simulation n frames, logging events to SimLog.
func (ts *TestSim) RunFrames(n int) {
	for i := 0; i < n; i++ {
		ts.runOneFrame()
	}
}

// RunUntil advances the simulation up to maxFrames, stopping early if
// predicate returns true. Returns the frame at which the predicate was
// satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxFrames int) int {
	for i := 0; i < maxFrames; i++ {
		ts.runOneFrame()
		if predicate(ts) {
			return ts.frame
		}
	}
	return -1
}

// runOneFrame mirrors Game.Update for the headless harness.
func (ts *TestSim) runOneFrame() {
	crawlers := ts.Scene.Crawlers()

	// Snapshot previous states for change detection.
	prevStates := make(map[int]CrawlerState, len(crawlers))
	for _, c := range crawlers {
		prevStates[c.id] = c.state
	}

	reports := ts.Scene.Tick(ts.Delta)
	if len(reports) != len(crawlers) {
		return
	}
	ts.frame = ts.Scene.Frame()
	frame := ts.frame

	// --- Post-frame logging ---

	for i, c := range crawlers {
		rep := reports[i]

		if c.state != prevStates[c.id] {
			ts.SimLog.Add(frame, c.label, "state", "change",
				fmt.Sprintf("%s → %s", prevStates[c.id], c.state), 0)
		}
		if rep.Retargeted {
			tx, tz := c.Target()
			ts.SimLog.Add(frame, c.label, "target", "retarget",
				fmt.Sprintf("%s (%.1f,%.1f)", rep.Strategy, tx, tz), c.distToTarget())
		}
		if rep.StuckEscape {
			ox, oz := c.EscapeOffset()
			ts.SimLog.Add(frame, c.label, "escape", "stuck",
				fmt.Sprintf("offset (%.1f,%.1f)", ox, oz), 0)
		}
		if rep.PauseBegan {
			ts.SimLog.Add(frame, c.label, "pause", "begin",
				fmt.Sprintf("%.2fs", c.PauseRemaining()), c.PauseRemaining())
		}
		if rep.Bounced {
			ts.SimLog.Add(frame, c.label, "move", "bounce",
				fmt.Sprintf("(%.1f,%.1f)", c.pose.X, c.pose.Z), 0)
		}
		if rep.Blocked {
			ts.SimLog.Add(frame, c.label, "move", "blocked",
				fmt.Sprintf("(%.1f,%.1f)", c.pose.X, c.pose.Z), 0)
		}

		tr := ts.Trackers[c.id]
		if tr == nil {
			tr = NewCrawlTracker(c)
			ts.Trackers[c.id] = tr
		}
		before := tr.Violations()
		tr.Update(c, rep, ts.Delta)
		if tr.Violations() > before {
			ts.SimLog.Add(frame, c.label, "invariant", "violation",
				fmt.Sprintf("(%.3f,%.3f) h=%.3f %s", c.pose.X, c.pose.Z, c.pose.Heading, c.state), 0)
		}

		// Verbose: position and stuck timer.
		ts.SimLog.AddVerbose(frame, c.label, "move", "position",
			fmt.Sprintf("(%.2f,%.2f)", c.pose.X, c.pose.Z), 0)
		ts.SimLog.AddVerbose(frame, c.label, "stuck", "timer",
			fmt.Sprintf("%.2fs", c.mv.stuckTimer), c.mv.stuckTimer)
	}

	if ts.ReportEvery > 0 && frame%ts.ReportEvery == 0 {
		ts.Reporter.Collect(ts.Scene)
	}
}

// CurrentFrame returns the current simulation frame.
func (ts *TestSim) CurrentFrame() int {
	return ts.frame
}

// Violations sums invariant breaches across every tracked crawler.
func (ts *TestSim) Violations() int {
	n := 0
	for _, tr := range ts.Trackers {
		n += tr.Violations()
	}
	return n
}

// CrawlGrades grades every crawler tracked so far.
func (ts *TestSim) CrawlGrades() []CrawlGrade {
	return GradeCrawls(ts.Trackers)
}

// SortedTrackers returns the trackers ordered by crawler id.
func (ts *TestSim) SortedTrackers() []*CrawlTracker {
	out := make([]*CrawlTracker, 0, len(ts.Trackers))
	for _, tr := range ts.Trackers {
		out = append(out, tr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SimSnapshot is a lightweight state summary.
type SimSnapshot struct {
	Frame    int
	Crawlers []CrawlerSnapshot
}

// CrawlerSnapshot is a lightweight copy of a crawler's state at a frame.
type CrawlerSnapshot struct {
	Frame            int
	ID               int
	Label            string
	X, Z             float64
	Heading          float64
	State            CrawlerState
	TargetX, TargetZ float64
	StuckFor         float64
}

func snapshotCrawler(frame int, c *Crawler) CrawlerSnapshot {
	return CrawlerSnapshot{
		Frame:    frame,
		ID:       c.id,
		Label:    c.label,
		X:        c.pose.X,
		Z:        c.pose.Z,
		Heading:  c.pose.Heading,
		State:    c.state,
		TargetX:  c.mv.targetX,
		TargetZ:  c.mv.targetZ,
		StuckFor: c.mv.stuckTimer,
	}
}

// Snapshot returns the current state of all crawlers.
func (ts *TestSim) Snapshot() SimSnapshot {
	snap := SimSnapshot{Frame: ts.frame}
	for _, c := range ts.Scene.Crawlers() {
		snap.Crawlers = append(snap.Crawlers, snapshotCrawler(ts.frame, c))
	}
	return snap
}
