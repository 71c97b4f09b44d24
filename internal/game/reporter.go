package game

import (
	"fmt"
	"math"
	"strings"
)

// reportWindowFrames is the default sliding window for recent-behaviour reports (~10s at 60FPS).
const reportWindowFrames = 600

// allStates lists crawler states in display order.
var allStates = []CrawlerState{CrawlerExploring, CrawlerAvoiding, CrawlerPaused, CrawlerEscaping}

// --- Snapshot types ---

// CrawlerReport captures a single crawler's state at one point in time.
type CrawlerReport struct {
	ID           int
	Label        string
	State        CrawlerState
	X, Z         float64
	Heading      float64
	Speed        float64
	StuckFor     float64
	ZoneDistance float64 // distance to the nearest chart, +Inf with no charts
	TargetClear  bool    // straight line to the target misses every chart
	Turning      bool
}

// SceneReport is a full snapshot of the scene at one frame.
type SceneReport struct {
	Frame   int
	Elapsed float64

	StateCounts map[CrawlerState]int

	Crawlers       int
	BlockedTargets int     // crawlers whose target line crosses a chart
	TurningCount   int     // crawlers whose heading lags their travel
	AvgSpeed       float64 // mean ground speed of crawlers that moved
	NearestZone    float64 // closest any crawler got to a chart this frame

	// Detail (optional, for verbose mode).
	Details []CrawlerReport
}

// --- Reporter ---

// SimReporter collects periodic reports from the scene and can produce
// summaries over sliding time windows.
type SimReporter struct {
	history      []SceneReport
	windowFrames int
	verbose      bool
}

// NewSimReporter creates a reporter with the given window size.
func NewSimReporter(windowFrames int, verbose bool) *SimReporter {
	if windowFrames <= 0 {
		windowFrames = reportWindowFrames
	}
	return &SimReporter{
		windowFrames: windowFrames,
		verbose:      verbose,
	}
}

// Collect gathers a snapshot from the current scene state.
// Call this periodically (e.g. every 60 frames / 1s).
func (r *SimReporter) Collect(s *Scene) {
	report := SceneReport{
		Frame:       s.frame,
		Elapsed:     s.elapsed,
		StateCounts: make(map[CrawlerState]int),
		Crawlers:    len(s.crawlers),
		NearestZone: math.Inf(1),
	}

	moving := 0
	for _, c := range s.crawlers {
		cr := crawlerReport(s.arena, c)
		report.StateCounts[cr.State]++
		if !cr.TargetClear {
			report.BlockedTargets++
		}
		if cr.Turning {
			report.TurningCount++
		}
		if cr.Speed > 0 {
			report.AvgSpeed += cr.Speed
			moving++
		}
		if cr.ZoneDistance < report.NearestZone {
			report.NearestZone = cr.ZoneDistance
		}
		if r.verbose {
			report.Details = append(report.Details, cr)
		}
	}
	if moving > 0 {
		report.AvgSpeed /= float64(moving)
	}

	r.history = append(r.history, report)
}

func crawlerReport(a *Arena, c *Crawler) CrawlerReport {
	tx, tz := c.Target()
	vx, vz := c.Velocity()
	return CrawlerReport{
		ID:           c.id,
		Label:        c.label,
		State:        c.state,
		X:            c.pose.X,
		Z:            c.pose.Z,
		Heading:      c.pose.Heading,
		Speed:        math.Hypot(vx, vz),
		StuckFor:     c.StuckFor(),
		ZoneDistance: a.Field.Detect(c.pose.X, c.pose.Z).Distance,
		TargetClear:  a.Field.SegmentClear(c.pose.X, c.pose.Z, tx, tz),
		Turning:      c.Turning(),
	}
}

// Latest returns the most recent report, or nil.
func (r *SimReporter) Latest() *SceneReport {
	if len(r.history) == 0 {
		return nil
	}
	return &r.history[len(r.history)-1]
}

// WindowSummary returns an aggregated summary over the recent time window.
// It averages state proportions, speed and blocked target lines across all
// reports in the window.
func (r *SimReporter) WindowSummary() *WindowReport {
	if len(r.history) == 0 {
		return nil
	}

	// Find reports within the window.
	latest := r.history[len(r.history)-1].Frame
	cutoff := latest - r.windowFrames
	var window []SceneReport
	for i := len(r.history) - 1; i >= 0; i-- {
		if r.history[i].Frame < cutoff {
			break
		}
		window = append(window, r.history[i])
	}

	n := float64(len(window))
	wr := &WindowReport{
		FromFrame:   window[len(window)-1].Frame,
		ToFrame:     window[0].Frame,
		SampleCount: len(window),
		StatePct:    make(map[CrawlerState]float64),
		NearestZone: math.Inf(1),
	}

	stateTotal := make(map[CrawlerState]float64)
	var total float64
	for _, rpt := range window {
		for st, c := range rpt.StateCounts {
			stateTotal[st] += float64(c)
			total += float64(c)
		}
		wr.AvgCrawlers += float64(rpt.Crawlers)
		wr.AvgBlockedTargets += float64(rpt.BlockedTargets)
		wr.AvgTurning += float64(rpt.TurningCount)
		wr.AvgSpeed += rpt.AvgSpeed
		wr.NearestZone = math.Min(wr.NearestZone, rpt.NearestZone)
	}

	if total > 0 {
		for st, c := range stateTotal {
			wr.StatePct[st] = c / total * 100
		}
	}
	wr.AvgCrawlers /= n
	wr.AvgBlockedTargets /= n
	wr.AvgTurning /= n
	wr.AvgSpeed /= n

	return wr
}

// WindowReport is an aggregated summary over a time window.
type WindowReport struct {
	FromFrame, ToFrame int
	SampleCount        int

	// State distribution as percentages (0-100).
	StatePct map[CrawlerState]float64

	// Averages over the window.
	AvgCrawlers       float64
	AvgBlockedTargets float64
	AvgTurning        float64
	AvgSpeed          float64

	// Extremes.
	NearestZone float64
}

// Format returns a human-readable multi-line string of the window summary.
func (wr *WindowReport) Format() string {
	if wr == nil {
		return "No data collected yet.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Crawl Report (F=%d..%d, %d samples) ===\n",
		wr.FromFrame, wr.ToFrame, wr.SampleCount)

	sb.WriteString("\n--- State Distribution ---\n")
	for _, st := range allStates {
		if pct, ok := wr.StatePct[st]; ok && pct > 0.5 {
			fmt.Fprintf(&sb, "  %-10s %5.1f%%\n", st, pct)
		}
	}

	sb.WriteString("\n--- Movement ---\n")
	fmt.Fprintf(&sb, "  crawlers=%.1f  avg_speed=%.2f  turning=%.1f\n",
		wr.AvgCrawlers, wr.AvgSpeed, wr.AvgTurning)

	sb.WriteString("\n--- Charts ---\n")
	fmt.Fprintf(&sb, "  blocked_target_lines=%.1f  nearest_approach=%s\n",
		wr.AvgBlockedTargets, formatDistance(wr.NearestZone))

	return sb.String()
}

func formatDistance(d float64) string {
	if math.IsInf(d, 1) {
		return "none"
	}
	return fmt.Sprintf("%.2f", d)
}

// FormatLatest returns a concise snapshot of the most recent collected report.
func (r *SimReporter) FormatLatest() string {
	rpt := r.Latest()
	if rpt == nil {
		return "No data.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Snapshot F=%d (%.1fs) ---\n", rpt.Frame, rpt.Elapsed)
	fmt.Fprintf(&sb, "crawlers=%d blocked_targets=%d turning=%d avg_speed=%.2f nearest_zone=%s\n",
		rpt.Crawlers, rpt.BlockedTargets, rpt.TurningCount, rpt.AvgSpeed, formatDistance(rpt.NearestZone))
	sb.WriteString("states: ")
	for _, st := range allStates {
		fmt.Fprintf(&sb, "%s=%d ", st, rpt.StateCounts[st])
	}
	sb.WriteByte('\n')
	for _, cr := range rpt.Details {
		fmt.Fprintf(&sb, "  %-4s %-9s (%.1f,%.1f) speed=%.2f stuck=%.2fs\n",
			cr.Label, cr.State, cr.X, cr.Z, cr.Speed, cr.StuckFor)
	}
	return sb.String()
}

// History returns all collected reports.
func (r *SimReporter) History() []SceneReport {
	return r.history
}

// StateProportions computes the share of each state across the crawlers.
func StateProportions(crawlers []*Crawler) map[CrawlerState]float64 {
	out := make(map[CrawlerState]float64)
	if len(crawlers) == 0 {
		return out
	}
	for _, c := range crawlers {
		out[c.state]++
	}
	for st := range out {
		out[st] /= float64(len(crawlers))
	}
	return out
}
