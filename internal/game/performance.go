package game

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Crawl grading thresholds.
const (
	coverageCell       = 1.0  // world units per coverage cell
	perfMinFrames      = 60   // frames before a crawler is graded
	perfCoverageTarget = 0.6  // coverage fraction that earns full marks
	perfEscapePenalty  = 8.0  // points per stuck escape per simulated minute
	perfBlockedPenalty = 0.5  // points per blocked move per simulated minute
	turnSlack          = 1e-9 // float noise allowed on the turn bound
)

// ---------------------------------------------------------------------------
// CrawlTracker: per-crawler, per-frame accumulator
// ---------------------------------------------------------------------------

// CrawlTracker accumulates per-frame movement metrics for one crawler and
// checks the steering invariants after every step.
type CrawlTracker struct {
	Label string
	ID    int

	Frames  int
	Elapsed float64

	// State-time counters (seconds).
	TimeExploring float64
	TimeAvoiding  float64
	TimePaused    float64
	TimeEscaping  float64

	// Event counters.
	Retargets          int
	StrategyCounts     [exploreStrategyCount]int
	TargetLinesBlocked int // retargets whose straight line crosses a chart
	StuckEscapes       int
	Pauses             int
	AvoidFrames        int
	Bounces            int
	Blocked            int

	// Invariant violations.
	ZoneViolations   int
	BoundsViolations int
	TurnViolations   int
	StuckViolations  int

	// Aggregates.
	DistanceTraveled float64
	MinZoneDistance  float64

	// Internal.
	walk        Rect
	cols, rows  int
	visited     map[int]struct{}
	prevHeading float64
}

// NewCrawlTracker creates a tracker seeded from the crawler's current pose.
func NewCrawlTracker(c *Crawler) *CrawlTracker {
	walk := c.arena.Walk
	return &CrawlTracker{
		Label:           c.label,
		ID:              c.id,
		MinZoneDistance: math.Inf(1),
		walk:            walk,
		cols:            int(math.Ceil(walk.Width() / coverageCell)),
		rows:            int(math.Ceil(walk.Depth() / coverageCell)),
		visited:         map[int]struct{}{},
		prevHeading:     c.pose.Heading,
	}
}

// Update accumulates one frame of data from the crawler and the report its
// Step returned.
func (ct *CrawlTracker) Update(c *Crawler, rep StepReport, delta float64) {
	ct.Frames++
	ct.Elapsed += delta
	ct.DistanceTraveled += rep.Moved

	switch c.state {
	case CrawlerExploring:
		ct.TimeExploring += delta
	case CrawlerAvoiding:
		ct.TimeAvoiding += delta
	case CrawlerPaused:
		ct.TimePaused += delta
	case CrawlerEscaping:
		ct.TimeEscaping += delta
	}

	if rep.Retargeted {
		ct.Retargets++
		ct.StrategyCounts[rep.Strategy]++
		tx, tz := c.Target()
		if !c.arena.Field.SegmentClear(c.pose.X, c.pose.Z, tx, tz) {
			ct.TargetLinesBlocked++
		}
	}
	if rep.StuckEscape {
		ct.StuckEscapes++
	}
	if rep.PauseBegan {
		ct.Pauses++
	}
	if rep.Avoided {
		ct.AvoidFrames++
	}
	if rep.Bounced {
		ct.Bounces++
	}
	if rep.Blocked {
		ct.Blocked++
	}

	p := c.pose
	reading := c.arena.Field.Detect(p.X, p.Z)
	if reading.Detected {
		ct.ZoneViolations++
	}
	if reading.Distance < ct.MinZoneDistance {
		ct.MinZoneDistance = reading.Distance
	}
	if !ct.walk.Contains(p.X, p.Z) {
		ct.BoundsViolations++
	}
	limit := c.arena.Tuning.maxTurnRate(c.state) * delta
	if math.Abs(normalizeAngle(p.Heading-ct.prevHeading)) > limit+turnSlack {
		ct.TurnViolations++
	}
	ct.prevHeading = p.Heading
	if c.mv.stuckTimer > c.arena.Tuning.StuckTimeout {
		ct.StuckViolations++
	}

	ct.visit(p.X, p.Z)
}

func (ct *CrawlTracker) visit(x, z float64) {
	col := int((x - ct.walk.MinX) / coverageCell)
	row := int((z - ct.walk.MinZ) / coverageCell)
	if col < 0 || row < 0 || col >= ct.cols || row >= ct.rows {
		return
	}
	ct.visited[row*ct.cols+col] = struct{}{}
}

// Coverage is the fraction of walkable cells visited at least once.
func (ct *CrawlTracker) Coverage() float64 {
	total := ct.cols * ct.rows
	if total == 0 {
		return 0
	}
	return float64(len(ct.visited)) / float64(total)
}

// Violations is the total number of invariant breaches seen.
func (ct *CrawlTracker) Violations() int {
	return ct.ZoneViolations + ct.BoundsViolations + ct.TurnViolations + ct.StuckViolations
}

// ---------------------------------------------------------------------------
// CrawlGrade: computed result
// ---------------------------------------------------------------------------

// CrawlGrade is the computed exploration grade for one crawler.
type CrawlGrade struct {
	Label string
	ID    int
	Grade string  // A+, A, B+, B, C+, C, D, F
	Score float64 // 0-100

	CoveragePct   float64
	Distance      float64
	EscapesPerMin float64
	StateShare    map[CrawlerState]float64 // percent of time per state
	Violations    int

	Notes []string
}

// GradeCrawls computes grades from accumulated tracker data, best first.
func GradeCrawls(trackers map[int]*CrawlTracker) []CrawlGrade {
	grades := make([]CrawlGrade, 0, len(trackers))
	for _, ct := range trackers {
		grades = append(grades, computeCrawlGrade(ct))
	}
	sort.Slice(grades, func(i, j int) bool {
		if grades[i].Score != grades[j].Score {
			return grades[i].Score > grades[j].Score
		}
		return grades[i].ID < grades[j].ID
	})
	return grades
}

func computeCrawlGrade(ct *CrawlTracker) CrawlGrade {
	g := CrawlGrade{
		Label:       ct.Label,
		ID:          ct.ID,
		CoveragePct: ct.Coverage() * 100,
		Distance:    ct.DistanceTraveled,
		Violations:  ct.Violations(),
		StateShare:  map[CrawlerState]float64{},
	}
	if ct.Elapsed > 0 {
		g.StateShare[CrawlerExploring] = ct.TimeExploring / ct.Elapsed * 100
		g.StateShare[CrawlerAvoiding] = ct.TimeAvoiding / ct.Elapsed * 100
		g.StateShare[CrawlerPaused] = ct.TimePaused / ct.Elapsed * 100
		g.StateShare[CrawlerEscaping] = ct.TimeEscaping / ct.Elapsed * 100
	}
	minutes := ct.Elapsed / 60

	if ct.Frames < perfMinFrames || minutes <= 0 {
		g.Grade = "-"
		g.Notes = append(g.Notes, "too short to grade")
		return g
	}
	g.EscapesPerMin = float64(ct.StuckEscapes) / minutes

	score := math.Min(1, ct.Coverage()/perfCoverageTarget) * 100
	score -= g.EscapesPerMin * perfEscapePenalty
	score -= float64(ct.Blocked) / minutes * perfBlockedPenalty
	g.Score = perfClamp(score)

	if g.Violations > 0 {
		g.Score = 0
		g.Notes = append(g.Notes, fmt.Sprintf("%d invariant violations", g.Violations))
	}
	if ct.StuckEscapes == 0 {
		g.Notes = append(g.Notes, "never stuck")
	}
	if g.StateShare[CrawlerAvoiding] > 25 {
		g.Notes = append(g.Notes, "hugs charts")
	}
	if ct.Retargets > 0 && float64(ct.TargetLinesBlocked)/float64(ct.Retargets) > 0.5 {
		g.Notes = append(g.Notes, "targets behind charts")
	}
	g.Grade = PerfLetterGrade(g.Score)
	return g
}

// ---------------------------------------------------------------------------
// Formatting
// ---------------------------------------------------------------------------

// FormatGrades returns a human-readable crawl report.
func FormatGrades(grades []CrawlGrade) string {
	var sb strings.Builder
	sb.WriteString("\n=== Crawler Exploration Grades ===\n")
	for _, g := range grades {
		fmt.Fprintf(&sb, "  %-3s  %-4s  coverage=%.0f%%  dist=%.1f  escapes/min=%.2f  violations=%d\n",
			g.Grade, g.Label, g.CoveragePct, g.Distance, g.EscapesPerMin, g.Violations)
		fmt.Fprintf(&sb, "       time: explore=%.0f%% avoid=%.0f%% pause=%.0f%% escape=%.0f%%\n",
			g.StateShare[CrawlerExploring], g.StateShare[CrawlerAvoiding],
			g.StateShare[CrawlerPaused], g.StateShare[CrawlerEscaping])
		if len(g.Notes) > 0 {
			fmt.Fprintf(&sb, "       Notes: %s\n", strings.Join(g.Notes, ", "))
		}
	}
	return sb.String()
}

// FormatGradesSummary returns a compact one-block summary of all grades.
func FormatGradesSummary(grades []CrawlGrade) string {
	if len(grades) == 0 {
		return "  no crawlers graded\n"
	}
	var scoreSum, coverSum float64
	violations := 0
	notes := map[string]int{}
	for _, g := range grades {
		scoreSum += g.Score
		coverSum += g.CoveragePct
		violations += g.Violations
		for _, n := range g.Notes {
			notes[n]++
		}
	}
	n := float64(len(grades))
	var sb strings.Builder
	fmt.Fprintf(&sb, "  avg_score=%.1f (%s)  avg_coverage=%.1f%%  violations=%d\n",
		scoreSum/n, PerfLetterGrade(scoreSum/n), coverSum/n, violations)
	if len(notes) > 0 {
		fmt.Fprintf(&sb, "  Notes: %s\n", perfTopTraits(notes, 4))
	}
	return sb.String()
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func perfClamp(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// PerfLetterGrade maps a 0-100 score to a letter grade.
func PerfLetterGrade(score float64) string {
	switch {
	case score >= 93:
		return "A+"
	case score >= 85:
		return "A"
	case score >= 78:
		return "B+"
	case score >= 70:
		return "B"
	case score >= 62:
		return "C+"
	case score >= 55:
		return "C"
	case score >= 45:
		return "D"
	default:
		return "F"
	}
}

func perfTopTraits(counts map[string]int, n int) string {
	type kv struct {
		trait string
		count int
	}
	var items []kv
	for k, v := range counts {
		items = append(items, kv{k, v})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].count != items[j].count {
			return items[i].count > items[j].count
		}
		return items[i].trait < items[j].trait
	})
	if len(items) > n {
		items = items[:n]
	}
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%s(%d)", it.trait, it.count)
	}
	return strings.Join(parts, ", ")
}
