package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"

	"github.com/Garsondee/Bug-In-Dashboard/internal/game"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type batchOptions struct {
	runs     int
	frames   int
	delta    float64
	crawlers int
	seedBase int64
	seedStep int64
	workers  int
	cfg      game.Config
}

type runStats struct {
	runIndex int
	seed     int64

	firstEscapeFrame int
	firstAvoidFrame  int

	stateChanges int
	retargets    int
	escapes      int
	pauses       int
	avoidFrames  int
	bounces      int
	blocked      int
	violations   int

	distance    float64 // summed over crawlers
	coveragePct float64 // mean over crawlers
	timeShare   map[game.CrawlerState]float64
	strategies  map[string]int

	windowSummary *game.WindowReport
	grades        []game.CrawlGrade
}

func main() {
	var opts batchOptions
	var configPath string

	flag.IntVar(&opts.runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&opts.frames, "frames", 3600, "frames per run")
	flag.Float64Var(&opts.delta, "delta", 1.0/60, "seconds per frame")
	flag.IntVar(&opts.crawlers, "crawlers", 4, "crawlers per run")
	flag.Int64Var(&opts.seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&opts.seedStep, "seed-step", 1, "seed increment between runs")
	flag.IntVar(&opts.workers, "workers", runtime.NumCPU(), "runs simulated in parallel")
	flag.StringVar(&configPath, "config", "", "scene config YAML (default: built-in dashboard)")
	flag.Parse()

	opts.cfg = game.DefaultConfig()
	if configPath != "" {
		cfg, err := game.LoadConfigFile(configPath)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			os.Exit(2)
		}
		opts.cfg = cfg
	}
	if err := opts.validate(); err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(2)
	}

	batch := uuid.NewString()
	fmt.Printf("=== Headless Crawl Report ===\n")
	fmt.Printf("batch=%s runs=%d frames=%d delta=%.4f crawlers=%d seed_base=%d seed_step=%d workers=%d\n\n",
		batch, opts.runs, opts.frames, opts.delta, opts.crawlers, opts.seedBase, opts.seedStep, opts.workers)

	all, err := runBatch(context.Background(), opts)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	for _, rs := range all {
		printRun(rs)
	}
	printAggregate(all)

	if v := totalViolations(all); v > 0 {
		fmt.Printf("\nFAIL: %d invariant violations\n", v)
		os.Exit(1)
	}
}

func (o batchOptions) validate() error {
	switch {
	case o.runs <= 0:
		return fmt.Errorf("-runs must be > 0")
	case o.frames <= 0:
		return fmt.Errorf("-frames must be > 0")
	case o.delta <= 0:
		return fmt.Errorf("-delta must be > 0")
	case o.crawlers <= 0:
		return fmt.Errorf("-crawlers must be > 0")
	case o.workers <= 0:
		return fmt.Errorf("-workers must be > 0")
	}
	return nil
}

// runBatch simulates every run, at most o.workers at a time. Results come
// back in run order regardless of scheduling.
func runBatch(ctx context.Context, o batchOptions) ([]runStats, error) {
	out := make([]runStats, o.runs)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i := 0; i < o.runs; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = runCrawl(i+1, o.seedBase+int64(i)*o.seedStep, o)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func runCrawl(runIndex int, seed int64, o batchOptions) runStats {
	ts := game.NewTestSim(
		game.WithConfig(o.cfg),
		game.WithSeed(seed),
		game.WithDelta(o.delta),
		game.WithCrawlers(o.crawlers),
	)
	ts.RunFrames(o.frames)

	rs := runStats{
		runIndex:         runIndex,
		seed:             seed,
		firstEscapeFrame: firstFrame(ts.SimLog.Entries(), "escape", "stuck", ""),
		firstAvoidFrame:  firstFrame(ts.SimLog.Entries(), "state", "change", "→ avoiding"),
		stateChanges:     ts.SimLog.CountCategory("state", "change"),
		timeShare:        map[game.CrawlerState]float64{},
		strategies:       map[string]int{},
		windowSummary:    ts.Reporter.WindowSummary(),
		grades:           ts.CrawlGrades(),
	}

	elapsed := 0.0
	trackers := ts.SortedTrackers()
	for _, tr := range trackers {
		rs.retargets += tr.Retargets
		rs.escapes += tr.StuckEscapes
		rs.pauses += tr.Pauses
		rs.avoidFrames += tr.AvoidFrames
		rs.bounces += tr.Bounces
		rs.blocked += tr.Blocked
		rs.violations += tr.Violations()
		rs.distance += tr.DistanceTraveled
		rs.coveragePct += tr.Coverage() * 100
		for s, n := range tr.StrategyCounts {
			if n > 0 {
				rs.strategies[game.ExploreStrategy(s).String()] += n
			}
		}
		rs.timeShare[game.CrawlerExploring] += tr.TimeExploring
		rs.timeShare[game.CrawlerAvoiding] += tr.TimeAvoiding
		rs.timeShare[game.CrawlerPaused] += tr.TimePaused
		rs.timeShare[game.CrawlerEscaping] += tr.TimeEscaping
		elapsed += tr.Elapsed
	}
	if len(trackers) > 0 {
		rs.coveragePct /= float64(len(trackers))
	}
	if elapsed > 0 {
		for s := range rs.timeShare {
			rs.timeShare[s] = rs.timeShare[s] / elapsed * 100
		}
	}
	return rs
}

func firstFrame(entries []game.SimLogEntry, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Frame
		}
	}
	return -1
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("phase_markers: first_avoid=%d first_escape=%d\n", rs.firstAvoidFrame, rs.firstEscapeFrame)
	fmt.Printf("movement: distance=%.1f coverage=%.1f%%\n", rs.distance, rs.coveragePct)
	fmt.Printf("time_share: exploring=%.1f%% avoiding=%.1f%% paused=%.1f%% escaping=%.1f%%\n",
		rs.timeShare[game.CrawlerExploring], rs.timeShare[game.CrawlerAvoiding],
		rs.timeShare[game.CrawlerPaused], rs.timeShare[game.CrawlerEscaping])
	fmt.Printf("event_totals: state_change=%d retarget=%d escape=%d pause=%d avoid_frames=%d bounce=%d blocked=%d\n",
		rs.stateChanges, rs.retargets, rs.escapes, rs.pauses, rs.avoidFrames, rs.bounces, rs.blocked)
	fmt.Printf("strategies: %s\n", joinCounts(rs.strategies))
	fmt.Printf("invariant_violations=%d\n", rs.violations)
	if rs.windowSummary != nil {
		fmt.Printf("window_samples=%d window_frame_range=%d..%d\n",
			rs.windowSummary.SampleCount, rs.windowSummary.FromFrame, rs.windowSummary.ToFrame)
		fmt.Printf("window_avg: crawlers=%.1f speed=%.2f turning=%.1f blocked_targets=%.1f\n",
			rs.windowSummary.AvgCrawlers,
			rs.windowSummary.AvgSpeed,
			rs.windowSummary.AvgTurning,
			rs.windowSummary.AvgBlockedTargets,
		)
	}
	fmt.Print(game.FormatGrades(rs.grades))
	fmt.Println()
}

func printAggregate(all []runStats) {
	var distance, coverage float64
	totalEscapes, totalPauses, totalBounces, totalBlocked, totalAvoid, totalChanges := 0, 0, 0, 0, 0, 0
	escapeFrames := make([]int, 0, len(all))
	avoidFrames := make([]int, 0, len(all))
	share := map[game.CrawlerState]float64{}
	strategies := map[string]int{}

	// Aggregate per-crawler scores across runs.
	type crawlerAgg struct {
		scoreSum float64
		count    int
		notes    map[string]int
	}
	aggs := map[string]*crawlerAgg{}

	for _, rs := range all {
		distance += rs.distance
		coverage += rs.coveragePct
		totalEscapes += rs.escapes
		totalPauses += rs.pauses
		totalBounces += rs.bounces
		totalBlocked += rs.blocked
		totalAvoid += rs.avoidFrames
		totalChanges += rs.stateChanges
		if rs.firstEscapeFrame >= 0 {
			escapeFrames = append(escapeFrames, rs.firstEscapeFrame)
		}
		if rs.firstAvoidFrame >= 0 {
			avoidFrames = append(avoidFrames, rs.firstAvoidFrame)
		}
		for s, v := range rs.timeShare {
			share[s] += v
		}
		for k, v := range rs.strategies {
			strategies[k] += v
		}
		for _, g := range rs.grades {
			ag, ok := aggs[g.Label]
			if !ok {
				ag = &crawlerAgg{notes: map[string]int{}}
				aggs[g.Label] = ag
			}
			ag.scoreSum += g.Score
			ag.count++
			for _, n := range g.Notes {
				ag.notes[n]++
			}
		}
	}
	n := len(all)

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d\n", n)
	fmt.Printf("avg_per_run: distance=%.1f coverage=%.1f%% state_change=%.1f escape=%.1f pause=%.1f avoid_frames=%.1f bounce=%.1f blocked=%.1f\n",
		avgFloat(distance, n), avgFloat(coverage, n), avg(totalChanges, n), avg(totalEscapes, n),
		avg(totalPauses, n), avg(totalAvoid, n), avg(totalBounces, n), avg(totalBlocked, n))
	fmt.Printf("avg_time_share: exploring=%.1f%% avoiding=%.1f%% paused=%.1f%% escaping=%.1f%%\n",
		avgFloat(share[game.CrawlerExploring], n), avgFloat(share[game.CrawlerAvoiding], n),
		avgFloat(share[game.CrawlerPaused], n), avgFloat(share[game.CrawlerEscaping], n))
	fmt.Printf("phase_marker_avg_frames: first_avoid=%s first_escape=%s\n",
		avgFrameString(avoidFrames), avgFrameString(escapeFrames))
	fmt.Printf("strategies: %s\n", joinCounts(strategies))

	fmt.Println("\n=== Aggregate Crawler Performance ===")
	labels := make([]string, 0, len(aggs))
	for label := range aggs {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		ag := aggs[label]
		avgS := ag.scoreSum / float64(ag.count)
		fmt.Printf("  %s  %s (avg=%.1f)", label, game.PerfLetterGrade(avgS), avgS)
		if top := topTrait(ag.notes); top != "" {
			fmt.Printf("  notes=%s", top)
		}
		fmt.Println()
	}

	if n > 0 {
		fmt.Println("\n--- Summary (across all runs) ---")
		fmt.Print(game.FormatGradesSummary(collectAllGrades(all)))
	}
}

func totalViolations(all []runStats) int {
	v := 0
	for _, rs := range all {
		v += rs.violations
	}
	return v
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgFloat(sum float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return sum / float64(n)
}

func avgFrameString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

// topTrait returns the most frequent key, ties broken alphabetically.
func topTrait(counts map[string]int) string {
	if len(counts) == 0 {
		return ""
	}
	best := ""
	bestN := 0
	for k, v := range counts {
		if v > bestN || (v == bestN && k < best) {
			best = k
			bestN = v
		}
	}
	return fmt.Sprintf("%s(%d)", best, bestN)
}

func collectAllGrades(all []runStats) []game.CrawlGrade {
	var out []game.CrawlGrade
	for _, rs := range all {
		out = append(out, rs.grades...)
	}
	return out
}

func joinCounts(m map[string]int) string {
	if len(m) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, m[k])
	}
	return strings.Join(parts, " ")
}
