package game

import (
	"fmt"
	"math"
	"strings"
)

// historyFrames is how many per-frame snapshots each crawler keeps for the
// debug report.
const historyFrames = 600

// crawlHistory is a ring of recent snapshots for one crawler.
type crawlHistory struct {
	snaps []CrawlerSnapshot
	head  int
	count int
}

func newCrawlHistory() *crawlHistory {
	return &crawlHistory{snaps: make([]CrawlerSnapshot, historyFrames)}
}

func (h *crawlHistory) record(frame int, c *Crawler) {
	h.snaps[h.head] = snapshotCrawler(frame, c)
	h.head = (h.head + 1) % historyFrames
	if h.count < historyFrames {
		h.count++
	}
}

// since returns the snapshots at or after fromFrame, oldest first.
func (h *crawlHistory) since(fromFrame int) []CrawlerSnapshot {
	out := make([]CrawlerSnapshot, 0, h.count)
	for i := 0; i < h.count; i++ {
		s := h.snaps[(h.head-h.count+i+historyFrames)%historyFrames]
		if s.Frame >= fromFrame {
			out = append(out, s)
		}
	}
	return out
}

// crawlerDebugReport renders the selected crawler's recent history as plain
// text for pasting into a bug report.
func crawlerDebugReport(sceneID string, frame int, c *Crawler, hist *crawlHistory, tr *CrawlTracker, lastFrames int) string {
	if c == nil {
		return ""
	}
	if lastFrames <= 0 {
		lastFrames = 120
	}
	fromFrame := frame - lastFrames + 1
	if fromFrame < 0 {
		fromFrame = 0
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- Bug in Dashboard debug report ---\n")
	fmt.Fprintf(&b, "scene=%s frame_range=[%d..%d] frames=%d\n", sceneID, fromFrame, frame, frame-fromFrame+1)
	p := c.Pose()
	tx, tz := c.Target()
	fmt.Fprintf(&b, "selected=%s state=%s pos=(%.2f,%.2f) heading=%.2f target=(%.2f,%.2f) stuck=%.2fs\n",
		c.Label(), c.State(), p.X, p.Z, p.Heading, tx, tz, c.StuckFor())
	if tr != nil {
		fmt.Fprintf(&b, "lifetime: frames=%d dist=%.1f coverage=%.0f%% retargets=%d escapes=%d pauses=%d bounces=%d blocked=%d violations=%d\n",
			tr.Frames, tr.DistanceTraveled, tr.Coverage()*100, tr.Retargets, tr.StuckEscapes, tr.Pauses, tr.Bounces, tr.Blocked, tr.Violations())
	}
	b.WriteByte('\n')

	if hist == nil {
		b.WriteString("(no snapshots recorded yet)\n")
		return b.String()
	}
	snaps := hist.since(fromFrame)
	if len(snaps) == 0 {
		b.WriteString("(no snapshots recorded yet)\n")
		return b.String()
	}

	sum := summarizeSnapshots(snaps)
	fmt.Fprintf(&b, "summary: exploring=%d avoiding=%d paused=%d escaping=%d movedFrames=%d maxStillRun=%d maxStuck=%.2fs\n",
		sum.byState[CrawlerExploring], sum.byState[CrawlerAvoiding], sum.byState[CrawlerPaused], sum.byState[CrawlerEscaping],
		sum.movedFrames, sum.maxStillRun, sum.maxStuck)

	b.WriteString("story:\n")
	events := storyEvents(snaps)
	if len(events) == 0 {
		b.WriteString("  (no transitions)\n")
	}
	for _, e := range events {
		b.WriteString("  ")
		b.WriteString(e)
		b.WriteByte('\n')
	}

	b.WriteString("stages:\n")
	for _, st := range buildStages(snaps) {
		fmt.Fprintf(&b, "  F=%d..%d (%d) %s moved=%.2f target=(%.1f,%.1f)\n",
			st.startFrame, st.endFrame, st.count, st.state, st.movedDistance, st.last.TargetX, st.last.TargetZ)
	}
	return b.String()
}

type crawlSnapshotSummary struct {
	byState     map[CrawlerState]int
	movedFrames int
	maxStillRun int
	maxStuck    float64
}

func summarizeSnapshots(snaps []CrawlerSnapshot) crawlSnapshotSummary {
	res := crawlSnapshotSummary{byState: make(map[CrawlerState]int, len(allStates))}
	stillRun := 0
	for i, s := range snaps {
		res.byState[s.State]++
		if s.StuckFor > res.maxStuck {
			res.maxStuck = s.StuckFor
		}
		if i == 0 {
			continue
		}
		if math.Hypot(s.X-snaps[i-1].X, s.Z-snaps[i-1].Z) > 1e-3 {
			res.movedFrames++
			stillRun = 0
			continue
		}
		stillRun++
		if stillRun > res.maxStillRun {
			res.maxStillRun = stillRun
		}
	}
	return res
}

type reportStage struct {
	startFrame    int
	endFrame      int
	count         int
	state         CrawlerState
	first         CrawlerSnapshot
	last          CrawlerSnapshot
	movedDistance float64
}

// buildStages splits snapshots into runs of the same state.
func buildStages(snaps []CrawlerSnapshot) []reportStage {
	if len(snaps) == 0 {
		return nil
	}
	stages := make([]reportStage, 0, 8)
	start := 0
	for i := 1; i < len(snaps); i++ {
		if snaps[i].State == snaps[start].State {
			continue
		}
		stages = append(stages, makeStage(snaps, start, i-1))
		start = i
	}
	return append(stages, makeStage(snaps, start, len(snaps)-1))
}

func makeStage(snaps []CrawlerSnapshot, start, end int) reportStage {
	moved := 0.0
	for i := start + 1; i <= end; i++ {
		moved += math.Hypot(snaps[i].X-snaps[i-1].X, snaps[i].Z-snaps[i-1].Z)
	}
	return reportStage{
		startFrame:    snaps[start].Frame,
		endFrame:      snaps[end].Frame,
		count:         end - start + 1,
		state:         snaps[start].State,
		first:         snaps[start],
		last:          snaps[end],
		movedDistance: moved,
	}
}

func storyEvents(snaps []CrawlerSnapshot) []string {
	var out []string
	for i := 1; i < len(snaps); i++ {
		prev, cur := snaps[i-1], snaps[i]
		if cur.State != prev.State {
			out = append(out, fmt.Sprintf("F=%d state %s -> %s", cur.Frame, prev.State, cur.State))
		}
		if cur.TargetX != prev.TargetX || cur.TargetZ != prev.TargetZ {
			out = append(out, fmt.Sprintf("F=%d target (%.1f,%.1f) -> (%.1f,%.1f)", cur.Frame, prev.TargetX, prev.TargetZ, cur.TargetX, cur.TargetZ))
		}
	}
	if len(out) > 24 {
		out = append(out[:24], fmt.Sprintf("... (%d more events)", len(out)-24))
	}
	return out
}
