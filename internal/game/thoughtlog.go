package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	logPanelWidth = 320
	logMaxEntries = 60
	logLineHeight = 11
)

// stateColors is the indicator colour of each crawler state, shared by the
// log panel, the floor view and the terminal viewer.
var stateColors = map[CrawlerState]color.RGBA{
	CrawlerExploring: {R: 120, G: 200, B: 120, A: 255},
	CrawlerAvoiding:  {R: 230, G: 190, B: 60, A: 255},
	CrawlerPaused:    {R: 140, G: 140, B: 160, A: 255},
	CrawlerEscaping:  {R: 230, G: 80, B: 70, A: 255},
}

// ThoughtEntry is a single line in the event log.
type ThoughtEntry struct {
	Frame   int
	Label   string // e.g. "S1"
	State   CrawlerState
	Message string
}

// ThoughtLog is a ring buffer of crawler events rendered on-screen.
type ThoughtLog struct {
	entries []ThoughtEntry
	head    int
	count   int
}

// NewThoughtLog creates an event log with a fixed capacity.
func NewThoughtLog() *ThoughtLog {
	return &ThoughtLog{
		entries: make([]ThoughtEntry, logMaxEntries),
	}
}

// Add appends an entry to the log.
func (tl *ThoughtLog) Add(frame int, label string, state CrawlerState, msg string) {
	tl.entries[tl.head] = ThoughtEntry{
		Frame:   frame,
		Label:   label,
		State:   state,
		Message: msg,
	}
	tl.head = (tl.head + 1) % logMaxEntries
	if tl.count < logMaxEntries {
		tl.count++
	}
}

// AddReport turns the interesting parts of one Step into log lines.
func (tl *ThoughtLog) AddReport(frame int, c *Crawler, prev CrawlerState, rep StepReport) {
	st := c.State()
	switch {
	case rep.StuckEscape:
		tl.Add(frame, c.Label(), st, "stuck, escaping")
	case rep.PauseBegan:
		tl.Add(frame, c.Label(), st, fmt.Sprintf("pausing %.1fs", c.PauseRemaining()))
	case rep.Retargeted:
		tx, tz := c.Target()
		tl.Add(frame, c.Label(), st, fmt.Sprintf("%s -> (%.1f,%.1f)", rep.Strategy, tx, tz))
	case st != prev:
		tl.Add(frame, c.Label(), st, fmt.Sprintf("%s -> %s", prev, st))
	}
}

// Recent returns entries in chronological order (oldest first).
func (tl *ThoughtLog) Recent() []ThoughtEntry {
	result := make([]ThoughtEntry, tl.count)
	for i := 0; i < tl.count; i++ {
		idx := (tl.head - tl.count + i + logMaxEntries) % logMaxEntries
		result[i] = tl.entries[idx]
	}
	return result
}

// Draw renders the event log panel on the right side of the screen.
func (tl *ThoughtLog) Draw(screen *ebiten.Image, panelX int, panelH int) {
	// Panel background.
	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), float32(panelH), color.RGBA{R: 10, G: 12, B: 14, A: 248}, false)
	// Left separator line.
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 50, G: 60, B: 80, A: 255}, false)

	// Title bar background.
	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), 16, color.RGBA{R: 20, G: 26, B: 36, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "CRAWLER LOG", panelX+8, 2)
	// Title separator.
	vector.StrokeLine(screen, float32(panelX), 16, float32(panelX+logPanelWidth), 16, 1.0, color.RGBA{R: 50, G: 70, B: 100, A: 200}, false)

	entries := tl.Recent()

	// Draw from bottom up so newest is at bottom.
	maxVisible := (panelH - 24) / logLineHeight
	startIdx := 0
	if len(entries) > maxVisible {
		startIdx = len(entries) - maxVisible
	}

	visible := entries[startIdx:]
	recent := 3 // how many latest entries to highlight

	y := 20
	for i, e := range visible {
		// Highlight row background for recent entries.
		if i >= len(visible)-recent {
			vector.FillRect(screen, float32(panelX+2), float32(y), float32(logPanelWidth-4), float32(logLineHeight), color.RGBA{R: 30, G: 36, B: 48, A: 160}, false)
		}

		// State colour indicator dot.
		vector.FillRect(screen, float32(panelX+5), float32(y+3), 3, 5, stateColors[e.State], false)

		line := fmt.Sprintf("%5d [%s] %s", e.Frame, e.Label, e.Message)
		ebitenutil.DebugPrintAt(screen, line, panelX+12, y)
		y += logLineHeight
	}
}
