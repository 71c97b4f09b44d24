package game

import (
	"fmt"
	"strings"
)

// SimLogEntry is one recorded event during a headless simulation.
type SimLogEntry struct {
	Frame    int
	Crawler  string  // label e.g. "S0", or "--" for scene events
	Category string  // state, target, escape, pause, move, scene
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[F=0042] S0   state     change           exploring → avoiding
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[F=%04d] %-4s %-9s %-16s %s",
		e.Frame, e.Crawler, e.Category, e.Key, e.Value)
}

// SimLog collects structured events during a headless simulation.
// Unlike ThoughtLog (UI ring-buffer), SimLog is unbounded and machine-readable.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates a SimLog. If verbose is true, per-frame position and
// timer entries are also recorded (useful for detailed debugging).
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

// Add records a new entry.
func (sl *SimLog) Add(frame int, crawler, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{
		Frame:    frame,
		Crawler:  crawler,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (sl *SimLog) AddVerbose(frame int, crawler, category, key, value string, numVal float64) {
	if !sl.verbose {
		return
	}
	sl.Add(frame, crawler, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterCrawler returns entries for a specific crawler label.
func (sl *SimLog) FilterCrawler(label string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Crawler == label {
			out = append(out, e)
		}
	}
	return out
}

// FilterFrameRange returns entries within [from, to] inclusive.
func (sl *SimLog) FilterFrameRange(from, to int) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Frame >= from && e.Frame <= to {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (sl *SimLog) CountCategory(category, key string) int {
	return len(sl.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (sl *SimLog) LastOf(category, key string) (SimLogEntry, bool) {
	entries := sl.Filter(category, key)
	if len(entries) == 0 {
		return SimLogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (sl *SimLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (sl *SimLog) Format() string {
	var sb strings.Builder
	for _, e := range sl.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatRange returns a log string filtered to a frame range.
func (sl *SimLog) FormatRange(from, to int) string {
	var sb strings.Builder
	for _, e := range sl.FilterFrameRange(from, to) {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary returns a short human-readable summary of the crawlers at a frame.
func (sl *SimLog) Summary(frame int, crawlers []*Crawler) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at F=%04d ---\n", frame)

	counts := map[CrawlerState]int{}
	for _, c := range crawlers {
		counts[c.state]++
	}
	sb.WriteString("States: ")
	for _, st := range allStates {
		if n := counts[st]; n > 0 {
			fmt.Fprintf(&sb, "%s=%d  ", st, n)
		}
	}
	sb.WriteByte('\n')

	for _, c := range crawlers {
		tx, tz := c.Target()
		fmt.Fprintf(&sb, "%s at (%.1f,%.1f) -> (%.1f,%.1f) stuck=%.2fs\n",
			c.label, c.pose.X, c.pose.Z, tx, tz, c.mv.stuckTimer)
	}
	if len(crawlers) == 0 {
		sb.WriteString("Crawlers: none\n")
	}
	fmt.Fprintf(&sb, "Escapes: %d  Blocked: %d  Bounces: %d\n",
		sl.CountCategory("escape", "stuck"), sl.CountCategory("move", "blocked"), sl.CountCategory("move", "bounce"))
	return sb.String()
}
