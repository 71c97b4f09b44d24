package game

import (
	"strings"
	"testing"
)

func TestThoughtLog_RingKeepsNewest(t *testing.T) {
	tl := NewThoughtLog()
	for i := 0; i < logMaxEntries+5; i++ {
		tl.Add(i, "S0", CrawlerExploring, "tick")
	}
	got := tl.Recent()
	if len(got) != logMaxEntries {
		t.Fatalf("expected %d entries, got %d", logMaxEntries, len(got))
	}
	if got[0].Frame != 5 || got[len(got)-1].Frame != logMaxEntries+4 {
		t.Fatalf("unexpected window F=%d..%d", got[0].Frame, got[len(got)-1].Frame)
	}
}

func TestThoughtLog_AddReport(t *testing.T) {
	c := NewCrawler(0, 0, 0.1, 0, testArena(nil), &seqRand{vals: []float64{0.5}})
	tl := NewThoughtLog()

	tl.AddReport(1, c, CrawlerExploring, StepReport{})
	if len(tl.Recent()) != 0 {
		t.Fatal("a quiet frame should not be logged")
	}

	tl.AddReport(2, c, CrawlerExploring, StepReport{Retargeted: true, Strategy: ExploreCorner})
	tl.AddReport(3, c, CrawlerExploring, StepReport{StuckEscape: true})
	c.state = CrawlerAvoiding
	tl.AddReport(4, c, CrawlerExploring, StepReport{})

	got := tl.Recent()
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	if !strings.HasPrefix(got[0].Message, ExploreCorner.String()) {
		t.Fatalf("retarget line should name the strategy, got %q", got[0].Message)
	}
	if got[1].Message != "stuck, escaping" {
		t.Fatalf("unexpected escape line %q", got[1].Message)
	}
	if got[2].Message != "exploring -> avoiding" || got[2].State != CrawlerAvoiding {
		t.Fatalf("unexpected transition line %+v", got[2])
	}
}
