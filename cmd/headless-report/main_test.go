package main

import (
	"context"
	"testing"

	"github.com/Garsondee/Bug-In-Dashboard/internal/game"
)

func testOptions() batchOptions {
	return batchOptions{
		runs:     3,
		frames:   600,
		delta:    1.0 / 60,
		crawlers: 2,
		seedBase: 10,
		seedStep: 5,
		workers:  2,
		cfg:      game.DefaultConfig(),
	}
}

func TestRunBatch_KeepsRunOrderAndSeeds(t *testing.T) {
	all, err := runBatch(context.Background(), testOptions())
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(all))
	}
	for i, rs := range all {
		if rs.runIndex != i+1 || rs.seed != 10+int64(i)*5 {
			t.Fatalf("run %d out of order: index=%d seed=%d", i, rs.runIndex, rs.seed)
		}
		if rs.distance <= 0 || rs.retargets == 0 {
			t.Fatalf("run %d did not move: %+v", rs.runIndex, rs)
		}
		if len(rs.grades) != 2 {
			t.Fatalf("run %d: expected 2 grades, got %d", rs.runIndex, len(rs.grades))
		}
	}
	if v := totalViolations(all); v != 0 {
		t.Fatalf("expected no violations, got %d", v)
	}
}

func TestRunBatch_MatchesSerialRun(t *testing.T) {
	o := testOptions()
	parallel, err := runBatch(context.Background(), o)
	if err != nil {
		t.Fatal(err)
	}
	serial := runCrawl(2, o.seedBase+o.seedStep, o)
	if parallel[1].distance != serial.distance || parallel[1].stateChanges != serial.stateChanges {
		t.Fatalf("parallel run diverged: dist %.4f vs %.4f", parallel[1].distance, serial.distance)
	}
}

func TestRunBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := runBatch(ctx, testOptions()); err == nil {
		t.Fatal("expected a cancelled batch to fail")
	}
}

func TestValidateOptions(t *testing.T) {
	if err := testOptions().validate(); err != nil {
		t.Fatalf("valid options rejected: %v", err)
	}
	bad := []func(*batchOptions){
		func(o *batchOptions) { o.runs = 0 },
		func(o *batchOptions) { o.frames = -1 },
		func(o *batchOptions) { o.delta = 0 },
		func(o *batchOptions) { o.crawlers = 0 },
		func(o *batchOptions) { o.workers = 0 },
	}
	for i, edit := range bad {
		o := testOptions()
		edit(&o)
		if o.validate() == nil {
			t.Fatalf("case %d: expected an error", i)
		}
	}
}

func TestFirstFrame(t *testing.T) {
	entries := []game.SimLogEntry{
		{Frame: 3, Category: "state", Key: "change", Value: "exploring → paused"},
		{Frame: 7, Category: "state", Key: "change", Value: "exploring → avoiding"},
	}
	if got := firstFrame(entries, "state", "change", "→ avoiding"); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
	if got := firstFrame(entries, "state", "change", ""); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if got := firstFrame(entries, "escape", "stuck", ""); got != -1 {
		t.Fatalf("expected -1, got %d", got)
	}
}

func TestTopTraitAndJoinCounts(t *testing.T) {
	if got := topTrait(map[string]int{"b": 2, "a": 2, "c": 1}); got != "a(2)" {
		t.Fatalf("expected a(2), got %s", got)
	}
	if topTrait(nil) != "" {
		t.Fatal("empty counts should give no trait")
	}
	if got := joinCounts(map[string]int{"wall": 1, "arc": 3}); got != "arc=3 wall=1" {
		t.Fatalf("unexpected join %q", got)
	}
	if joinCounts(nil) != "none" {
		t.Fatal("expected none")
	}
}
