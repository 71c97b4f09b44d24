package game

import "testing"

func TestSegmentClear_EmptyField(t *testing.T) {
	f := NewObstacleField(nil, 0, 0.1)
	if !f.SegmentClear(-10, -10, 10, 10) {
		t.Fatal("expected clear segment with no zones")
	}
}

func TestSegmentClear_BlockedByZone(t *testing.T) {
	f := NewObstacleField([]Zone{{Bounds: Rect{MinX: -1, MaxX: 1, MinZ: -5, MaxZ: 5}}}, 0, 0.1)
	if f.SegmentClear(-5, 0, 5, 0) {
		t.Fatal("expected segment blocked by zone")
	}
}

func TestSegmentClear_ZoneBeyondEndpoint(t *testing.T) {
	f := NewObstacleField([]Zone{{Bounds: Rect{MinX: 6, MaxX: 8, MinZ: -1, MaxZ: 1}}}, 0, 0.1)
	if !f.SegmentClear(0, 0, 5, 0) {
		t.Fatal("zone beyond endpoint should not block")
	}
}

func TestSegmentClear_AxisAlignedRays(t *testing.T) {
	f := NewObstacleField([]Zone{{Bounds: Rect{MinX: -5, MaxX: 5, MinZ: 2, MaxZ: 3}}}, 0, 0.1)
	if f.SegmentClear(0, 0, 0, 10) {
		t.Fatal("expected vertical segment blocked by horizontal zone")
	}
	if !f.SegmentClear(-10, 0, 10, 0) {
		t.Fatal("segment below zone should be clear")
	}
}

func TestSegmentClear_DiagonalBlocked(t *testing.T) {
	f := NewObstacleField([]Zone{{Bounds: Rect{MinX: 2, MaxX: 3, MinZ: 2, MaxZ: 3}}}, 0, 0.1)
	if f.SegmentClear(0, 0, 5, 5) {
		t.Fatal("diagonal segment should be blocked")
	}
}

func TestSegmentClear_ZeroLength(t *testing.T) {
	f := NewObstacleField(DashboardZones(), 0, 0.1)
	if f.SegmentClear(-8, -3, -8, -3) {
		t.Fatal("point inside a zone should not count as clear")
	}
	if !f.SegmentClear(0, 0, 0, 0) {
		t.Fatal("point in open floor should be clear")
	}
}

func TestFirstHit_PicksNearestZone(t *testing.T) {
	f := NewObstacleField(DashboardZones(), 0, 0.1)
	// Sweep left to right along z=-3: sprint is entered first, velocity second.
	zone, tHit, ok := f.FirstHit(-11.5, -3, 11.5, -3)
	if !ok {
		t.Fatal("expected a hit")
	}
	if f.zones[zone].Name != "sprint" {
		t.Fatalf("expected sprint zone first, got %q", f.zones[zone].Name)
	}
	want := (-10.2 - -11.5) / 23.0
	if d := tHit - want; d > 1e-9 || d < -1e-9 {
		t.Fatalf("expected t=%.4f, got %.4f", want, tHit)
	}
}

func TestFirstHit_Clear(t *testing.T) {
	f := NewObstacleField(DashboardZones(), 0, 0.1)
	if _, _, ok := f.FirstHit(-11, 5, 11, 5); ok {
		t.Fatal("segment along z=5 should miss every chart")
	}
}
