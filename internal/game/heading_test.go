package game

import (
	"math"
	"testing"
)

func TestTurnToward_SmallDiffSnaps(t *testing.T) {
	h, rest := turnToward(0, 0.05, 0.12)
	if h != 0.05 || rest != 0 {
		t.Fatalf("expected heading to snap to 0.05, got %.4f (rest %.4f)", h, rest)
	}
}

func TestTurnToward_LargeDiff_Positive(t *testing.T) {
	rate := 0.12
	h, rest := turnToward(0, 3, rate)
	if math.Abs(h-rate) > 1e-9 {
		t.Fatalf("expected heading %.4f got %.4f", rate, h)
	}
	if math.Abs(rest-(3-rate)) > 1e-9 {
		t.Fatalf("expected remaining %.4f got %.4f", 3-rate, rest)
	}
}

func TestTurnToward_LargeDiff_Negative(t *testing.T) {
	rate := 0.12
	h, _ := turnToward(0, -3, rate)
	if math.Abs(h+rate) > 1e-9 {
		t.Fatalf("expected heading %.4f got %.4f", -rate, h)
	}
}

func TestTurnToward_WrapsShortWay(t *testing.T) {
	// From just below +π to just above -π is a tiny clockwise step, not a full turn.
	h, _ := turnToward(math.Pi-0.05, -math.Pi+0.05, 0.5)
	if math.Abs(math.Abs(h)-math.Pi+0.05) > 1e-9 {
		t.Fatalf("expected short-way wrap to ±(π-0.05), got %.4f", h)
	}
}

func TestNormalizeAngle_Positive(t *testing.T) {
	a := normalizeAngle(3 * math.Pi)
	if math.Abs(math.Abs(a)-math.Pi) > 1e-9 {
		t.Fatalf("3π should normalize to ±π, got %.4f", a)
	}
}

func TestNormalizeAngle_Zero(t *testing.T) {
	if normalizeAngle(0) != 0 {
		t.Fatal("0 should normalize to 0")
	}
}

func TestHeadingTo(t *testing.T) {
	if h := HeadingTo(0, 0, 0, 1); h != 0 {
		t.Fatalf("heading to +Z should be 0, got %.4f", h)
	}
	if h := HeadingTo(0, 0, 1, 0); math.Abs(h-math.Pi/2) > 1e-9 {
		t.Fatalf("heading to +X should be π/2, got %.4f", h)
	}
	x, z := HeadingVector(math.Pi / 2)
	if math.Abs(x-1) > 1e-9 || math.Abs(z) > 1e-9 {
		t.Fatalf("heading vector for π/2 should be +X, got (%.3f,%.3f)", x, z)
	}
}
