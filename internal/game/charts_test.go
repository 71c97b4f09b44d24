package game

import (
	"testing"
)

func TestDashboardCharts_MatchZones(t *testing.T) {
	zones := DashboardZones()
	charts := DashboardCharts()
	if len(charts) != len(zones) {
		t.Fatalf("expected %d charts, got %d", len(zones), len(charts))
	}
	for _, z := range zones {
		c, ok := chartFor(charts, z.Name)
		if !ok {
			t.Fatalf("no chart for zone %s", z.Name)
		}
		if len(c.Bars) != 4 {
			t.Fatalf("chart %s: expected 4 bars, got %d", c.Title, len(c.Bars))
		}
		for i, r := range c.BarRects(z) {
			if !z.Footprint.ContainsRect(r) {
				t.Fatalf("chart %s bar %d (%+v) off the platform %+v", c.Title, i, r, z.Footprint)
			}
		}
	}
	if _, ok := chartFor(charts, "pie"); ok {
		t.Fatal("unexpected chart for an unknown zone")
	}
}

func TestChart_BarRectsCentred(t *testing.T) {
	z := DashboardZones()[0]
	c, _ := chartFor(DashboardCharts(), z.Name)
	rs := c.BarRects(z)
	cx, _ := z.Footprint.Center()
	left, _ := rs[0].Center()
	right, _ := rs[len(rs)-1].Center()
	if got := (left + right) / 2; got < cx-1e-9 || got > cx+1e-9 {
		t.Fatalf("bars centred at %.3f, footprint at %.3f", got, cx)
	}
	if d := right - left - chartBarSpacing*3; d < -1e-9 || d > 1e-9 {
		t.Fatalf("expected %.1f between outer bars, got %.3f", chartBarSpacing*3, right-left)
	}
}

func TestChart_MaxHeight(t *testing.T) {
	c, _ := chartFor(DashboardCharts(), "bugs")
	if c.MaxHeight() != 2.4 {
		t.Fatalf("expected 2.4, got %.2f", c.MaxHeight())
	}
	if (Chart{}).MaxHeight() != 0 {
		t.Fatal("empty chart should be flat")
	}
}

func TestHexColor(t *testing.T) {
	c := hexColor(0x34d399)
	if c.R != 0x34 || c.G != 0xd3 || c.B != 0x99 || c.A != 255 {
		t.Fatalf("unexpected colour %+v", c)
	}
}
