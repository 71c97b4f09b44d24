package game

import (
	"image/color"
)

// ChartBar is one column of a chart sculpture.
type ChartBar struct {
	Label  string
	Height float64 // world units above the platform
	Color  color.RGBA
}

// Chart is a bar chart standing on the platform of the zone with the same
// name.
type Chart struct {
	Zone  string
	Title string
	Bars  []ChartBar
}

const (
	chartBarSize    = 0.6 // bar base edge in world units
	chartBarSpacing = 1.0
)

// DashboardCharts returns the sculptures of the default scene.
func DashboardCharts() []Chart {
	return []Chart{
		{
			Zone:  "sprint",
			Title: "Sprint Progress",
			Bars: []ChartBar{
				{Label: "Sprint 1", Height: 2.5, Color: hexColor(0x34d399)},
				{Label: "Sprint 2", Height: 2.0, Color: hexColor(0x3b82f6)},
				{Label: "Sprint 3", Height: 1.2, Color: hexColor(0xf59e0b)},
				{Label: "Sprint 4", Height: 0.9, Color: hexColor(0xef4444)},
			},
		},
		{
			Zone:  "velocity",
			Title: "Team Velocity",
			Bars: []ChartBar{
				{Label: "Week 1", Height: 1.8, Color: hexColor(0x60a5fa)},
				{Label: "Week 2", Height: 2.5, Color: hexColor(0x22d3ee)},
				{Label: "Week 3", Height: 2.1, Color: hexColor(0xa78bfa)},
				{Label: "Week 4", Height: 2.3, Color: hexColor(0x34d399)},
			},
		},
		{
			Zone:  "bugs",
			Title: "Bug Tracking",
			Bars: []ChartBar{
				{Label: "Critical", Height: 1.6, Color: hexColor(0xef4444)},
				{Label: "High", Height: 2.4, Color: hexColor(0xf97316)},
				{Label: "Medium", Height: 1.9, Color: hexColor(0xeab308)},
				{Label: "Low", Height: 1.1, Color: hexColor(0x22c55e)},
			},
		},
	}
}

// BarRects lays the bars out in a row centred on the footprint of zone.
// The result is in world coordinates, one rectangle per bar.
func (c Chart) BarRects(zone Zone) []Rect {
	cx, cz := zone.Footprint.Center()
	first := -chartBarSpacing * float64(len(c.Bars)-1) / 2
	out := make([]Rect, len(c.Bars))
	for i := range c.Bars {
		bx := cx + first + float64(i)*chartBarSpacing
		out[i] = Rect{
			MinX: bx - chartBarSize/2, MaxX: bx + chartBarSize/2,
			MinZ: cz - chartBarSize/2, MaxZ: cz + chartBarSize/2,
		}
	}
	return out
}

// MaxHeight is the tallest bar, 0 for an empty chart.
func (c Chart) MaxHeight() float64 {
	h := 0.0
	for _, b := range c.Bars {
		if b.Height > h {
			h = b.Height
		}
	}
	return h
}

// chartFor finds the chart standing on the named zone.
func chartFor(charts []Chart, zone string) (Chart, bool) {
	for _, c := range charts {
		if c.Zone == zone {
			return c, true
		}
	}
	return Chart{}, false
}

func hexColor(v uint32) color.RGBA {
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}
