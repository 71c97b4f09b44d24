package main

import (
	"math"

	"github.com/Garsondee/Bug-In-Dashboard/internal/game"
	"github.com/gdamore/tcell/v2"
)

// statusRows is the space reserved under the floor for the status line.
const statusRows = 2

// viewport maps floor coordinates onto a block of terminal cells.
type viewport struct {
	floor      game.Rect
	cols, rows int
}

func newViewport(floor game.Rect, screenW, screenH int) viewport {
	return viewport{floor: floor, cols: max(screenW, 1), rows: max(screenH-statusRows, 1)}
}

// cell returns the terminal cell holding (x,z). +Z points down the screen.
func (v viewport) cell(x, z float64) (int, int) {
	col := int((x - v.floor.MinX) / v.floor.Width() * float64(v.cols))
	row := int((z - v.floor.MinZ) / v.floor.Depth() * float64(v.rows))
	return min(max(col, 0), v.cols-1), min(max(row, 0), v.rows-1)
}

// center returns the floor point at the middle of a cell.
func (v viewport) center(col, row int) (float64, float64) {
	return v.floor.MinX + (float64(col)+0.5)/float64(v.cols)*v.floor.Width(),
		v.floor.MinZ + (float64(row)+0.5)/float64(v.rows)*v.floor.Depth()
}

// headingGlyphs indexes by the heading rounded to the nearest eighth turn,
// offset by 4 so -π lands on 0.
var headingGlyphs = [9]rune{'^', '\\', '<', '/', 'v', '\\', '>', '/', '^'}

// headingGlyph draws a heading as an arrow. 0 faces +Z, which is down.
func headingGlyph(h float64) rune {
	k := int(math.Round(h/(math.Pi/4))) + 4
	return headingGlyphs[min(max(k, 0), 8)]
}

var stateStyles = map[game.CrawlerState]tcell.Style{
	game.CrawlerExploring: tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true),
	game.CrawlerAvoiding:  tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true),
	game.CrawlerPaused:    tcell.StyleDefault.Foreground(tcell.ColorGray),
	game.CrawlerEscaping:  tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true),
}

var (
	floorStyle     = tcell.StyleDefault.Foreground(tcell.ColorDarkSlateGray)
	footprintStyle = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	zoneStyle      = tcell.StyleDefault.Foreground(tcell.ColorMaroon)
)

// drawScene paints the floor, the charts and every crawler. Collision bounds
// are solid; the rest of each footprint is shaded.
func drawScene(s tcell.Screen, scene *game.Scene, v viewport) {
	zones := scene.Arena().Field.Zones()
	for row := 0; row < v.rows; row++ {
		for col := 0; col < v.cols; col++ {
			x, z := v.center(col, row)
			ch, st := floorGlyph(zones, x, z)
			s.SetContent(col, row, ch, nil, st)
		}
	}
	for _, z := range zones {
		col, row := v.cell(z.Footprint.MinX, z.Footprint.MaxZ)
		drawText(s, col, min(row+1, v.rows-1), footprintStyle, z.Name)
	}
	for _, c := range scene.Crawlers() {
		p := c.Pose()
		col, row := v.cell(p.X, p.Z)
		s.SetContent(col, row, headingGlyph(p.Heading), nil, stateStyles[c.State()])
	}
}

func floorGlyph(zones []game.Zone, x, z float64) (rune, tcell.Style) {
	for _, zn := range zones {
		if zn.Bounds.Contains(x, z) {
			return '█', zoneStyle
		}
	}
	for _, zn := range zones {
		if zn.Footprint.Contains(x, z) {
			return '░', footprintStyle
		}
	}
	return '·', floorStyle
}

func drawText(s tcell.Screen, col, row int, st tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(col, row, r, nil, st)
		col++
	}
}
