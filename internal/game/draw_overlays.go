package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// drawZoneOverlays outlines each zone's collision bounds over its footprint.
func (g *Game) drawZoneOverlays(screen *ebiten.Image) {
	for _, z := range g.scene.Arena().Field.Zones() {
		x0, z0 := g.worldToScreen(z.Bounds.MinX, z.Bounds.MinZ)
		x1, z1 := g.worldToScreen(z.Bounds.MaxX, z.Bounds.MaxZ)
		vector.FillRect(screen, x0, z0, x1-x0, z1-z0, color.RGBA{R: 200, G: 40, B: 40, A: 40}, false)
		vector.StrokeRect(screen, x0, z0, x1-x0, z1-z0, 1.5, color.RGBA{R: 230, G: 70, B: 70, A: 200}, false)
		ebitenutil.DebugPrintAt(screen, z.Name, int(x0)+2, int(z0)+2)
	}
}

// drawTargetLines draws a line from each crawler to its target. A clear
// line is faint green; a blocked one is red up to the first zone it hits.
// The selected crawler's line is brighter and gets a target marker.
func (g *Game) drawTargetLines(screen *ebiten.Image) {
	field := g.scene.Arena().Field
	for _, c := range g.scene.Crawlers() {
		p := c.Pose()
		tx, tz := c.Target()
		sx, sy := g.worldToScreen(p.X, p.Z)
		ex, ey := g.worldToScreen(tx, tz)

		selected := g.inspector.selected == c
		alpha := uint8(70)
		if selected {
			alpha = 200
		}

		if _, t, hit := field.FirstHit(p.X, p.Z, tx, tz); hit {
			hx := p.X + (tx-p.X)*t
			hz := p.Z + (tz-p.Z)*t
			mx, my := g.worldToScreen(hx, hz)
			vector.StrokeLine(screen, sx, sy, mx, my, 1.0, color.RGBA{R: 230, G: 80, B: 60, A: alpha}, true)
			vector.StrokeLine(screen, mx, my, ex, ey, 1.0, color.RGBA{R: 120, G: 60, B: 60, A: alpha / 2}, true)
			vector.FillCircle(screen, mx, my, 3, color.RGBA{R: 255, G: 90, B: 60, A: alpha}, true)
		} else {
			vector.StrokeLine(screen, sx, sy, ex, ey, 1.0, color.RGBA{R: 90, G: 200, B: 110, A: alpha}, true)
		}

		if selected {
			vector.StrokeCircle(screen, ex, ey, 5, 1.5, color.RGBA{R: 240, G: 240, B: 120, A: 220}, true)
		}

		// Escape offset arrow.
		if c.State() == CrawlerEscaping {
			ox, oz := c.EscapeOffset()
			ax, ay := g.worldToScreen(p.X+ox*0.25, p.Z+oz*0.25)
			vector.StrokeLine(screen, sx, sy, ax, ay, 2.0, stateColors[CrawlerEscaping], true)
		}
	}
}

// drawSelectedCrawlerInfo draws a ring and a state tag over the selected crawler.
func (g *Game) drawSelectedCrawlerInfo(screen *ebiten.Image) {
	c := g.inspector.selected
	if c == nil {
		return
	}
	p := c.Pose()
	sx, sy := g.worldToScreen(p.X, p.Z)
	vector.StrokeCircle(screen, sx, sy, 0.55*pxPerUnit, 1.5, color.RGBA{R: 240, G: 240, B: 120, A: 200}, true)

	tag := fmt.Sprintf("%s %s", c.Label(), c.State())
	if c.Turning() {
		tag += " turning"
	}
	ebitenutil.DebugPrintAt(screen, tag, int(sx)+16, int(sy)-26)
}
