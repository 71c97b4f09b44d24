package game

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"
)

// Inspector panel: rendered into an offscreen buffer at 1× then blitted at inspScale.
const (
	inspScale = 2   // scale factor for inspector text rendering
	inspBufW  = 200 // buffer width in pixels (~32 chars at debug font)
	inspBufH  = 230 // buffer height in pixels
	inspPad   = 4   // padding in buffer-space pixels
	inspLineH = 13  // line height in buffer-space pixels

	// inspPickPx is the click radius around a crawler in screen pixels.
	inspPickPx = 16.0

	// reportFrames is how much history the copied report covers.
	reportFrames = 300
)

// Inspector holds the selected crawler and view toggle state.
type Inspector struct {
	selected *Crawler
	rawView  bool // false = curated, true = raw dump
}

// handleInspectorClick selects the crawler under the cursor, or clears the
// selection on empty floor. Returns true if a crawler was hit.
func (g *Game) handleInspectorClick(mx, my int) bool {
	wx, wz := g.screenToWorld(mx, my)
	hit, ok := g.scene.Pick(wx, wz, inspPickPx/pxPerUnit)
	if !ok {
		g.inspector.selected = nil
		return false
	}
	g.inspector.selected = hit
	return true
}

// copyInspector puts the selected crawler's debug report on the clipboard.
func (g *Game) copyInspector() {
	c := g.inspector.selected
	if c == nil {
		g.setStatus("nothing selected")
		return
	}
	report := crawlerDebugReport(g.scene.ID(), g.scene.Frame(), c, g.history[c.ID()], g.trackers[c.ID()], reportFrames)
	if err := clipboard.WriteAll(report); err != nil {
		g.log.Warn("clipboard write failed", zap.Error(err))
		g.setStatus("clipboard unavailable")
		return
	}
	g.setStatus(fmt.Sprintf("copied %s report (%d lines)", c.Label(), strings.Count(report, "\n")))
}

// drawInspector renders the inspector panel into an offscreen buffer at 1×,
// then blits it onto the screen at inspScale for readability.
func (g *Game) drawInspector(screen *ebiten.Image) {
	c := g.inspector.selected
	if c == nil {
		return
	}

	g.inspBuf.Clear()

	buf := g.inspBuf
	bw := float32(inspBufW)
	bh := float32(inspBufH)

	// Panel background.
	panelBg := color.RGBA{R: 16, G: 12, B: 24, A: 230}
	panelBorder := color.RGBA{R: 90, G: 70, B: 140, A: 255}
	vector.FillRect(buf, 0, 0, bw, bh, panelBg, false)
	vector.StrokeRect(buf, 0, 0, bw, bh, 1.0, panelBorder, false)
	// Inner highlight along top edge.
	vector.StrokeLine(buf, 1, 1, bw-1, 1, 1.0, color.RGBA{R: 130, G: 100, B: 200, A: 60}, false)

	lx := inspPad
	ly := inspPad

	// Title bar with the state colour swatch.
	vector.FillRect(buf, float32(lx), float32(ly+3), 5, 7, stateColors[c.State()], false)
	ebitenutil.DebugPrintAt(buf, fmt.Sprintf("[ %s %s ]", c.Label(), strings.ToUpper(c.State().String())), lx+8, ly)
	ly += inspLineH + 2

	// Toggle button hint.
	viewName := "CURATED"
	if g.inspector.rawView {
		viewName = "RAW"
	}
	ebitenutil.DebugPrintAt(buf, fmt.Sprintf("view: %s  [I] [C]opy", viewName), lx, ly)
	ly += inspLineH + 4

	// Divider.
	vector.StrokeLine(buf, float32(lx), float32(ly), bw-float32(inspPad), float32(ly), 1.0, panelBorder, false)
	ly += 4

	if g.inspector.rawView {
		g.drawInspectorRaw(buf, c, lx, ly)
	} else {
		g.drawInspectorCurated(buf, c, lx, ly)
	}

	// Blit inspBuf onto screen at inspScale, bottom-right of the floor.
	px := g.offX + g.gameWidth - inspBufW*inspScale - 8
	py := g.offY + g.gameHeight - inspBufH*inspScale - 8
	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(inspScale), float64(inspScale))
	opts.GeoM.Translate(float64(px), float64(py))
	screen.DrawImage(buf, opts)
}

// drawInspectorCurated draws the organised, human-readable inspector view.
func (g *Game) drawInspectorCurated(buf *ebiten.Image, c *Crawler, lx, ly int) {
	t := g.scene.Arena().Tuning

	line := func(text string) {
		ebitenutil.DebugPrintAt(buf, text, lx, ly)
		ly += inspLineH
	}
	section := func(title string) {
		ly += 3
		ebitenutil.DebugPrintAt(buf, "-- "+title+" --", lx, ly)
		ly += inspLineH
	}
	bar := func(label string, v float64) {
		filled := int(clamp(v, 0, 1) * 12)
		b := strings.Repeat("█", filled) + strings.Repeat("░", 12-filled)
		ebitenutil.DebugPrintAt(buf, fmt.Sprintf("%-6s %s", label, b), lx, ly)
		ly += inspLineH
	}

	p := c.Pose()
	tx, tz := c.Target()

	section("POSE")
	line(fmt.Sprintf("pos: (%.2f, %.2f) y=%.2f", p.X, p.Z, p.Y))
	line(fmt.Sprintf("heading: %4.0f deg", p.Heading*180/math.Pi))
	vx, vz := c.Velocity()
	line(fmt.Sprintf("speed: %.2f u/s", math.Hypot(vx, vz)))

	section("STEERING")
	line(fmt.Sprintf("target: (%.1f, %.1f) d=%.1f", tx, tz, math.Hypot(tx-p.X, tz-p.Z)))
	if d := g.scene.Arena().Field.Detect(p.X, p.Z).Distance; math.IsInf(d, 1) {
		line("nearest chart: none")
	} else {
		line(fmt.Sprintf("nearest chart: %.2f", d))
	}
	if c.Turning() {
		line("turning")
	}

	section("TIMERS")
	bar("stuck", c.StuckFor()/t.StuckTimeout)
	if c.State() == CrawlerPaused {
		bar("pause", c.PauseRemaining()/t.PauseMax)
	}

	if tr := g.trackers[c.ID()]; tr != nil {
		section("LIFETIME")
		line(fmt.Sprintf("dist %.1f  cover %.0f%%", tr.DistanceTraveled, tr.Coverage()*100))
		line(fmt.Sprintf("esc %d  pause %d  bounce %d", tr.StuckEscapes, tr.Pauses, tr.Bounces))
	}
}

// drawInspectorRaw dumps the motion fields verbatim.
func (g *Game) drawInspectorRaw(buf *ebiten.Image, c *Crawler, lx, ly int) {
	mv := &c.mv
	p := c.pose

	line := func(text string) {
		ebitenutil.DebugPrintAt(buf, text, lx, ly)
		ly += inspLineH
	}

	line(fmt.Sprintf("id=%d %s st=%d", c.id, c.label, c.state))
	line(fmt.Sprintf("x=%.3f y=%.3f z=%.3f", p.X, p.Y, p.Z))
	line(fmt.Sprintf("h=%.3f bob=%.3f", p.Heading, p.Bob))
	line(fmt.Sprintf("pitch=%.3f roll=%.3f", p.Pitch, p.Roll))
	line(fmt.Sprintf("tgt=(%.2f,%.2f)", mv.targetX, mv.targetZ))
	line(fmt.Sprintf("vel=(%.2f,%.2f)", mv.velX, mv.velZ))
	line(fmt.Sprintf("pause=%.2f", mv.pauseTimer))
	line(fmt.Sprintf("retgt=%.2f/%.2f", mv.retargetTimer, mv.retargetAfter))
	line(fmt.Sprintf("stuck=%.2f", mv.stuckTimer))
	line(fmt.Sprintf("last=(%.2f,%.2f)", mv.lastX, mv.lastZ))
	line(fmt.Sprintf("esc=(%.2f,%.2f)", mv.escapeX, mv.escapeZ))
	line(fmt.Sprintf("leg=%.2f turn=%.3f", mv.legPhase, mv.turnRemaining))
}
