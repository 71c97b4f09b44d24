package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"
	"golang.org/x/image/font/basicfont"
)

// borderWidth is the pixel gap between the window edge and the floor.
const borderWidth = 24

// hudScale is the integer upscale factor applied to all HUD text (3 = 3× larger).
const hudScale = 3

// pxPerUnit is the floor view scale: screen pixels per world unit.
const pxPerUnit = 40

// frameDelta is the simulated time per tick. Ebitengine calls Update at 60 TPS.
const frameDelta = 1.0 / 60

// clickPulseTime is how long a clicked crawler stays scaled up.
const clickPulseTime = 0.2

// Music is the ambience the window controls. Game never owns the audio
// device; a nil Music just disables the M/N keys.
type Music interface {
	Toggle() error
	ToggleMute()
	Playing() bool
	Muted() bool
}

type Game struct {
	width      int
	height     int
	gameWidth  int // floor view width (log panel takes the rest)
	gameHeight int // floor view height (inside border)
	offX       int // pixel offset from window left to floor left
	offY       int // pixel offset from window top to floor top

	cfg        Config
	scene      *Scene
	charts     []Chart
	web        *WebWidget
	thoughtLog *ThoughtLog
	log        *zap.Logger
	music      Music
	titleFace  text.Face

	// Per-crawler bookkeeping, keyed by crawler id.
	trackers   map[int]*CrawlTracker
	history    map[int]*crawlHistory
	clickPulse map[int]float64 // seconds of scale-up left

	showOverlays bool
	showHUD      bool
	prevKeys     map[ebiten.Key]bool

	// Offscreen buffer for HUD text, rendered at 1x then blitted at hudScale.
	hudBuf *ebiten.Image
	// Offscreen buffer for the inspector panel.
	inspBuf *ebiten.Image

	// Crawler inspector (click-to-select panel).
	inspector     Inspector
	prevMouseLeft bool // for edge-triggered click detection

	// Simulation speed control.
	simSpeed  float64 // multiplier: 0=paused, 0.5, 1, 2, 4
	tickAccum float64 // fractional tick accumulator for sub-1x speeds

	// Analytics reporter: collects behaviour stats periodically.
	reporter *SimReporter

	// Short-lived status line (clipboard result, audio errors).
	status      string
	statusTimer float64
}

// GameOption configures a Game at construction.
type GameOption func(*Game)

// WithGameLogger routes window and scene events to l.
func WithGameLogger(l *zap.Logger) GameOption {
	return func(g *Game) {
		if l != nil {
			g.log = l
		}
	}
}

// WithMusic hands the window an ambience controller.
func WithMusic(m Music) GameOption {
	return func(g *Game) {
		g.music = m
	}
}

// New builds the window for a validated scene config. The scene starts
// empty; the web widget or Space adds crawlers.
func New(cfg Config, opts ...GameOption) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	floorW := int(math.Ceil(cfg.Floor.Width() * pxPerUnit))
	floorH := int(math.Ceil(cfg.Floor.Depth() * pxPerUnit))
	g := &Game{
		width:      borderWidth + floorW + borderWidth + logPanelWidth,
		height:     borderWidth + floorH + borderWidth,
		gameWidth:  floorW,
		gameHeight: floorH,
		offX:       borderWidth,
		offY:       borderWidth,
		cfg:        cfg,
		charts:     DashboardCharts(),
		thoughtLog: NewThoughtLog(),
		log:        zap.NewNop(),
		titleFace:  text.NewGoXFace(basicfont.Face7x13),
		trackers:   make(map[int]*CrawlTracker),
		history:    make(map[int]*crawlHistory),
		clickPulse: make(map[int]float64),
		showHUD:    true,
		prevKeys:   make(map[ebiten.Key]bool),
		simSpeed:   1,
		reporter:   NewSimReporter(reportWindowFrames, false),
	}
	for _, o := range opts {
		o(g)
	}
	g.scene = NewScene(NewArena(cfg), cfg.Seed, WithLogger(g.log), WithSelect(g.onSelect))
	g.web = NewWebWidget(g.offX+g.gameWidth, g.offY)
	// HUD buffer: 1/hudScale of screen so it renders crisply when scaled up.
	g.hudBuf = ebiten.NewImage(g.width/hudScale, g.height/hudScale)
	g.inspBuf = ebiten.NewImage(inspBufW, inspBufH)
	g.log.Info("window ready",
		zap.String("scene", g.scene.ID()),
		zap.Int("width", g.width),
		zap.Int("height", g.height))
	return g, nil
}

// Scene exposes the running scene.
func (g *Game) Scene() *Scene { return g.scene }

func (g *Game) Update() error {
	// Handle input every frame regardless of sim speed.
	g.handleInput()

	mx, my := ebiten.CursorPosition()
	g.web.Update(frameDelta, g.scene.HasCrawler(), mx, my)
	for id, t := range g.clickPulse {
		if t -= frameDelta; t <= 0 {
			delete(g.clickPulse, id)
		} else {
			g.clickPulse[id] = t
		}
	}
	if g.statusTimer > 0 {
		g.statusTimer -= frameDelta
	}

	if g.simSpeed <= 0 {
		return nil
	}

	// For speeds > 1 run multiple sim ticks per frame.
	// For speeds < 1 accumulate fractions.
	g.tickAccum += g.simSpeed
	for g.tickAccum >= 1.0 {
		g.tickAccum -= 1.0
		g.simTick()
	}
	return nil
}

// simTick runs one simulation tick.
func (g *Game) simTick() {
	crawlers := g.scene.Crawlers()
	prev := make([]CrawlerState, len(crawlers))
	for i, c := range crawlers {
		prev[i] = c.State()
	}

	reports := g.scene.Tick(frameDelta)
	frame := g.scene.Frame()
	for i, rep := range reports {
		c := crawlers[i]
		if tr := g.trackers[c.ID()]; tr != nil {
			tr.Update(c, rep, frameDelta)
		}
		if h := g.history[c.ID()]; h != nil {
			h.record(frame, c)
		}
		g.thoughtLog.AddReport(frame, c, prev[i], rep)
	}

	if frame%60 == 0 {
		g.reporter.Collect(g.scene)
	}
}

// spawn mirrors a web click: one crawler at a random point of the spawn area.
func (g *Game) spawn() {
	c := g.scene.Spawn()
	g.trackers[c.ID()] = NewCrawlTracker(c)
	g.history[c.ID()] = newCrawlHistory()
	p := c.Pose()
	g.thoughtLog.Add(g.scene.Frame(), c.Label(), c.State(), fmt.Sprintf("spawned (%.1f,%.1f)", p.X, p.Z))
}

func (g *Game) removeSelected() {
	c := g.inspector.selected
	if c == nil || !g.scene.Remove(c.ID()) {
		return
	}
	g.thoughtLog.Add(g.scene.Frame(), c.Label(), c.State(), "removed")
	delete(g.trackers, c.ID())
	delete(g.history, c.ID())
	delete(g.clickPulse, c.ID())
	g.inspector.selected = nil
}

// onSelect is the scene's pick callback.
func (g *Game) onSelect(id int, _ [3]float64) {
	g.clickPulse[id] = clickPulseTime
}

func (g *Game) setStatus(msg string) {
	g.status = msg
	g.statusTimer = 3
}

// pressed reports a key going down this frame and records it in cur.
func (g *Game) pressed(cur map[ebiten.Key]bool, k ebiten.Key) bool {
	cur[k] = ebiten.IsKeyPressed(k)
	return cur[k] && !g.prevKeys[k]
}

// handleInput processes keypresses (edge-triggered) and clicks.
func (g *Game) handleInput() {
	currentKeys := map[ebiten.Key]bool{}

	if g.pressed(currentKeys, ebiten.KeySpace) {
		g.spawn()
	}
	del := g.pressed(currentKeys, ebiten.KeyDelete)
	if g.pressed(currentKeys, ebiten.KeyBackspace) || del {
		g.removeSelected()
	}

	// O: zone and target-line overlays. H: HUD key legend.
	if g.pressed(currentKeys, ebiten.KeyO) {
		g.showOverlays = !g.showOverlays
	}
	if g.pressed(currentKeys, ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}

	// Music: M=play/pause, N=mute.
	if g.pressed(currentKeys, ebiten.KeyM) && g.music != nil {
		if err := g.music.Toggle(); err != nil {
			g.log.Warn("music toggle failed", zap.Error(err))
			g.setStatus("audio unavailable")
		}
	}
	if g.pressed(currentKeys, ebiten.KeyN) && g.music != nil {
		g.music.ToggleMute()
	}

	// Sim speed controls: P=pause/resume, ,=slower, .=faster.
	speeds := []float64{0, 0.5, 1, 2, 4}
	if g.pressed(currentKeys, ebiten.KeyP) {
		if g.simSpeed > 0 {
			g.simSpeed = 0
		} else {
			g.simSpeed = 1
		}
	}
	if g.pressed(currentKeys, ebiten.KeyComma) {
		for i, s := range speeds {
			if s >= g.simSpeed && i > 0 {
				g.simSpeed = speeds[i-1]
				break
			}
		}
	}
	if g.pressed(currentKeys, ebiten.KeyPeriod) {
		for i, s := range speeds {
			if s <= g.simSpeed && i < len(speeds)-1 {
				if speeds[i+1] > g.simSpeed {
					g.simSpeed = speeds[i+1]
					break
				}
			}
		}
	}

	// Left mouse click: the web first, then a crawler.
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if !g.prevMouseLeft {
			mx, my := ebiten.CursorPosition()
			if g.web.HandleClick(mx, my) {
				g.spawn()
			} else {
				g.handleInspectorClick(mx, my)
			}
		}
	}
	g.prevMouseLeft = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	// I: toggle inspector raw/curated view. C: copy the debug report.
	if g.pressed(currentKeys, ebiten.KeyI) {
		g.inspector.rawView = !g.inspector.rawView
	}
	if g.pressed(currentKeys, ebiten.KeyC) {
		g.copyInspector()
	}

	g.prevKeys = currentKeys
}

// worldToScreen maps a floor point to window pixels. +Z points down the
// screen, so the back wall sits at the top.
func (g *Game) worldToScreen(x, z float64) (float32, float32) {
	f := g.cfg.Floor
	return float32(float64(g.offX) + (x-f.MinX)*pxPerUnit),
		float32(float64(g.offY) + (z-f.MinZ)*pxPerUnit)
}

func (g *Game) screenToWorld(mx, my int) (float64, float64) {
	f := g.cfg.Floor
	return f.MinX + float64(mx-g.offX)/pxPerUnit,
		f.MinZ + float64(my-g.offY)/pxPerUnit
}

func (g *Game) Draw(screen *ebiten.Image) {
	// Window background: very dark, outside the floor.
	screen.Fill(color.RGBA{R: 14, G: 12, B: 20, A: 255})

	ox := float32(g.offX)
	oy := float32(g.offY)
	gw := float32(g.gameWidth)
	gh := float32(g.gameHeight)

	// Floor and its 1-unit grid.
	vector.FillRect(screen, ox, oy, gw, gh, color.RGBA{R: 30, G: 28, B: 40, A: 255}, false)
	drawGridOffset(screen, g.offX, g.offY, g.gameWidth, g.gameHeight, pxPerUnit, color.RGBA{R: 44, G: 42, B: 58, A: 255})

	// Walkable area outline.
	wx0, wz0 := g.worldToScreen(g.scene.Arena().Walk.MinX, g.scene.Arena().Walk.MinZ)
	wx1, wz1 := g.worldToScreen(g.scene.Arena().Walk.MaxX, g.scene.Arena().Walk.MaxZ)
	vector.StrokeRect(screen, wx0, wz0, wx1-wx0, wz1-wz0, 1.0, color.RGBA{R: 70, G: 64, B: 96, A: 120}, false)

	g.drawCharts(screen)
	if g.showOverlays {
		g.drawZoneOverlays(screen)
		g.drawTargetLines(screen)
	}
	g.drawCrawlers(screen)
	g.drawSelectedCrawlerInfo(screen)

	// Floor border frame.
	borderCol := color.RGBA{R: 110, G: 90, B: 170, A: 255}
	vector.StrokeRect(screen, ox-1, oy-1, gw+2, gh+2, 2.0, borderCol, false)
	vector.StrokeRect(screen, ox-3, oy-3, gw+6, gh+6, 1.0, color.RGBA{R: 80, G: 60, B: 130, A: 100}, false)
	g.drawVignette(screen, g.offX, g.offY)

	// Title.
	op := &text.DrawOptions{}
	op.GeoM.Scale(2, 2)
	op.GeoM.Translate(float64(g.offX+16), float64(g.offY+12))
	op.ColorScale.ScaleWithColor(color.RGBA{R: 196, G: 181, B: 253, A: 255})
	text.Draw(screen, "Bug in Dashboard", g.titleFace, op)

	g.web.Draw(screen)

	// Event log panel (screen coords).
	logX := g.offX + g.gameWidth + g.offX
	g.thoughtLog.Draw(screen, logX, g.height)

	// HUD key legend.
	if g.showHUD {
		g.drawHUD(screen)
	}
	if g.statusTimer > 0 && g.status != "" {
		ebitenutil.DebugPrintAt(screen, g.status, g.offX+16, g.offY+g.gameHeight-20)
	}

	// Crawler inspector panel (screen-space, drawn over everything).
	g.drawInspector(screen)
}

// drawCharts renders every chart platform with its bars extruded upward.
func (g *Game) drawCharts(screen *ebiten.Image) {
	for _, z := range g.scene.Arena().Field.Zones() {
		fx0, fz0 := g.worldToScreen(z.Footprint.MinX, z.Footprint.MinZ)
		fx1, fz1 := g.worldToScreen(z.Footprint.MaxX, z.Footprint.MaxZ)
		vector.FillRect(screen, fx0, fz0, fx1-fx0, fz1-fz0, color.RGBA{R: 226, G: 226, B: 236, A: 255}, false)
		vector.StrokeRect(screen, fx0, fz0, fx1-fx0, fz1-fz0, 1.0, color.RGBA{R: 160, G: 160, B: 190, A: 255}, false)

		chart, ok := chartFor(g.charts, z.Name)
		if !ok {
			continue
		}
		for i, r := range chart.BarRects(z) {
			bar := chart.Bars[i]
			x0, z0 := g.worldToScreen(r.MinX, r.MinZ)
			x1, z1 := g.worldToScreen(r.MaxX, r.MaxZ)
			// Oblique extrusion: height lifts the top face up the screen.
			lift := float32(bar.Height * pxPerUnit * 0.35)
			side := color.RGBA{R: bar.Color.R / 2, G: bar.Color.G / 2, B: bar.Color.B / 2, A: 255}
			vector.FillRect(screen, x0, z0-lift, x1-x0, z1-z0+lift, side, false)
			vector.FillRect(screen, x0, z0-lift, x1-x0, z1-z0, bar.Color, false)
		}
		ebitenutil.DebugPrintAt(screen, chart.Title, int(fx0)+4, int(fz1)+2)
	}
}

// drawCrawlers renders each crawler as a body with eight legs and two eyes.
func (g *Game) drawCrawlers(screen *ebiten.Image) {
	for _, c := range g.scene.Crawlers() {
		p := c.Pose()
		sx, sy := g.worldToScreen(p.X, p.Z)

		scale := 1 + (p.Y+p.Bob)*0.5
		if t, ok := g.clickPulse[c.ID()]; ok {
			scale *= 1 + 0.3*t/clickPulseTime
		}
		unitPx := float32(pxPerUnit * scale)

		fx, fz := HeadingVector(p.Heading)
		rx, rz := fz, -fx
		ffx, ffz := float32(fx), float32(fz)
		frx, frz := float32(rx), float32(rz)

		legCol := color.RGBA{R: 24, G: 20, B: 30, A: 255}
		phase := c.LegPhase()
		for side := -1; side <= 1; side += 2 {
			s := float32(side)
			for i := 0; i < 4; i++ {
				along := float32(0.12 - 0.08*float64(i))
				swing := float32(0.08 * math.Sin(phase+float64(i)*math.Pi/2+float64(side)))
				bx := sx + ffx*along*unitPx
				by := sy + ffz*along*unitPx
				kx := bx + (frx*s*0.25+ffx*(along+swing))*unitPx
				ky := by + (frz*s*0.25+ffz*(along+swing))*unitPx
				ex := kx + (frx*s*0.18+ffx*(along*1.5+swing))*unitPx
				ey := ky + (frz*s*0.18+ffz*(along*1.5+swing))*unitPx
				vector.StrokeLine(screen, bx, by, kx, ky, 2.0, legCol, true)
				vector.StrokeLine(screen, kx, ky, ex, ey, 1.5, legCol, true)
			}
		}

		// Abdomen, head, state ring.
		vector.FillCircle(screen, sx-ffx*0.12*unitPx, sy-ffz*0.12*unitPx, 0.16*unitPx, color.RGBA{R: 40, G: 34, B: 48, A: 255}, true)
		vector.FillCircle(screen, sx+ffx*0.1*unitPx, sy+ffz*0.1*unitPx, 0.1*unitPx, color.RGBA{R: 56, G: 48, B: 66, A: 255}, true)
		vector.StrokeCircle(screen, sx, sy, 0.3*unitPx, 1.0, stateColors[c.State()], true)

		// Eyes.
		eyeCol := color.RGBA{R: 240, G: 70, B: 70, A: 255}
		for _, s := range []float32{-1, 1} {
			ex := sx + ffx*0.16*unitPx + frx*s*0.04*unitPx
			ey := sy + ffz*0.16*unitPx + frz*s*0.04*unitPx
			vector.FillCircle(screen, ex, ey, 0.025*unitPx, eyeCol, true)
		}
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	speedStr := "1x"
	if g.simSpeed == 0 {
		speedStr = "PAUSED"
	} else if g.simSpeed == 2 {
		speedStr = "2x"
	} else if g.simSpeed == 4 {
		speedStr = "4x"
	} else if g.simSpeed != 1 {
		speedStr = fmt.Sprintf("%.1fx", g.simSpeed)
	}

	musicStr := "off"
	if g.music != nil {
		switch {
		case g.music.Muted():
			musicStr = "muted"
		case g.music.Playing():
			musicStr = "playing"
		default:
			musicStr = "stopped"
		}
	}

	counts := make(map[CrawlerState]int, len(allStates))
	for _, c := range g.scene.Crawlers() {
		counts[c.State()]++
	}

	lines := []string{
		fmt.Sprintf("SIM: %s  P=pause  ,/. speed", speedStr),
		fmt.Sprintf("crawlers: %d  F=%d", len(g.scene.Crawlers()), g.scene.Frame()),
		fmt.Sprintf("  exp=%d avd=%d pau=%d esc=%d",
			counts[CrawlerExploring], counts[CrawlerAvoiding], counts[CrawlerPaused], counts[CrawlerEscaping]),
		"Space/web=spawn  Del=remove",
		fmt.Sprintf("music: %s  M=play N=mute", musicStr),
		"[O] overlays  [H] toggle HUD",
		"click=inspect  C=copy report",
	}

	// Render into hudBuf at 1x, then scale up.
	const lineH = 12 // debug font line height at 1x
	const charW = 6  // debug font char width at 1x
	const padX = 5
	const padY = 4

	maxLen := 0
	for _, l := range lines {
		if len(l) > maxLen {
			maxLen = len(l)
		}
	}
	boxW := float32(maxLen*charW + padX*2)
	boxH := float32(len(lines)*lineH + padY*2)

	// Position in unscaled coordinates (hudBuf is screen/hudScale).
	bufH := float32(g.height / hudScale)
	bx := float32(4)
	by := bufH - boxH - 4

	g.hudBuf.Clear()
	// Panel background.
	vector.FillRect(g.hudBuf, bx, by, boxW, boxH,
		color.RGBA{R: 10, G: 6, B: 16, A: 210}, false)
	vector.StrokeRect(g.hudBuf, bx, by, boxW, boxH,
		1.0, color.RGBA{R: 100, G: 70, B: 160, A: 180}, false)
	// Inner highlight line along top edge.
	vector.StrokeLine(g.hudBuf, bx+1, by+1, bx+boxW-1, by+1,
		1.0, color.RGBA{R: 140, G: 100, B: 220, A: 80}, false)

	for i, line := range lines {
		tx := int(bx) + padX
		ty := int(by) + padY + i*lineH
		ebitenutil.DebugPrintAt(g.hudBuf, line, tx, ty)
	}

	// Blit hudBuf onto screen at hudScale.
	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(hudScale), float64(hudScale))
	screen.DrawImage(g.hudBuf, opts)
}

func (g *Game) drawVignette(screen *ebiten.Image, offX, offY int) {
	ox, oy := float32(offX), float32(offY)
	gw, gh := float32(g.gameWidth), float32(g.gameHeight)

	// Outer hard strip: strong darkening at the absolute edge.
	outer := float32(20)
	outerDark := color.RGBA{R: 0, G: 0, B: 0, A: 70}
	vector.FillRect(screen, ox, oy, gw, outer, outerDark, false)
	vector.FillRect(screen, ox, oy+gh-outer, gw, outer, outerDark, false)
	vector.FillRect(screen, ox, oy, outer, gh, outerDark, false)
	vector.FillRect(screen, ox+gw-outer, oy, outer, gh, outerDark, false)

	// Inner soft band.
	inner := float32(60)
	innerDark := color.RGBA{R: 0, G: 0, B: 0, A: 25}
	vector.FillRect(screen, ox, oy, gw, inner, innerDark, false)
	vector.FillRect(screen, ox, oy+gh-inner, gw, inner, innerDark, false)
	vector.FillRect(screen, ox, oy, inner, gh, innerDark, false)
	vector.FillRect(screen, ox+gw-inner, oy, inner, gh, innerDark, false)
}

func drawGridOffset(screen *ebiten.Image, offX, offY, w, h, spacing int, c color.Color) {
	if spacing <= 0 {
		return
	}
	ox, oy := float32(offX), float32(offY)
	for x := 0; x <= w; x += spacing {
		xf := ox + float32(x)
		vector.StrokeLine(screen, xf, oy, xf, oy+float32(h), 1.0, c, false)
	}
	for y := 0; y <= h; y += spacing {
		yf := oy + float32(y)
		vector.StrokeLine(screen, ox, yf, ox+float32(w), yf, 1.0, c, false)
	}
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

// WindowSize is the natural window size for the configured floor.
func (g *Game) WindowSize() (int, int) {
	return g.width, g.height
}
