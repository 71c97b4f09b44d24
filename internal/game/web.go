package game

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	webSize      = 192 // widget edge in screen pixels
	webMargin    = 32  // gap to the top-right corner of the floor view
	webFadeTime  = 1.0 // seconds to fade out once a crawler exists
	webMinScale  = 0.75
	webPulseTime = 2.0 // seconds per pulse cycle
)

// WebWidget is the clickable spider web in the top-right corner of the
// floor. It is visible while the scene is empty; the first crawler fades
// and shrinks it away, and removing every crawler brings it back.
type WebWidget struct {
	// Top-left corner in screen pixels.
	x, y int

	hidden  bool    // a crawler exists; clicks are ignored
	fade    float64 // 0 = fully shown, 1 = fully faded
	pulse   float64 // seconds into the pulse cycle
	hovered bool
}

// NewWebWidget places the widget against the top-right corner of a view
// whose top-right pixel is (right, top).
func NewWebWidget(right, top int) *WebWidget {
	return &WebWidget{
		x: right - webMargin - webSize,
		y: top + webMargin,
	}
}

// Update advances the fade and pulse by dt seconds.
func (w *WebWidget) Update(dt float64, hasCrawler bool, cursorX, cursorY int) {
	w.hidden = hasCrawler
	step := dt / webFadeTime
	if w.hidden {
		w.fade = math.Min(1, w.fade+step)
	} else {
		w.fade = math.Max(0, w.fade-step)
	}
	w.pulse = math.Mod(w.pulse+dt, webPulseTime)
	w.hovered = !w.hidden && w.contains(cursorX, cursorY)
}

// HandleClick reports whether a click at (mx,my) landed on the widget. A
// hidden widget never takes clicks, even while it is still fading.
func (w *WebWidget) HandleClick(mx, my int) bool {
	return !w.hidden && w.contains(mx, my)
}

// Opacity is the current alpha in [0,1].
func (w *WebWidget) Opacity() float64 {
	return 1 - easeInOut(w.fade)
}

// Scale is the current size factor in [webMinScale,1].
func (w *WebWidget) Scale() float64 {
	return 1 - (1-webMinScale)*easeInOut(w.fade)
}

func (w *WebWidget) contains(mx, my int) bool {
	return mx >= w.x && mx < w.x+webSize && my >= w.y && my < w.y+webSize
}

// Draw renders the web. Nothing is drawn once fully faded.
func (w *WebWidget) Draw(screen *ebiten.Image) {
	alpha := w.Opacity()
	if alpha <= 0 {
		return
	}
	// CSS-style pulse: opacity dips to half at mid-cycle.
	p := 0.75 + 0.25*math.Cos(2*math.Pi*w.pulse/webPulseTime)
	alpha *= p

	half := float32(webSize) / 2
	cx := float32(w.x) + half
	cy := float32(w.y) + half
	r := half * float32(w.Scale())

	strand := color.RGBA{R: 196, G: 181, B: 253, A: 255}
	if !w.hovered {
		strand.A = 180
	}
	strand = fadeColor(strand, alpha)

	// Radial threads: vertical, horizontal and both diagonals.
	vector.StrokeLine(screen, cx, cy-r, cx, cy+r, 1.5, strand, true)
	vector.StrokeLine(screen, cx-r, cy, cx+r, cy, 1.5, strand, true)
	d := r * 0.7
	vector.StrokeLine(screen, cx-d, cy-d, cx+d, cy+d, 1.5, strand, true)
	vector.StrokeLine(screen, cx-d, cy+d, cx+d, cy-d, 1.5, strand, true)

	// Spiral rings.
	for _, f := range []float32{0.3, 0.6, 0.9} {
		vector.StrokeCircle(screen, cx, cy, r*f, 1.2, strand, true)
	}

	// "Click Here" badge.
	badge := color.RGBA{R: 139, G: 92, B: 246, A: 204}
	if w.hovered {
		badge.A = 230
	}
	bw, bh := float32(72)*float32(w.Scale()), float32(20)*float32(w.Scale())
	vector.FillRect(screen, cx-bw/2, cy-bh/2, bw, bh, fadeColor(badge, alpha), true)
	vector.StrokeRect(screen, cx-bw/2, cy-bh/2, bw, bh, 1, fadeColor(strand, 0.6), true)
	if alpha > 0.5 {
		ebitenutil.DebugPrintAt(screen, "Click Here", int(cx)-30, int(cy)-8)
	}
}

// easeInOut is a smoothstep over [0,1].
func easeInOut(t float64) float64 {
	t = clamp(t, 0, 1)
	return t * t * (3 - 2*t)
}

func fadeColor(c color.RGBA, alpha float64) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: uint8(float64(c.A) * clamp(alpha, 0, 1))}
}
