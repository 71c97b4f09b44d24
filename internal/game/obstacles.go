package game

import "math"

// Rect is an axis-aligned rectangle on the ground plane (X/Z).
type Rect struct {
	MinX float64 `yaml:"min_x"`
	MaxX float64 `yaml:"max_x"`
	MinZ float64 `yaml:"min_z"`
	MaxZ float64 `yaml:"max_z"`
}

// Valid reports whether the rectangle has positive extent on both axes.
func (r Rect) Valid() bool {
	return r.MinX < r.MaxX && r.MinZ < r.MaxZ
}

// Contains reports whether (x,z) lies inside or on the edge of r.
func (r Rect) Contains(x, z float64) bool {
	return x >= r.MinX && x <= r.MaxX && z >= r.MinZ && z <= r.MaxZ
}

// ContainsRect reports whether o lies entirely within r.
func (r Rect) ContainsRect(o Rect) bool {
	return o.MinX >= r.MinX && o.MaxX <= r.MaxX && o.MinZ >= r.MinZ && o.MaxZ <= r.MaxZ
}

// Distance returns the Euclidean distance from (x,z) to the nearest point
// of r, or 0 if the point is inside.
func (r Rect) Distance(x, z float64) float64 {
	dx := math.Max(0, math.Max(r.MinX-x, x-r.MaxX))
	dz := math.Max(0, math.Max(r.MinZ-z, z-r.MaxZ))
	return math.Sqrt(dx*dx + dz*dz)
}

// Inset shrinks r by m on every side (negative m grows it).
func (r Rect) Inset(m float64) Rect {
	return Rect{MinX: r.MinX + m, MaxX: r.MaxX - m, MinZ: r.MinZ + m, MaxZ: r.MaxZ - m}
}

// Clamp limits (x,z) to r.
func (r Rect) Clamp(x, z float64) (float64, float64) {
	return clamp(x, r.MinX, r.MaxX), clamp(z, r.MinZ, r.MaxZ)
}

// Center returns the midpoint of r.
func (r Rect) Center() (float64, float64) {
	return (r.MinX + r.MaxX) / 2, (r.MinZ + r.MaxZ) / 2
}

// Width is the X extent.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Depth is the Z extent.
func (r Rect) Depth() float64 { return r.MaxZ - r.MinZ }

// Zone is a static no-entry area. Bounds is the collision rectangle;
// Footprint is the slightly larger physical base the crawler climbs onto,
// used only for surface height.
type Zone struct {
	Name      string `yaml:"name"`
	Bounds    Rect   `yaml:"bounds"`
	Footprint Rect   `yaml:"footprint"`
}

// ObstacleReading is the result of a point query against the field.
type ObstacleReading struct {
	Detected bool
	Distance float64 // to the nearest zone bounds; 0 when Detected
}

// ObstacleField answers containment, distance and height queries against a
// fixed zone set. It is never mutated after construction, so any number of
// crawlers may query it.
type ObstacleField struct {
	zones          []Zone
	groundHeight   float64
	platformHeight float64
}

// NewObstacleField copies zones into a new field.
func NewObstacleField(zones []Zone, groundHeight, platformHeight float64) *ObstacleField {
	zs := make([]Zone, len(zones))
	copy(zs, zones)
	return &ObstacleField{
		zones:          zs,
		groundHeight:   groundHeight,
		platformHeight: platformHeight,
	}
}

// Zones returns a copy of the zone list.
func (f *ObstacleField) Zones() []Zone {
	out := make([]Zone, len(f.zones))
	copy(out, f.zones)
	return out
}

// Detect reports whether (x,z) is inside any zone's bounds and the distance
// to the nearest zone. An empty field reports +Inf distance.
func (f *ObstacleField) Detect(x, z float64) ObstacleReading {
	res := ObstacleReading{Distance: math.Inf(1)}
	for i := range f.zones {
		b := f.zones[i].Bounds
		if b.Contains(x, z) {
			res.Detected = true
			res.Distance = 0
			continue
		}
		if d := b.Distance(x, z); d < res.Distance {
			res.Distance = d
		}
	}
	return res
}

// SurfaceHeight returns the platform height over any zone footprint and the
// ground height elsewhere.
func (f *ObstacleField) SurfaceHeight(x, z float64) float64 {
	for i := range f.zones {
		if f.zones[i].Footprint.Contains(x, z) {
			return f.platformHeight
		}
	}
	return f.groundHeight
}

// ejectStep is how far past a zone edge EjectWithin places a point.
const ejectStep = 0.05

// EjectWithin moves (x,z) out of any zone it lies in, leaving through the
// nearest edge whose exit lands inside within. Points already clear are
// returned unchanged; a zone with no such exit leaves the point where it is.
func (f *ObstacleField) EjectWithin(x, z float64, within Rect) (float64, float64) {
	type exit struct{ x, z, depth float64 }

	// Zones may touch; a bounded number of passes resolves chains.
	for pass := 0; pass <= len(f.zones); pass++ {
		moved := false
		for i := range f.zones {
			b := f.zones[i].Bounds
			if !b.Contains(x, z) {
				continue
			}
			exits := [4]exit{
				{b.MinX - ejectStep, z, x - b.MinX},
				{b.MaxX + ejectStep, z, b.MaxX - x},
				{x, b.MinZ - ejectStep, z - b.MinZ},
				{x, b.MaxZ + ejectStep, b.MaxZ - z},
			}
			best := -1
			for k, e := range exits {
				if !within.Contains(e.x, e.z) {
					continue
				}
				if best < 0 || e.depth < exits[best].depth {
					best = k
				}
			}
			if best < 0 {
				continue
			}
			x, z = exits[best].x, exits[best].z
			moved = true
		}
		if !moved {
			break
		}
	}
	return x, z
}

// DashboardZones returns the three chart platforms of the default scene.
func DashboardZones() []Zone {
	return []Zone{
		{
			Name:      "sprint",
			Bounds:    Rect{MinX: -10.2, MaxX: -5.8, MinZ: -4.7, MaxZ: -1.3},
			Footprint: Rect{MinX: -10.5, MaxX: -5.5, MinZ: -5, MaxZ: -1},
		},
		{
			Name:      "velocity",
			Bounds:    Rect{MinX: 5.8, MaxX: 10.2, MinZ: -4.7, MaxZ: -1.3},
			Footprint: Rect{MinX: 5.5, MaxX: 10.5, MinZ: -5, MaxZ: -1},
		},
		{
			Name:      "bugs",
			Bounds:    Rect{MinX: -2.2, MaxX: 2.2, MinZ: -9.7, MaxZ: -6.3},
			Footprint: Rect{MinX: -2.5, MaxX: 2.5, MinZ: -10, MaxZ: -6},
		},
	}
}

// clamp limits value to the range [lo, hi].
func clamp(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
