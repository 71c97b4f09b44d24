package game

import "math"

// ExploreStrategy is one of the ways a crawler chooses its next wander target.
type ExploreStrategy int

const (
	ExploreRoam      ExploreStrategy = iota // anywhere on the floor
	ExploreWall                             // a band along one of the four walls
	ExploreCorner                           // one of four corner boxes
	ExploreArc                              // a point on a wide circle around the centre
	ExploreOpposite                         // the far side of the room from here
	ExplorePerimeter                        // near a fixed waypoint on the floor edge
	exploreStrategyCount
)

func (es ExploreStrategy) String() string {
	switch es {
	case ExploreRoam:
		return "roam"
	case ExploreWall:
		return "wall"
	case ExploreCorner:
		return "corner"
	case ExploreArc:
		return "arc"
	case ExploreOpposite:
		return "opposite"
	case ExplorePerimeter:
		return "perimeter"
	default:
		return "unknown"
	}
}

// weightedChoice returns an index into weights with probability
// proportional to its weight. Non-positive weights are never chosen; if
// every weight is non-positive it returns 0.
func weightedChoice(r Rand, weights []float64) int {
	total := 0.0
	last := 0
	for i, w := range weights {
		if w > 0 {
			total += w
			last = i
		}
	}
	if total <= 0 {
		return 0
	}
	x := r.Float64() * total
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		x -= w
		if x < 0 {
			return i
		}
	}
	return last
}

// pickIndex maps a draw in [0,1) onto [0,n).
func pickIndex(r Rand, n int) int {
	i := int(r.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// pickTarget chooses the next wander target. Candidates inside or too close
// to a chart are replaced by uniform floor points, up to TargetAttempts times.
func (c *Crawler) pickTarget() (float64, float64, ExploreStrategy) {
	t := &c.arena.Tuning
	walk := c.arena.Walk
	field := c.arena.Field

	s := ExploreStrategy(weightedChoice(c.rng, t.StrategyWeights[:]))
	x, z := walk.Clamp(c.proposeTarget(s))
	for i := 0; i < t.TargetAttempts; i++ {
		r := field.Detect(x, z)
		if !r.Detected && r.Distance > t.TargetClearance {
			break
		}
		s = ExploreRoam
		x, z = walk.Clamp(c.proposeTarget(ExploreRoam))
	}
	return x, z, s
}

// proposeTarget draws an unclamped candidate for one strategy.
func (c *Crawler) proposeTarget(s ExploreStrategy) (float64, float64) {
	t := &c.arena.Tuning
	floor := c.arena.Floor
	walk := c.arena.Walk
	rnd := c.rng.Float64
	cx, cz := floor.Center()

	switch s {
	case ExploreWall:
		band := t.WallBand
		switch pickIndex(c.rng, 4) {
		case 0:
			return walk.MinX + rnd()*band, floor.MinZ + rnd()*floor.Depth()
		case 1:
			return walk.MaxX - band + rnd()*band, floor.MinZ + rnd()*floor.Depth()
		case 2:
			return floor.MinX + rnd()*floor.Width(), walk.MinZ + rnd()*band
		default:
			return floor.MinX + rnd()*floor.Width(), walk.MaxZ - band + rnd()*band
		}

	case ExploreCorner:
		box := t.CornerBox
		lowX, highX := floor.MinX+2, floor.MaxX-1-box
		lowZ, highZ := floor.MinZ+2, floor.MaxZ-1-box
		corners := [4][2]float64{{lowX, lowZ}, {highX, lowZ}, {lowX, highZ}, {highX, highZ}}
		k := corners[pickIndex(c.rng, 4)]
		return k[0] + rnd()*box, k[1] + rnd()*box

	case ExploreArc:
		angle := rnd() * 2 * math.Pi
		radius := lerp(t.ArcRadiusMin, t.ArcRadiusMax, rnd())
		return cx + math.Cos(angle)*radius, cz + math.Sin(angle)*radius

	case ExploreOpposite:
		reach := t.OppositeReach
		tx := floor.MaxX - 2 + rnd()*reach
		if c.pose.X > cx {
			tx = floor.MinX + 2 - rnd()*reach
		}
		tz := floor.MaxZ - 2 + rnd()*reach
		if c.pose.Z > cz {
			tz = floor.MinZ + 2 - rnd()*reach
		}
		return tx, tz

	case ExplorePerimeter:
		pts := perimeterPoints(floor)
		p := pts[pickIndex(c.rng, len(pts))]
		j := t.PerimeterJitter
		return p[0] + (rnd()*2-1)*j, p[1] + (rnd()*2-1)*j

	default:
		return floor.MinX + rnd()*floor.Width(), floor.MinZ + rnd()*floor.Depth()
	}
}

// perimeterPoints returns the patrol waypoints around the floor edge,
// back edge first, then right, front and left.
func perimeterPoints(floor Rect) [][2]float64 {
	w, d := floor.Width(), floor.Depth()
	pts := make([][2]float64, 0, 18)
	for _, f := range []float64{0, 0.25, 0.5, 0.75, 1} {
		pts = append(pts, [2]float64{floor.MinX + f*w, floor.MinZ})
	}
	for _, f := range []float64{0.2, 0.4, 0.6, 0.8, 1} {
		pts = append(pts, [2]float64{floor.MaxX, floor.MinZ + f*d})
	}
	for _, f := range []float64{0.75, 0.5, 0.25, 0} {
		pts = append(pts, [2]float64{floor.MinX + f*w, floor.MaxZ})
	}
	for _, f := range []float64{0.8, 0.6, 0.4, 0.2} {
		pts = append(pts, [2]float64{floor.MinX, floor.MinZ + f*d})
	}
	return pts
}
