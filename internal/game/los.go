package game

import "math"

// SegmentClear returns true if a straight line from (ax,az) to (bx,bz) does
// not cross any zone's bounds. Uses simple ray-vs-AABB tests.
func (f *ObstacleField) SegmentClear(ax, az, bx, bz float64) bool {
	for i := range f.zones {
		b := f.zones[i].Bounds
		if segmentIntersectsRect(ax, az, bx, bz, b) {
			return false
		}
	}
	return true
}

// FirstHit returns the zone index and segment parameter t in [0,1] of the
// first zone the segment enters. ok is false when the segment is clear.
func (f *ObstacleField) FirstHit(ax, az, bx, bz float64) (zone int, t float64, ok bool) {
	best := math.Inf(1)
	zone = -1
	for i := range f.zones {
		if ht, hit := segmentRectHitT(ax, az, bx, bz, f.zones[i].Bounds); hit && ht < best {
			best = ht
			zone = i
		}
	}
	if zone < 0 {
		return -1, 0, false
	}
	return zone, best, true
}

// segmentRectHitT returns the first segment parameter t in [0,1] where the
// line from (ox,oz)->(ex,ez) enters r. The bool is false when no hit exists.
func segmentRectHitT(ox, oz, ex, ez float64, r Rect) (float64, bool) {
	dx := ex - ox
	dz := ez - oz

	tMin := 0.0
	tMax := 1.0

	// X slab
	if math.Abs(dx) < 1e-12 {
		if ox < r.MinX || ox > r.MaxX {
			return 0, false
		}
	} else {
		invD := 1.0 / dx
		t1 := (r.MinX - ox) * invD
		t2 := (r.MaxX - ox) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	// Z slab
	if math.Abs(dz) < 1e-12 {
		if oz < r.MinZ || oz > r.MaxZ {
			return 0, false
		}
	} else {
		invD := 1.0 / dz
		t1 := (r.MinZ - oz) * invD
		t2 := (r.MaxZ - oz) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	if tMax < 0 || tMin > 1 {
		return 0, false
	}
	return tMin, true
}

func segmentIntersectsRect(ox, oz, ex, ez float64, r Rect) bool {
	_, hit := segmentRectHitT(ox, oz, ex, ez, r)
	return hit
}
