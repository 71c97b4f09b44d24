package game

import "math"

// HeadingTo returns the yaw in radians from (ox,oz) toward (tx,tz).
// 0 faces +Z, π/2 faces +X.
func HeadingTo(ox, oz, tx, tz float64) float64 {
	return math.Atan2(tx-ox, tz-oz)
}

// HeadingVector returns the unit ground-plane direction for a yaw.
func HeadingVector(h float64) (float64, float64) {
	return math.Sin(h), math.Cos(h)
}

// turnToward rotates heading toward target by at most maxTurn radians and
// returns the new heading and the remaining (signed) difference.
func turnToward(heading, target, maxTurn float64) (float64, float64) {
	diff := normalizeAngle(target - heading)
	step := clamp(diff, -maxTurn, maxTurn)
	return normalizeAngle(heading + step), diff - step
}

// normalizeAngle wraps an angle to [-pi, pi].
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
