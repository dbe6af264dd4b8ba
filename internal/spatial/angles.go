// Package spatial provides the 3D kinematic geometry used by the analyzers:
// joint angles, plane projections, and segment inclinations over body-tracker
// coordinates (X lateral, Y up, Z forward, meters).
package spatial

import (
	"math"

	"github.com/golang/geo/r3"
)

const radToDeg = 180 / math.Pi

// JointAngle returns the interior angle in degrees at vertex b of the chain
// a-b-c, e.g. knee flexion from hip-knee-ankle. Degenerate segments yield 0.
func JointAngle(a, b, c r3.Vector) float64 {
	u := a.Sub(b)
	v := c.Sub(b)
	if u.Norm() == 0 || v.Norm() == 0 {
		return 0
	}
	return u.Angle(v).Degrees()
}

// InclinationFromVertical returns the angle in degrees between the segment
// from lower to upper and the vertical axis.
func InclinationFromVertical(lower, upper r3.Vector) float64 {
	seg := upper.Sub(lower)
	if seg.Norm() == 0 {
		return 0
	}
	return seg.Angle(r3.Vector{Y: 1}).Degrees()
}

// SagittalInclination returns the signed forward lean in degrees of the
// segment from lower to upper, projected onto the sagittal (Y-Z) plane.
// Positive leans forward.
func SagittalInclination(lower, upper r3.Vector) float64 {
	dy := upper.Y - lower.Y
	dz := upper.Z - lower.Z
	if dy == 0 && dz == 0 {
		return 0
	}
	return math.Atan2(dz, dy) * radToDeg
}

// FrontalInclination returns the signed lateral lean in degrees of the
// segment from lower to upper, projected onto the frontal (X-Y) plane.
// Positive leans toward the subject's right.
func FrontalInclination(lower, upper r3.Vector) float64 {
	dy := upper.Y - lower.Y
	dx := upper.X - lower.X
	if dy == 0 && dx == 0 {
		return 0
	}
	return math.Atan2(dx, dy) * radToDeg
}

// LineTilt returns the absolute tilt in degrees of the line joining a left
// and right landmark against the horizontal, e.g. shoulder tilt or pelvic
// obliquity.
func LineTilt(left, right r3.Vector) float64 {
	dx := right.X - left.X
	dy := right.Y - left.Y
	if dx == 0 && dy == 0 {
		return 0
	}
	return math.Abs(math.Atan2(dy, math.Abs(dx)) * radToDeg)
}

// ElevationAngle returns the angle in degrees of the segment from a to b
// above the horizontal plane through a. Lower values mean the target sits
// forward rather than above, as in the craniovertebral angle.
func ElevationAngle(a, b r3.Vector) float64 {
	seg := b.Sub(a)
	horiz := math.Hypot(seg.X, seg.Z)
	if horiz == 0 && seg.Y == 0 {
		return 0
	}
	return math.Atan2(seg.Y, horiz) * radToDeg
}

// HorizontalDistance returns the distance between two points ignoring height.
func HorizontalDistance(a, b r3.Vector) float64 {
	return math.Hypot(b.X-a.X, b.Z-a.Z)
}

// SagittalOffset returns the forward (Z) offset in meters from a to b.
func SagittalOffset(a, b r3.Vector) float64 {
	return b.Z - a.Z
}
