package kinematic

// This package includes the pose type and the first-order momentum helpers
// used to integrate it.

import (
	"math"
)

// Pose is a position and heading in the plane. R is in degrees and is never
// normalized.
type Pose struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	R float64 `json:"r"`
}

// Limits scales momentum into motion during pose integration.
type Limits struct {
	// MaxSpeed is the distance travelled per tick at full speed momentum.
	MaxSpeed float64 `json:"maxSpeed"`
	// MaxSteering is the heading change in degrees per tick at full steering momentum.
	MaxSteering float64 `json:"maxSteering"`
	// AngleCorrection rotates the heading reference frame, in degrees.
	AngleCorrection float64 `json:"angleCorrection"`
}

// DegreesToRadians converts an angle in degrees to radians.
func DegreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// Ramp moves v by delta and clamps the result at limit. A positive delta
// clamps from above, a negative delta from below.
func Ramp(v float64, delta float64, limit float64) float64 {
	next := v + delta
	if delta >= 0 {
		return math.Min(next, limit)
	}
	return math.Max(next, limit)
}

// Relax moves v toward zero by rate. It stops at exactly zero once the
// remaining magnitude is not larger than rate.
func Relax(v float64, rate float64) float64 {
	switch {
	case v > rate:
		return v - rate
	case v < -rate:
		return v + rate
	default:
		return 0
	}
}

// Integrate advances p by one tick given speed and steering momentum.
// The position update uses the heading before the steering update is applied.
func Integrate(p Pose, speed float64, steering float64, l Limits) Pose {
	heading := DegreesToRadians(p.R + l.AngleCorrection)
	return Pose{
		X: p.X + l.MaxSpeed*speed*math.Sin(heading),
		Y: p.Y - l.MaxSpeed*speed*math.Cos(heading),
		R: p.R + l.MaxSteering*steering,
	}
}
