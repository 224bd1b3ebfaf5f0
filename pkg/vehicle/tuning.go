package vehicle

import (
	"math"

	"github.com/cbodonnell/drivesim/pkg/kinematic"
)

const (
	// AccelerationRate is the speed momentum gained per second while accelerating
	AccelerationRate float64 = 0.3
	// BrakingRate is the speed momentum lost per second while braking
	BrakingRate float64 = 0.5
	// CoastingRate is the speed momentum lost per second with no speed input
	CoastingRate float64 = 0.2
	// SteeringRate is the steering momentum gained per second while steering
	SteeringRate float64 = 1.0
	// CenteringRate is the steering momentum returned toward zero per second with no steering input
	CenteringRate float64 = 0.5

	// MaxSpeed is the distance covered per tick at full speed momentum
	MaxSpeed float64 = 5
	// MaxSteering is the heading change in degrees per tick at full steering momentum
	MaxSteering float64 = 2
	// AngleCorrection makes a zero heading travel along +x with y decreasing upward on screen
	AngleCorrection float64 = 90
)

// Tuning holds the rates and limits of the momentum model. Rates are per
// second of simulated time.
type Tuning struct {
	AccelerationRate float64          `json:"accelerationRate"`
	BrakingRate      float64          `json:"brakingRate"`
	CoastingRate     float64          `json:"coastingRate"`
	SteeringRate     float64          `json:"steeringRate"`
	CenteringRate    float64          `json:"centeringRate"`
	Limits           kinematic.Limits `json:"limits"`
}

// DefaultTuning returns the standard driving feel.
func DefaultTuning() Tuning {
	return Tuning{
		AccelerationRate: AccelerationRate,
		BrakingRate:      BrakingRate,
		CoastingRate:     CoastingRate,
		SteeringRate:     SteeringRate,
		CenteringRate:    CenteringRate,
		Limits: kinematic.Limits{
			MaxSpeed:        MaxSpeed,
			MaxSteering:     MaxSteering,
			AngleCorrection: AngleCorrection,
		},
	}
}

// Validate checks that every rate and limit is a positive finite number.
// The angle correction only has to be finite.
func (t Tuning) Validate() error {
	positive := []struct {
		field string
		value float64
	}{
		{"accelerationRate", t.AccelerationRate},
		{"brakingRate", t.BrakingRate},
		{"coastingRate", t.CoastingRate},
		{"steeringRate", t.SteeringRate},
		{"centeringRate", t.CenteringRate},
		{"maxSpeed", t.Limits.MaxSpeed},
		{"maxSteering", t.Limits.MaxSteering},
	}
	for _, p := range positive {
		if !isFinite(p.value) || p.value <= 0 {
			return &ConfigurationError{Field: p.field, Value: p.value, Reason: "must be a positive finite number"}
		}
	}
	if !isFinite(t.Limits.AngleCorrection) {
		return &ConfigurationError{Field: "angleCorrection", Value: t.Limits.AngleCorrection, Reason: "must be finite"}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
