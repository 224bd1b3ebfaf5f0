package kinematic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

var testLimits = Limits{MaxSpeed: 5, MaxSteering: 2, AngleCorrection: 90}

func TestDegreesToRadians(t *testing.T) {
	assert.InDelta(t, math.Pi, DegreesToRadians(180), 1e-12)
	assert.InDelta(t, -math.Pi/2, DegreesToRadians(-90), 1e-12)
}

func TestRamp(t *testing.T) {
	tests := []struct {
		name  string
		v     float64
		delta float64
		limit float64
		want  float64
	}{
		{name: "increase below limit", v: 0.2, delta: 0.3, limit: 1, want: 0.5},
		{name: "increase clamps at limit", v: 0.9, delta: 0.3, limit: 1, want: 1},
		{name: "decrease above floor", v: 0.5, delta: -0.2, limit: 0, want: 0.3},
		{name: "decrease clamps at floor", v: 0.1, delta: -0.5, limit: 0, want: 0},
		{name: "decrease clamps at negative floor", v: -0.5, delta: -1, limit: -1, want: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Ramp(tt.v, tt.delta, tt.limit), 1e-12)
		})
	}
}

func TestRelax(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		rate float64
		want float64
	}{
		{name: "positive steps down", v: 0.8, rate: 0.5, want: 0.8 - 0.5},
		{name: "negative steps up", v: -0.8, rate: 0.5, want: -0.8 + 0.5},
		{name: "positive residue snaps to zero", v: 0.3, rate: 0.5, want: 0},
		{name: "negative residue snaps to zero", v: -0.3, rate: 0.5, want: 0},
		{name: "exact rate reaches zero", v: 0.5, rate: 0.5, want: 0},
		{name: "zero stays zero", v: 0, rate: 0.5, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Relax(tt.v, tt.rate)
			if tt.want == 0 {
				// convergence must be exact, not approximate
				assert.Equal(t, 0.0, got)
				return
			}
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestIntegrate(t *testing.T) {
	t.Run("zero heading moves along x", func(t *testing.T) {
		got := Integrate(Pose{}, 0.3, 0, testLimits)
		assert.InDelta(t, 1.5, got.X, 1e-9)
		assert.InDelta(t, 0, got.Y, 1e-9)
		assert.Equal(t, 0.0, got.R)
	})

	t.Run("heading of ninety moves toward positive y", func(t *testing.T) {
		got := Integrate(Pose{R: 90}, 1, 0, testLimits)
		assert.InDelta(t, 0, got.X, 1e-9)
		assert.InDelta(t, 5, got.Y, 1e-9)
	})

	t.Run("steering uses previous heading for position", func(t *testing.T) {
		got := Integrate(Pose{X: 1, Y: 2, R: 0}, 1, 1, testLimits)
		assert.InDelta(t, 6, got.X, 1e-9)
		assert.InDelta(t, 2, got.Y, 1e-9)
		assert.Equal(t, 2.0, got.R)
	})

	t.Run("heading is not normalized", func(t *testing.T) {
		got := Integrate(Pose{R: 359}, 0, 1, testLimits)
		assert.Equal(t, 361.0, got.R)
	})
}
