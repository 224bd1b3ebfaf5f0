package objects

import (
	"testing"

	"github.com/cbodonnell/drivesim/pkg/kinematic"
	"github.com/cbodonnell/drivesim/pkg/messages"
	"github.com/cbodonnell/drivesim/pkg/vehicle"
	"github.com/stretchr/testify/assert"
)

func TestWorldToScreen(t *testing.T) {
	camera := kinematic.Pose{X: 100, Y: 50}

	tests := []struct {
		name  string
		x, y  float64
		wantX float64
		wantY float64
	}{
		{name: "camera at centre", x: 100, y: 50, wantX: 320, wantY: 240},
		{name: "world +x is up", x: 110, y: 50, wantX: 320, wantY: 230},
		{name: "world +y is left", x: 100, y: 60, wantX: 310, wantY: 240},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := WorldToScreen(tt.x, tt.y, camera, 640, 480)
			assert.InDelta(t, tt.wantX, x, 1e-9)
			assert.InDelta(t, tt.wantY, y, 1e-9)
		})
	}
}

func TestScreenTransform(t *testing.T) {
	noseX, noseY := float64(VehicleWidth)/2, 0.0
	centreX, centreY := float64(VehicleWidth)/2, float64(VehicleLength)/2

	tests := []struct {
		name        string
		pose        kinematic.Pose
		wantNoseX   float64
		wantNoseY   float64
		wantCentreX float64
		wantCentreY float64
	}{
		{name: "zero heading points up", pose: kinematic.Pose{}, wantNoseX: 320, wantNoseY: 225, wantCentreX: 320, wantCentreY: 240},
		{name: "heading 90 points left", pose: kinematic.Pose{R: 90}, wantNoseX: 305, wantNoseY: 240, wantCentreX: 320, wantCentreY: 240},
		{name: "heading -90 points right", pose: kinematic.Pose{R: -90}, wantNoseX: 335, wantNoseY: 240, wantCentreX: 320, wantCentreY: 240},
		{name: "heading 360 points up", pose: kinematic.Pose{R: 360}, wantNoseX: 320, wantNoseY: 225, wantCentreX: 320, wantCentreY: 240},
		{name: "offset from camera", pose: kinematic.Pose{X: 10, Y: -20}, wantNoseX: 340, wantNoseY: 215, wantCentreX: 340, wantCentreY: 230},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ScreenTransform(tt.pose, kinematic.Pose{}, 640, 480)
			x, y := m.Apply(noseX, noseY)
			assert.InDelta(t, tt.wantNoseX, x, 1e-9)
			assert.InDelta(t, tt.wantNoseY, y, 1e-9)
			x, y = m.Apply(centreX, centreY)
			assert.InDelta(t, tt.wantCentreX, x, 1e-9)
			assert.InDelta(t, tt.wantCentreY, y, 1e-9)
		})
	}
}

func TestForwardMotionMatchesNose(t *testing.T) {
	// one full-speed tick moves the vehicle toward its nose on screen
	for _, heading := range []float64{0, 30, 90, 200, -45} {
		start := kinematic.Pose{R: heading}
		moved := kinematic.Integrate(start, 1, 0, vehicle.DefaultTuning().Limits)

		sx, sy := WorldToScreen(moved.X, moved.Y, kinematic.Pose{}, 640, 480)
		nx, ny := ScreenTransform(start, kinematic.Pose{}, 640, 480).Apply(float64(VehicleWidth)/2, 0)

		// both vectors are measured from the screen centre
		dot := (sx-320)*(nx-320) + (sy-240)*(ny-240)
		assert.Greater(t, dot, 0.0, "heading %v", heading)
	}
}

func TestGridLines(t *testing.T) {
	lines := GridLines(0, 100)
	assert.Equal(t, []float64{90, 50, 10}, lines)

	lines = GridLines(20, 100)
	assert.Equal(t, []float64{70, 30}, lines)
}

func TestHUDLines(t *testing.T) {
	assert.Equal(t, []string{"waiting for first tick"}, HUDLines(nil))

	lines := HUDLines(&messages.ServerPoseUpdate{
		Tick:             7,
		Pose:             kinematic.Pose{X: 1.5, Y: -2, R: 90},
		SpeedMomentum:    0.5,
		SteeringMomentum: -0.25,
		SpeedIntent:      vehicle.SpeedIntentAccelerating,
		SteeringIntent:   vehicle.SteeringIntentRight,
	})
	assert.Equal(t, []string{
		"tick 7",
		"x 1.5  y -2.0  r 90.0",
		"speed 0.50 (accelerating)",
		"steering -0.25 (right)",
	}, lines)
}
