package vehicle

import (
	"fmt"

	"github.com/cbodonnell/drivesim/pkg/kinematic"
)

// Direction identifies one of the four directional inputs.
type Direction uint8

const (
	DirectionForward Direction = iota
	DirectionReverse
	DirectionLeft
	DirectionRight
)

func (d Direction) String() string {
	switch d {
	case DirectionForward:
		return "forward"
	case DirectionReverse:
		return "reverse"
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	default:
		return "unknown"
	}
}

// ParseDirection parses a direction name.
// Valid directions are: forward, reverse, left, right.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "forward":
		return DirectionForward, nil
	case "reverse":
		return DirectionReverse, nil
	case "left":
		return DirectionLeft, nil
	case "right":
		return DirectionRight, nil
	default:
		return 0, fmt.Errorf("unknown direction: %q", s)
	}
}

func (d Direction) MarshalText() ([]byte, error) {
	if d > DirectionRight {
		return nil, fmt.Errorf("unknown direction: %d", d)
	}
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(b []byte) error {
	parsed, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// SpeedIntent is the speed input resolved from the forward and reverse keys.
type SpeedIntent uint8

const (
	SpeedIntentNeutral SpeedIntent = iota
	SpeedIntentAccelerating
	SpeedIntentBraking
)

func (i SpeedIntent) String() string {
	switch i {
	case SpeedIntentNeutral:
		return "neutral"
	case SpeedIntentAccelerating:
		return "accelerating"
	case SpeedIntentBraking:
		return "braking"
	default:
		return "unknown"
	}
}

func (i SpeedIntent) MarshalText() ([]byte, error) {
	if i > SpeedIntentBraking {
		return nil, fmt.Errorf("unknown speed intent: %d", i)
	}
	return []byte(i.String()), nil
}

func (i *SpeedIntent) UnmarshalText(b []byte) error {
	for _, candidate := range []SpeedIntent{SpeedIntentNeutral, SpeedIntentAccelerating, SpeedIntentBraking} {
		if candidate.String() == string(b) {
			*i = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown speed intent: %q", string(b))
}

// SteeringIntent is the steering input resolved from the left and right keys.
type SteeringIntent uint8

const (
	SteeringIntentNeutral SteeringIntent = iota
	SteeringIntentLeft
	SteeringIntentRight
)

func (i SteeringIntent) String() string {
	switch i {
	case SteeringIntentNeutral:
		return "centering"
	case SteeringIntentLeft:
		return "left"
	case SteeringIntentRight:
		return "right"
	default:
		return "unknown"
	}
}

func (i SteeringIntent) MarshalText() ([]byte, error) {
	if i > SteeringIntentRight {
		return nil, fmt.Errorf("unknown steering intent: %d", i)
	}
	return []byte(i.String()), nil
}

func (i *SteeringIntent) UnmarshalText(b []byte) error {
	for _, candidate := range []SteeringIntent{SteeringIntentNeutral, SteeringIntentLeft, SteeringIntentRight} {
		if candidate.String() == string(b) {
			*i = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown steering intent: %q", string(b))
}

// InputState holds which directional inputs are currently pressed.
type InputState struct {
	Forward bool `json:"forward"`
	Reverse bool `json:"reverse"`
	Left    bool `json:"left"`
	Right   bool `json:"right"`
}

// Set returns a copy of the input state with direction set to pressed.
func (s InputState) Set(direction Direction, pressed bool) InputState {
	switch direction {
	case DirectionForward:
		s.Forward = pressed
	case DirectionReverse:
		s.Reverse = pressed
	case DirectionLeft:
		s.Left = pressed
	case DirectionRight:
		s.Right = pressed
	}
	return s
}

// SpeedIntent resolves the speed intent. Pressing both keys is the same as
// pressing neither.
func (s InputState) SpeedIntent() SpeedIntent {
	switch {
	case s.Forward && !s.Reverse:
		return SpeedIntentAccelerating
	case s.Reverse && !s.Forward:
		return SpeedIntentBraking
	default:
		return SpeedIntentNeutral
	}
}

// SteeringIntent resolves the steering intent. Pressing both keys is the same
// as pressing neither.
func (s InputState) SteeringIntent() SteeringIntent {
	switch {
	case s.Left && !s.Right:
		return SteeringIntentLeft
	case s.Right && !s.Left:
		return SteeringIntentRight
	default:
		return SteeringIntentNeutral
	}
}

// InputChange is a single press or release of one direction.
type InputChange struct {
	Direction Direction `json:"direction"`
	Pressed   bool      `json:"pressed"`
}

// State is a copy of everything the simulator tracks.
type State struct {
	Pose             kinematic.Pose `json:"pose"`
	SpeedMomentum    float64        `json:"speedMomentum"`
	SteeringMomentum float64        `json:"steeringMomentum"`
	SpeedIntent      SpeedIntent    `json:"speedIntent"`
	SteeringIntent   SteeringIntent `json:"steeringIntent"`
}
