package vehicle

import (
	"sync"

	"github.com/cbodonnell/drivesim/pkg/kinematic"
)

// Simulator turns directional input into a pose with inertia. It does not
// schedule itself: the owner calls Advance once per tick interval.
//
// All methods are safe for concurrent use. Input changes never interleave
// with an in-progress Advance.
type Simulator struct {
	lock sync.Mutex

	tickIntervalMs float64
	tuning         Tuning

	input          InputState
	speedIntent    SpeedIntent
	steeringIntent SteeringIntent

	speedMomentum    float64
	steeringMomentum float64

	pose kinematic.Pose
}

// NewSimulatorOptions contains options for creating a new Simulator.
type NewSimulatorOptions struct {
	// TickIntervalMs is the simulated time covered by one Advance, in milliseconds.
	TickIntervalMs float64
	// InitialPose defaults to the origin with a zero heading.
	InitialPose *kinematic.Pose
	// Tuning defaults to DefaultTuning.
	Tuning *Tuning
}

// NewSimulator creates a Simulator at rest with no input pressed.
func NewSimulator(opts NewSimulatorOptions) (*Simulator, error) {
	if !isFinite(opts.TickIntervalMs) || opts.TickIntervalMs <= 0 {
		return nil, &ConfigurationError{Field: "tickIntervalMs", Value: opts.TickIntervalMs, Reason: "must be a positive finite number"}
	}

	tuning := DefaultTuning()
	if opts.Tuning != nil {
		tuning = *opts.Tuning
	}
	if err := tuning.Validate(); err != nil {
		return nil, err
	}

	s := &Simulator{
		tickIntervalMs: opts.TickIntervalMs,
		tuning:         tuning,
		speedIntent:    SpeedIntentNeutral,
		steeringIntent: SteeringIntentNeutral,
	}
	if opts.InitialPose != nil {
		s.pose = *opts.InitialPose
	}
	return s, nil
}

// OnInputChange records a press or release and re-resolves both intents from
// the full input state. Momentum and pose are untouched until the next Advance.
func (s *Simulator) OnInputChange(direction Direction, pressed bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.input = s.input.Set(direction, pressed)
	s.speedIntent = s.input.SpeedIntent()
	s.steeringIntent = s.input.SteeringIntent()
}

// Advance runs one tick: speed momentum, then steering momentum, then pose.
func (s *Simulator) Advance() {
	s.lock.Lock()
	defer s.lock.Unlock()

	dt := s.tickIntervalMs / 1000
	s.updateSpeedMomentum(dt)
	s.updateSteeringMomentum(dt)
	s.pose = kinematic.Integrate(s.pose, s.speedMomentum, s.steeringMomentum, s.tuning.Limits)
}

func (s *Simulator) updateSpeedMomentum(dt float64) {
	switch s.speedIntent {
	case SpeedIntentAccelerating:
		s.speedMomentum = kinematic.Ramp(s.speedMomentum, s.tuning.AccelerationRate*dt, 1)
	case SpeedIntentBraking:
		s.speedMomentum = kinematic.Ramp(s.speedMomentum, -s.tuning.BrakingRate*dt, 0)
	default:
		// coasting
		s.speedMomentum = kinematic.Ramp(s.speedMomentum, -s.tuning.CoastingRate*dt, 0)
	}
}

func (s *Simulator) updateSteeringMomentum(dt float64) {
	switch s.steeringIntent {
	case SteeringIntentLeft:
		s.steeringMomentum = kinematic.Ramp(s.steeringMomentum, s.tuning.SteeringRate*dt, 1)
	case SteeringIntentRight:
		s.steeringMomentum = kinematic.Ramp(s.steeringMomentum, -s.tuning.SteeringRate*dt, -1)
	default:
		s.steeringMomentum = kinematic.Relax(s.steeringMomentum, s.tuning.CenteringRate*dt)
	}
}

// Pose returns a copy of the current pose.
func (s *Simulator) Pose() kinematic.Pose {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.pose
}

// State returns a copy of the pose, momenta and intents.
func (s *Simulator) State() State {
	s.lock.Lock()
	defer s.lock.Unlock()
	return State{
		Pose:             s.pose,
		SpeedMomentum:    s.speedMomentum,
		SteeringMomentum: s.steeringMomentum,
		SpeedIntent:      s.speedIntent,
		SteeringIntent:   s.steeringIntent,
	}
}

// Input returns the current input state.
func (s *Simulator) Input() InputState {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.input
}

// TickIntervalMs returns the configured tick interval in milliseconds.
func (s *Simulator) TickIntervalMs() float64 {
	return s.tickIntervalMs
}
