package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/cbodonnell/drivesim/pkg/kinematic"
	"github.com/cbodonnell/drivesim/pkg/log"
	"github.com/cbodonnell/drivesim/pkg/metrics"
	"github.com/cbodonnell/drivesim/pkg/queue"
	"github.com/cbodonnell/drivesim/pkg/state"
	"github.com/cbodonnell/drivesim/pkg/vehicle"
	"github.com/google/uuid"
)

const (
	// DefaultTickInterval matches a 60Hz display refresh.
	DefaultTickInterval = time.Second / 60
	// subscriberBufferSize is the number of snapshots a subscriber may lag
	// behind before updates are dropped for it.
	subscriberBufferSize = 16
)

var (
	ErrSessionStopped = errors.New("session is stopped")
	ErrSessionRunning = errors.New("session is already running")
)

// Session drives one vehicle simulator at a fixed tick interval.
type Session struct {
	id           uuid.UUID
	simulator    *vehicle.Simulator
	inputQueue   queue.Queue[vehicle.InputChange]
	stateManager state.StateManager
	collector    *metrics.Collector
	tickInterval time.Duration
	startedAt    int64
	logger       *log.Logger

	// lock serializes ticks with Stop and guards everything below it.
	lock             sync.Mutex
	tick             uint64
	lastTickAt       int64
	stopped          bool
	running          bool
	cancel           context.CancelFunc
	done             chan struct{}
	subscribers      map[uint64]chan state.Snapshot
	nextSubscriberID uint64
}

// NewSessionOptions contains options for creating a new Session.
type NewSessionOptions struct {
	// ID defaults to a random UUID.
	ID           uuid.UUID
	TickInterval time.Duration
	InitialPose  *kinematic.Pose
	Tuning       *vehicle.Tuning
	// InputQueue defaults to an in-memory queue of queue.QueueBufferSize.
	InputQueue queue.Queue[vehicle.InputChange]
	// StateManager receives a snapshot after every tick when set.
	StateManager state.StateManager
	Collector    *metrics.Collector
}

// TickIntervalFromMs converts a tick interval in milliseconds to a
// time.Duration. Intervals that are not finite and positive, or that round to
// zero or overflow as a time.Duration, are rejected.
func TickIntervalFromMs(ms float64) (time.Duration, error) {
	if math.IsNaN(ms) || ms <= 0 || ms > float64(math.MaxInt64/int64(time.Millisecond)) {
		return 0, &vehicle.ConfigurationError{Field: "tickIntervalMs", Value: ms, Reason: "must be a positive finite number"}
	}
	d := time.Duration(ms * float64(time.Millisecond))
	if d <= 0 {
		return 0, &vehicle.ConfigurationError{Field: "tickIntervalMs", Value: ms, Reason: "must be at least one nanosecond"}
	}
	return d, nil
}

func NewSession(opts NewSessionOptions) (*Session, error) {
	if opts.TickInterval <= 0 {
		return nil, &vehicle.ConfigurationError{Field: "tickIntervalMs", Value: float64(opts.TickInterval) / float64(time.Millisecond), Reason: "must be a positive finite number"}
	}

	simulator, err := vehicle.NewSimulator(vehicle.NewSimulatorOptions{
		TickIntervalMs: float64(opts.TickInterval) / float64(time.Millisecond),
		InitialPose:    opts.InitialPose,
		Tuning:         opts.Tuning,
	})
	if err != nil {
		return nil, err
	}

	id := opts.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	inputQueue := opts.InputQueue
	if inputQueue == nil {
		inputQueue = queue.NewInMemoryQueue[vehicle.InputChange](queue.QueueBufferSize)
	}

	now := time.Now().UnixMilli()
	return &Session{
		id:           id,
		simulator:    simulator,
		inputQueue:   inputQueue,
		stateManager: opts.StateManager,
		collector:    opts.Collector,
		tickInterval: opts.TickInterval,
		startedAt:    now,
		lastTickAt:   now,
		logger:       log.Default().With("session", id.String()),
		subscribers:  make(map[uint64]chan state.Snapshot),
	}, nil
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

func (s *Session) TickInterval() time.Duration {
	return s.tickInterval
}

// Input queues a press or release. It is applied at the start of the next
// tick. Once Stop has begun every input is rejected with ErrSessionStopped;
// input accepted before that is discarded if no tick runs before the stop.
func (s *Session) Input(direction vehicle.Direction, pressed bool) error {
	if direction > vehicle.DirectionRight {
		return fmt.Errorf("unknown direction: %d", direction)
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if s.stopped {
		return ErrSessionStopped
	}
	if err := s.inputQueue.Enqueue(vehicle.InputChange{Direction: direction, Pressed: pressed}); err != nil {
		s.collector.IncDroppedInput()
		return err
	}
	return nil
}

// Start runs the tick loop until ctx is cancelled or Stop is called.
func (s *Session) Start(ctx context.Context) error {
	s.lock.Lock()
	if s.stopped {
		s.lock.Unlock()
		return ErrSessionStopped
	}
	if s.running {
		s.lock.Unlock()
		return ErrSessionRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	s.running = true
	s.cancel = cancel
	s.done = make(chan struct{})
	done := s.done
	s.lock.Unlock()

	defer close(done)
	defer cancel()

	s.logger.Debug("Starting session loop at %s", s.tickInterval)

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case t := <-ticker.C:
			s.Tick(ctx, t)
		}
	}
}

// Stop ends the session. No tick runs after Stop returns and every
// subscriber channel is closed. Stop is idempotent.
func (s *Session) Stop() {
	s.lock.Lock()
	if s.stopped {
		s.lock.Unlock()
		return
	}
	s.stopped = true
	cancel, done := s.cancel, s.done
	for id, ch := range s.subscribers {
		close(ch)
		delete(s.subscribers, id)
	}
	s.lock.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	s.inputQueue.ClearQueue()
	s.logger.Debug("Session stopped")
}

func (s *Session) Stopped() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.stopped
}

// Tick runs one iteration of the session loop: pending input is applied in
// arrival order, the simulator advances once and the new snapshot is published.
// Tick does nothing once the session is stopped.
func (s *Session) Tick(ctx context.Context, t time.Time) {
	start := time.Now()

	s.lock.Lock()
	defer s.lock.Unlock()

	if s.stopped {
		return
	}

	s.processInputs()
	s.simulator.Advance()
	s.tick++
	s.lastTickAt = t.UnixMilli()

	snapshot := s.snapshotLocked()
	if s.stateManager != nil {
		if err := s.stateManager.Set(ctx, snapshot); err != nil {
			s.logger.Error("Failed to store snapshot: %v", err)
		}
	}
	s.publish(snapshot)

	s.collector.ObserveTick(time.Since(start))
}

// processInputs applies all pending input changes to the simulator.
func (s *Session) processInputs() {
	changes, err := s.inputQueue.ReadAllMessages()
	if err != nil {
		s.logger.Error("Failed to read input changes: %v", err)
		return
	}
	for _, change := range changes {
		s.logger.Trace("Input %s pressed=%t", change.Direction, change.Pressed)
		s.simulator.OnInputChange(change.Direction, change.Pressed)
		s.collector.IncInput(change.Direction.String(), change.Pressed)
	}
}

// publish hands the snapshot to every subscriber that has room for it.
func (s *Session) publish(snapshot state.Snapshot) {
	for id, ch := range s.subscribers {
		select {
		case ch <- snapshot:
		default:
			s.logger.Trace("Subscriber %d is behind, dropping tick %d", id, snapshot.Tick)
		}
	}
}

// Snapshot returns a copy of the current session state.
func (s *Session) Snapshot() state.Snapshot {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() state.Snapshot {
	return state.Snapshot{
		SessionID:      s.id,
		Tick:           s.tick,
		Timestamp:      s.lastTickAt,
		StartedAt:      s.startedAt,
		TickIntervalMs: s.simulator.TickIntervalMs(),
		Vehicle:        s.simulator.State(),
	}
}

// Subscribe returns a channel that receives a snapshot after every tick and a
// function that cancels the subscription. The channel is closed when the
// subscription is cancelled or the session stops.
func (s *Session) Subscribe() (<-chan state.Snapshot, func()) {
	ch := make(chan state.Snapshot, subscriberBufferSize)

	s.lock.Lock()
	defer s.lock.Unlock()

	if s.stopped {
		close(ch)
		return ch, func() {}
	}

	id := s.nextSubscriberID
	s.nextSubscriberID++
	s.subscribers[id] = ch

	return ch, func() {
		s.lock.Lock()
		defer s.lock.Unlock()
		if sub, ok := s.subscribers[id]; ok {
			close(sub)
			delete(s.subscribers, id)
		}
	}
}
