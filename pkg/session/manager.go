package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cbodonnell/drivesim/pkg/kinematic"
	"github.com/cbodonnell/drivesim/pkg/log"
	"github.com/cbodonnell/drivesim/pkg/metrics"
	"github.com/cbodonnell/drivesim/pkg/state"
	"github.com/cbodonnell/drivesim/pkg/vehicle"
	"github.com/cbodonnell/drivesim/pkg/workers"
	"github.com/google/uuid"
)

type ErrSessionNotFound struct {
	ID uuid.UUID
}

func (e *ErrSessionNotFound) Error() string {
	return fmt.Sprintf("session %s not found", e.ID)
}

func IsSessionNotFound(err error) bool {
	_, ok := err.(*ErrSessionNotFound)
	return ok
}

// Manager owns the running sessions. Sessions never share a simulator.
type Manager struct {
	ctx           context.Context
	stateManager  state.StateManager
	collector     *metrics.Collector
	saveDriveChan chan<- workers.SaveDriveRequest
	tuning        vehicle.Tuning
	tickInterval  time.Duration

	lock     sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewManagerOptions contains options for creating a new Manager.
type NewManagerOptions struct {
	StateManager state.StateManager
	Collector    *metrics.Collector
	// SaveDriveChan receives the final record of every ended session when set.
	SaveDriveChan chan<- workers.SaveDriveRequest
	// Tuning is applied to every session. Defaults to vehicle.DefaultTuning.
	Tuning *vehicle.Tuning
	// TickInterval is used when Create is not given one. Defaults to DefaultTickInterval.
	TickInterval time.Duration
}

// NewManager creates a Manager. Session loops run until ctx is cancelled or
// the session is ended.
func NewManager(ctx context.Context, opts NewManagerOptions) *Manager {
	tuning := vehicle.DefaultTuning()
	if opts.Tuning != nil {
		tuning = *opts.Tuning
	}
	tickInterval := opts.TickInterval
	if tickInterval <= 0 {
		tickInterval = DefaultTickInterval
	}
	return &Manager{
		ctx:           ctx,
		stateManager:  opts.StateManager,
		collector:     opts.Collector,
		saveDriveChan: opts.SaveDriveChan,
		tuning:        tuning,
		tickInterval:  tickInterval,
		sessions:      make(map[uuid.UUID]*Session),
	}
}

// CreateOptions contains options for a new session.
type CreateOptions struct {
	// TickInterval defaults to the manager's tick interval.
	TickInterval time.Duration
	InitialPose  *kinematic.Pose
}

// Create starts a new session with its own simulator and tick loop.
func (m *Manager) Create(opts CreateOptions) (*Session, error) {
	tickInterval := opts.TickInterval
	if tickInterval == 0 {
		tickInterval = m.tickInterval
	}
	tuning := m.tuning

	s, err := NewSession(NewSessionOptions{
		TickInterval: tickInterval,
		InitialPose:  opts.InitialPose,
		Tuning:       &tuning,
		StateManager: m.stateManager,
		Collector:    m.collector,
	})
	if err != nil {
		return nil, err
	}

	if m.stateManager != nil {
		if err := m.stateManager.Set(m.ctx, s.Snapshot()); err != nil {
			return nil, fmt.Errorf("failed to store initial snapshot: %v", err)
		}
	}

	m.lock.Lock()
	m.sessions[s.ID()] = s
	m.lock.Unlock()

	m.collector.SessionStarted()

	go func() {
		if err := s.Start(m.ctx); err != nil && !errors.Is(err, ErrSessionStopped) {
			log.Error("Failed to run session %s: %v", s.ID(), err)
		}
	}()

	log.Info("Session %s created with tick interval %s", s.ID(), tickInterval)
	return s, nil
}

func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, &ErrSessionNotFound{ID: id}
	}
	return s, nil
}

// List returns the running sessions ordered by creation time.
func (m *Manager) List() []*Session {
	m.lock.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.lock.RUnlock()

	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].startedAt != sessions[j].startedAt {
			return sessions[i].startedAt < sessions[j].startedAt
		}
		return sessions[i].id.String() < sessions[j].id.String()
	})
	return sessions
}

// End stops a session, forgets its snapshot and sends its final record to
// the save worker. It returns the final snapshot.
func (m *Manager) End(ctx context.Context, id uuid.UUID) (state.Snapshot, error) {
	m.lock.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.lock.Unlock()
	if !ok {
		return state.Snapshot{}, &ErrSessionNotFound{ID: id}
	}

	s.Stop()
	snapshot := s.Snapshot()
	m.collector.SessionEnded()

	if m.stateManager != nil {
		if err := m.stateManager.Delete(ctx, id); err != nil {
			log.Error("Failed to delete snapshot of session %s: %v", id, err)
		}
	}

	if m.saveDriveChan != nil {
		saveRequest := workers.SaveDriveRequest{
			Timestamp: time.Now().UnixMilli(),
			Snapshot:  snapshot,
			Finished:  true,
		}
		select {
		case m.saveDriveChan <- saveRequest:
		case <-ctx.Done():
			log.Warn("Dropped final save of session %s: %v", id, ctx.Err())
		}
	}

	log.Info("Session %s ended after %d ticks", id, snapshot.Tick)
	return snapshot, nil
}

// EndAll ends every running session.
func (m *Manager) EndAll(ctx context.Context) {
	for _, s := range m.List() {
		if _, err := m.End(ctx, s.ID()); err != nil {
			log.Error("Failed to end session %s: %v", s.ID(), err)
		}
	}
}
