package state

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no snapshot is stored for a session.
type ErrNotFound struct {
	SessionID uuid.UUID
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("no snapshot for session %s", e.SessionID)
}

// IsNotFound reports whether err is an ErrNotFound.
func IsNotFound(err error) bool {
	_, ok := err.(*ErrNotFound)
	return ok
}

type InMemoryStateManager struct {
	lock      sync.RWMutex
	snapshots map[uuid.UUID]Snapshot
}

func NewInMemoryStateManager() *InMemoryStateManager {
	return &InMemoryStateManager{
		snapshots: make(map[uuid.UUID]Snapshot),
	}
}

func (m *InMemoryStateManager) Get(ctx context.Context, sessionID uuid.UUID) (Snapshot, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	snapshot, ok := m.snapshots[sessionID]
	if !ok {
		return Snapshot{}, &ErrNotFound{SessionID: sessionID}
	}
	return snapshot, nil
}

func (m *InMemoryStateManager) Set(ctx context.Context, snapshot Snapshot) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if snapshot.SessionID == uuid.Nil {
		return fmt.Errorf("snapshot has no session ID")
	}

	m.snapshots[snapshot.SessionID] = snapshot
	return nil
}

func (m *InMemoryStateManager) Delete(ctx context.Context, sessionID uuid.UUID) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.snapshots, sessionID)
	return nil
}

// List returns all snapshots ordered by session start time.
func (m *InMemoryStateManager) List(ctx context.Context) ([]Snapshot, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	snapshots := make([]Snapshot, 0, len(m.snapshots))
	for _, s := range m.snapshots {
		snapshots = append(snapshots, s)
	}
	sort.Slice(snapshots, func(i, j int) bool {
		if snapshots[i].StartedAt != snapshots[j].StartedAt {
			return snapshots[i].StartedAt < snapshots[j].StartedAt
		}
		return snapshots[i].SessionID.String() < snapshots[j].SessionID.String()
	})
	return snapshots, nil
}
