package state

import (
	"context"

	"github.com/cbodonnell/drivesim/pkg/vehicle"
	"github.com/google/uuid"
)

// Snapshot is the state of one drive session as of its latest tick.
type Snapshot struct {
	SessionID      uuid.UUID     `json:"sessionID"`
	Tick           uint64        `json:"tick"`
	Timestamp      int64         `json:"timestamp"`
	StartedAt      int64         `json:"startedAt"`
	TickIntervalMs float64       `json:"tickIntervalMs"`
	Vehicle        vehicle.State `json:"vehicle"`
}

// StateManager provides shared access to the latest snapshot of every session.
// Implementations must be thread-safe.
type StateManager interface {
	// Get returns a copy of the latest snapshot of a session.
	Get(ctx context.Context, sessionID uuid.UUID) (Snapshot, error)
	// Set stores the latest snapshot of a session.
	Set(ctx context.Context, snapshot Snapshot) error
	// Delete forgets a session.
	Delete(ctx context.Context, sessionID uuid.UUID) error
	// List returns copies of all stored snapshots.
	List(ctx context.Context) ([]Snapshot, error)
}
