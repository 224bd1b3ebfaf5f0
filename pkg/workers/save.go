package workers

import (
	"context"
	"time"

	"github.com/cbodonnell/drivesim/pkg/log"
	"github.com/cbodonnell/drivesim/pkg/repositories"
	"github.com/cbodonnell/drivesim/pkg/repositories/models"
	"github.com/cbodonnell/drivesim/pkg/state"
)

type SaveDriveWorker struct {
	repository    repositories.Repository
	saveDriveChan <-chan SaveDriveRequest
	stateManager  state.StateManager
	interval      time.Duration
}

type NewSaveDriveWorkerOptions struct {
	Repository    repositories.Repository
	SaveDriveChan <-chan SaveDriveRequest
	StateManager  state.StateManager
	Interval      time.Duration
}

// SaveDriveRequest asks the worker to store the given snapshot of a drive.
type SaveDriveRequest struct {
	Timestamp int64
	Snapshot  state.Snapshot
	Finished  bool
}

// NewSaveDriveWorker creates a new SaveDriveWorker.
// The worker processes save requests from ending sessions and
// periodically checkpoints every active session to the repository.
func NewSaveDriveWorker(opts NewSaveDriveWorkerOptions) *SaveDriveWorker {
	return &SaveDriveWorker{
		repository:    opts.Repository,
		saveDriveChan: opts.SaveDriveChan,
		stateManager:  opts.StateManager,
		interval:      opts.Interval,
	}
}

func (w *SaveDriveWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.drain()
			return
		case saveRequest := <-w.saveDriveChan:
			w.saveDrive(ctx, saveRequest)
		case t := <-ticker.C:
			w.checkpoint(ctx, t)
		}
	}
}

// drain stores the requests that were already queued when the worker was
// cancelled. The repository still needs a live context to write them.
func (w *SaveDriveWorker) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case saveRequest := <-w.saveDriveChan:
			w.saveDrive(ctx, saveRequest)
		default:
			return
		}
	}
}

func (w *SaveDriveWorker) checkpoint(ctx context.Context, t time.Time) {
	snapshots, err := w.stateManager.List(ctx)
	if err != nil {
		log.Error("Failed to list session snapshots: %v", err)
		return
	}
	for _, snapshot := range snapshots {
		w.saveDrive(ctx, SaveDriveRequest{
			Timestamp: t.UnixMilli(),
			Snapshot:  snapshot,
		})
	}
	if len(snapshots) > 0 {
		log.Debug("Checkpointed %d drives", len(snapshots))
	}
}

func (w *SaveDriveWorker) saveDrive(ctx context.Context, saveRequest SaveDriveRequest) {
	drive := DriveFromSnapshot(saveRequest.Snapshot, saveRequest.Timestamp, saveRequest.Finished)
	if err := w.repository.SaveDrive(ctx, drive); err != nil {
		log.Error("Failed to save drive %s: %v", drive.ID, err)
	}
}

// DriveFromSnapshot converts a session snapshot into a drive record.
func DriveFromSnapshot(snapshot state.Snapshot, updatedAt int64, finished bool) *models.Drive {
	return &models.Drive{
		ID:               snapshot.SessionID.String(),
		StartedAt:        snapshot.StartedAt,
		UpdatedAt:        updatedAt,
		TickIntervalMs:   snapshot.TickIntervalMs,
		Ticks:            snapshot.Tick,
		X:                snapshot.Vehicle.Pose.X,
		Y:                snapshot.Vehicle.Pose.Y,
		R:                snapshot.Vehicle.Pose.R,
		SpeedMomentum:    snapshot.Vehicle.SpeedMomentum,
		SteeringMomentum: snapshot.Vehicle.SteeringMomentum,
		Finished:         finished,
	}
}
