package game

import (
	"context"
	"errors"
	"sync"

	"github.com/cbodonnell/drivesim/pkg/log"
	"github.com/cbodonnell/drivesim/pkg/messages"
	"github.com/cbodonnell/drivesim/pkg/session"
	"github.com/cbodonnell/drivesim/pkg/vehicle"
)

// Driver is a session the game sends input to and draws poses from.
type Driver interface {
	Input(direction vehicle.Direction, pressed bool) error
	// Latest returns the most recent pose update, if any tick has run yet.
	Latest() (*messages.ServerPoseUpdate, bool)
	// Done is closed when the session can no longer be driven.
	Done() <-chan struct{}
	Close() error
}

// LocalDriver runs a session in process.
type LocalDriver struct {
	session *session.Session
	done    chan struct{}
	cancel  context.CancelFunc

	lock   sync.RWMutex
	latest *messages.ServerPoseUpdate
}

// NewLocalDriver starts the session loop and follows its snapshots.
func NewLocalDriver(ctx context.Context, s *session.Session) *LocalDriver {
	ctx, cancel := context.WithCancel(ctx)
	d := &LocalDriver{
		session: s,
		done:    make(chan struct{}),
		cancel:  cancel,
	}

	snapshots, unsubscribe := s.Subscribe()
	go func() {
		defer close(d.done)
		defer unsubscribe()
		for snapshot := range snapshots {
			update := messages.PoseUpdateFromSnapshot(snapshot)
			d.lock.Lock()
			d.latest = update
			d.lock.Unlock()
		}
	}()

	go func() {
		if err := s.Start(ctx); err != nil && !errors.Is(err, session.ErrSessionStopped) {
			log.Error("Failed to run local session: %v", err)
		}
		// the subscription only closes when the session stops
		s.Stop()
	}()

	return d
}

func (d *LocalDriver) Input(direction vehicle.Direction, pressed bool) error {
	return d.session.Input(direction, pressed)
}

func (d *LocalDriver) Latest() (*messages.ServerPoseUpdate, bool) {
	d.lock.RLock()
	defer d.lock.RUnlock()
	return d.latest, d.latest != nil
}

func (d *LocalDriver) Done() <-chan struct{} {
	return d.done
}

// Close stops the session.
func (d *LocalDriver) Close() error {
	d.cancel()
	d.session.Stop()
	<-d.done
	return nil
}
