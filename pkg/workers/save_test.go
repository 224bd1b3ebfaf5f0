package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	repomocks "github.com/cbodonnell/drivesim/mocks/github.com/cbodonnell/drivesim/pkg/repositories"
	statemocks "github.com/cbodonnell/drivesim/mocks/github.com/cbodonnell/drivesim/pkg/state"
	"github.com/cbodonnell/drivesim/pkg/kinematic"
	"github.com/cbodonnell/drivesim/pkg/repositories/models"
	"github.com/cbodonnell/drivesim/pkg/state"
	"github.com/cbodonnell/drivesim/pkg/vehicle"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testSnapshot() state.Snapshot {
	return state.Snapshot{
		SessionID:      uuid.MustParse("0b6d3f4e-8f0c-4f39-9a2e-7c1d5b6a9e01"),
		Tick:           42,
		Timestamp:      5000,
		StartedAt:      1000,
		TickIntervalMs: 100,
		Vehicle: vehicle.State{
			Pose:             kinematic.Pose{X: 1, Y: 2, R: 3},
			SpeedMomentum:    0.5,
			SteeringMomentum: -0.25,
		},
	}
}

func TestDriveFromSnapshot(t *testing.T) {
	drive := DriveFromSnapshot(testSnapshot(), 6000, true)

	assert.Equal(t, &models.Drive{
		ID:               "0b6d3f4e-8f0c-4f39-9a2e-7c1d5b6a9e01",
		StartedAt:        1000,
		UpdatedAt:        6000,
		TickIntervalMs:   100,
		Ticks:            42,
		X:                1,
		Y:                2,
		R:                3,
		SpeedMomentum:    0.5,
		SteeringMomentum: -0.25,
		Finished:         true,
	}, drive)
}

func TestSaveDriveWorker_checkpoint(t *testing.T) {
	mockRepository := repomocks.NewRepository(t)
	mockStateManager := statemocks.NewStateManager(t)

	w := NewSaveDriveWorker(NewSaveDriveWorkerOptions{
		Repository:   mockRepository,
		StateManager: mockStateManager,
		Interval:     time.Second,
	})

	mockStateManager.EXPECT().List(mock.Anything).Return([]state.Snapshot{testSnapshot()}, nil).Once()
	mockRepository.EXPECT().SaveDrive(mock.Anything, mock.MatchedBy(func(d *models.Drive) bool {
		return d.Ticks == 42 && d.UpdatedAt == 7000 && !d.Finished
	})).Return(nil).Once()

	w.checkpoint(context.Background(), time.UnixMilli(7000))
}

func TestSaveDriveWorker_checkpointListError(t *testing.T) {
	mockRepository := repomocks.NewRepository(t)
	mockStateManager := statemocks.NewStateManager(t)

	w := NewSaveDriveWorker(NewSaveDriveWorkerOptions{
		Repository:   mockRepository,
		StateManager: mockStateManager,
		Interval:     time.Second,
	})

	mockStateManager.EXPECT().List(mock.Anything).Return(nil, errors.New("boom")).Once()

	w.checkpoint(context.Background(), time.Now())
}

func TestSaveDriveWorker_Start(t *testing.T) {
	mockRepository := repomocks.NewRepository(t)
	mockStateManager := statemocks.NewStateManager(t)
	saveDriveChan := make(chan SaveDriveRequest, 1)

	w := NewSaveDriveWorker(NewSaveDriveWorkerOptions{
		Repository:    mockRepository,
		SaveDriveChan: saveDriveChan,
		StateManager:  mockStateManager,
		Interval:      time.Hour,
	})

	saved := make(chan *models.Drive, 1)
	mockRepository.EXPECT().SaveDrive(mock.Anything, mock.Anything).
		Run(func(ctx context.Context, drive *models.Drive) { saved <- drive }).
		Return(nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	saveDriveChan <- SaveDriveRequest{Timestamp: 9000, Snapshot: testSnapshot(), Finished: true}

	select {
	case drive := <-saved:
		assert.True(t, drive.Finished)
		assert.Equal(t, int64(9000), drive.UpdatedAt)
	case <-time.After(time.Second):
		t.Fatal("save request was not processed")
	}

	cancel()
	<-done
}

func TestSaveDriveWorker_drainsOnCancel(t *testing.T) {
	mockRepository := repomocks.NewRepository(t)
	saveDriveChan := make(chan SaveDriveRequest, 2)

	w := NewSaveDriveWorker(NewSaveDriveWorkerOptions{
		Repository:    mockRepository,
		SaveDriveChan: saveDriveChan,
		StateManager:  statemocks.NewStateManager(t),
		Interval:      time.Hour,
	})

	mockRepository.EXPECT().SaveDrive(mock.Anything, mock.Anything).Return(nil).Times(2)

	saveDriveChan <- SaveDriveRequest{Snapshot: testSnapshot(), Finished: true}
	saveDriveChan <- SaveDriveRequest{Snapshot: testSnapshot(), Finished: true}

	w.drain()
	assert.Empty(t, saveDriveChan)
}
