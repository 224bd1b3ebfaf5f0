package session

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cbodonnell/drivesim/pkg/kinematic"
	"github.com/cbodonnell/drivesim/pkg/log"
	"github.com/cbodonnell/drivesim/pkg/metrics"
	"github.com/cbodonnell/drivesim/pkg/state"
	"github.com/cbodonnell/drivesim/pkg/vehicle"
	"github.com/cbodonnell/drivesim/pkg/workers"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type managerFixture struct {
	manager       *Manager
	stateManager  *state.InMemoryStateManager
	collector     *metrics.Collector
	saveDriveChan chan workers.SaveDriveRequest
}

func newManagerFixture(t *testing.T) managerFixture {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	collector, err := metrics.NewCollector(prometheus.NewRegistry())
	require.NoError(t, err)

	f := managerFixture{
		stateManager:  state.NewInMemoryStateManager(),
		collector:     collector,
		saveDriveChan: make(chan workers.SaveDriveRequest, 4),
	}
	f.manager = NewManager(ctx, NewManagerOptions{
		StateManager:  f.stateManager,
		Collector:     collector,
		SaveDriveChan: f.saveDriveChan,
		TickInterval:  10 * time.Millisecond,
	})
	return f
}

func TestManager_CreateAndGet(t *testing.T) {
	f := newManagerFixture(t)

	s, err := f.manager.Create(CreateOptions{InitialPose: &kinematic.Pose{X: 10, Y: 20, R: 30}})
	require.NoError(t, err)
	assert.Equal(t, 10*time.Millisecond, s.TickInterval())

	got, err := f.manager.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	stored, err := f.stateManager.Get(context.Background(), s.ID())
	require.NoError(t, err)
	assert.Equal(t, 30.0, stored.Vehicle.Pose.R)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.collector.ActiveSessions))
}

func TestManager_CreateInvalidTickInterval(t *testing.T) {
	f := newManagerFixture(t)

	_, err := f.manager.Create(CreateOptions{TickInterval: -time.Second})
	assert.Error(t, err)
	assert.Empty(t, f.manager.List())
}

func TestManager_SessionsAreIndependent(t *testing.T) {
	f := newManagerFixture(t)

	a, err := f.manager.Create(CreateOptions{TickInterval: time.Hour})
	require.NoError(t, err)
	b, err := f.manager.Create(CreateOptions{TickInterval: time.Hour})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), b.ID())

	require.NoError(t, a.Input(vehicle.DirectionForward, true))
	a.Tick(context.Background(), time.Now())
	b.Tick(context.Background(), time.Now())

	assert.Greater(t, a.Snapshot().Vehicle.SpeedMomentum, 0.0)
	assert.Equal(t, 0.0, b.Snapshot().Vehicle.SpeedMomentum)
	assert.Len(t, f.manager.List(), 2)
}

func TestManager_End(t *testing.T) {
	f := newManagerFixture(t)

	s, err := f.manager.Create(CreateOptions{TickInterval: time.Hour})
	require.NoError(t, err)
	s.Tick(context.Background(), time.Now())

	final, err := f.manager.End(context.Background(), s.ID())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), final.Tick)
	assert.True(t, s.Stopped())

	_, err = f.manager.Get(s.ID())
	assert.True(t, IsSessionNotFound(err))

	_, err = f.stateManager.Get(context.Background(), s.ID())
	assert.True(t, state.IsNotFound(err))

	select {
	case req := <-f.saveDriveChan:
		assert.True(t, req.Finished)
		assert.Equal(t, final, req.Snapshot)
	default:
		t.Fatal("no final save request")
	}

	assert.Equal(t, 0.0, testutil.ToFloat64(f.collector.ActiveSessions))
}

func TestManager_EndUnknown(t *testing.T) {
	f := newManagerFixture(t)

	_, err := f.manager.End(context.Background(), uuid.New())
	assert.True(t, IsSessionNotFound(err))
}

func TestManager_EndAll(t *testing.T) {
	f := newManagerFixture(t)

	for i := 0; i < 3; i++ {
		_, err := f.manager.Create(CreateOptions{})
		require.NoError(t, err)
	}

	f.manager.EndAll(context.Background())
	assert.Empty(t, f.manager.List())
	assert.Len(t, f.saveDriveChan, 3)
}

type lockedBuffer struct {
	lock sync.Mutex
	buf  bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buf.String()
}

func TestManager_EndBeforeLoopStartsIsNotAnError(t *testing.T) {
	out := &lockedBuffer{}
	previous := log.Default()
	log.SetDefaultLogger(log.New(out, "", 0, log.LogLevelError))
	t.Cleanup(func() { log.SetDefaultLogger(previous) })

	f := newManagerFixture(t)
	for i := 0; i < 20; i++ {
		s, err := f.manager.Create(CreateOptions{})
		require.NoError(t, err)
		_, err = f.manager.End(context.Background(), s.ID())
		require.NoError(t, err)
		<-f.saveDriveChan
	}

	assert.Never(t, func() bool {
		return strings.Contains(out.String(), "Failed to run session")
	}, 100*time.Millisecond, 10*time.Millisecond)
}
