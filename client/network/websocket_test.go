package network

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cbodonnell/drivesim/pkg/api"
	"github.com/cbodonnell/drivesim/pkg/session"
	"github.com/cbodonnell/drivesim/pkg/state"
	"github.com/cbodonnell/drivesim/pkg/vehicle"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*session.Manager, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	manager := session.NewManager(ctx, session.NewManagerOptions{
		StateManager: state.NewInMemoryStateManager(),
		TickInterval: 10 * time.Millisecond,
	})
	srv := httptest.NewServer(api.NewHandler(api.NewAPIServerOptions{Manager: manager}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { manager.EndAll(context.Background()) })
	return manager, srv
}

func TestWSClient(t *testing.T) {
	manager, srv := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := NewWSClient(NewWSClientOptions{ServerURL: srv.URL})
	sessionID, err := client.CreateSession(ctx, 0)
	require.NoError(t, err)
	require.NoError(t, client.Connect(ctx, sessionID))
	assert.Equal(t, sessionID, client.SessionID())

	require.NoError(t, client.Input(vehicle.DirectionForward, true))

	assert.Eventually(t, func() bool {
		update, ok := client.Latest()
		return ok && update.SpeedMomentum > 0 && update.Pose.X > 0
	}, 3*time.Second, 10*time.Millisecond)

	update, _ := client.Latest()
	assert.Equal(t, sessionID, update.SessionID)
	assert.Equal(t, vehicle.SpeedIntentAccelerating, update.SpeedIntent)

	id, err := uuid.Parse(sessionID)
	require.NoError(t, err)
	_, err = manager.End(ctx, id)
	require.NoError(t, err)

	select {
	case <-client.Done():
	case <-ctx.Done():
		t.Fatal("connection did not end with the session")
	}
	var ended *ErrSessionEnded
	assert.ErrorAs(t, client.Err(), &ended)
}

func TestWSClient_Close(t *testing.T) {
	_, srv := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := NewWSClient(NewWSClientOptions{ServerURL: srv.URL})
	sessionID, err := client.CreateSession(ctx, 20)
	require.NoError(t, err)
	require.NoError(t, client.Connect(ctx, sessionID))

	client.Close()
	select {
	case <-client.Done():
	default:
		t.Fatal("Done is not closed after Close")
	}
}

func TestWSClient_UnknownSession(t *testing.T) {
	_, srv := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := NewWSClient(NewWSClientOptions{ServerURL: srv.URL})
	assert.Error(t, client.Connect(ctx, uuid.NewString()))
	assert.Error(t, client.Input(vehicle.DirectionLeft, true))
}

func TestStreamURL(t *testing.T) {
	client := NewWSClient(NewWSClientOptions{ServerURL: "https://example.com:8443"})
	u, err := client.streamURL("abc")
	require.NoError(t, err)
	assert.Equal(t, "wss://example.com:8443/sessions/abc/ws", u)

	client = NewWSClient(NewWSClientOptions{ServerURL: "ftp://example.com"})
	_, err = client.streamURL("abc")
	assert.Error(t, err)
}

func TestRTTTracker(t *testing.T) {
	tracker := &rttTracker{}
	assert.Equal(t, 0.0, tracker.ping())

	for _, rtt := range []int64{10, 12, 14, 500} {
		tracker.add(rtt)
	}
	// 500 is more than twice the median of 13
	assert.Equal(t, 12.0, tracker.ping())

	for i := 0; i < maxRecentRTTs; i++ {
		tracker.add(30)
	}
	assert.Equal(t, 30.0, tracker.ping())
	assert.Len(t, tracker.recent, maxRecentRTTs)
}
