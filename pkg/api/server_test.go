package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	repomocks "github.com/cbodonnell/drivesim/mocks/github.com/cbodonnell/drivesim/pkg/repositories"
	"github.com/cbodonnell/drivesim/pkg/metrics"
	"github.com/cbodonnell/drivesim/pkg/repositories"
	"github.com/cbodonnell/drivesim/pkg/repositories/models"
	"github.com/cbodonnell/drivesim/pkg/session"
	"github.com/cbodonnell/drivesim/pkg/state"
	"github.com/cbodonnell/drivesim/pkg/workers"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type apiFixture struct {
	handler    http.Handler
	manager    *session.Manager
	repository *repomocks.Repository
}

func newAPIFixture(t *testing.T) apiFixture {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	collector, err := metrics.NewCollector(prometheus.NewRegistry())
	require.NoError(t, err)

	manager := session.NewManager(ctx, session.NewManagerOptions{
		StateManager:  state.NewInMemoryStateManager(),
		Collector:     collector,
		SaveDriveChan: make(chan workers.SaveDriveRequest, 16),
		TickInterval:  time.Hour,
	})
	t.Cleanup(func() { manager.EndAll(context.Background()) })

	repository := repomocks.NewRepository(t)
	return apiFixture{
		handler: NewHandler(NewAPIServerOptions{
			Manager:    manager,
			Repository: repository,
			Collector:  collector,
		}),
		manager:    manager,
		repository: repository,
	}
}

func (f apiFixture) do(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f apiFixture) createSession(t *testing.T, body string) state.Snapshot {
	t.Helper()
	rec := f.do(http.MethodPost, "/sessions", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	snapshot := state.Snapshot{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	return snapshot
}

func TestCreateSession(t *testing.T) {
	f := newAPIFixture(t)

	snapshot := f.createSession(t, `{"tickIntervalMs": 100, "initialPose": {"x": 1, "y": 2, "r": 45}}`)
	assert.NotEqual(t, uuid.Nil, snapshot.SessionID)
	assert.Equal(t, 100.0, snapshot.TickIntervalMs)
	assert.Equal(t, 45.0, snapshot.Vehicle.Pose.R)
	assert.Equal(t, uint64(0), snapshot.Tick)

	defaults := f.createSession(t, "")
	assert.Equal(t, 3600000.0, defaults.TickIntervalMs)
}

func TestCreateSession_Invalid(t *testing.T) {
	f := newAPIFixture(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "zero tick interval", body: `{"tickIntervalMs": 0}`},
		{name: "negative tick interval", body: `{"tickIntervalMs": -16}`},
		{name: "tick interval below one nanosecond", body: `{"tickIntervalMs": 0.0000004}`},
		{name: "overflowing tick interval", body: `{"tickIntervalMs": 1e300}`},
		{name: "unknown field", body: `{"speed": 1}`},
		{name: "malformed", body: `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(http.MethodPost, "/sessions", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	assert.Empty(t, f.manager.List())
}

func TestGetAndListSessions(t *testing.T) {
	f := newAPIFixture(t)
	created := f.createSession(t, "")

	rec := f.do(http.MethodGet, "/sessions/"+created.SessionID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := state.Snapshot{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, created.SessionID, got.SessionID)

	rec = f.do(http.MethodGet, "/sessions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := []state.Snapshot{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/sessions/"+uuid.NewString(), "").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/sessions/not-a-uuid", "").Code)
}

func TestSessionInput(t *testing.T) {
	f := newAPIFixture(t)
	created := f.createSession(t, `{"tickIntervalMs": 1000}`)
	target := "/sessions/" + created.SessionID.String() + "/input"

	rec := f.do(http.MethodPost, target, `{"direction": "forward", "pressed": true}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	s, err := f.manager.Get(created.SessionID)
	require.NoError(t, err)
	s.Tick(context.Background(), time.Now())
	assert.InDelta(t, 0.3, s.Snapshot().Vehicle.SpeedMomentum, 1e-12)

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, target, `{"direction": "up", "pressed": true}`).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, target, `{"pressed": true}`).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodPost, "/sessions/"+uuid.NewString()+"/input", `{"direction": "left", "pressed": true}`).Code)
}

func TestEndSession(t *testing.T) {
	f := newAPIFixture(t)
	created := f.createSession(t, "")
	target := "/sessions/" + created.SessionID.String()

	assert.Equal(t, http.StatusNoContent, f.do(http.MethodDelete, target, "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, target, "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodDelete, target, "").Code)
}

func TestListDrives(t *testing.T) {
	f := newAPIFixture(t)

	f.repository.EXPECT().ListDrives(mock.Anything, 2).Return([]*models.Drive{{ID: "a"}, {ID: "b"}}, nil).Once()

	rec := f.do(http.MethodGet, "/drives?limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	drives := []*models.Drive{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &drives))
	assert.Len(t, drives, 2)

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/drives?limit=0", "").Code)
}

func TestGetDrive(t *testing.T) {
	f := newAPIFixture(t)

	f.repository.EXPECT().LoadDrive(mock.Anything, "known").Return(&models.Drive{ID: "known", Ticks: 5}, nil).Once()
	f.repository.EXPECT().LoadDrive(mock.Anything, "missing").Return(nil, &repositories.ErrNotFound{}).Once()

	rec := f.do(http.MethodGet, "/drives/known", "")
	require.Equal(t, http.StatusOK, rec.Code)
	drive := &models.Drive{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), drive))
	assert.Equal(t, uint64(5), drive.Ticks)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/drives/missing", "").Code)
}

func TestMetricsAndCORS(t *testing.T) {
	f := newAPIFixture(t)
	f.createSession(t, "")

	rec := f.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "drivesim_active_sessions 1")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = f.do(http.MethodOptions, "/sessions", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
