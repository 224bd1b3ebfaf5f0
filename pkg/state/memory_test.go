package state

import (
	"context"
	"testing"

	"github.com/cbodonnell/drivesim/pkg/kinematic"
	"github.com/cbodonnell/drivesim/pkg/vehicle"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStateManager(t *testing.T) {
	ctx := context.Background()
	m := NewInMemoryStateManager()

	first := Snapshot{
		SessionID: uuid.New(),
		Tick:      3,
		StartedAt: 100,
		Vehicle:   vehicle.State{Pose: kinematic.Pose{X: 1, Y: 2, R: 3}},
	}
	second := Snapshot{SessionID: uuid.New(), StartedAt: 50}

	require.NoError(t, m.Set(ctx, first))
	require.NoError(t, m.Set(ctx, second))

	got, err := m.Get(ctx, first.SessionID)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	list, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.SessionID, list[0].SessionID)

	require.NoError(t, m.Delete(ctx, first.SessionID))
	_, err = m.Get(ctx, first.SessionID)
	assert.True(t, IsNotFound(err))
}

func TestInMemoryStateManager_SetRequiresSessionID(t *testing.T) {
	m := NewInMemoryStateManager()
	assert.Error(t, m.Set(context.Background(), Snapshot{}))
}
