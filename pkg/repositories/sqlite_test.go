package repositories

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cbodonnell/drivesim/pkg/repositories/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sqliteMigrations = "../../migrations/sqlite"

func newTestSQLiteRepository(t *testing.T) Repository {
	t.Helper()
	ctx := context.Background()
	repo, err := NewSQLiteRepository(ctx, filepath.Join(t.TempDir(), "drives.db"), sqliteMigrations)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close(ctx) })
	return repo
}

func TestSQLiteRepository_SaveAndLoadDrive(t *testing.T) {
	ctx := context.Background()
	repo := newTestSQLiteRepository(t)

	drive := &models.Drive{
		ID:               "4f1c3c1e-1d0b-4b8e-9a57-8a1f1c0b6f10",
		StartedAt:        1000,
		UpdatedAt:        2000,
		TickIntervalMs:   1000.0 / 60,
		Ticks:            60,
		X:                1.5,
		Y:                -0.25,
		R:                2,
		SpeedMomentum:    0.3,
		SteeringMomentum: 1,
	}
	require.NoError(t, repo.SaveDrive(ctx, drive))

	loaded, err := repo.LoadDrive(ctx, drive.ID)
	require.NoError(t, err)
	assert.Equal(t, drive, loaded)

	drive.Ticks = 120
	drive.X = 3
	drive.UpdatedAt = 3000
	require.NoError(t, repo.SaveDrive(ctx, drive))

	loaded, err = repo.LoadDrive(ctx, drive.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(120), loaded.Ticks)
	assert.Equal(t, 3.0, loaded.X)
	assert.Equal(t, int64(1000), loaded.StartedAt)
}

func TestSQLiteRepository_FinishedDriveIsNotReopened(t *testing.T) {
	ctx := context.Background()
	repo := newTestSQLiteRepository(t)

	final := &models.Drive{ID: "finished", StartedAt: 1, UpdatedAt: 10, Ticks: 10, X: 5, Finished: true}
	require.NoError(t, repo.SaveDrive(ctx, final))

	stale := &models.Drive{ID: "finished", StartedAt: 1, UpdatedAt: 9, Ticks: 9, X: 4}
	require.NoError(t, repo.SaveDrive(ctx, stale))

	loaded, err := repo.LoadDrive(ctx, "finished")
	require.NoError(t, err)
	assert.True(t, loaded.Finished)
	assert.Equal(t, uint64(10), loaded.Ticks)
	assert.Equal(t, 5.0, loaded.X)
}

func TestSQLiteRepository_LoadDriveNotFound(t *testing.T) {
	repo := newTestSQLiteRepository(t)

	_, err := repo.LoadDrive(context.Background(), "missing")
	assert.True(t, IsNotFound(err))
}

func TestSQLiteRepository_ListDrives(t *testing.T) {
	ctx := context.Background()
	repo := newTestSQLiteRepository(t)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.SaveDrive(ctx, &models.Drive{ID: id, StartedAt: int64(i + 1)}))
	}

	drives, err := repo.ListDrives(ctx, 2)
	require.NoError(t, err)
	require.Len(t, drives, 2)
	assert.Equal(t, "c", drives[0].ID)
	assert.Equal(t, "b", drives[1].ID)
}

func TestNewSQLiteRepository_MissingMigrations(t *testing.T) {
	_, err := NewSQLiteRepository(context.Background(), filepath.Join(t.TempDir(), "drives.db"), filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
