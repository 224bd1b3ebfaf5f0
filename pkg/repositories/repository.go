package repositories

import (
	"context"

	"github.com/cbodonnell/drivesim/pkg/repositories/models"
)

type Repository interface {
	Close(ctx context.Context) error
	// SaveDrive inserts or replaces a drive record. A finished record is never
	// reopened by a later checkpoint of the same drive.
	SaveDrive(ctx context.Context, drive *models.Drive) error
	LoadDrive(ctx context.Context, id string) (*models.Drive, error)
	// ListDrives returns drives ordered by start time, newest first.
	ListDrives(ctx context.Context, limit int) ([]*models.Drive, error)
}
