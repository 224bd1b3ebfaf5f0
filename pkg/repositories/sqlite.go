package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cbodonnell/drivesim/pkg/repositories/models"
	_ "github.com/mattn/go-sqlite3"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(ctx context.Context, path string, migrations string) (Repository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	err = runMigrations(ctx, migrations, func(ctx context.Context, script string) error {
		_, err := db.ExecContext(ctx, script)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRepository{
		db: db,
	}, nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) SaveDrive(ctx context.Context, drive *models.Drive) error {
	q := `
	INSERT INTO drives (drive_id, started_at, updated_at, tick_interval_ms, ticks, x, y, r, speed_momentum, steering_momentum, finished)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (drive_id) DO UPDATE SET
		updated_at = excluded.updated_at,
		ticks = excluded.ticks,
		x = excluded.x,
		y = excluded.y,
		r = excluded.r,
		speed_momentum = excluded.speed_momentum,
		steering_momentum = excluded.steering_momentum,
		finished = excluded.finished
	WHERE drives.finished = 0;
	`
	_, err := r.db.ExecContext(ctx, q,
		drive.ID, drive.StartedAt, drive.UpdatedAt, drive.TickIntervalMs, int64(drive.Ticks),
		drive.X, drive.Y, drive.R, drive.SpeedMomentum, drive.SteeringMomentum, drive.Finished,
	)
	if err != nil {
		return fmt.Errorf("failed to save drive: %v", err)
	}

	return nil
}

const sqliteSelectDrive = `
	SELECT drive_id, started_at, updated_at, tick_interval_ms, ticks, x, y, r, speed_momentum, steering_momentum, finished
	FROM drives
	`

func (r *SQLiteRepository) LoadDrive(ctx context.Context, id string) (*models.Drive, error) {
	q := sqliteSelectDrive + `WHERE drive_id = ?;`
	drive, err := scanDrive(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan drive: %v", err)
	}

	return drive, nil
}

func (r *SQLiteRepository) ListDrives(ctx context.Context, limit int) ([]*models.Drive, error) {
	q := sqliteSelectDrive + `ORDER BY started_at DESC LIMIT ?;`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query drives: %v", err)
	}
	defer rows.Close()

	drives := make([]*models.Drive, 0)
	for rows.Next() {
		drive, err := scanDrive(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan drive: %v", err)
		}
		drives = append(drives, drive)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate drives: %v", err)
	}

	return drives, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDrive(row rowScanner) (*models.Drive, error) {
	drive := &models.Drive{}
	var ticks int64
	err := row.Scan(
		&drive.ID, &drive.StartedAt, &drive.UpdatedAt, &drive.TickIntervalMs, &ticks,
		&drive.X, &drive.Y, &drive.R, &drive.SpeedMomentum, &drive.SteeringMomentum, &drive.Finished,
	)
	if err != nil {
		return nil, err
	}
	drive.Ticks = uint64(ticks)
	return drive, nil
}
