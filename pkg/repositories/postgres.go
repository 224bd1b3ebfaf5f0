package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/cbodonnell/drivesim/pkg/log"
	"github.com/cbodonnell/drivesim/pkg/repositories/models"
	"github.com/jackc/pgx/v5"
)

type PostgresRepository struct {
	conn *pgx.Conn
}

// NewPostgresRepository connects to Postgres and applies the migrations in
// the given directory. The caller is responsible for calling Close() on the
// repository.
func NewPostgresRepository(ctx context.Context, connStr string, migrations string) (Repository, error) {
	conn, err := connectDb(ctx, connStr)
	if err != nil {
		return nil, err
	}

	err = runMigrations(ctx, migrations, func(ctx context.Context, script string) error {
		_, err := conn.Exec(ctx, script)
		return err
	})
	if err != nil {
		conn.Close(ctx)
		return nil, err
	}

	return &PostgresRepository{
		conn: conn,
	}, nil
}

func connectDb(ctx context.Context, connStr string) (*pgx.Conn, error) {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	var username string
	var database string
	err = conn.QueryRow(ctx, "SELECT current_user, current_database()").Scan(&username, &database)
	if err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("unable to query database: %v", err)
	}

	log.Info("Connected to %s as %s", database, username)

	return conn, nil
}

func (r *PostgresRepository) Close(ctx context.Context) error {
	return r.conn.Close(ctx)
}

func (r *PostgresRepository) SaveDrive(ctx context.Context, drive *models.Drive) error {
	q := `
	INSERT INTO drives (drive_id, started_at, updated_at, tick_interval_ms, ticks, x, y, r, speed_momentum, steering_momentum, finished)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (drive_id) DO UPDATE SET
		updated_at = EXCLUDED.updated_at,
		ticks = EXCLUDED.ticks,
		x = EXCLUDED.x,
		y = EXCLUDED.y,
		r = EXCLUDED.r,
		speed_momentum = EXCLUDED.speed_momentum,
		steering_momentum = EXCLUDED.steering_momentum,
		finished = EXCLUDED.finished
	WHERE NOT drives.finished;
	`
	_, err := r.conn.Exec(ctx, q,
		drive.ID, drive.StartedAt, drive.UpdatedAt, drive.TickIntervalMs, int64(drive.Ticks),
		drive.X, drive.Y, drive.R, drive.SpeedMomentum, drive.SteeringMomentum, drive.Finished,
	)
	if err != nil {
		return fmt.Errorf("failed to save drive: %v", err)
	}

	return nil
}

const postgresSelectDrive = `
	SELECT drive_id, started_at, updated_at, tick_interval_ms, ticks, x, y, r, speed_momentum, steering_momentum, finished
	FROM drives
	`

func (r *PostgresRepository) LoadDrive(ctx context.Context, id string) (*models.Drive, error) {
	q := postgresSelectDrive + `WHERE drive_id = $1;`
	drive, err := scanDrive(r.conn.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan drive: %v", err)
	}

	return drive, nil
}

func (r *PostgresRepository) ListDrives(ctx context.Context, limit int) ([]*models.Drive, error) {
	q := postgresSelectDrive + `ORDER BY started_at DESC LIMIT $1;`
	rows, err := r.conn.Query(ctx, q, limit)
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
