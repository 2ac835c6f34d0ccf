// README: Driver and trip store backed by PostgreSQL.
package driver

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"freshfold/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, d *Driver) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO drivers (id, name, phone, status, rating, on_time_rate, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		string(d.ID), d.Name, d.Phone, string(d.Status), d.Rating, d.OnTimeRate, string(d.CreatedBy), d.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Driver, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, phone, status, rating, on_time_rate, created_by, created_at
		FROM drivers WHERE id = $1`, string(id),
	)
	var d Driver
	err := row.Scan(&d.ID, &d.Name, &d.Phone, &d.Status, &d.Rating, &d.OnTimeRate, &d.CreatedBy, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Store) List(ctx context.Context) ([]*Driver, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, phone, status, rating, on_time_rate, created_by, created_at
		FROM drivers ORDER BY name ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Driver
	for rows.Next() {
		var d Driver
		if err := rows.Scan(&d.ID, &d.Name, &d.Phone, &d.Status, &d.Rating, &d.OnTimeRate, &d.CreatedBy, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

func (s *Store) SetStatus(ctx context.Context, id types.ID, status DriverStatus) (bool, error) {
	tag, err := s.db.Exec(ctx, `UPDATE drivers SET status = $1 WHERE id = $2`, string(status), string(id))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) StartTrip(ctx context.Context, t *Trip) error {
	row := s.db.QueryRow(ctx, `
		INSERT INTO driver_trips (driver_id, order_id, trip_type, started_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		string(t.DriverID), string(t.OrderID), string(t.Type), t.StartedAt,
	)
	return row.Scan(&t.ID)
}

func (s *Store) GetTrip(ctx context.Context, id int64) (*Trip, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, driver_id, order_id, trip_type, started_at, completed_at
		FROM driver_trips WHERE id = $1`, id,
	)
	t, err := scanTrip(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTripNotFound
	}
	return t, err
}

// CompleteTrip sets completed_at exactly once; a second completion attempt
// matches no row and returns false.
func (s *Store) CompleteTrip(ctx context.Context, id int64, at time.Time) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE driver_trips SET completed_at = $1
		WHERE id = $2 AND completed_at IS NULL`, at, id,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) TripsByDriver(ctx context.Context, driverID types.ID, w Window) ([]Trip, error) {
	query := `
		SELECT id, driver_id, order_id, trip_type, started_at, completed_at
		FROM driver_trips WHERE driver_id = $1`
	args := []any{string(driverID)}
	if w.From != nil {
		args = append(args, *w.From)
		query += ` AND started_at >= $2`
	}
	if w.To != nil {
		args = append(args, *w.To)
		if len(args) == 2 {
			query += ` AND started_at < $2`
		} else {
			query += ` AND started_at < $3`
		}
	}
	query += ` ORDER BY started_at ASC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func scanTrip(row pgx.Row) (*Trip, error) {
	var t Trip
	var completed sql.NullTime
	if err := row.Scan(&t.ID, &t.DriverID, &t.OrderID, &t.Type, &t.StartedAt, &completed); err != nil {
		return nil, err
	}
	if completed.Valid {
		c := completed.Time
		t.CompletedAt = &c
	}
	return &t, nil
}
