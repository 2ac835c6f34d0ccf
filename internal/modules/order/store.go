// README: Order store backed by PostgreSQL; status writes and history appends share one transaction.
package order

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

const orderColumns = `
	id, order_number, customer_id, status, status_version, service_type,
	subtotal, delivery_fee, discount, total,
	pickup_address, delivery_address, pickup_date, delivery_date,
	driver_id, priority, internal_notes, created_at`

// Create inserts the order and its initial history entry atomically.
func (s *Store) Create(ctx context.Context, o *Order, e *Event) error {
	return pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO orders (
				id, order_number, customer_id, status, status_version, service_type,
				subtotal, delivery_fee, discount, total,
				pickup_address, delivery_address, pickup_date, delivery_date,
				driver_id, priority, internal_notes, created_at
			) VALUES (
				$1, $2, $3, $4, $5, $6,
				$7, $8, $9, $10,
				$11, $12, $13, $14,
				$15, $16, $17, $18
			)`,
			string(o.ID), o.OrderNumber, string(o.CustomerID), string(o.Status), o.StatusVersion, o.ServiceType,
			o.Subtotal, o.DeliveryFee, o.Discount, o.Total,
			o.PickupAddress, o.DeliveryAddress, o.PickupDate, o.DeliveryDate,
			toStringPtr(o.DriverID), o.Priority, o.InternalNotes, o.CreatedAt,
		)
		if err != nil {
			return err
		}
		return insertEvent(ctx, tx, e)
	})
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Order, error) {
	row := s.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, string(id))
	return scanOrder(row)
}

type ListFilter struct {
	Status   *Status
	Priority *bool
}

func (s *Store) List(ctx context.Context, f ListFilter) ([]*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE 1=1`
	args := []any{}
	if f.Status != nil {
		args = append(args, string(*f.Status))
		query += ` AND status = $1`
	}
	if f.Priority != nil {
		args = append(args, *f.Priority)
		if len(args) == 1 {
			query += ` AND priority = $1`
		} else {
			query += ` AND priority = $2`
		}
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// TransitionStatus applies a compare-and-set status update keyed on
// (status, status_version) and appends the history entry in the same
// transaction. Returns false when the CAS condition did not match, in which
// case nothing is written.
func (s *Store) TransitionStatus(ctx context.Context, id types.ID, from, to Status, version int, e *Event) (bool, error) {
	won := false
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE orders
			SET status = $1, status_version = status_version + 1
			WHERE id = $2 AND status = $3 AND status_version = $4`,
			string(to), string(id), string(from), version,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() != 1 {
			return nil
		}
		won = true
		return insertEvent(ctx, tx, e)
	})
	if err != nil {
		return false, err
	}
	return won, nil
}

func (s *Store) SetDriver(ctx context.Context, id types.ID, driverID *types.ID) (bool, error) {
	tag, err := s.db.Exec(ctx, `UPDATE orders SET driver_id = $1 WHERE id = $2`,
		toStringPtr(driverID), string(id))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) SetPriority(ctx context.Context, id types.ID, flag bool) (bool, error) {
	tag, err := s.db.Exec(ctx, `UPDATE orders SET priority = $1 WHERE id = $2`, flag, string(id))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) SetInternalNotes(ctx context.Context, id types.ID, notes string) (bool, error) {
	tag, err := s.db.Exec(ctx, `UPDATE orders SET internal_notes = $1 WHERE id = $2`, notes, string(id))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Events returns the history for an order, oldest first.
func (s *Store) Events(ctx context.Context, orderID types.ID) ([]Event, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, order_id, status, note, actor_id, created_at
		FROM order_status_events
		WHERE order_id = $1
		ORDER BY created_at ASC, id ASC`, string(orderID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		var note sql.NullString
		if err := rows.Scan(&e.ID, &e.OrderID, &e.Status, &note, &e.ActorID, &e.CreatedAt); err != nil {
			return nil, err
		}
		if note.Valid {
			e.Note = &note.String
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) Exists(ctx context.Context, id types.ID) (bool, error) {
	row := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, string(id))
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func insertEvent(ctx context.Context, tx pgx.Tx, e *Event) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO order_status_events (order_id, status, note, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		string(e.OrderID), string(e.Status), e.Note, string(e.ActorID), e.CreatedAt,
	)
	return err
}

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	var driverID sql.NullString
	var pickupDate, deliveryDate sql.NullTime

	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.CustomerID, &o.Status, &o.StatusVersion, &o.ServiceType,
		&o.Subtotal, &o.DeliveryFee, &o.Discount, &o.Total,
		&o.PickupAddress, &o.DeliveryAddress, &pickupDate, &deliveryDate,
		&driverID, &o.Priority, &o.InternalNotes, &o.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if driverID.Valid {
		d := types.ID(driverID.String)
		o.DriverID = &d
	}
	o.PickupDate = toTimePtr(pickupDate)
	o.DeliveryDate = toTimePtr(deliveryDate)
	return &o, nil
}

func toStringPtr(v *types.ID) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

func toTimePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
