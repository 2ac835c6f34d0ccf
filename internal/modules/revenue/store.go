// README: Read-only revenue queries over orders and customers.
package revenue

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

type categoryRow struct {
	ServiceType string
	Orders      int
	Revenue     decimal.Decimal
}

// CategoryTotals sums non-cancelled orders per raw service label. Revenue is
// attributed to the delivery date when one is set, otherwise to booking time.
func (s *Store) CategoryTotals(ctx context.Context, r Range) ([]categoryRow, error) {
	rows, err := s.db.Query(ctx, `
		SELECT service_type, COUNT(*), COALESCE(SUM(total), 0)
		FROM orders
		WHERE status <> 'cancelled'
		  AND COALESCE(delivery_date, created_at) >= $1
		  AND COALESCE(delivery_date, created_at) < $2
		GROUP BY service_type`,
		r.Start, r.End,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []categoryRow
	for rows.Next() {
		var cr categoryRow
		if err := rows.Scan(&cr.ServiceType, &cr.Orders, &cr.Revenue); err != nil {
			return nil, err
		}
		out = append(out, cr)
	}
	return out, rows.Err()
}

// TotalRevenue is the plain sum for a window, used for the growth comparison.
func (s *Store) TotalRevenue(ctx context.Context, r Range) (decimal.Decimal, error) {
	row := s.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(total), 0)
		FROM orders
		WHERE status <> 'cancelled'
		  AND COALESCE(delivery_date, created_at) >= $1
		  AND COALESCE(delivery_date, created_at) < $2`,
		r.Start, r.End,
	)
	var total decimal.Decimal
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (s *Store) NewCustomers(ctx context.Context, r Range) (int, error) {
	row := s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM customers
		WHERE created_at >= $1 AND created_at < $2`,
		r.Start, r.End,
	)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
