// README: Revenue aggregator: period stats with growth and category breakdown.
package revenue

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrInvalidPeriod = errors.New("unrecognized reporting period")
	ErrInvalidRange  = errors.New("custom range requires start and end, with end not before start")
)

type Service struct {
	store *Store
	cache *Cache
	log   *zap.Logger
}

func NewService(store *Store, cache *Cache, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, cache: cache, log: log}
}

// ForPeriod computes the stats for a named period or an explicit custom range.
// Cancelled orders never contribute. Named periods are served from the cache
// when fresh; custom ranges always hit the store.
func (s *Service) ForPeriod(ctx context.Context, p Period, custom *Range) (*PeriodStats, error) {
	if !KnownPeriod(p) {
		return nil, ErrInvalidPeriod
	}
	window, err := resolveWindow(p, custom, time.Now())
	if err != nil {
		return nil, err
	}

	if p != PeriodCustom {
		if st, ok := s.cache.Get(ctx, p); ok {
			return st, nil
		}
	}

	rows, err := s.store.CategoryTotals(ctx, window)
	if err != nil {
		return nil, err
	}
	prevTotal, err := s.store.TotalRevenue(ctx, previousWindow(window))
	if err != nil {
		return nil, err
	}
	newCustomers, err := s.store.NewCustomers(ctx, window)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	count := 0
	for _, r := range rows {
		total = total.Add(r.Revenue)
		count += r.Orders
	}

	avg := decimal.Zero
	if count > 0 {
		avg = total.Div(decimal.NewFromInt(int64(count))).Round(2)
	}

	st := &PeriodStats{
		Period:            p,
		Start:             window.Start,
		End:               window.End,
		TotalRevenue:      total,
		OrderCount:        count,
		AverageOrderValue: avg,
		GrowthPercent:     growthPercent(total, prevTotal),
		NewCustomers:      newCustomers,
		Categories:        mergeCategories(rows),
	}

	if p != PeriodCustom {
		s.cache.Set(ctx, p, st)
	}
	return st, nil
}
