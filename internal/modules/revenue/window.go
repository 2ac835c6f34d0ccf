// README: Period window resolution, growth policy, and category normalization.
package revenue

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// resolveWindow maps a named period to a rolling window ending now, or
// validates a custom calendar-date range. Custom ranges are inclusive of both
// end dates, so End moves to the start of the following day.
func resolveWindow(p Period, custom *Range, now time.Time) (Range, error) {
	switch p {
	case PeriodToday:
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return Range{Start: start, End: now}, nil
	case PeriodWeek:
		return Range{Start: now.AddDate(0, 0, -7), End: now}, nil
	case PeriodMonth:
		return Range{Start: now.AddDate(0, -1, 0), End: now}, nil
	case PeriodYear:
		return Range{Start: now.AddDate(-1, 0, 0), End: now}, nil
	case PeriodCustom:
		if custom == nil || custom.Start.IsZero() || custom.End.IsZero() {
			return Range{}, ErrInvalidRange
		}
		if custom.End.Before(custom.Start) {
			return Range{}, ErrInvalidRange
		}
		return Range{Start: custom.Start, End: custom.End.AddDate(0, 0, 1)}, nil
	}
	return Range{}, ErrInvalidPeriod
}

// previousWindow is the window of identical length immediately preceding r,
// used for the growth comparison.
func previousWindow(r Range) Range {
	length := r.End.Sub(r.Start)
	return Range{Start: r.Start.Add(-length), End: r.Start}
}

// growthPercent implements the documented divide-by-zero policy: growth is 0
// when the previous period had zero revenue.
func growthPercent(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		return 0
	}
	f, _ := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Float64()
	return f
}

// knownCategories are the service categories the console charts. Anything
// else, including legacy labels, folds into "other".
var knownCategories = map[string]bool{
	"wash_fold": true,
	"dry_clean": true,
	"ironing":   true,
	"premium":   true,
}

// canonicalCategory normalizes a raw service type label. Both "dry-clean" and
// "dry_clean" appear in historical data and collapse to one bucket.
func canonicalCategory(raw string) string {
	c := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "-", "_")
	if knownCategories[c] {
		return c
	}
	return "other"
}

// mergeCategories folds raw per-label rows into canonical buckets, sorted by
// revenue descending for stable display.
func mergeCategories(rows []categoryRow) []CategoryStats {
	byBucket := map[string]*CategoryStats{}
	for _, r := range rows {
		bucket := canonicalCategory(r.ServiceType)
		cs, ok := byBucket[bucket]
		if !ok {
			cs = &CategoryStats{Category: bucket, Revenue: decimal.Zero}
			byBucket[bucket] = cs
		}
		cs.Orders += r.Orders
		cs.Revenue = cs.Revenue.Add(r.Revenue)
	}

	out := make([]CategoryStats, 0, len(byBucket))
	for _, cs := range byBucket {
		out = append(out, *cs)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].Revenue.GreaterThan(out[j].Revenue)
		}
		return out[i].Category < out[j].Category
	})
	return out
}
