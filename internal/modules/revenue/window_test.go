// README: Pure tests for window resolution, growth policy, and category folding.
package revenue

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestResolveWindowNamedPeriods(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

	r, err := resolveWindow(PeriodToday, nil, now)
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	wantStart := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if !r.Start.Equal(wantStart) || !r.End.Equal(now) {
		t.Errorf("today = [%v, %v), want [%v, %v)", r.Start, r.End, wantStart, now)
	}

	r, err = resolveWindow(PeriodWeek, nil, now)
	if err != nil {
		t.Fatalf("week: %v", err)
	}
	if !r.Start.Equal(now.AddDate(0, 0, -7)) || !r.End.Equal(now) {
		t.Errorf("week window = [%v, %v)", r.Start, r.End)
	}

	r, err = resolveWindow(PeriodYear, nil, now)
	if err != nil {
		t.Fatalf("year: %v", err)
	}
	if !r.Start.Equal(now.AddDate(-1, 0, 0)) {
		t.Errorf("year start = %v", r.Start)
	}

	if _, err := resolveWindow("quarter", nil, now); err != ErrInvalidPeriod {
		t.Errorf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestResolveWindowCustom(t *testing.T) {
	now := time.Now()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	r, err := resolveWindow(PeriodCustom, &Range{Start: start, End: end}, now)
	if err != nil {
		t.Fatalf("custom: %v", err)
	}
	// inclusive of the end date: window extends to Feb 1st midnight
	if !r.End.Equal(end.AddDate(0, 0, 1)) {
		t.Errorf("custom end = %v, want %v", r.End, end.AddDate(0, 0, 1))
	}

	// single-day range is valid
	if _, err := resolveWindow(PeriodCustom, &Range{Start: start, End: start}, now); err != nil {
		t.Errorf("single-day custom range: %v", err)
	}

	// missing bounds and inverted ranges fail fast
	if _, err := resolveWindow(PeriodCustom, nil, now); err != ErrInvalidRange {
		t.Errorf("nil range: expected ErrInvalidRange, got %v", err)
	}
	if _, err := resolveWindow(PeriodCustom, &Range{Start: start}, now); err != ErrInvalidRange {
		t.Errorf("missing end: expected ErrInvalidRange, got %v", err)
	}
	inverted := &Range{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	if _, err := resolveWindow(PeriodCustom, inverted, now); err != ErrInvalidRange {
		t.Errorf("end before start: expected ErrInvalidRange, got %v", err)
	}
}

func TestPreviousWindow(t *testing.T) {
	r := Range{
		Start: time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
	}
	prev := previousWindow(r)
	if !prev.End.Equal(r.Start) {
		t.Errorf("previous window must end where the current starts, got %v", prev.End)
	}
	if prev.End.Sub(prev.Start) != r.End.Sub(r.Start) {
		t.Errorf("previous window length %v != current %v", prev.End.Sub(prev.Start), r.End.Sub(r.Start))
	}
}

func TestGrowthPercent(t *testing.T) {
	d := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }

	if got := growthPercent(d("150"), d("100")); got != 50 {
		t.Errorf("growth(150, 100) = %v, want 50", got)
	}
	if got := growthPercent(d("75"), d("100")); got != -25 {
		t.Errorf("growth(75, 100) = %v, want -25", got)
	}
	// policy: zero previous revenue reports 0, not +Inf
	if got := growthPercent(d("500"), d("0")); got != 0 {
		t.Errorf("growth with zero previous = %v, want 0", got)
	}
}

func TestCanonicalCategory(t *testing.T) {
	cases := map[string]string{
		"wash_fold":   "wash_fold",
		"dry_clean":   "dry_clean",
		"dry-clean":   "dry_clean",
		"Dry-Clean":   "dry_clean",
		"ironing":     "ironing",
		"premium":     "premium",
		"steam-press": "other",
		"":            "other",
		"legacy_x":    "other",
	}
	for raw, want := range cases {
		if got := canonicalCategory(raw); got != want {
			t.Errorf("canonicalCategory(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestMergeCategoriesFoldsSpellings(t *testing.T) {
	d := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }
	out := mergeCategories([]categoryRow{
		{ServiceType: "dry-clean", Orders: 2, Revenue: d("40")},
		{ServiceType: "dry_clean", Orders: 1, Revenue: d("20")},
		{ServiceType: "wash_fold", Orders: 1, Revenue: d("10")},
		{ServiceType: "mystery", Orders: 1, Revenue: d("5")},
	})
	if len(out) != 3 {
		t.Fatalf("expected 3 buckets, got %d: %+v", len(out), out)
	}
	if out[0].Category != "dry_clean" || out[0].Orders != 3 || !out[0].Revenue.Equal(d("60")) {
		t.Errorf("dry_clean bucket = %+v", out[0])
	}
	var other *CategoryStats
	for i := range out {
		if out[i].Category == "other" {
			other = &out[i]
		}
	}
	if other == nil || !other.Revenue.Equal(d("5")) {
		t.Errorf("expected unknown label folded into other, got %+v", out)
	}
}
