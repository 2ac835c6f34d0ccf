// README: Revenue reporting types.
package revenue

import (
	"time"

	"github.com/shopspring/decimal"
)

type Period string

const (
	PeriodToday  Period = "today"
	PeriodWeek   Period = "week"
	PeriodMonth  Period = "month"
	PeriodYear   Period = "year"
	PeriodCustom Period = "custom"
)

func KnownPeriod(p Period) bool {
	switch p {
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodYear, PeriodCustom:
		return true
	}
	return false
}

// Range is a half-open window [Start, End). Custom calendar-date ranges are
// inclusive of both end dates; resolveWindow extends End accordingly.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type CategoryStats struct {
	Category string          `json:"category"`
	Orders   int             `json:"orders"`
	Revenue  decimal.Decimal `json:"revenue"`
}

type PeriodStats struct {
	Period            Period          `json:"period"`
	Start             time.Time       `json:"start"`
	End               time.Time       `json:"end"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	OrderCount        int             `json:"order_count"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	// GrowthPercent compares against the window of identical length
	// immediately preceding Start. By policy it is 0 when the previous
	// period had zero revenue; a 0% here does not necessarily mean
	// "no change".
	GrowthPercent float64         `json:"growth_percent"`
	NewCustomers  int             `json:"new_customers"`
	Categories    []CategoryStats `json:"categories"`
}
