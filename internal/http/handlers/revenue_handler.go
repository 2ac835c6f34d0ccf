// README: Revenue report endpoint.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"freshfold/internal/modules/revenue"
)

type RevenueHandler struct {
	revenue *revenue.Service
}

func NewRevenueHandler(svc *revenue.Service) *RevenueHandler {
	return &RevenueHandler{revenue: svc}
}

// Report serves GET /api/reports/revenue. Named periods take ?period=; an
// explicit date range takes ?period=custom&start=&end= (calendar dates,
// inclusive). An omitted period defaults to today.
func (h *RevenueHandler) Report(c *gin.Context) {
	p := revenue.Period(c.DefaultQuery("period", string(revenue.PeriodToday)))

	var custom *revenue.Range
	if p == revenue.PeriodCustom {
		r, ok := parseDateRange(c)
		if !ok {
			return
		}
		custom = r
	}

	stats, err := h.revenue.ForPeriod(c.Request.Context(), p, custom)
	if err != nil {
		writeRevenueError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func parseDateRange(c *gin.Context) (*revenue.Range, bool) {
	startRaw, endRaw := c.Query("start"), c.Query("end")
	if startRaw == "" || endRaw == "" {
		writeError(c, http.StatusBadRequest, revenue.ErrInvalidRange.Error())
		return nil, false
	}
	start, err := time.Parse("2006-01-02", startRaw)
	if err != nil {
		writeError(c, http.StatusBadRequest, "start must be YYYY-MM-DD")
		return nil, false
	}
	end, err := time.Parse("2006-01-02", endRaw)
	if err != nil {
		writeError(c, http.StatusBadRequest, "end must be YYYY-MM-DD")
		return nil, false
	}
	return &revenue.Range{Start: start, End: end}, true
}
