// README: Driver registry, trip tracking, and performance endpoints.
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"freshfold/internal/http/middleware"
	"freshfold/internal/modules/driver"
	"freshfold/internal/types"
)

type DriverHandler struct {
	driver *driver.Service
}

func NewDriverHandler(svc *driver.Service) *DriverHandler {
	return &DriverHandler{driver: svc}
}

type driverView struct {
	ID         types.ID            `json:"id"`
	Name       string              `json:"name"`
	Phone      string              `json:"phone"`
	Status     driver.DriverStatus `json:"status"`
	Rating     float64             `json:"rating"`
	OnTimeRate float64             `json:"on_time_rate"`
	CreatedAt  time.Time           `json:"created_at"`
}

func toDriverView(d *driver.Driver) driverView {
	return driverView{
		ID:         d.ID,
		Name:       d.Name,
		Phone:      d.Phone,
		Status:     d.Status,
		Rating:     d.Rating,
		OnTimeRate: d.OnTimeRate,
		CreatedAt:  d.CreatedAt,
	}
}

type tripView struct {
	ID          int64           `json:"id"`
	DriverID    types.ID        `json:"driver_id"`
	OrderID     types.ID        `json:"order_id"`
	Type        driver.TripType `json:"trip_type"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt *time.Time      `json:"completed_at"`
}

func toTripView(t *driver.Trip) tripView {
	return tripView{
		ID:          t.ID,
		DriverID:    t.DriverID,
		OrderID:     t.OrderID,
		Type:        t.Type,
		StartedAt:   t.StartedAt,
		CompletedAt: t.CompletedAt,
	}
}

type statsView struct {
	DriverID            types.ID `json:"driver_id"`
	Name                string   `json:"name"`
	Pickups             int      `json:"pickups"`
	Deliveries          int      `json:"deliveries"`
	CompletedPickups    int      `json:"completed_pickups"`
	CompletedDeliveries int      `json:"completed_deliveries"`
	AvgPickupMinutes    float64  `json:"avg_pickup_minutes"`
	AvgDeliveryMinutes  float64  `json:"avg_delivery_minutes"`
	OnTimeRate          float64  `json:"on_time_rate"`
	BaselineUsed        bool     `json:"baseline_used"`
}

func toStatsView(s driver.Stats) statsView {
	return statsView{
		DriverID:            s.DriverID,
		Name:                s.Name,
		Pickups:             s.Pickups,
		Deliveries:          s.Deliveries,
		CompletedPickups:    s.CompletedPickups,
		CompletedDeliveries: s.CompletedDeliveries,
		AvgPickupMinutes:    s.AvgPickupMinutes,
		AvgDeliveryMinutes:  s.AvgDeliveryMinutes,
		OnTimeRate:          s.OnTimeRate,
		BaselineUsed:        s.BaselineUsed,
	}
}

type createDriverReq struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func (h *DriverHandler) Create(c *gin.Context) {
	var req createDriverReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	d, err := h.driver.Create(c.Request.Context(), driver.CreateCommand{
		Name:    req.Name,
		Phone:   req.Phone,
		ActorID: middleware.ActorID(c),
	})
	if err != nil {
		writeDriverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toDriverView(d))
}

func (h *DriverHandler) List(c *gin.Context) {
	drivers, err := h.driver.List(c.Request.Context())
	if err != nil {
		writeDriverError(c, err)
		return
	}
	views := make([]driverView, 0, len(drivers))
	for _, d := range drivers {
		views = append(views, toDriverView(d))
	}
	c.JSON(http.StatusOK, gin.H{"drivers": views})
}

type driverStatusReq struct {
	Status string `json:"status"`
}

func (h *DriverHandler) SetStatus(c *gin.Context) {
	var req driverStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	id := types.ID(c.Param("id"))
	if err := h.driver.SetStatus(c.Request.Context(), id, driver.DriverStatus(req.Status)); err != nil {
		writeDriverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": req.Status})
}

type startTripReq struct {
	OrderID  string `json:"order_id"`
	TripType string `json:"trip_type"`
}

func (h *DriverHandler) StartTrip(c *gin.Context) {
	var req startTripReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	t, err := h.driver.StartTrip(c.Request.Context(), driver.StartTripCommand{
		DriverID: types.ID(c.Param("id")),
		OrderID:  types.ID(req.OrderID),
		Type:     driver.TripType(req.TripType),
	})
	if err != nil {
		writeDriverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTripView(t))
}

func (h *DriverHandler) CompleteTrip(c *gin.Context) {
	tripID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, http.StatusBadRequest, "trip id must be numeric")
		return
	}
	t, err := h.driver.CompleteTrip(c.Request.Context(), tripID)
	if err != nil {
		writeDriverError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTripView(t))
}

// parseWindow reads optional from/to query bounds as calendar dates or
// RFC 3339 timestamps.
func parseWindow(c *gin.Context) (driver.Window, bool) {
	var w driver.Window
	for _, q := range []struct {
		name string
		dst  **time.Time
	}{
		{"from", &w.From},
		{"to", &w.To},
	} {
		raw := c.Query(q.name)
		if raw == "" {
			continue
		}
		ts, err := time.Parse("2006-01-02", raw)
		if err != nil {
			ts, err = time.Parse(time.RFC3339, raw)
		}
		if err != nil {
			writeError(c, http.StatusBadRequest, q.name+" must be YYYY-MM-DD or RFC 3339")
			return w, false
		}
		*q.dst = &ts
	}
	return w, true
}

func (h *DriverHandler) Performance(c *gin.Context) {
	w, ok := parseWindow(c)
	if !ok {
		return
	}
	stats, err := h.driver.Performance(c.Request.Context(), types.ID(c.Param("id")), w)
	if err != nil {
		writeDriverError(c, err)
		return
	}
	c.JSON(http.StatusOK, toStatsView(stats))
}

func (h *DriverHandler) PerformanceAll(c *gin.Context) {
	w, ok := parseWindow(c)
	if !ok {
		return
	}
	stats, err := h.driver.PerformanceAll(c.Request.Context(), w)
	if err != nil {
		writeDriverError(c, err)
		return
	}
	views := make([]statsView, 0, len(stats))
	for _, s := range stats {
		views = append(views, toStatsView(s))
	}
	c.JSON(http.StatusOK, gin.H{"drivers": views})
}
