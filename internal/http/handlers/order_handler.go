// README: Order booking, status transitions, assignment, and history.
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"freshfold/internal/http/middleware"
	"freshfold/internal/modules/order"
	"freshfold/internal/types"
)

type OrderHandler struct {
	order *order.Service
}

func NewOrderHandler(svc *order.Service) *OrderHandler {
	return &OrderHandler{order: svc}
}

type orderView struct {
	ID              types.ID        `json:"id"`
	OrderNumber     string          `json:"order_number"`
	CustomerID      types.ID        `json:"customer_id"`
	Status          order.Status    `json:"status"`
	ServiceType     string          `json:"service_type"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DeliveryFee     decimal.Decimal `json:"delivery_fee"`
	Discount        decimal.Decimal `json:"discount"`
	Total           decimal.Decimal `json:"total"`
	PickupAddress   string          `json:"pickup_address"`
	DeliveryAddress string          `json:"delivery_address"`
	PickupDate      *time.Time      `json:"pickup_date"`
	DeliveryDate    *time.Time      `json:"delivery_date"`
	DriverID        *types.ID       `json:"driver_id"`
	Priority        bool            `json:"priority"`
	InternalNotes   string          `json:"internal_notes"`
	CreatedAt       time.Time       `json:"created_at"`
}

func toOrderView(o *order.Order) orderView {
	return orderView{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		Status:          o.Status,
		ServiceType:     o.ServiceType,
		Subtotal:        o.Subtotal,
		DeliveryFee:     o.DeliveryFee,
		Discount:        o.Discount,
		Total:           o.Total,
		PickupAddress:   o.PickupAddress,
		DeliveryAddress: o.DeliveryAddress,
		PickupDate:      o.PickupDate,
		DeliveryDate:    o.DeliveryDate,
		DriverID:        o.DriverID,
		Priority:        o.Priority,
		InternalNotes:   o.InternalNotes,
		CreatedAt:       o.CreatedAt,
	}
}

type eventView struct {
	ID        int64        `json:"id"`
	Status    order.Status `json:"status"`
	Note      *string      `json:"note"`
	ActorID   types.ID     `json:"actor_id"`
	CreatedAt time.Time    `json:"created_at"`
}

type createOrderReq struct {
	CustomerID      string          `json:"customer_id"`
	ServiceType     string          `json:"service_type"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DeliveryFee     decimal.Decimal `json:"delivery_fee"`
	Discount        decimal.Decimal `json:"discount"`
	Total           decimal.Decimal `json:"total"`
	PickupAddress   string          `json:"pickup_address"`
	DeliveryAddress string          `json:"delivery_address"`
	PickupDate      *time.Time      `json:"pickup_date"`
	DeliveryDate    *time.Time      `json:"delivery_date"`
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	o, err := h.order.Create(c.Request.Context(), order.CreateCommand{
		CustomerID:      types.ID(req.CustomerID),
		ServiceType:     req.ServiceType,
		Subtotal:        req.Subtotal,
		DeliveryFee:     req.DeliveryFee,
		Discount:        req.Discount,
		Total:           req.Total,
		PickupAddress:   req.PickupAddress,
		DeliveryAddress: req.DeliveryAddress,
		PickupDate:      req.PickupDate,
		DeliveryDate:    req.DeliveryDate,
		ActorID:         middleware.ActorID(c),
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderView(o))
}

func (h *OrderHandler) List(c *gin.Context) {
	var f order.ListFilter
	if raw := c.Query("status"); raw != "" {
		st := order.Status(raw)
		if !order.Known(st) {
			writeError(c, http.StatusBadRequest, order.ErrInvalidStatus.Error())
			return
		}
		f.Status = &st
	}
	if raw := c.Query("priority"); raw != "" {
		flag, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(c, http.StatusBadRequest, "priority must be true or false")
			return
		}
		f.Priority = &flag
	}

	orders, err := h.order.List(c.Request.Context(), f)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, toOrderView(o))
	}
	c.JSON(http.StatusOK, gin.H{"orders": views})
}

func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.order.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderView(o))
}

type transitionReq struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

func (h *OrderHandler) Transition(c *gin.Context) {
	var req transitionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	o, err := h.order.Transition(c.Request.Context(), order.TransitionCommand{
		OrderID: types.ID(c.Param("id")),
		Target:  order.Status(req.Status),
		ActorID: middleware.ActorID(c),
		Note:    req.Note,
	})
	middleware.RecordTransition(req.Status, err == nil)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderView(o))
}

type assignDriverReq struct {
	DriverID *string `json:"driver_id"`
}

func (h *OrderHandler) AssignDriver(c *gin.Context) {
	var req assignDriverReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	var driverID *types.ID
	if req.DriverID != nil && *req.DriverID != "" {
		id := types.ID(*req.DriverID)
		driverID = &id
	}
	o, err := h.order.AssignDriver(c.Request.Context(), types.ID(c.Param("id")), driverID, middleware.ActorID(c))
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderView(o))
}

type priorityReq struct {
	Priority bool `json:"priority"`
}

func (h *OrderHandler) SetPriority(c *gin.Context) {
	var req priorityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.order.SetPriority(c.Request.Context(), types.ID(c.Param("id")), req.Priority); err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"priority": req.Priority})
}

type notesReq struct {
	Notes string `json:"notes"`
}

func (h *OrderHandler) SetNotes(c *gin.Context) {
	var req notesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.order.SetInternalNotes(c.Request.Context(), types.ID(c.Param("id")), req.Notes); err != nil {
		writeOrderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *OrderHandler) History(c *gin.Context) {
	events, err := h.order.History(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeOrderError(c, err)
		return
	}
	views := make([]eventView, 0, len(events))
	for _, e := range events {
		views = append(views, eventView{
			ID:        e.ID,
			Status:    e.Status,
			Note:      e.Note,
			ActorID:   e.ActorID,
			CreatedAt: e.CreatedAt,
		})
	}
	if c.Query("order") == "desc" {
		for i, j := 0, len(views)-1; i < j; i, j = i+1, j-1 {
			views[i], views[j] = views[j], views[i]
		}
	}
	c.JSON(http.StatusOK, gin.H{"history": views})
}
