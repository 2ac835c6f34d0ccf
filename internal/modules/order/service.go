// README: Fulfillment engine: validates transitions, enforces guards, and records history.
package order

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"freshfold/internal/types"
)

// Notifier is invoked fire-and-forget after a successful transition.
// A failed dispatch must never roll back the transition.
type Notifier interface {
	OrderStatusChanged(orderID types.ID, orderNumber string, status Status)
}

type Service struct {
	store    *Store
	notifier Notifier
	log      *zap.Logger
}

func NewService(store *Store, notifier Notifier, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, notifier: notifier, log: log}
}

var (
	ErrNotFound        = errors.New("order not found")
	ErrInvalidStatus   = errors.New("unrecognized order status")
	ErrAlreadyTerminal = errors.New("order is already delivered or cancelled")
	ErrDriverRequired  = errors.New("assign a driver before marking Out for Delivery")
	ErrConflict        = errors.New("order was modified concurrently")
	ErrTotalMismatch   = errors.New("total must equal subtotal + delivery fee - discount")
	ErrBadRequest      = errors.New("bad request")
)

type CreateCommand struct {
	CustomerID      types.ID
	ServiceType     string
	Subtotal        decimal.Decimal
	DeliveryFee     decimal.Decimal
	Discount        decimal.Decimal
	Total           decimal.Decimal
	PickupAddress   string
	DeliveryAddress string
	PickupDate      *time.Time
	DeliveryDate    *time.Time
	ActorID         types.ID
}

// Create books a new order in pending and writes the opening history entry.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Order, error) {
	if cmd.CustomerID == "" || cmd.ServiceType == "" {
		return nil, ErrBadRequest
	}
	if !ValidTotals(cmd.Subtotal, cmd.DeliveryFee, cmd.Discount, cmd.Total) {
		return nil, ErrTotalMismatch
	}

	now := time.Now()
	o := &Order{
		ID:              newID(),
		OrderNumber:     newOrderNumber(),
		CustomerID:      cmd.CustomerID,
		Status:          StatusPending,
		StatusVersion:   0,
		ServiceType:     cmd.ServiceType,
		Subtotal:        cmd.Subtotal,
		DeliveryFee:     cmd.DeliveryFee,
		Discount:        cmd.Discount,
		Total:           cmd.Total,
		PickupAddress:   cmd.PickupAddress,
		DeliveryAddress: cmd.DeliveryAddress,
		PickupDate:      cmd.PickupDate,
		DeliveryDate:    cmd.DeliveryDate,
		CreatedAt:       now,
	}
	e := &Event{OrderID: o.ID, Status: StatusPending, ActorID: cmd.ActorID, CreatedAt: now}
	if err := s.store.Create(ctx, o, e); err != nil {
		return nil, err
	}
	return o, nil
}

type TransitionCommand struct {
	OrderID types.ID
	Target  Status
	ActorID types.ID
	Note    string
}

// Transition moves an order to the target status. Guard rules:
// any transition out of a terminal status fails with ErrAlreadyTerminal, and
// out_for_delivery requires an assigned driver (ErrDriverRequired). Backward
// moves along the canonical flow are accepted but logged. The status write and
// the history append succeed or fail as one unit; a lost race against a
// concurrent writer returns ErrConflict with nothing written.
func (s *Service) Transition(ctx context.Context, cmd TransitionCommand) (*Order, error) {
	o, err := s.store.Get(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if err := CheckTransition(o, cmd.Target); err != nil {
		return nil, err
	}
	if Backward(o.Status, cmd.Target) {
		s.log.Warn("backward status transition",
			zap.String("order_id", string(o.ID)),
			zap.String("from", string(o.Status)),
			zap.String("to", string(cmd.Target)),
			zap.String("actor_id", string(cmd.ActorID)),
		)
	}

	e := &Event{
		OrderID:   o.ID,
		Status:    cmd.Target,
		ActorID:   cmd.ActorID,
		CreatedAt: time.Now(),
	}
	if cmd.Note != "" {
		note := cmd.Note
		e.Note = &note
	}

	won, err := s.store.TransitionStatus(ctx, o.ID, o.Status, cmd.Target, o.StatusVersion, e)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, ErrConflict
	}

	o.Status = cmd.Target
	o.StatusVersion++
	if s.notifier != nil {
		go s.notifier.OrderStatusChanged(o.ID, o.OrderNumber, o.Status)
	}
	return o, nil
}

// AssignDriver sets (or, with nil, clears) the order's driver. Assignment is
// unconditional; driver load is surfaced to operators as a hint only. It does
// not start a trip leg.
func (s *Service) AssignDriver(ctx context.Context, orderID types.ID, driverID *types.ID, actorID types.ID) (*Order, error) {
	ok, err := s.store.SetDriver(ctx, orderID, driverID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	s.log.Info("driver assignment changed",
		zap.String("order_id", string(orderID)),
		zap.Stringp("driver_id", (*string)(driverID)),
		zap.String("actor_id", string(actorID)),
	)
	return s.store.Get(ctx, orderID)
}

func (s *Service) SetPriority(ctx context.Context, orderID types.ID, flag bool) error {
	ok, err := s.store.SetPriority(ctx, orderID, flag)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *Service) SetInternalNotes(ctx context.Context, orderID types.ID, notes string) error {
	ok, err := s.store.SetInternalNotes(ctx, orderID, notes)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// History returns the order's transition trace, oldest first. Callers wanting
// latest-first reverse it themselves.
func (s *Service) History(ctx context.Context, orderID types.ID) ([]Event, error) {
	if _, err := s.store.Get(ctx, orderID); err != nil {
		return nil, err
	}
	return s.store.Events(ctx, orderID)
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Order, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]*Order, error) {
	return s.store.List(ctx, f)
}

// Exists lets other modules check order references without importing the store.
func (s *Service) Exists(ctx context.Context, id types.ID) (bool, error) {
	return s.store.Exists(ctx, id)
}

func newID() types.ID {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return types.ID(hex.EncodeToString(b[:]))
}

const orderNumberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// newOrderNumber builds the human-facing code shown to customers, e.g. FF-7KQ2MX.
func newOrderNumber() string {
	var b [6]byte
	_, _ = rand.Read(b[:])
	out := make([]byte, 6)
	for i, v := range b {
		out[i] = orderNumberAlphabet[int(v)%len(orderNumberAlphabet)]
	}
	return "FF-" + string(out)
}
