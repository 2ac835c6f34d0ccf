// README: Driver registry service: availability, trip legs, and performance reporting.
package driver

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"go.uber.org/zap"

	"freshfold/internal/types"
)

// OrderDirectory lets trip creation validate order references without
// depending on the order module's storage.
type OrderDirectory interface {
	Exists(ctx context.Context, id types.ID) (bool, error)
}

type Service struct {
	store  *Store
	orders OrderDirectory
	log    *zap.Logger
}

func NewService(store *Store, orders OrderDirectory, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, orders: orders, log: log}
}

var (
	ErrNotFound        = errors.New("driver not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrTripNotFound    = errors.New("trip not found")
	ErrTripCompleted   = errors.New("trip is already completed")
	ErrInvalidStatus   = errors.New("unrecognized driver status")
	ErrInvalidTripType = errors.New("trip type must be pickup or delivery")
	ErrBadRequest      = errors.New("bad request")
)

// Defaults for a freshly registered driver; operators adjust them later.
const (
	defaultRating     = 5.0
	defaultOnTimeRate = 95.0
)

type CreateCommand struct {
	Name    string
	Phone   string
	ActorID types.ID
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Driver, error) {
	if cmd.Name == "" {
		return nil, ErrBadRequest
	}
	d := &Driver{
		ID:         newID(),
		Name:       cmd.Name,
		Phone:      cmd.Phone,
		Status:     StatusOffline,
		Rating:     defaultRating,
		OnTimeRate: defaultOnTimeRate,
		CreatedBy:  cmd.ActorID,
		CreatedAt:  time.Now(),
	}
	if err := s.store.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) SetStatus(ctx context.Context, id types.ID, status DriverStatus) error {
	if !KnownStatus(status) {
		return ErrInvalidStatus
	}
	ok, err := s.store.SetStatus(ctx, id, status)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Driver, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Driver, error) {
	return s.store.List(ctx)
}

type StartTripCommand struct {
	DriverID types.ID
	OrderID  types.ID
	Type     TripType
}

// StartTrip records the beginning of a pickup or delivery leg. Assignment on
// the order is a separate concern; reassignment mid-lifecycle is allowed, so
// an order can accumulate trips from more than one driver.
func (s *Service) StartTrip(ctx context.Context, cmd StartTripCommand) (*Trip, error) {
	if !KnownTripType(cmd.Type) {
		return nil, ErrInvalidTripType
	}
	if _, err := s.store.Get(ctx, cmd.DriverID); err != nil {
		return nil, err
	}
	exists, err := s.orders.Exists(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrOrderNotFound
	}

	t := &Trip{
		DriverID:  cmd.DriverID,
		OrderID:   cmd.OrderID,
		Type:      cmd.Type,
		StartedAt: time.Now(),
	}
	if err := s.store.StartTrip(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) CompleteTrip(ctx context.Context, tripID int64) (*Trip, error) {
	t, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if t.CompletedAt != nil {
		return nil, ErrTripCompleted
	}
	now := time.Now()
	ok, err := s.store.CompleteTrip(ctx, tripID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		// another writer completed it between the read and the update
		return nil, ErrTripCompleted
	}
	t.CompletedAt = &now
	return t, nil
}

// Performance computes a driver's stats for the window. Values are derived
// from trip data, with the stored baseline as fallback; nothing is persisted.
func (s *Service) Performance(ctx context.Context, driverID types.ID, w Window) (Stats, error) {
	d, err := s.store.Get(ctx, driverID)
	if err != nil {
		return Stats{}, err
	}
	trips, err := s.store.TripsByDriver(ctx, driverID, w)
	if err != nil {
		return Stats{}, err
	}
	return computeStats(d, trips), nil
}

func (s *Service) PerformanceAll(ctx context.Context, w Window) ([]Stats, error) {
	drivers, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Stats, 0, len(drivers))
	for _, d := range drivers {
		trips, err := s.store.TripsByDriver(ctx, d.ID, w)
		if err != nil {
			return nil, err
		}
		out = append(out, computeStats(d, trips))
	}
	return out, nil
}

func newID() types.ID {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return types.ID(hex.EncodeToString(b[:]))
}
