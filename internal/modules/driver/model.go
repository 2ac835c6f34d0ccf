// README: Driver registry, trip legs, and performance stat definitions.
package driver

import (
	"time"

	"freshfold/internal/types"
)

type DriverStatus string

const (
	StatusActive  DriverStatus = "active"
	StatusBreak   DriverStatus = "break"
	StatusOffline DriverStatus = "offline"
)

func KnownStatus(s DriverStatus) bool {
	return s == StatusActive || s == StatusBreak || s == StatusOffline
}

type Driver struct {
	ID     types.ID
	Name   string
	Phone  string
	Status DriverStatus
	Rating float64
	// OnTimeRate is the operator-set baseline, reported when no completed
	// trips exist in the queried window. Computed rates never overwrite it.
	OnTimeRate float64
	CreatedBy  types.ID
	CreatedAt  time.Time
}

type TripType string

const (
	TripPickup   TripType = "pickup"
	TripDelivery TripType = "delivery"
)

func KnownTripType(t TripType) bool {
	return t == TripPickup || t == TripDelivery
}

// Trip is one pickup or delivery leg. completed_at is nil while in progress
// and, once set, is never cleared; trips are kept forever for reporting.
type Trip struct {
	ID          int64
	DriverID    types.ID
	OrderID     types.ID
	Type        TripType
	StartedAt   time.Time
	CompletedAt *time.Time
}

// Window bounds trips by started_at. A nil bound means unbounded.
type Window struct {
	From *time.Time
	To   *time.Time
}

// Stats is the computed per-driver performance snapshot. Values are derived
// from trip data when it exists and fall back to configured defaults
// otherwise, so a driver with no trips never shows a misleading 0%.
type Stats struct {
	DriverID            types.ID
	Name                string
	Pickups             int
	Deliveries          int
	CompletedPickups    int
	CompletedDeliveries int
	AvgPickupMinutes    float64
	AvgDeliveryMinutes  float64
	OnTimeRate          float64
	BaselineUsed        bool
}
