// README: Order aggregate, status definitions, and history events.
package order

import (
	"time"

	"github.com/shopspring/decimal"

	"freshfold/internal/types"
)

type Status string

const (
	StatusPending        Status = "pending"
	StatusConfirmed      Status = "confirmed"
	StatusScheduled      Status = "scheduled"
	StatusPickedUp       Status = "picked_up"
	StatusAtFacility     Status = "at_facility"
	StatusCleaning       Status = "cleaning"
	StatusReady          Status = "ready"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

// forwardRank is the canonical forward order of the fulfillment flow.
// cancelled sits outside the flow and is reachable from any non-terminal state.
var forwardRank = map[Status]int{
	StatusPending:        0,
	StatusConfirmed:      1,
	StatusScheduled:      2,
	StatusPickedUp:       3,
	StatusAtFacility:     4,
	StatusCleaning:       5,
	StatusReady:          6,
	StatusOutForDelivery: 7,
	StatusDelivered:      8,
}

func Known(s Status) bool {
	if s == StatusCancelled {
		return true
	}
	_, ok := forwardRank[s]
	return ok
}

func Terminal(s Status) bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Backward reports whether from -> to walks against the canonical flow.
// Such moves are accepted (operators correct mistakes) but warn-logged.
func Backward(from, to Status) bool {
	f, okFrom := forwardRank[from]
	t, okTo := forwardRank[to]
	return okFrom && okTo && t < f
}

type Order struct {
	ID              types.ID
	OrderNumber     string
	CustomerID      types.ID
	Status          Status
	StatusVersion   int
	ServiceType     string
	Subtotal        decimal.Decimal
	DeliveryFee     decimal.Decimal
	Discount        decimal.Decimal
	Total           decimal.Decimal
	PickupAddress   string
	DeliveryAddress string
	PickupDate      *time.Time
	DeliveryDate    *time.Time
	DriverID        *types.ID
	Priority        bool
	InternalNotes   string
	CreatedAt       time.Time
}

// Event is one append-only history entry. The ordered set of events for an
// order reconstructs its full transition trace.
type Event struct {
	ID        int64
	OrderID   types.ID
	Status    Status
	Note      *string
	ActorID   types.ID
	CreatedAt time.Time
}

// CheckTransition evaluates the guard rules for moving o to target without
// touching storage. Any recognized status is otherwise accepted, regardless of
// its position relative to the current one.
func CheckTransition(o *Order, target Status) error {
	if !Known(target) {
		return ErrInvalidStatus
	}
	if Terminal(o.Status) {
		return ErrAlreadyTerminal
	}
	if target == StatusOutForDelivery && o.DriverID == nil {
		return ErrDriverRequired
	}
	return nil
}

// ValidTotals checks the order money invariant:
// total == subtotal + delivery_fee - discount.
func ValidTotals(subtotal, deliveryFee, discount, total decimal.Decimal) bool {
	return subtotal.Add(deliveryFee).Sub(discount).Equal(total)
}
