package order

import (
	"fmt"

	"canteen/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions so orders follow
// the delivery workflow in one direction only.
//
// State transitions:
//
//	Pending ──> Preparing ──> OnTheWay ──> Delivered
//	   │            │            │
//	   └────────────┴────────────┴──> Cancelled
//
// Delivered and Cancelled are terminal; once reached, no further transition
// is legal. Status is a value object that validates transitions and provides
// string representations for persistence and display.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status when an order is first created.
	// The order sits in its buffer window and may still be cancelled freely
	// under most kind policies.
	Pending

	// Preparing indicates the kitchen has started working on the order.
	// Entered once the buffer window has elapsed.
	Preparing

	// OnTheWay indicates the order has left the kitchen for its destination
	// floor. Entered once the preparation deadline (the cycle end) has passed.
	OnTheWay

	// Delivered indicates the order reached its destination.
	// Terminal state.
	Delivered

	// Cancelled indicates the order was cancelled, either by its owner
	// (with compensation) or by the stale-order sweep (without).
	// Terminal state.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Pending:   "Pending",
		Preparing: "Preparing",
		OnTheWay:  "OnTheWay",
		Delivered: "Delivered",
		Cancelled: "Cancelled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:   "Pending",
		Preparing: "Preparing",
		OnTheWay:  "OnTheWay",
		Delivered: "Delivered",
		Cancelled: "Cancelled",
	}
}

// validNext enumerates every legal transition. Anything absent from this
// table is rejected, which keeps the status path monotone.
func validNext() map[Status]map[Status]bool {
	return map[Status]map[Status]bool{
		Pending:   {Preparing: true, Cancelled: true},
		Preparing: {OnTheWay: true, Cancelled: true},
		OnTheWay:  {Delivered: true, Cancelled: true},
		Delivered: {},
		Cancelled: {},
	}
}

// Validate checks if the Status value is one of the defined lifecycle states.
// Unknown (0) and any other values are invalid. Used to vet Status values
// arriving from external sources such as the database or API requests.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// Implements fmt.Stringer and is safe to call on any value, including
// invalid ones, for which it returns "Unknown".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// StatusFromString parses a status name as received from API requests.
// The comparison is exact; unknown names are rejected.
func StatusFromString(name string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == name {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status name", name))
}

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// IsActive reports whether the order is still moving through the delivery
// pipeline. Active orders are the ones the progression engine and the
// stale-order sweep look at.
func (s Status) IsActive() bool {
	return s == Pending || s == Preparing || s == OnTheWay
}

// TransitionTo validates the transition from the current status to target
// and returns the new status.
//
// Returns a ConflictError if the transition is not in the legal table, so an
// illegal request (e.g. Delivered -> Preparing, or anything out of a
// terminal state) is rejected as a business-rule violation rather than an
// internal failure.
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return Unknown, err
	}

	if !validNext()[s][target] {
		return Unknown, errs.NewConflictError(
			fmt.Sprintf("transition from %s to %s is not allowed", s, target),
		)
	}

	return target, nil
}
