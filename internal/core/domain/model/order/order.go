package order

import (
	"errors"
	"fmt"
	"time"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder. This ensures all orders are
	// properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")
)

// Order is the aggregate root of the order lifecycle. It owns the line
// items, the total price, the destination floor, the timeline computed at
// submission and the status state machine.
//
// Order maintains these invariants:
//   - The token, owner, kind, floor and timeline are valid and immutable
//   - The item list is non-empty and every item is valid
//   - TotalPrice equals the sum of item subtotals, computed once at creation
//     and never recomputed
//   - Status only moves along the legal transition table, and a transition
//     out of a state occurs at or after its timeline threshold
//
// Orders are created at submission, mutated only by the progression engine
// and the cancellation workflow, and never deleted; terminal orders are
// retained.
type Order struct {
	// id is the unique order token handed back to the client
	id kernel.UUID

	// owner is the identity of the submitter; only the owner may cancel
	owner string

	// kind selects the policy (min quantity, cancellation window) applied
	// around the shared lifecycle
	kind Kind

	// items is the immutable list of line items
	items []Item

	// totalPrice is fixed at creation; the debit at creation and the credit
	// on cancellation both use exactly this amount
	totalPrice kernel.Money

	// floor is the canonical destination floor name
	floor string

	// status is the current state in the lifecycle
	status Status

	// timeline holds the deadlines driving status progression
	timeline Timeline

	// createdAt anchors the cancellation window and the staleness sweep
	createdAt time.Time

	// cancelReason records why a cancelled order was cancelled
	cancelReason string

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// NewOrder creates a new Order in Pending status. All parameters are
// validated; the total price is computed here, once, as the sum of item
// subtotals.
func NewOrder(
	id kernel.UUID,
	owner string,
	kind Kind,
	items []Item,
	floor string,
	timeline Timeline,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setOwner(owner),
		o.setKind(kind),
		o.setItems(items),
		o.setFloor(floor),
		o.setTimeline(timeline),
		o.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	total := kernel.Money{}
	for _, item := range o.items {
		total = total.Add(item.Subtotal())
	}
	o.totalPrice = total

	return o, nil
}

// RestoreOrder reconstructs an Order from persistence. The stored total
// price is trusted as-is rather than recomputed, preserving the
// fixed-at-creation invariant across schema or price changes.
func RestoreOrder(
	id kernel.UUID,
	owner string,
	kind Kind,
	items []Item,
	totalPrice kernel.Money,
	floor string,
	status Status,
	timeline Timeline,
	createdAt time.Time,
	cancelReason string,
) (*Order, error) {
	o := &Order{
		isConstructed: true,
		cancelReason:  cancelReason,
	}

	if err := errors.Join(
		o.setID(id),
		o.setOwner(owner),
		o.setKind(kind),
		o.setItems(items),
		o.setFloor(floor),
		o.setTimeline(timeline),
		o.setCreatedAt(createdAt),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	o.status = status
	o.totalPrice = totalPrice

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
// Call this when reconstructing orders from persistence.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their tokens.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order token.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Owner returns the identity of the submitter.
func (o *Order) Owner() string {
	return o.owner
}

// Kind returns the order's kind tag.
func (o *Order) Kind() Kind {
	return o.kind
}

// Items returns a copy of the line items.
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

// TotalPrice returns the total fixed at creation.
func (o *Order) TotalPrice() kernel.Money {
	return o.totalPrice
}

// Floor returns the canonical destination floor name.
func (o *Order) Floor() string {
	return o.floor
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// Timeline returns the deadlines computed at creation.
func (o *Order) Timeline() Timeline {
	return o.timeline
}

// CreatedAt returns the submission time.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// CancelReason returns why the order was cancelled, or "" if it wasn't.
func (o *Order) CancelReason() string {
	return o.cancelReason
}

// StartPreparing moves the order from Pending to Preparing.
// The transition is only legal at or after the buffer window end.
func (o *Order) StartPreparing(now time.Time) error {
	if now.Before(o.timeline.BufferEnd()) {
		return errs.NewConflictError(
			fmt.Sprintf("order %s cannot start preparing before %s", o.id, o.timeline.BufferEnd()),
		)
	}
	return o.applyTransition(Preparing)
}

// Dispatch moves the order from Preparing to OnTheWay.
// The transition is only legal at or after the preparation deadline.
func (o *Order) Dispatch(now time.Time) error {
	if now.Before(o.timeline.PreparationEnd()) {
		return errs.NewConflictError(
			fmt.Sprintf("order %s cannot be dispatched before %s", o.id, o.timeline.PreparationEnd()),
		)
	}
	return o.applyTransition(OnTheWay)
}

// Deliver moves the order from OnTheWay to Delivered.
// The transition is only legal at or after the delivery deadline.
func (o *Order) Deliver(now time.Time) error {
	if now.Before(o.timeline.DeliveryEnd()) {
		return errs.NewConflictError(
			fmt.Sprintf("order %s cannot be delivered before %s", o.id, o.timeline.DeliveryEnd()),
		)
	}
	return o.applyTransition(Delivered)
}

// Cancel moves the order to Cancelled and records the reason.
// Legal from any active status; re-cancelling or cancelling a delivered
// order is a ConflictError. Whether a credit and restock accompany the
// cancellation is the caller's concern: the user workflow compensates, the
// stale-order sweep does not.
func (o *Order) Cancel(reason string) error {
	if o.status == Cancelled {
		return errs.NewConflictError(fmt.Sprintf("order %s is already cancelled", o.id))
	}

	if err := o.applyTransition(Cancelled); err != nil {
		return err
	}

	o.cancelReason = reason
	return nil
}

// TransitionTo applies an explicitly requested transition, as used by the
// status update endpoint. Timeline thresholds apply to forward transitions
// the same way they do for the progression engine.
func (o *Order) TransitionTo(target Status, now time.Time) error {
	switch target {
	case Preparing:
		return o.StartPreparing(now)
	case OnTheWay:
		return o.Dispatch(now)
	case Delivered:
		return o.Deliver(now)
	case Cancelled:
		return o.Cancel("cancelled by operator")
	default:
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid transition target", target))
	}
}

// IsStale reports whether an active order was created before the given
// cutoff. Stale orders are force-cancelled by the sweep.
func (o *Order) IsStale(cutoff time.Time) bool {
	return o.status.IsActive() && o.createdAt.Before(cutoff)
}

func (o *Order) applyTransition(target Status) error {
	newStatus, err := o.status.TransitionTo(target)
	if err != nil {
		return err
	}
	o.status = newStatus
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setOwner(owner string) error {
	if owner == "" {
		return errs.NewValueIsRequiredError("owner")
	}
	o.owner = owner
	return nil
}

func (o *Order) setKind(kind Kind) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	o.kind = kind
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	o.items = make([]Item, len(items))
	copy(o.items, items)
	return nil
}

func (o *Order) setFloor(floor string) error {
	if floor == "" {
		return errs.NewValueIsRequiredError("floor")
	}
	o.floor = floor
	return nil
}

func (o *Order) setTimeline(timeline Timeline) error {
	if err := timeline.Validate(); err != nil {
		return err
	}
	o.timeline = timeline
	return nil
}

func (o *Order) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	o.createdAt = createdAt
	return nil
}
