package commands

import (
	"errors"
	"time"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/order"
	"canteen/internal/pkg/errs"
	"canteen/internal/pkg/guard"
)

var (
	ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
		"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
	)
)

// UpdateOrderStatusCommand represents an operator's explicit request to move
// an order to a target status. The same transition legality and timeline
// thresholds apply as for scheduled progression, so an order cannot be
// pushed ahead of its deadlines through this path either.
type UpdateOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	target  order.Status
	now     time.Time

	guard guard.ConstructorGuard
}

// NewUpdateOrderStatusCommand creates a command to transition the given
// order to the target status at the given time.
func NewUpdateOrderStatusCommand(
	orderID kernel.UUID,
	target order.Status,
	now time.Time,
) (UpdateOrderStatusCommand, error) {
	cmd := UpdateOrderStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTarget(target),
		cmd.setNow(now),
	); err != nil {
		return UpdateOrderStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

// OrderID returns the token of the order to transition.
func (c UpdateOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Target returns the requested status.
func (c UpdateOrderStatusCommand) Target() order.Status {
	return c.target
}

// Now returns the request time checked against the timeline thresholds.
func (c UpdateOrderStatusCommand) Now() time.Time {
	return c.now
}

func (c *UpdateOrderStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *UpdateOrderStatusCommand) setTarget(target order.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}
	c.target = target
	return nil
}

func (c *UpdateOrderStatusCommand) setNow(now time.Time) error {
	if now.IsZero() {
		return errs.NewValueIsRequiredError("request time")
	}
	c.now = now
	return nil
}
