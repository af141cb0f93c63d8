package commands

import (
	"errors"
	"time"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/pkg/errs"
	"canteen/internal/pkg/guard"
)

var (
	ErrCancelOrderCommandIsNotConstructed = errors.New(
		"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
	)
)

// CancelOrderCommand represents an owner's request to cancel an order and
// receive the compensating refund and restock.
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	requester string
	now       time.Time

	guard guard.ConstructorGuard
}

// NewCancelOrderCommand creates a command to cancel the given order on
// behalf of the requester. The request time anchors the cancellation-window
// check.
func NewCancelOrderCommand(orderID kernel.UUID, requester string, now time.Time) (CancelOrderCommand, error) {
	cmd := CancelOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setRequester(requester),
		cmd.setNow(now),
	); err != nil {
		return CancelOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

// OrderID returns the token of the order to cancel.
func (c CancelOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Requester returns the identity asking for the cancellation.
func (c CancelOrderCommand) Requester() string {
	return c.requester
}

// Now returns the request time.
func (c CancelOrderCommand) Now() time.Time {
	return c.now
}

func (c *CancelOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CancelOrderCommand) setRequester(requester string) error {
	if requester == "" {
		return errs.NewValueIsRequiredError("requester")
	}
	c.requester = requester
	return nil
}

func (c *CancelOrderCommand) setNow(now time.Time) error {
	if now.IsZero() {
		return errs.NewValueIsRequiredError("request time")
	}
	c.now = now
	return nil
}
