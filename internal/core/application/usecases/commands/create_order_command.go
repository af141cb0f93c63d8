package commands

import (
	"errors"
	"time"

	"canteen/internal/core/domain/model/order"
	"canteen/internal/pkg/errs"
	"canteen/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
)

// CreateOrderCommand represents a request to submit a new order.
// Encapsulates the submitter identity, order kind, line items and
// destination floor. The submission time travels with the command so the
// cycle assignment is computed from the moment the request arrived.
//
// Example:
//
//	items := []order.Item{mealItem}
//	cmd, err := NewCreateOrderCommand("student-42", order.KindRegular, items, "Ground", time.Now())
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	result, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	owner string
	kind  order.Kind
	items []order.Item
	floor string
	now   time.Time

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to submit a new order.
// Validates that the owner is set, the kind is a known variant, the item
// list is non-empty and the floor and submission time are present.
// Kind-specific quantity rules are checked by the handler against its
// injected policy set.
func NewCreateOrderCommand(
	owner string,
	kind order.Kind,
	items []order.Item,
	floor string,
	now time.Time,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOwner(owner),
		cmd.setKind(kind),
		cmd.setItems(items),
		cmd.setFloor(floor),
		cmd.setNow(now),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// Owner returns the submitter identity.
func (c CreateOrderCommand) Owner() string {
	return c.owner
}

// Kind returns the order kind.
func (c CreateOrderCommand) Kind() order.Kind {
	return c.kind
}

// Items returns the requested line items.
func (c CreateOrderCommand) Items() []order.Item {
	items := make([]order.Item, len(c.items))
	copy(items, c.items)
	return items
}

// Floor returns the requested destination floor, as supplied by the client.
func (c CreateOrderCommand) Floor() string {
	return c.floor
}

// Now returns the submission time the cycle assignment is computed from.
func (c CreateOrderCommand) Now() time.Time {
	return c.now
}

func (c *CreateOrderCommand) setOwner(owner string) error {
	if owner == "" {
		return errs.NewValueIsRequiredError("owner")
	}
	c.owner = owner
	return nil
}

func (c *CreateOrderCommand) setKind(kind order.Kind) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	c.kind = kind
	return nil
}

func (c *CreateOrderCommand) setItems(items []order.Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	c.items = make([]order.Item, len(items))
	copy(c.items, items)
	return nil
}

func (c *CreateOrderCommand) setFloor(floor string) error {
	if floor == "" {
		return errs.NewValueIsRequiredError("floor")
	}
	c.floor = floor
	return nil
}

func (c *CreateOrderCommand) setNow(now time.Time) error {
	if now.IsZero() {
		return errs.NewValueIsRequiredError("submission time")
	}
	c.now = now
	return nil
}
