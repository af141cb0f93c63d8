// Package inventory contains the InventoryItem aggregate: the per-item
// available quantity orders reserve stock from. Quantity changes only
// through Decrement and Increment so the non-negative invariant holds under
// the atomic units built around them.
package inventory

import (
	"errors"
	"fmt"

	"canteen/internal/pkg/errs"
)

var (
	// ErrItemIsNotConstructed is returned when an InventoryItem was not
	// created through NewItem or RestoreItem.
	ErrItemIsNotConstructed = errors.New("InventoryItem must be created via NewItem or RestoreItem constructor")

	// ErrInsufficientStock is the sentinel for a decrement that would push
	// the quantity below zero. It unwraps to errs.ErrConflict.
	ErrInsufficientStock = errs.NewConflictError("insufficient stock")
)

// InventoryItem tracks the available quantity of one catalog item.
//
// Invariants:
//   - Quantity is never negative; a decrement that would make it so is
//     rejected without being applied
//   - Quantity changes only through Decrement and Increment
type InventoryItem struct {
	name          string
	quantity      int
	isConstructed bool
}

// NewItem creates an inventory record for the named item.
func NewItem(name string, quantity int) (*InventoryItem, error) {
	if name == "" {
		return nil, errs.NewValueIsRequiredError("item name")
	}
	if quantity < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is negative", quantity))
	}

	return &InventoryItem{
		name:          name,
		quantity:      quantity,
		isConstructed: true,
	}, nil
}

// RestoreItem reconstructs an inventory record from persistence.
func RestoreItem(name string, quantity int) (*InventoryItem, error) {
	return NewItem(name, quantity)
}

// Validate ensures the item was properly constructed.
func (i *InventoryItem) Validate() error {
	if i == nil || !i.isConstructed {
		return ErrItemIsNotConstructed
	}
	return nil
}

// Name returns the catalog name of the item.
func (i *InventoryItem) Name() string {
	return i.name
}

// Quantity returns the currently available quantity.
func (i *InventoryItem) Quantity() int {
	return i.quantity
}

// Decrement reserves n units. Fails with ErrInsufficientStock if fewer than
// n units are available, leaving the quantity unchanged.
func (i *InventoryItem) Decrement(n int) error {
	if n <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", n))
	}

	if i.quantity < n {
		return fmt.Errorf("decrement of %d from %q with %d available: %w",
			n, i.name, i.quantity, ErrInsufficientStock)
	}

	i.quantity -= n
	return nil
}

// Increment restores n units, as done by the cancellation compensation.
func (i *InventoryItem) Increment(n int) error {
	if n <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", n))
	}

	i.quantity += n
	return nil
}
