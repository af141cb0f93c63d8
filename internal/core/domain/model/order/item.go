package order

import (
	"errors"
	"fmt"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/pkg/errs"
)

// Item is a line item of an order: what was ordered, how many, and the unit
// price captured at submission time. Item is a value object; orders hold an
// immutable list of them.
type Item struct {
	name     string
	quantity int
	price    kernel.Money
}

// NewItem creates a validated line item. The name must be non-empty, the
// quantity positive and the unit price strictly positive.
func NewItem(name string, quantity int, price kernel.Money) (Item, error) {
	item := Item{}

	if err := errors.Join(
		item.setName(name),
		item.setQuantity(quantity),
		item.setPrice(price),
	); err != nil {
		return Item{}, err
	}

	return item, nil
}

// Name returns the catalog name of the item.
func (i Item) Name() string {
	return i.name
}

// Quantity returns how many units were ordered.
func (i Item) Quantity() int {
	return i.quantity
}

// Price returns the unit price captured at submission.
func (i Item) Price() kernel.Money {
	return i.price
}

// Subtotal returns quantity × unit price.
func (i Item) Subtotal() kernel.Money {
	return i.price.MultiplyBy(i.quantity)
}

func (i *Item) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("item name")
	}
	i.name = name
	return nil
}

func (i *Item) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("item quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	i.quantity = quantity
	return nil
}

func (i *Item) setPrice(price kernel.Money) error {
	if !price.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("item price",
			fmt.Errorf("%s is not greater than 0", price))
	}
	i.price = price
	return nil
}
