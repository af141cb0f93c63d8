package kernel

import (
	"fmt"

	"canteen/internal/pkg/errs"
)

// Money is a value object carrying an amount in minor currency units
// (paise). Storing int64 minor units keeps ledger arithmetic exact; the
// wallet's non-negative balance invariant is enforced on top of it by the
// wallet aggregate.
//
// Money is immutable: arithmetic methods return new values. The zero value
// represents a zero amount and is valid.
type Money struct {
	amount int64
}

// NewMoney creates a Money value from minor currency units.
// Negative amounts are rejected: prices, balances, debits and credits in
// this domain are all non-negative quantities.
func NewMoney(amount int64) (Money, error) {
	if amount < 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%d is negative", amount))
	}
	return Money{amount: amount}, nil
}

// Amount returns the amount in minor currency units.
func (m Money) Amount() int64 {
	return m.amount
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount + other.amount}
}

// Sub returns the difference m − other. It fails if the result would be
// negative, which is how an over-debit is detected.
func (m Money) Sub(other Money) (Money, error) {
	if other.amount > m.amount {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%d exceeds available %d", other.amount, m.amount))
	}
	return Money{amount: m.amount - other.amount}, nil
}

// MultiplyBy returns the amount multiplied by a non-negative quantity.
func (m Money) MultiplyBy(quantity int) Money {
	return Money{amount: m.amount * int64(quantity)}
}

// IsGreaterOrEqual reports whether m covers at least the other amount.
func (m Money) IsGreaterOrEqual(other Money) bool {
	return m.amount >= other.amount
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m.amount > 0
}

// IsEqual reports whether two amounts are identical.
func (m Money) IsEqual(other Money) bool {
	return m.amount == other.amount
}

// String renders the amount in minor units, for logs and error messages.
func (m Money) String() string {
	return fmt.Sprintf("%d", m.amount)
}
