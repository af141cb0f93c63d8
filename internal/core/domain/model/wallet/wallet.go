// Package wallet contains the Wallet aggregate: the per-identity internal
// ledger balance. The wallet is the sole payment mechanism: orders debit it
// at creation and cancellations credit it back. There is no external payment
// gateway behind it.
package wallet

import (
	"errors"
	"fmt"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/pkg/errs"
)

var (
	// ErrWalletIsNotConstructed is returned when a Wallet instance was not
	// created through NewWallet or RestoreWallet.
	ErrWalletIsNotConstructed = errors.New("Wallet must be created via NewWallet or RestoreWallet constructor")

	// ErrInsufficientFunds is the sentinel for a debit that would push the
	// balance below zero. It unwraps to errs.ErrConflict.
	ErrInsufficientFunds = errs.NewConflictError("insufficient funds")
)

// Wallet is the aggregate holding one identity's balance.
//
// Invariants:
//   - Balance is never negative; a debit that would make it so is rejected
//     without being applied
//   - Balance changes only through Debit and Credit
//
// Wallets are never deleted. Serializing concurrent debits against the same
// wallet is the storage layer's job (row locks around the atomic unit); the
// aggregate enforces the arithmetic invariant.
type Wallet struct {
	owner         string
	balance       kernel.Money
	isConstructed bool
}

// NewWallet creates a wallet for the given identity with an opening balance.
func NewWallet(owner string, balance kernel.Money) (*Wallet, error) {
	if owner == "" {
		return nil, errs.NewValueIsRequiredError("owner")
	}

	return &Wallet{
		owner:         owner,
		balance:       balance,
		isConstructed: true,
	}, nil
}

// RestoreWallet reconstructs a wallet from persistence.
func RestoreWallet(owner string, balance kernel.Money) (*Wallet, error) {
	return NewWallet(owner, balance)
}

// Validate ensures the Wallet was properly constructed.
func (w *Wallet) Validate() error {
	if w == nil || !w.isConstructed {
		return ErrWalletIsNotConstructed
	}
	return nil
}

// Owner returns the identity the wallet belongs to.
func (w *Wallet) Owner() string {
	return w.owner
}

// Balance returns the current balance.
func (w *Wallet) Balance() kernel.Money {
	return w.balance
}

// Debit subtracts amount from the balance. Fails with ErrInsufficientFunds
// if the balance does not cover the amount, leaving the balance unchanged.
func (w *Wallet) Debit(amount kernel.Money) error {
	if !w.balance.IsGreaterOrEqual(amount) {
		return fmt.Errorf("debit of %s from wallet %s with balance %s: %w",
			amount, w.owner, w.balance, ErrInsufficientFunds)
	}

	newBalance, err := w.balance.Sub(amount)
	if err != nil {
		return err
	}

	w.balance = newBalance
	return nil
}

// Credit adds amount to the balance. Always succeeds.
func (w *Wallet) Credit(amount kernel.Money) {
	w.balance = w.balance.Add(amount)
}
