package ports

import (
	"context"

	"canteen/internal/core/domain/model/wallet"
)

// WalletRepository defines the persistence contract for wallet aggregates.
// Wallets are keyed by their owner identity.
type WalletRepository interface {
	// Add persists a new wallet.
	Add(ctx context.Context, aggregate *wallet.Wallet) error

	// Update persists a changed balance.
	Update(ctx context.Context, aggregate *wallet.Wallet) error

	// Get retrieves a wallet by owner identity without locking, for reads
	// outside an atomic unit.
	Get(ctx context.Context, owner string) (*wallet.Wallet, error)

	// GetForUpdate retrieves a wallet by owner identity and locks its row
	// for the duration of the surrounding transaction. Every debit and
	// credit inside an atomic unit must read through this method so
	// concurrent mutations of the same wallet serialize.
	GetForUpdate(ctx context.Context, owner string) (*wallet.Wallet, error)
}
