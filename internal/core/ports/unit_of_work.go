package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request or
// tick. This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary: the atomic unit
// inside which ledger debits, inventory decrements and order writes commit
// together or not at all. Client code must explicitly manage the
// transaction lifecycle.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// OrderRepository returns an OrderRepository bound to the current transaction.
	OrderRepository() OrderRepository

	// WalletRepository returns a WalletRepository bound to the current transaction.
	WalletRepository() WalletRepository

	// InventoryRepository returns an InventoryRepository bound to the current transaction.
	InventoryRepository() InventoryRepository
}
