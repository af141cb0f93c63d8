// Package postgres provides the GORM-based implementation of the Unit of
// Work pattern. A unit of work is the transaction boundary of one business
// operation: the ledger debit, the inventory decrements and the order write
// of a submission commit together or not at all, and the compensating
// credit, restock and cancellation do the same.
//
// Basic usage:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	if err := uow.OrderRepository().Add(ctx, order); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Each business operation gets a fresh instance from the factory; instances
// are not safe for concurrent use. Rows read through the repositories'
// GetForUpdate methods stay locked until Commit or Rollback, which is how
// concurrent mutations of the same wallet or inventory row serialize.
package postgres

import (
	"context"

	"canteen/internal/adapters/out/postgres/inventoryrepo"
	"canteen/internal/adapters/out/postgres/orderrepo"
	"canteen/internal/adapters/out/postgres/pgerrors"
	"canteen/internal/adapters/out/postgres/walletrepo"
	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate represents an aggregate modified during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate interface{}
}

// GormUnitOfWorkFactory creates UnitOfWork instances using a shared GORM
// database connection. Each business operation gets a fresh unit of work
// with its own transaction state.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work
// instances.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork ready for one business transaction.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction across the order,
// wallet and inventory repositories, and tracks the aggregates modified
// inside it so callers can publish events for them after a successful
// commit.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin initiates a new database transaction. Subsequent repository
// operations execute within it. Calling Begin again on an instance with an
// open transaction is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		return uow.tx.Error
	}

	return nil
}

// Commit finalizes all changes made within the current transaction and
// releases its row locks. A commit that fails on a serialization conflict
// or deadlock comes back as a transient error, which command handlers
// retry.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return pgerrors.WrapTransient(err)
}

// Rollback discards all changes made within the current transaction.
// Returns error if no active transaction exists or the rollback fails.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// OrderRepository returns an order repository bound to the current
// transaction, or to the main connection when no transaction is active.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.session(), uow)
}

// WalletRepository returns a wallet repository bound to the current
// transaction, or to the main connection when no transaction is active.
func (uow *GormUnitOfWork) WalletRepository() ports.WalletRepository {
	return walletrepo.NewGormWalletRepository(uow.session())
}

// InventoryRepository returns an inventory repository bound to the current
// transaction, or to the main connection when no transaction is active.
func (uow *GormUnitOfWork) InventoryRepository() ports.InventoryRepository {
	return inventoryrepo.NewGormInventoryRepository(uow.session())
}

// TrackAggregate registers a domain aggregate as modified within this unit
// of work. Repositories call it on Add and Update; callers read the list
// back after Commit to publish events for exactly the aggregates that were
// persisted.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

func (uow *GormUnitOfWork) session() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
