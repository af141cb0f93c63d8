// Package ports defines the contracts between the application core and
// infrastructure: repositories, the unit of work and the event publisher.
// These interfaces enable dependency inversion and testability.
package ports

import (
	"context"
	"time"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The order must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its token.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate retrieves an order aggregate by its token with a row
	// lock held until the surrounding transaction ends. Transactions that
	// read an order in order to change its status must use this so that
	// concurrent cancellations and progression ticks serialize on the row
	// and re-read its committed status.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllDueForPreparation retrieves Pending orders whose buffer window
	// has ended at or before now. These form one batch of the progression
	// engine's first rule.
	GetAllDueForPreparation(ctx context.Context, now time.Time) ([]*order.Order, error)

	// GetAllDueForDispatch retrieves Preparing orders whose preparation
	// deadline has passed at or before now.
	GetAllDueForDispatch(ctx context.Context, now time.Time) ([]*order.Order, error)

	// GetAllDueForDelivery retrieves OnTheWay orders whose delivery deadline
	// has passed at or before now.
	GetAllDueForDelivery(ctx context.Context, now time.Time) ([]*order.Order, error)

	// GetAllStale retrieves active orders created before the cutoff.
	// The stale-order sweep force-cancels these as a fail-safe against
	// scheduler gaps.
	GetAllStale(ctx context.Context, cutoff time.Time) ([]*order.Order, error)
}
