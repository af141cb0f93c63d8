package ports

import (
	"context"

	"canteen/internal/core/domain/model/inventory"
)

// InventoryRepository defines the persistence contract for inventory items.
// Items are keyed by their catalog name.
type InventoryRepository interface {
	// Add persists a new inventory record.
	Add(ctx context.Context, aggregate *inventory.InventoryItem) error

	// Update persists a changed quantity.
	Update(ctx context.Context, aggregate *inventory.InventoryItem) error

	// Get retrieves an item by name without locking.
	Get(ctx context.Context, name string) (*inventory.InventoryItem, error)

	// GetForUpdate retrieves an item by name and locks its row for the
	// duration of the surrounding transaction. Decrements and increments
	// inside an atomic unit must read through this method so concurrent
	// mutations of the same item serialize.
	GetForUpdate(ctx context.Context, name string) (*inventory.InventoryItem, error)

	// RebuildSnapshot rebuilds the derived available-items records from the
	// master catalog. Run by the daily snapshot job, not by request
	// handlers.
	RebuildSnapshot(ctx context.Context) error
}
