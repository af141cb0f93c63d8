package inventoryrepo

import (
	"context"
	"errors"

	"canteen/internal/adapters/out/postgres/pgerrors"
	"canteen/internal/core/domain/model/inventory"
	"canteen/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInventoryRepository implements InventoryRepository using GORM.
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewGormInventoryRepository creates a new GORM inventory repository.
func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// Add saves a new inventory record to the database.
func (r *GormInventoryRepository) Add(ctx context.Context, aggregate *inventory.InventoryItem) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update saves a changed quantity to the database.
func (r *GormInventoryRepository) Update(ctx context.Context, aggregate *inventory.InventoryItem) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&InventoryItemDTO{}).
		Where("name = ?", dto.Name).
		Update("quantity", dto.Quantity)
	if result.Error != nil {
		return pgerrors.WrapTransient(result.Error)
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("inventory item", dto.Name)
	}

	return nil
}

// Get retrieves an item by name without locking.
func (r *GormInventoryRepository) Get(ctx context.Context, name string) (*inventory.InventoryItem, error) {
	return r.get(ctx, name, false)
}

// GetForUpdate retrieves an item by name with a row lock held until the
// surrounding transaction ends. Concurrent reservations of the same item
// serialize on this lock.
func (r *GormInventoryRepository) GetForUpdate(ctx context.Context, name string) (*inventory.InventoryItem, error) {
	return r.get(ctx, name, true)
}

// RebuildSnapshot replaces the available-items snapshot with the current
// master catalog: available catalog entries are upserted at their daily
// quantity and entries that left the catalog are removed. Runs inside the
// caller's transaction.
func (r *GormInventoryRepository) RebuildSnapshot(ctx context.Context) error {
	db := r.db.WithContext(ctx)

	err := db.Exec(`
		INSERT INTO inventory_items (name, quantity)
		SELECT name, daily_quantity
		FROM catalog_items
		WHERE available
		ON CONFLICT (name) DO UPDATE SET quantity = EXCLUDED.quantity
	`).Error
	if err != nil {
		return pgerrors.WrapTransient(err)
	}

	err = db.Exec(`
		DELETE FROM inventory_items
		WHERE name NOT IN (SELECT name FROM catalog_items WHERE available)
	`).Error
	if err != nil {
		return pgerrors.WrapTransient(err)
	}

	return nil
}

func (r *GormInventoryRepository) get(ctx context.Context, name string, forUpdate bool) (*inventory.InventoryItem, error) {
	if name == "" {
		return nil, errs.NewValueIsRequiredError("item name")
	}

	db := r.db.WithContext(ctx)
	if forUpdate {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var dto InventoryItemDTO
	if err := db.First(&dto, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("inventory item", name)
		}
		return nil, pgerrors.WrapTransient(err)
	}

	return toDomain(dto)
}
