// Package inventoryrepo provides data transfer objects and mapping functions
// for inventory persistence.
package inventoryrepo

import (
	"canteen/internal/core/domain/model/inventory"
)

// InventoryItemDTO represents the database structure for the derived
// available-items snapshot orders reserve stock from. The catalog name is
// the natural key.
type InventoryItemDTO struct {
	Name     string `gorm:"primaryKey"`
	Quantity int
}

// TableName specifies the database table name for inventory records.
func (InventoryItemDTO) TableName() string {
	return "inventory_items"
}

// CatalogItemDTO represents the master catalog the daily snapshot rebuild
// reads from. The catalog is maintained outside this service; the engine
// only ever reads it.
type CatalogItemDTO struct {
	Name          string `gorm:"primaryKey"`
	DailyQuantity int
	Available     bool
}

// TableName specifies the database table name for catalog entries.
func (CatalogItemDTO) TableName() string {
	return "catalog_items"
}

// fromDomain converts an inventory aggregate to its database representation.
func fromDomain(aggregate *inventory.InventoryItem) InventoryItemDTO {
	return InventoryItemDTO{
		Name:     aggregate.Name(),
		Quantity: aggregate.Quantity(),
	}
}

// toDomain converts a database DTO back to an inventory aggregate.
func toDomain(dto InventoryItemDTO) (*inventory.InventoryItem, error) {
	return inventory.RestoreItem(dto.Name, dto.Quantity)
}
