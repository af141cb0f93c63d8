// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate, converting between the domain model and the relational schema.
package orderrepo

import (
	"encoding/json"
	"time"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The item list is stored as a JSONB column: items are immutable after
// submission and are only ever read back as a whole, so a child table would
// buy nothing. Timeline thresholds are flattened into columns because the
// progression queries filter on them.
type OrderDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Owner          string    `gorm:"index"`
	Kind           int
	Items          []byte `gorm:"type:jsonb"`
	TotalPrice     int64
	Floor          string
	Status         int `gorm:"index"`
	CycleStart     time.Time
	CycleEnd       time.Time
	BufferEnd      time.Time
	PreparationEnd time.Time
	DeliveryEnd    time.Time
	CreatedAt      time.Time
	CancelReason   string
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// itemDTO is the persisted JSON shape of one line item.
type itemDTO struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

// fromDomain converts an order aggregate to its database representation.
func fromDomain(aggregate *order.Order) (OrderDTO, error) {
	items := make([]itemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, itemDTO{
			Name:     item.Name(),
			Quantity: item.Quantity(),
			Price:    item.Price().Amount(),
		})
	}

	rawItems, err := json.Marshal(items)
	if err != nil {
		return OrderDTO{}, err
	}

	timeline := aggregate.Timeline()

	return OrderDTO{
		ID:             aggregate.ID().Bytes(),
		Owner:          aggregate.Owner(),
		Kind:           int(aggregate.Kind()),
		Items:          rawItems,
		TotalPrice:     aggregate.TotalPrice().Amount(),
		Floor:          aggregate.Floor(),
		Status:         int(aggregate.Status()),
		CycleStart:     timeline.CycleStart(),
		CycleEnd:       timeline.CycleEnd(),
		BufferEnd:      timeline.BufferEnd(),
		PreparationEnd: timeline.PreparationEnd(),
		DeliveryEnd:    timeline.DeliveryEnd(),
		CreatedAt:      aggregate.CreatedAt(),
		CancelReason:   aggregate.CancelReason(),
	}, nil
}

// toDomain converts a database DTO back to an order aggregate using
// RestoreOrder, which trusts the stored total price.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var rawItems []itemDTO
	if err = json.Unmarshal(dto.Items, &rawItems); err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(rawItems))
	for _, raw := range rawItems {
		price, priceErr := kernel.NewMoney(raw.Price)
		if priceErr != nil {
			return nil, priceErr
		}

		item, itemErr := order.NewItem(raw.Name, raw.Quantity, price)
		if itemErr != nil {
			return nil, itemErr
		}

		items = append(items, item)
	}

	totalPrice, err := kernel.NewMoney(dto.TotalPrice)
	if err != nil {
		return nil, err
	}

	timeline, err := order.NewTimeline(dto.CycleStart, dto.CycleEnd, dto.BufferEnd, dto.DeliveryEnd)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id,
		dto.Owner,
		order.Kind(dto.Kind),
		items,
		totalPrice,
		dto.Floor,
		order.Status(dto.Status),
		timeline,
		dto.CreatedAt,
		dto.CancelReason,
	)
}
