package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"canteen/internal/core/domain/model/order"
	"canteen/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads one order, including its item list and
// timeline, directly from the database.
//
// Example:
//
//	handler := NewGetOrderQueryHandler(db)
//	query, _ := NewGetOrderQuery(orderID)
//
//	resp, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("order %s is %s\n", resp.ID, resp.Status)
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single-order reads.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// itemColumn is the persisted JSON shape of one line item.
type itemColumn struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

// Handle executes the query. Returns an ObjectNotFoundError for an unknown
// token.
func (h GetOrderQueryHandler) Handle(
	ctx context.Context,
	query GetOrderQuery,
) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			owner,
			kind,
			items,
			total_price,
			floor,
			status,
			cycle_start,
			cycle_end,
			buffer_end,
			delivery_end,
			created_at,
			cancel_reason
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()

	var (
		id           uuid.UUID
		owner        string
		kind         int
		rawItems     []byte
		totalPrice   int64
		floor        string
		status       int
		cycleStart   time.Time
		cycleEnd     time.Time
		bufferEnd    time.Time
		deliveryEnd  time.Time
		createdAt    time.Time
		cancelReason string
	)

	err := row.Scan(
		&id, &owner, &kind, &rawItems, &totalPrice, &floor, &status,
		&cycleStart, &cycleEnd, &bufferEnd, &deliveryEnd, &createdAt, &cancelReason,
	)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, sql.ErrNoRows) {
			return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
		}
		return GetOrderQueryResponse{}, err
	}

	var items []itemColumn
	if err = json.Unmarshal(rawItems, &items); err != nil {
		return GetOrderQueryResponse{}, err
	}

	itemResponses := make([]OrderItemResponse, len(items))
	for i, item := range items {
		itemResponses[i] = OrderItemResponse(item)
	}

	totalMinutes := int((deliveryEnd.Sub(cycleStart) + time.Minute - 1) / time.Minute)

	return GetOrderQueryResponse{
		ID:           id.String(),
		Owner:        owner,
		Kind:         order.Kind(kind).String(),
		Status:       order.Status(status).String(),
		Floor:        floor,
		TotalPrice:   totalPrice,
		Items:        itemResponses,
		CycleStart:   cycleStart,
		CycleEnd:     cycleEnd,
		BufferEnd:    bufferEnd,
		DeliveryEnd:  deliveryEnd,
		TotalMinutes: totalMinutes,
		CreatedAt:    createdAt,
		CancelReason: cancelReason,
	}, nil
}
