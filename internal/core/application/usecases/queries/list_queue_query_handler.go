package queries

import (
	"context"
	"time"

	"canteen/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListQueueQueryHandler reads the active delivery queue from the database.
// The delivery deadline already encodes the per-floor duration, so ordering
// by it yields the floor-aware queue attendants expect.
type ListQueueQueryHandler struct {
	db *gorm.DB
}

// NewListQueueQueryHandler creates a handler for delivery queue reads.
func NewListQueueQueryHandler(db *gorm.DB) ListQueueQueryHandler {
	return ListQueueQueryHandler{db: db}
}

// Handle executes the query. Returns active orders sorted by delivery
// deadline, then creation time for a stable order within a cycle.
func (h ListQueueQueryHandler) Handle(
	ctx context.Context,
	query ListQueueQuery,
) ([]ListQueueQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	queue := make([]ListQueueQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			owner,
			kind,
			status,
			floor,
			total_price,
			delivery_end,
			created_at
		FROM orders
		WHERE status IN (?, ?, ?)
		ORDER BY delivery_end, created_at
	`, order.Pending, order.Preparing, order.OnTheWay).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id          uuid.UUID
			owner       string
			kind        int
			status      int
			floor       string
			totalPrice  int64
			deliveryEnd time.Time
			createdAt   time.Time
		)

		if err = rows.Scan(&id, &owner, &kind, &status, &floor, &totalPrice, &deliveryEnd, &createdAt); err != nil {
			return nil, err
		}

		queue = append(queue, ListQueueQueryResponse{
			ID:          id.String(),
			Owner:       owner,
			Kind:        order.Kind(kind).String(),
			Status:      order.Status(status).String(),
			Floor:       floor,
			TotalPrice:  totalPrice,
			DeliveryEnd: deliveryEnd,
			CreatedAt:   createdAt,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return queue, nil
}
