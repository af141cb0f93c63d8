package queries

import (
	"errors"
	"time"

	"canteen/internal/pkg/guard"
)

var (
	ErrListQueueQueryIsNotConstructed = errors.New(
		"ListQueueQuery must be created via NewListQueueQuery constructor",
	)
)

// ListQueueQuery retrieves all active orders as the delivery queue: orders
// still in Pending, Preparing or OnTheWay, ordered by delivery deadline so
// attendants work the most urgent deliveries first.
type ListQueueQuery struct {
	guard guard.ConstructorGuard
}

// NewListQueueQuery creates a delivery queue query.
// This is a parameterless query.
func NewListQueueQuery() ListQueueQuery {
	return ListQueueQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q ListQueueQuery) Validate() error {
	return q.guard.Validate(ErrListQueueQueryIsNotConstructed)
}

// ListQueueQueryResponse is one row of the delivery queue.
type ListQueueQueryResponse struct {
	ID          string    `json:"orderId"`
	Owner       string    `json:"owner"`
	Kind        string    `json:"kind"`
	Status      string    `json:"status"`
	Floor       string    `json:"floor"`
	TotalPrice  int64     `json:"totalPrice"`
	DeliveryEnd time.Time `json:"deliveryEnd"`
	CreatedAt   time.Time `json:"createdAt"`
}
