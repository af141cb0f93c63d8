// Package queries contains the read-side operations of the CQRS
// architecture. Query handlers read directly from the database and return
// flat response models; they never mutate state.
package queries

import (
	"errors"
	"time"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
)

// GetOrderQuery retrieves one order by its token.
type GetOrderQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for the given order token.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the requested order token.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// OrderItemResponse is one line item in a GetOrderQueryResponse.
type OrderItemResponse struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

// GetOrderQueryResponse is the read model for a single order, including the
// timeline the client renders its countdown from.
type GetOrderQueryResponse struct {
	ID           string              `json:"orderId"`
	Owner        string              `json:"owner"`
	Kind         string              `json:"kind"`
	Status       string              `json:"status"`
	Floor        string              `json:"floor"`
	TotalPrice   int64               `json:"totalPrice"`
	Items        []OrderItemResponse `json:"items"`
	CycleStart   time.Time           `json:"cycleStart"`
	CycleEnd     time.Time           `json:"cycleEnd"`
	BufferEnd    time.Time           `json:"bufferEnd"`
	DeliveryEnd  time.Time           `json:"deliveryEnd"`
	TotalMinutes int                 `json:"totalTime"`
	CreatedAt    time.Time           `json:"createdAt"`
	CancelReason string              `json:"cancelReason,omitempty"`
}
