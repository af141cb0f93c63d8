package queries_test

import (
	"time"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/order"
)

// mockAggregateTracker is a no-op tracker for seeding data through the
// repositories.
type mockAggregateTracker struct{}

func (m *mockAggregateTracker) TrackAggregate(_ kernel.UUID, _ any) {}

// buildOrder creates a pending order for the given owner and floor, placed at
// the given time, with a 5 minute buffer and a 55 minute delivery deadline.
func buildOrder(owner, floor string, placedAt time.Time) *order.Order {
	return buildOrderCreatedAt(owner, floor, placedAt, placedAt)
}

// buildOrderCreatedAt is buildOrder with the creation time decoupled from the
// timeline anchor, for exercising creation-time tiebreaks.
func buildOrderCreatedAt(owner, floor string, placedAt, createdAt time.Time) *order.Order {
	timeline, _ := order.NewTimeline(
		placedAt.Add(-10*time.Minute),
		placedAt.Add(35*time.Minute),
		placedAt.Add(5*time.Minute),
		placedAt.Add(55*time.Minute),
	)

	thaliPrice, _ := kernel.NewMoney(4500)
	thali, _ := order.NewItem("veg thali", 2, thaliPrice)
	samosaPrice, _ := kernel.NewMoney(1500)
	samosa, _ := order.NewItem("samosa", 3, samosaPrice)

	o, _ := order.NewOrder(
		kernel.NewUUID(), owner, order.KindRegular,
		[]order.Item{thali, samosa}, floor, timeline, createdAt,
	)
	return o
}
