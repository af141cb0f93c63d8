package commands

import (
	"context"
	"time"

	"canteen/internal/core/domain/model/order"
	"canteen/internal/core/ports"
)

// StaleOrderReason is recorded on orders force-cancelled by the sweep.
const StaleOrderReason = "system auto-cancellation"

// ProgressOrdersCommandHandler runs one tick of the status progression
// engine. Each tick evaluates three ordered rules, each as a batch: all
// currently-qualifying orders for a rule move together in one transaction,
// committed before the next rule is evaluated, so an order can never skip
// two states within a single tick:
//
//  1. Pending -> Preparing once the buffer window has ended
//  2. Preparing -> OnTheWay once the preparation deadline has passed
//  3. OnTheWay -> Delivered once the delivery deadline has passed
//
// A fourth batch force-cancels active orders older than the staleness
// threshold as a fail-safe against scheduler gaps. The sweep deliberately
// performs no wallet credit or inventory restock; abandoned orders are not
// refunded, unlike owner-initiated cancellation.
//
// The tick is idempotent: an order transitioned by one tick no longer
// matches the rule's from-status on the next.
type ProgressOrdersCommandHandler struct {
	uowFactory         OrderUoWFactory
	publisher          ports.EventPublisher
	stalenessThreshold time.Duration
}

// NewProgressOrdersCommandHandler creates the progression tick handler with
// the given staleness threshold.
func NewProgressOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	stalenessThreshold time.Duration,
) ProgressOrdersCommandHandler {
	return ProgressOrdersCommandHandler{
		uowFactory:         uowFactory,
		publisher:          publisher,
		stalenessThreshold: stalenessThreshold,
	}
}

// Handle runs one tick. A rule's batch either fully commits or fully rolls
// back; a failed rule aborts the remainder of the tick, and the next tick
// picks up where this one left off.
func (h *ProgressOrdersCommandHandler) Handle(ctx context.Context, cmd ProgressOrdersCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := cmd.Now()

	rules := []struct {
		fetch func(context.Context, ports.OrderRepository) ([]*order.Order, error)
		apply func(*order.Order) error
	}{
		{
			fetch: func(ctx context.Context, repo ports.OrderRepository) ([]*order.Order, error) {
				return repo.GetAllDueForPreparation(ctx, now)
			},
			apply: func(o *order.Order) error { return o.StartPreparing(now) },
		},
		{
			fetch: func(ctx context.Context, repo ports.OrderRepository) ([]*order.Order, error) {
				return repo.GetAllDueForDispatch(ctx, now)
			},
			apply: func(o *order.Order) error { return o.Dispatch(now) },
		},
		{
			fetch: func(ctx context.Context, repo ports.OrderRepository) ([]*order.Order, error) {
				return repo.GetAllDueForDelivery(ctx, now)
			},
			apply: func(o *order.Order) error { return o.Deliver(now) },
		},
		{
			fetch: func(ctx context.Context, repo ports.OrderRepository) ([]*order.Order, error) {
				return repo.GetAllStale(ctx, now.Add(-h.stalenessThreshold))
			},
			apply: func(o *order.Order) error { return o.Cancel(StaleOrderReason) },
		},
	}

	for _, rule := range rules {
		transitioned, err := h.applyBatch(ctx, rule.fetch, rule.apply)
		if err != nil {
			return err
		}

		for _, o := range transitioned {
			publishStatusChange(h.publisher, o, now)
		}
	}

	return nil
}

// applyBatch moves one rule's qualifying orders in a single transaction and
// returns them for event publication after the commit.
func (h *ProgressOrdersCommandHandler) applyBatch(
	ctx context.Context,
	fetch func(context.Context, ports.OrderRepository) ([]*order.Order, error),
	apply func(*order.Order) error,
) ([]*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	batch, err := fetch(ctx, orderRepo)
	if err != nil {
		return nil, err
	}

	for _, o := range batch {
		if err = apply(o); err != nil {
			return nil, err
		}

		if err = orderRepo.Update(ctx, o); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return batch, nil
}

// publishStatusChange fans a transition out to everyone watching the order:
// the order topic, the owner, the destination floor's attendant group and
// the admin dashboard.
func publishStatusChange(publisher ports.EventPublisher, o *order.Order, now time.Time) {
	name := "order_update"
	if o.Kind() == order.KindPreOrder {
		name = "pre_order_update"
	}

	event := ports.Event{
		Name: name,
		Payload: map[string]any{
			"status":  o.Status().String(),
			"orderId": o.ID().String(),
			"floor":   o.Floor(),
		},
		Timestamp: now,
	}

	if reason := o.CancelReason(); reason != "" {
		event.Payload["reason"] = reason
	}

	publisher.Publish(o.ID().String(), event)
	publisher.Publish(o.Owner(), event)
	publisher.Publish(ports.FloorTopic(o.Floor()), event)
	publisher.Publish(ports.TopicAdmin, event)
}
