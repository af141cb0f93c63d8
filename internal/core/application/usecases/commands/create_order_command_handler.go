package commands

import (
	"context"
	"fmt"
	"sort"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/order"
	"canteen/internal/core/domain/services"
	"canteen/internal/core/ports"
	"canteen/internal/pkg/errs"
)

// CreateOrderResult carries the data the client needs after a successful
// submission: the generated order token and the computed timeline.
type CreateOrderResult struct {
	OrderID      kernel.UUID
	TotalPrice   kernel.Money
	TotalMinutes int
	Timeline     order.Timeline
}

// CreateOrderCommandHandler handles order submission. It validates the
// command against the kind policy, computes the cycle timeline, then runs
// one atomic unit that decrements inventory per item, debits the wallet by
// the total price and persists the order. On any failure the whole unit
// rolls back; no partial state survives. On success a creation event is
// fanned out to the submitter's topic and the admin topic.
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	planner    services.CyclePlanner
	policies   order.PolicySet
	publisher  ports.EventPublisher
}

// NewCreateOrderCommandHandler creates a handler for order submission.
func NewCreateOrderCommandHandler(
	uowFactory UoWFactory,
	planner services.CyclePlanner,
	policies order.PolicySet,
	publisher ports.EventPublisher,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		planner:    planner,
		policies:   policies,
		publisher:  publisher,
	}
}

// Handle processes the order submission command. Validation happens before
// any mutation; the storage work is retried on transient conflicts as one
// unit.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (CreateOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return CreateOrderResult{}, err
	}

	policy := h.policies.PolicyFor(cmd.Kind())
	if err := checkItemQuantities(cmd.Items(), policy); err != nil {
		return CreateOrderResult{}, err
	}

	floor := h.planner.NormalizeFloor(cmd.Floor())
	timeline, err := h.planner.Plan(cmd.Now(), floor)
	if err != nil {
		return CreateOrderResult{}, err
	}

	newOrder, err := order.NewOrder(
		kernel.NewUUID(), cmd.Owner(), cmd.Kind(), cmd.Items(), floor, timeline, cmd.Now(),
	)
	if err != nil {
		return CreateOrderResult{}, err
	}

	if err = retryTransient(ctx, func() error {
		return h.reserveAndPersist(ctx, newOrder)
	}); err != nil {
		return CreateOrderResult{}, err
	}

	h.publishCreated(newOrder)

	return CreateOrderResult{
		OrderID:      newOrder.ID(),
		TotalPrice:   newOrder.TotalPrice(),
		TotalMinutes: timeline.TotalMinutes(),
		Timeline:     timeline,
	}, nil
}

// reserveAndPersist is the atomic unit: per-item inventory decrement, wallet
// debit and order insert commit together or not at all.
func (h *CreateOrderCommandHandler) reserveAndPersist(ctx context.Context, newOrder *order.Order) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	inventoryRepo := uow.InventoryRepository()

	// Items are locked in name order so two concurrent orders over the
	// same items cannot deadlock on each other's row locks.
	for _, item := range sortedByName(newOrder.Items()) {
		record, err := inventoryRepo.GetForUpdate(ctx, item.Name())
		if err != nil {
			return err
		}

		if err = record.Decrement(item.Quantity()); err != nil {
			return err
		}

		if err = inventoryRepo.Update(ctx, record); err != nil {
			return err
		}
	}

	walletRepo := uow.WalletRepository()
	payer, err := walletRepo.GetForUpdate(ctx, newOrder.Owner())
	if err != nil {
		return err
	}

	if err = payer.Debit(newOrder.TotalPrice()); err != nil {
		return err
	}

	if err = walletRepo.Update(ctx, payer); err != nil {
		return err
	}

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h *CreateOrderCommandHandler) publishCreated(newOrder *order.Order) {
	event := ports.Event{
		Name: "order_created",
		Payload: map[string]any{
			"status":     newOrder.Status().String(),
			"orderId":    newOrder.ID().String(),
			"floor":      newOrder.Floor(),
			"totalPrice": newOrder.TotalPrice().Amount(),
			"totalTime":  newOrder.Timeline().TotalMinutes(),
		},
		Timestamp: newOrder.CreatedAt(),
	}

	h.publisher.Publish(newOrder.Owner(), event)
	h.publisher.Publish(ports.TopicAdmin, event)
}

// checkItemQuantities enforces the kind's minimum per-item quantity before
// any mutation happens.
func checkItemQuantities(items []order.Item, policy order.Policy) error {
	if policy.MinItemQuantity <= 0 {
		return nil
	}

	for _, item := range items {
		if item.Quantity() < policy.MinItemQuantity {
			return errs.NewValueIsInvalidErrorWithCause("item quantity",
				fmt.Errorf("%q has quantity %d, this order kind requires at least %d per item",
					item.Name(), item.Quantity(), policy.MinItemQuantity))
		}
	}

	return nil
}

func sortedByName(items []order.Item) []order.Item {
	sort.Slice(items, func(i, j int) bool {
		return items[i].Name() < items[j].Name()
	})
	return items
}
