package commands

import (
	"context"
	"fmt"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/order"
	"canteen/internal/core/ports"
	"canteen/internal/pkg/errs"
)

// CancelOrderResult carries the refund amount and the wallet balance after
// the compensation, for the response and the cancellation event.
type CancelOrderResult struct {
	RefundAmount kernel.Money
	NewBalance   kernel.Money
}

// CancelOrderCommandHandler runs the compensation workflow: credit the
// wallet by the order's total, restore every line item's inventory and mark
// the order Cancelled, all in one atomic unit. This is a new transaction
// compensating the already-committed creation, not a rollback of it.
//
// Preconditions (ownership, not already cancelled, kind cancellation
// policy) are checked against the loaded order before any mutation.
type CancelOrderCommandHandler struct {
	uowFactory UoWFactory
	policies   order.PolicySet
	publisher  ports.EventPublisher
}

// NewCancelOrderCommandHandler creates a handler for the cancellation workflow.
func NewCancelOrderCommandHandler(
	uowFactory UoWFactory,
	policies order.PolicySet,
	publisher ports.EventPublisher,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		policies:   policies,
		publisher:  publisher,
	}
}

// Handle processes the cancellation command. The storage work is retried on
// transient conflicts as one unit; on success the cancellation event is
// fanned out to the order topic and the admin topic.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (CancelOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return CancelOrderResult{}, err
	}

	var result CancelOrderResult
	var cancelled *order.Order

	if err := retryTransient(ctx, func() error {
		var opErr error
		result, cancelled, opErr = h.compensate(ctx, cmd)
		return opErr
	}); err != nil {
		return CancelOrderResult{}, err
	}

	h.publishCancelled(cancelled, result, cmd)

	return result, nil
}

// compensate is the atomic unit: wallet credit, per-item restock and the
// status change to Cancelled commit together or not at all.
func (h *CancelOrderCommandHandler) compensate(
	ctx context.Context,
	cmd CancelOrderCommand,
) (CancelOrderResult, *order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CancelOrderResult{}, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	// The order row stays locked for the whole unit: a concurrent
	// cancellation or progression tick waits here and then sees the
	// committed status, so the compensation can never run twice.
	orderRepo := uow.OrderRepository()
	target, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return CancelOrderResult{}, nil, err
	}

	if err = h.checkPreconditions(target, cmd); err != nil {
		return CancelOrderResult{}, nil, err
	}

	walletRepo := uow.WalletRepository()
	owner, err := walletRepo.GetForUpdate(ctx, target.Owner())
	if err != nil {
		return CancelOrderResult{}, nil, err
	}

	owner.Credit(target.TotalPrice())
	if err = walletRepo.Update(ctx, owner); err != nil {
		return CancelOrderResult{}, nil, err
	}

	inventoryRepo := uow.InventoryRepository()
	for _, item := range sortedByName(target.Items()) {
		record, itemErr := inventoryRepo.GetForUpdate(ctx, item.Name())
		if itemErr != nil {
			return CancelOrderResult{}, nil, itemErr
		}

		if itemErr = record.Increment(item.Quantity()); itemErr != nil {
			return CancelOrderResult{}, nil, itemErr
		}

		if itemErr = inventoryRepo.Update(ctx, record); itemErr != nil {
			return CancelOrderResult{}, nil, itemErr
		}
	}

	if err = target.Cancel("cancelled by owner"); err != nil {
		return CancelOrderResult{}, nil, err
	}

	if err = orderRepo.Update(ctx, target); err != nil {
		return CancelOrderResult{}, nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return CancelOrderResult{}, nil, err
	}

	return CancelOrderResult{
		RefundAmount: target.TotalPrice(),
		NewBalance:   owner.Balance(),
	}, target, nil
}

// checkPreconditions rejects the cancellation before any mutation:
// the requester must own the order, the order must not already be in a
// terminal state, and the kind's cancellation policy must still allow it.
func (h *CancelOrderCommandHandler) checkPreconditions(target *order.Order, cmd CancelOrderCommand) error {
	if target.Owner() != cmd.Requester() {
		return errs.NewConflictError(
			fmt.Sprintf("order %s does not belong to %s", target.ID(), cmd.Requester()),
		)
	}

	if target.Status() == order.Cancelled {
		return errs.NewConflictError(fmt.Sprintf("order %s is already cancelled", target.ID()))
	}

	if target.Status() == order.Delivered {
		return errs.NewConflictError(fmt.Sprintf("order %s has already been delivered", target.ID()))
	}

	policy := h.policies.PolicyFor(target.Kind())

	if policy.CancellableWhilePending {
		if target.Status() != order.Pending {
			return errs.NewConflictError(
				fmt.Sprintf("order %s can no longer be cancelled in status %s", target.ID(), target.Status()),
			)
		}
		return nil
	}

	if policy.CancellationWindow > 0 && cmd.Now().Sub(target.CreatedAt()) > policy.CancellationWindow {
		return errs.NewConflictError(
			fmt.Sprintf("cancellation window for order %s has expired", target.ID()),
		)
	}

	return nil
}

func (h *CancelOrderCommandHandler) publishCancelled(
	cancelled *order.Order,
	result CancelOrderResult,
	cmd CancelOrderCommand,
) {
	name := "order_cancelled"
	if cancelled.Kind() == order.KindBulk {
		name = "bulk_order_cancelled"
	}

	event := ports.Event{
		Name: name,
		Payload: map[string]any{
			"status":       cancelled.Status().String(),
			"orderId":      cancelled.ID().String(),
			"refundAmount": result.RefundAmount.Amount(),
			"newBalance":   result.NewBalance.Amount(),
		},
		Timestamp: cmd.Now(),
	}

	h.publisher.Publish(cancelled.ID().String(), event)
	h.publisher.Publish(ports.TopicAdmin, event)
}
