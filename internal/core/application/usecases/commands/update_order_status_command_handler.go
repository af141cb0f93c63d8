package commands

import (
	"context"

	"canteen/internal/core/domain/model/order"
	"canteen/internal/core/ports"
)

// UpdateOrderStatusCommandHandler applies an explicitly requested status
// transition. Legality is enforced by the aggregate's state machine; an
// illegal transition surfaces as a ConflictError with no state change.
type UpdateOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

// NewUpdateOrderStatusCommandHandler creates a handler for explicit status updates.
func NewUpdateOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the status update command and publishes an order_update
// event on success.
func (h *UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	var updated *order.Order

	if err := retryTransient(ctx, func() error {
		var opErr error
		updated, opErr = h.transition(ctx, cmd)
		return opErr
	}); err != nil {
		return err
	}

	publishStatusChange(h.publisher, updated, cmd.Now())
	return nil
}

func (h *UpdateOrderStatusCommandHandler) transition(
	ctx context.Context,
	cmd UpdateOrderStatusCommand,
) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	// Locked read: the transition must be judged against the committed
	// status, not a snapshot a concurrent cancellation may have outdated.
	orderRepo := uow.OrderRepository()
	target, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = target.TransitionTo(cmd.Target(), cmd.Now()); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, target); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return target, nil
}
