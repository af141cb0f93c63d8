package commands

import (
	"context"
)

// RebuildSnapshotCommandHandler rebuilds the derived available-items
// snapshot the inventory checks read from. It runs once a day, separately
// from the per-minute progression tick; request handlers never trigger it.
type RebuildSnapshotCommandHandler struct {
	uowFactory InventoryUoWFactory
}

// NewRebuildSnapshotCommandHandler creates a handler for the daily snapshot rebuild.
func NewRebuildSnapshotCommandHandler(uowFactory InventoryUoWFactory) RebuildSnapshotCommandHandler {
	return RebuildSnapshotCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle rebuilds the snapshot inside a single transaction.
func (h *RebuildSnapshotCommandHandler) Handle(ctx context.Context, cmd RebuildSnapshotCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.InventoryRepository().RebuildSnapshot(ctx); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
