package commands

import (
	"errors"

	"canteen/internal/pkg/guard"
)

var (
	ErrRebuildSnapshotCommandIsNotConstructed = errors.New(
		"RebuildSnapshotCommand must be created via NewRebuildSnapshotCommand constructor",
	)
)

// RebuildSnapshotCommand requests a rebuild of the derived available-items
// records from the master catalog. Issued by the daily snapshot job.
type RebuildSnapshotCommand struct {
	guard guard.ConstructorGuard
}

// NewRebuildSnapshotCommand creates a snapshot rebuild command.
// This is a parameterless command.
func NewRebuildSnapshotCommand() RebuildSnapshotCommand {
	return RebuildSnapshotCommand{guard: guard.NewConstructorGuard()}
}

// Validate ensures the command was created through the constructor.
func (c RebuildSnapshotCommand) Validate() error {
	return c.guard.Validate(ErrRebuildSnapshotCommandIsNotConstructed)
}
