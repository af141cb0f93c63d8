package commands

import (
	"errors"
	"time"

	"canteen/internal/pkg/errs"
	"canteen/internal/pkg/guard"
)

var (
	ErrProgressOrdersCommandIsNotConstructed = errors.New(
		"ProgressOrdersCommand must be created via NewProgressOrdersCommand constructor",
	)
)

// ProgressOrdersCommand represents one tick of the status progression
// engine, evaluated against the tick time it carries.
type ProgressOrdersCommand struct { //nolint:recvcheck //using for validation
	now time.Time

	guard guard.ConstructorGuard
}

// NewProgressOrdersCommand creates a command for one progression tick at the
// given time.
func NewProgressOrdersCommand(now time.Time) (ProgressOrdersCommand, error) {
	cmd := ProgressOrdersCommand{
		guard: guard.NewConstructorGuard(),
	}

	if now.IsZero() {
		return ProgressOrdersCommand{}, errs.NewValueIsRequiredError("tick time")
	}
	cmd.now = now

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ProgressOrdersCommand) Validate() error {
	return c.guard.Validate(ErrProgressOrdersCommandIsNotConstructed)
}

// Now returns the tick time the rules are evaluated against.
func (c ProgressOrdersCommand) Now() time.Time {
	return c.now
}
