package order

import (
	"errors"
	"fmt"
	"time"

	"canteen/internal/pkg/errs"
	"canteen/internal/pkg/guard"
)

// ErrTimelineIsNotConstructed is returned when a Timeline was not created
// through the NewTimeline factory function.
var ErrTimelineIsNotConstructed = errors.New("Timeline must be created via NewTimeline constructor")

// Timeline fixes, at creation time, every deadline the order's lifecycle is
// driven by. The progression engine compares the clock against these
// thresholds; it never recomputes them.
//
// Invariants:
//   - CycleEnd is after CycleStart
//   - PreparationEnd equals CycleEnd (preparation runs until the batch cycle closes)
//   - DeliveryEnd is not before PreparationEnd
type Timeline struct {
	cycleStart     time.Time
	cycleEnd       time.Time
	bufferEnd      time.Time
	preparationEnd time.Time
	deliveryEnd    time.Time

	guard guard.ConstructorGuard
}

// NewTimeline creates a validated Timeline. The cycle planner is the only
// production caller; tests construct timelines directly to pin scenarios.
func NewTimeline(cycleStart, cycleEnd, bufferEnd, deliveryEnd time.Time) (Timeline, error) {
	if cycleStart.IsZero() || cycleEnd.IsZero() || bufferEnd.IsZero() || deliveryEnd.IsZero() {
		return Timeline{}, errs.NewValueIsRequiredError("timeline thresholds")
	}

	if !cycleEnd.After(cycleStart) {
		return Timeline{}, errs.NewValueIsInvalidErrorWithCause("timeline",
			fmt.Errorf("cycle end %s is not after cycle start %s", cycleEnd, cycleStart))
	}

	if deliveryEnd.Before(cycleEnd) {
		return Timeline{}, errs.NewValueIsInvalidErrorWithCause("timeline",
			fmt.Errorf("delivery end %s is before cycle end %s", deliveryEnd, cycleEnd))
	}

	return Timeline{
		cycleStart:     cycleStart,
		cycleEnd:       cycleEnd,
		bufferEnd:      bufferEnd,
		preparationEnd: cycleEnd,
		deliveryEnd:    deliveryEnd,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the Timeline was created through NewTimeline.
func (t Timeline) Validate() error {
	return t.guard.Validate(ErrTimelineIsNotConstructed)
}

// CycleStart returns the start of the 45-minute batch cycle the order was
// assigned to.
func (t Timeline) CycleStart() time.Time {
	return t.cycleStart
}

// CycleEnd returns the end of the batch cycle.
func (t Timeline) CycleEnd() time.Time {
	return t.cycleEnd
}

// BufferEnd returns the earliest moment the order may leave Pending.
func (t Timeline) BufferEnd() time.Time {
	return t.bufferEnd
}

// PreparationEnd returns the moment preparation must finish; equal to CycleEnd.
func (t Timeline) PreparationEnd() time.Time {
	return t.preparationEnd
}

// DeliveryEnd returns the delivery deadline, already clamped into the
// operational-hours window by the planner.
func (t Timeline) DeliveryEnd() time.Time {
	return t.deliveryEnd
}

// TotalMinutes returns the client-facing estimate in whole minutes from
// cycle start to delivery, rounded up.
func (t Timeline) TotalMinutes() int {
	d := t.deliveryEnd.Sub(t.cycleStart)
	return int((d + time.Minute - 1) / time.Minute)
}
