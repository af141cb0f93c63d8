package services

import (
	"strings"
	"time"

	"canteen/internal/core/domain/model/order"
)

// PlannerConfig carries the tunables of the cycle planner. The composition
// root builds one from defaults; tests pin their own values.
type PlannerConfig struct {
	// CycleLength is the width of one batch window.
	CycleLength time.Duration

	// BufferDuration is the grace period after placement before preparation
	// may begin.
	BufferDuration time.Duration

	// FloorDurations maps canonical floor names to delivery durations.
	FloorDurations map[string]time.Duration

	// DefaultFloorDuration applies to floors missing from the table.
	DefaultFloorDuration time.Duration

	// OpeningOffset and ClosingOffset bound the operational-hours window as
	// offsets from local midnight. Delivery deadlines falling outside the
	// window are pushed to the next window boundary.
	OpeningOffset time.Duration
	ClosingOffset time.Duration
}

// DefaultPlannerConfig returns the production planner settings: 45-minute
// cycles, a 5-minute buffer, the campus floor table and a 09:00–21:00
// operational window.
func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{
		CycleLength:    45 * time.Minute,
		BufferDuration: 5 * time.Minute,
		FloorDurations: map[string]time.Duration{
			"ground": 20 * time.Minute,
			"first":  25 * time.Minute,
			"second": 30 * time.Minute,
			"third":  35 * time.Minute,
		},
		DefaultFloorDuration: 30 * time.Minute,
		OpeningOffset:        9 * time.Hour,
		ClosingOffset:        21 * time.Hour,
	}
}

// floorSynonyms maps the spellings seen in requests to canonical floor
// names. Lookup happens after lowercasing, trimming and stripping a
// trailing "floor" word.
func floorSynonyms() map[string]string {
	return map[string]string{
		"g":      "ground",
		"gf":     "ground",
		"ground": "ground",
		"0":      "ground",
		"1":      "first",
		"1st":    "first",
		"one":    "first",
		"first":  "first",
		"2":      "second",
		"2nd":    "second",
		"two":    "second",
		"second": "second",
		"3":      "third",
		"3rd":    "third",
		"three":  "third",
		"third":  "third",
	}
}

// CyclePlanner computes, at order creation time, the full timeline the
// progression engine later drives the order by: the batch cycle window, the
// buffer end and the delivery deadline clamped into operational hours.
//
// CyclePlanner is a stateless domain service; one instance is shared by all
// handlers.
type CyclePlanner struct {
	config PlannerConfig
}

// NewCyclePlanner creates a planner with the given configuration.
func NewCyclePlanner(config PlannerConfig) CyclePlanner {
	return CyclePlanner{config: config}
}

// NormalizeFloor maps a requested floor name to its canonical identifier.
// Case, surrounding whitespace and a trailing "floor" word are ignored;
// known synonyms and abbreviations collapse to the canonical name.
// Unrecognized names are returned cleaned, so they still key the default
// delivery duration consistently.
func (p CyclePlanner) NormalizeFloor(name string) string {
	cleaned := strings.ToLower(strings.TrimSpace(name))
	cleaned = strings.TrimSpace(strings.TrimSuffix(cleaned, "floor"))

	if canonical, ok := floorSynonyms()[cleaned]; ok {
		return canonical
	}
	return cleaned
}

// DeliveryDuration returns the delivery duration for a canonical floor name,
// falling back to the default for unrecognized floors.
func (p CyclePlanner) DeliveryDuration(floor string) time.Duration {
	if d, ok := p.config.FloorDurations[p.NormalizeFloor(floor)]; ok {
		return d
	}
	return p.config.DefaultFloorDuration
}

// Plan computes the timeline for an order placed at now with the given
// destination floor:
//
//   - cycleStart: now truncated down to the nearest cycle boundary,
//     counted from local midnight
//   - cycleEnd: cycleStart + cycle length
//   - bufferEnd: now + buffer duration
//   - deliveryEnd: cycleEnd + per-floor delivery duration, then clamped
//     into the operational-hours window
func (p CyclePlanner) Plan(now time.Time, floor string) (order.Timeline, error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	elapsed := now.Sub(midnight)

	cycleStart := midnight.Add(elapsed - elapsed%p.config.CycleLength)
	cycleEnd := cycleStart.Add(p.config.CycleLength)
	bufferEnd := now.Add(p.config.BufferDuration)
	deliveryEnd := p.clampToOperationalHours(cycleEnd.Add(p.DeliveryDuration(floor)))

	return order.NewTimeline(cycleStart, cycleEnd, bufferEnd, deliveryEnd)
}

// clampToOperationalHours pushes a deadline falling outside the daily window
// to the next occurrence of the window start.
func (p CyclePlanner) clampToOperationalHours(deadline time.Time) time.Time {
	midnight := time.Date(deadline.Year(), deadline.Month(), deadline.Day(), 0, 0, 0, 0, deadline.Location())
	opening := midnight.Add(p.config.OpeningOffset)
	closing := midnight.Add(p.config.ClosingOffset)

	if deadline.Before(opening) {
		return opening
	}
	if deadline.After(closing) {
		return opening.AddDate(0, 0, 1)
	}
	return deadline
}
