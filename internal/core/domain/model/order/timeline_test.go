package order_test

import (
	"testing"
	"time"

	"canteen/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeline(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	cycleStart := day.Add(9 * time.Hour)
	cycleEnd := cycleStart.Add(45 * time.Minute)
	bufferEnd := cycleStart.Add(15 * time.Minute)
	deliveryEnd := cycleEnd.Add(20 * time.Minute)

	t.Run("should create timeline with valid thresholds", func(t *testing.T) {
		tl, err := order.NewTimeline(cycleStart, cycleEnd, bufferEnd, deliveryEnd)

		require.NoError(t, err)
		require.NoError(t, tl.Validate())
		assert.Equal(t, cycleStart, tl.CycleStart())
		assert.Equal(t, cycleEnd, tl.CycleEnd())
		assert.Equal(t, bufferEnd, tl.BufferEnd())
		assert.Equal(t, deliveryEnd, tl.DeliveryEnd())
	})

	t.Run("preparation end should equal cycle end", func(t *testing.T) {
		tl, err := order.NewTimeline(cycleStart, cycleEnd, bufferEnd, deliveryEnd)

		require.NoError(t, err)
		assert.Equal(t, tl.CycleEnd(), tl.PreparationEnd())
	})

	t.Run("should fail with zero thresholds", func(t *testing.T) {
		_, err := order.NewTimeline(time.Time{}, cycleEnd, bufferEnd, deliveryEnd)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "timeline thresholds")
	})

	t.Run("should fail when cycle end is not after cycle start", func(t *testing.T) {
		_, err := order.NewTimeline(cycleStart, cycleStart, bufferEnd, deliveryEnd)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "is not after cycle start")
	})

	t.Run("should fail when delivery end precedes cycle end", func(t *testing.T) {
		_, err := order.NewTimeline(cycleStart, cycleEnd, bufferEnd, cycleEnd.Add(-time.Minute))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "is before cycle end")
	})

	t.Run("should allow delivery end equal to cycle end", func(t *testing.T) {
		_, err := order.NewTimeline(cycleStart, cycleEnd, bufferEnd, cycleEnd)

		require.NoError(t, err)
	})
}

func TestTimeline_Validate(t *testing.T) {
	t.Run("should fail validation for zero value timeline", func(t *testing.T) {
		var tl order.Timeline

		err := tl.Validate()

		require.Error(t, err)
		assert.Equal(t, order.ErrTimelineIsNotConstructed, err)
	})
}

func TestTimeline_TotalMinutes(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	cycleStart := day.Add(9 * time.Hour)
	cycleEnd := cycleStart.Add(45 * time.Minute)
	bufferEnd := cycleStart.Add(15 * time.Minute)

	t.Run("should span cycle start to delivery end", func(t *testing.T) {
		tl, err := order.NewTimeline(cycleStart, cycleEnd, bufferEnd, cycleEnd.Add(20*time.Minute))

		require.NoError(t, err)
		assert.Equal(t, 65, tl.TotalMinutes())
	})

	t.Run("should round partial minutes up", func(t *testing.T) {
		tl, err := order.NewTimeline(cycleStart, cycleEnd, bufferEnd, cycleEnd.Add(20*time.Minute+30*time.Second))

		require.NoError(t, err)
		assert.Equal(t, 66, tl.TotalMinutes())
	})
}
