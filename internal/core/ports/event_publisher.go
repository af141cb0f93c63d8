package ports

import "time"

// Topic names. Per-order and per-user topics are the order token and the
// owner identity; floor topics carry the "floor:" prefix.
const (
	TopicAdmin    = "admin"
	TopicFeedback = "feedback"
)

// FloorTopic returns the attendant-group topic for a canonical floor name.
func FloorTopic(floor string) string {
	return "floor:" + floor
}

// Event is a state-change notification fanned out to topic subscribers.
// Events are ephemeral: they are delivered at most once to currently
// connected subscribers and never persisted or replayed.
type Event struct {
	// Name identifies the event kind, e.g. "order_update".
	Name string `json:"event"`

	// Payload carries at minimum status, orderId and context-specific
	// fields such as refundAmount or floor.
	Payload map[string]any `json:"payload"`

	// Timestamp is when the event was emitted.
	Timestamp time.Time `json:"timestamp"`
}

// EventPublisher is the outbound fanout contract. Publish is
// fire-and-forget: a slow or absent subscriber never blocks the caller and
// simply misses the event.
//
// The publisher is constructed once at process start and injected into
// every component that publishes; there is no ambient global instance.
type EventPublisher interface {
	Publish(topic string, event Event)
}
