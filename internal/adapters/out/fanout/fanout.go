// Package fanout implements the in-process event fanout behind the
// EventPublisher port. Subscribers register per topic and receive events on
// a buffered channel; delivery is at most once, to subscribers connected at
// publish time, with no persistence or replay.
package fanout

import (
	"sync"

	"canteen/internal/core/ports"
)

// subscriptionBuffer is how many undelivered events a subscription holds
// before further events for it are dropped.
const subscriptionBuffer = 16

// Subscription is one subscriber's attachment to a topic. Events arrive on
// C until Unsubscribe or Close.
type Subscription struct {
	topic string
	ch    chan ports.Event
}

// C returns the channel the subscription's events arrive on. The channel is
// closed when the subscription is cancelled or the service shuts down.
func (s *Subscription) C() <-chan ports.Event {
	return s.ch
}

// Topic returns the topic the subscription is attached to.
func (s *Subscription) Topic() string {
	return s.topic
}

// Service fans published events out to topic subscribers. It implements
// ports.EventPublisher. Safe for concurrent use.
type Service struct {
	mu     sync.Mutex
	topics map[string]map[*Subscription]struct{}
	closed bool
}

// NewService creates an empty fanout service.
func NewService() *Service {
	return &Service{
		topics: make(map[string]map[*Subscription]struct{}),
	}
}

// Subscribe attaches a new subscription to the topic. Returns nil after
// Close.
func (s *Service) Subscribe(topic string) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	sub := &Subscription{
		topic: topic,
		ch:    make(chan ports.Event, subscriptionBuffer),
	}

	subs, ok := s.topics[topic]
	if !ok {
		subs = make(map[*Subscription]struct{})
		s.topics[topic] = subs
	}
	subs[sub] = struct{}{}

	return sub
}

// Unsubscribe detaches the subscription and closes its channel.
// Unsubscribing twice is a no-op.
func (s *Service) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	subs, ok := s.topics[sub.topic]
	if !ok {
		return
	}
	if _, ok = subs[sub]; !ok {
		return
	}

	delete(subs, sub)
	if len(subs) == 0 {
		delete(s.topics, sub.topic)
	}

	close(sub.ch)
}

// Publish delivers the event to every current subscriber of the topic.
// Fire-and-forget: a subscriber whose buffer is full misses the event
// rather than blocking the publisher.
func (s *Service) Publish(topic string, event ports.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	for sub := range s.topics[topic] {
		select {
		case sub.ch <- event:
		default:
		}
	}
}

// Close cancels every subscription and rejects further publishes and
// subscribes. Used at shutdown.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true

	for topic, subs := range s.topics {
		for sub := range subs {
			close(sub.ch)
		}
		delete(s.topics, topic)
	}
}
