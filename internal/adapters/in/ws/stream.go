// Package ws streams lifecycle events to clients over WebSocket. A client
// subscribes to topics with JSON control frames and receives every event
// published to those topics while it stays connected. There is no replay:
// a client that reconnects resynchronizes through the REST API.
package ws

import (
	"net/http"
	"sync"

	"canteen/internal/adapters/out/fanout"
	"canteen/internal/core/ports"

	"golang.org/x/net/websocket"
)

// outBuffer is how many events a connection may fall behind before further
// events for it are dropped.
const outBuffer = 64

// controlFrame is a client's subscribe or unsubscribe request.
type controlFrame struct {
	Action string `json:"action"`
	Topic  string `json:"topic"`
}

// Stream serves WebSocket connections backed by the fanout service.
type Stream struct {
	fanout *fanout.Service
}

// NewStream creates a WebSocket stream over the given fanout service.
func NewStream(f *fanout.Service) *Stream {
	return &Stream{fanout: f}
}

// Handler returns the http.Handler that upgrades connections and serves the
// subscription protocol.
func (s *Stream) Handler() http.Handler {
	return websocket.Handler(s.serve)
}

func (s *Stream) serve(conn *websocket.Conn) {
	defer conn.Close()

	var (
		wg   sync.WaitGroup
		out  = make(chan ports.Event, outBuffer)
		subs = make(map[string]*fanout.Subscription)
	)

	// Writer goroutine: the only one touching the connection for sends.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range out {
			if err := websocket.JSON.Send(conn, event); err != nil {
				return
			}
		}
	}()

	// Control loop: subscribe and unsubscribe on client frames until the
	// connection drops.
	for {
		var frame controlFrame
		if err := websocket.JSON.Receive(conn, &frame); err != nil {
			break
		}

		switch frame.Action {
		case "subscribe":
			if frame.Topic == "" {
				continue
			}
			if _, ok := subs[frame.Topic]; ok {
				continue
			}

			sub := s.fanout.Subscribe(frame.Topic)
			if sub == nil {
				continue
			}
			subs[frame.Topic] = sub

			wg.Add(1)
			go func() {
				defer wg.Done()
				for event := range sub.C() {
					select {
					case out <- event:
					default:
					}
				}
			}()

		case "unsubscribe":
			if sub, ok := subs[frame.Topic]; ok {
				delete(subs, frame.Topic)
				s.fanout.Unsubscribe(sub)
			}
		}
	}

	for _, sub := range subs {
		s.fanout.Unsubscribe(sub)
	}
	wg.Wait()
	close(out)
	<-done
}
