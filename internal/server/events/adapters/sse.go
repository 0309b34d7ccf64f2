package adapters

import (
	"strconv"

	"github.com/oskars/refinerywatch/internal/server/events"
	"github.com/oskars/refinerywatch/internal/server/sse"
)

// SSEBroadcaster is the part of sse.Broadcaster the adapter needs.
type SSEBroadcaster interface {
	Broadcast(sse.Event)
}

// SSESubscriber adapts an SSE broadcaster to events.Subscriber. The event
// sequence number becomes the SSE id.
type SSESubscriber struct {
	broadcaster SSEBroadcaster
}

var _ events.Subscriber = (*SSESubscriber)(nil)

// NewSSESubscriber creates a new SSE subscriber.
func NewSSESubscriber(broadcaster SSEBroadcaster) *SSESubscriber {
	return &SSESubscriber{broadcaster: broadcaster}
}

// Send delivers an event to all SSE clients.
func (s *SSESubscriber) Send(event events.Event) error {
	s.broadcaster.Broadcast(sse.Event{
		Event: string(event.Type),
		ID:    strconv.FormatUint(event.Seq, 10),
		Data:  event,
	})
	return nil
}

// Close is a no-op; the broadcaster manages its own lifecycle.
func (s *SSESubscriber) Close() error {
	return nil
}
