// Package adapters connects the event broker to the realtime transports.
package adapters

import (
	"github.com/oskars/refinerywatch/internal/server/events"
	ws "github.com/oskars/refinerywatch/internal/server/websocket"
)

// WebSocketHub is the part of websocket.Hub the adapter needs.
type WebSocketHub interface {
	Broadcast(ws.Message)
}

// WebSocketSubscriber adapts a WebSocket hub to events.Subscriber.
type WebSocketSubscriber struct {
	hub WebSocketHub
}

var _ events.Subscriber = (*WebSocketSubscriber)(nil)

// NewWebSocketSubscriber creates a new WebSocket subscriber.
func NewWebSocketSubscriber(hub WebSocketHub) *WebSocketSubscriber {
	return &WebSocketSubscriber{hub: hub}
}

// Send delivers an event to all WebSocket clients.
func (w *WebSocketSubscriber) Send(event events.Event) error {
	w.hub.Broadcast(ws.Message{
		Seq:       event.Seq,
		Type:      string(event.Type),
		Timestamp: event.Timestamp,
		Data:      event.Data,
	})
	return nil
}

// Close is a no-op; the hub manages its own lifecycle.
func (w *WebSocketSubscriber) Close() error {
	return nil
}
