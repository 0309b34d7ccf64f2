// Package events fans refinery changes out to realtime transports.
//
// The server bridges refinerywatch client hooks into a Broker, which hands
// every event to its subscribers (the WebSocket hub and the SSE
// broadcaster) in publish order.
package events

import "time"

// EventType names a refinery event.
type EventType string

// Event types.
const (
	// Published data events (from publish hooks).
	RefineryAdded   EventType = "refinery.added"
	RefineryUpdated EventType = "refinery.updated"

	// Workflow events.
	StagingChanged   EventType = "staging.changed"
	PublishCompleted EventType = "publish.completed"
	IntelCompleted   EventType = "intel.completed"
	DataReset        EventType = "data.reset"

	// Client events (from transport layers).
	ClientConnected EventType = "client.connected"
)

// Event is one broadcast. Seq increases by one per published event so
// clients can detect gaps.
type Event struct {
	Seq       uint64    `json:"seq"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}
