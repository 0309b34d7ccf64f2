package events

// Subscriber consumes the event stream. Send must not block.
type Subscriber interface {
	Send(Event) error
	Close() error
}

// SubscriberFunc adapts a function to Subscriber.
type SubscriberFunc func(Event) error

// Send implements Subscriber.
func (f SubscriberFunc) Send(e Event) error { return f(e) }

// Close implements Subscriber.
func (f SubscriberFunc) Close() error { return nil }
