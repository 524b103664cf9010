// Package eventbus is a synchronous publish/subscribe bus keyed by event type.
// Handlers run on the emitting goroutine, in the order they subscribed.
package eventbus

import "reflect"

// Bus holds the current set of handlers for each event type.
// It is not safe for concurrent use.
type Bus struct {
	handlers map[reflect.Type][]any
}

// New returns an empty Bus.
func New() *Bus {
	return &Bus{
		handlers: make(map[reflect.Type][]any),
	}
}

// Subscribe registers handler for events of type E. Listener state travels
// with the closure or method value.
func Subscribe[E any](b *Bus, handler func(*E)) {
	t := reflect.TypeFor[E]()
	b.handlers[t] = append(b.handlers[t], handler)
}

// Emit delivers a single instance of event to every handler subscribed to E.
// All handlers observe the same pointer, so a handler may annotate the event
// for the ones after it. Emitting with no subscribers is a no-op.
func Emit[E any](b *Bus, event E) {
	hs, ok := b.handlers[reflect.TypeFor[E]()]
	if !ok {
		return
	}
	ev := &event
	for _, h := range hs {
		h.(func(*E))(ev)
	}
}

// Reset drops every subscription.
func (b *Bus) Reset() {
	clear(b.handlers)
}

// SubscriberCount returns the number of handlers subscribed to E.
func SubscriberCount[E any](b *Bus) int {
	return len(b.handlers[reflect.TypeFor[E]()])
}

// Len returns the total number of subscriptions across all event types.
func (b *Bus) Len() int {
	n := 0
	for _, hs := range b.handlers {
		n += len(hs)
	}
	return n
}
