// Package pipeline coordinates the sequential agent run: event
// distribution, state accumulation and result persistence.
package pipeline

import (
	"log"
	"sync"

	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/model"
)

// Subscriber receives pipeline events. Implementations must not block;
// slow sinks should buffer internally.
type Subscriber interface {
	Notify(event model.PipelineEvent)
}

// SubscriberFunc adapts a function to the Subscriber interface
type SubscriberFunc func(event model.PipelineEvent)

// Notify implements Subscriber
func (f SubscriberFunc) Notify(event model.PipelineEvent) { f(event) }

// EventBus fans pipeline events out to registered subscribers. A
// panicking subscriber is isolated: the panic is logged and delivery
// to the remaining subscribers continues, so observers can never take
// the pipeline down.
type EventBus struct {
	mu          sync.RWMutex
	subscribers []Subscriber
}

// NewEventBus creates an empty bus
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe registers a subscriber for all future events
func (b *EventBus) Subscribe(s Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, s)
}

// SubscribeFunc registers a plain function subscriber
func (b *EventBus) SubscribeFunc(fn func(event model.PipelineEvent)) {
	b.Subscribe(SubscriberFunc(fn))
}

// Publish delivers the event to every subscriber in registration order
func (b *EventBus) Publish(event model.PipelineEvent) {
	b.mu.RLock()
	subscribers := make([]Subscriber, len(b.subscribers))
	copy(subscribers, b.subscribers)
	b.mu.RUnlock()

	for _, s := range subscribers {
		b.deliver(s, event)
	}
}

func (b *EventBus) deliver(s Subscriber, event model.PipelineEvent) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("⚠️ event subscriber panicked on %s: %v", event.EventType, r)
		}
	}()
	s.Notify(event)
}
