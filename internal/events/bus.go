package events

import (
	"context"
	"sync"

	"fleetrental-backend/internal/logger"
)

// Handler receives every event published to a topic it subscribed to.
type Handler func(ctx context.Context, event any)

// Bus is a synchronous in-process publisher. Handlers run on the publishing
// goroutine; a panicking handler is recovered and logged so one bad listener
// cannot abort a billing run.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]Handler)}
}

// Subscribe registers a handler for a topic.
func (b *Bus) Subscribe(topic string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], h)
}

// Publish delivers the event to every handler subscribed to the topic.
func (b *Bus) Publish(ctx context.Context, topic string, event any) {
	b.mu.RLock()
	handlers := b.handlers[topic]
	b.mu.RUnlock()

	for _, h := range handlers {
		b.deliver(ctx, topic, h, event)
	}
}

func (b *Bus) deliver(ctx context.Context, topic string, h Handler, event any) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Event handler panicked", "topic", topic, "panic", r)
		}
	}()
	h(ctx, event)
}
