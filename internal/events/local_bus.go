package events

import (
	"context"
	"fmt"
	"sync"
)

type localBus struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[uint64]func(ev ChecklistEvent)
}

// NewLocalBus delivers events to forwarders in the same process.
func NewLocalBus() Bus {
	return &localBus{handlers: make(map[uint64]func(ev ChecklistEvent))}
}

func (b *localBus) Publish(ctx context.Context, ev ChecklistEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.RLock()
	handlers := make([]func(ev ChecklistEvent), 0, len(b.handlers))
	for _, h := range b.handlers {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ev)
	}
	return nil
}

// StartForwarder registers onEvent until ctx is canceled or the bus is closed.
func (b *localBus) StartForwarder(ctx context.Context, onEvent func(ev ChecklistEvent)) error {
	if onEvent == nil {
		return fmt.Errorf("onEvent callback required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = onEvent
	b.mu.Unlock()

	if done := ctx.Done(); done != nil {
		go func() {
			<-done
			b.remove(id)
		}()
	}
	return nil
}

func (b *localBus) remove(id uint64) {
	b.mu.Lock()
	delete(b.handlers, id)
	b.mu.Unlock()
}

func (b *localBus) forwarders() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}

func (b *localBus) Close() error {
	b.mu.Lock()
	b.handlers = make(map[uint64]func(ev ChecklistEvent))
	b.mu.Unlock()
	return nil
}
