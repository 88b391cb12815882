package events

import (
	"context"
	"log"
	"sync"
)

// Handler consumes one event. Handlers must contain their own failures;
// the bus logs nothing on their behalf beyond recovered panics.
type Handler func(ctx context.Context, ev Event)

// Bus is an in-process, buffered publish/subscribe channel. Publish never
// blocks the caller: when the buffer is full the event is dropped and
// logged, which keeps the producing transaction's latency independent of
// notification work.
type Bus struct {
	ch       chan Event
	handlers []Handler
	mu       sync.RWMutex

	startOnce sync.Once
	closeOnce sync.Once
	done      chan struct{}
}

// NewBus creates a bus with the given buffer capacity (minimum 1).
func NewBus(buffer int) *Bus {
	if buffer < 1 {
		buffer = 1
	}
	return &Bus{
		ch:   make(chan Event, buffer),
		done: make(chan struct{}),
	}
}

// Subscribe registers a handler. Subscribing after Start is allowed but the
// handler only sees events consumed from then on.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish enqueues an event without blocking. Returns false when the event
// was dropped because the buffer was full or the bus is closed.
func (b *Bus) Publish(ev Event) bool {
	select {
	case <-b.done:
		return false
	default:
	}
	select {
	case b.ch <- ev:
		return true
	default:
		log.Printf("event bus: buffer full, dropping %s", ev.EventType())
		return false
	}
}

// Start launches the consumer goroutine. Events are handed to subscribers
// sequentially; a panicking handler is recovered and logged so one bad
// handler cannot kill the loop. Start is idempotent.
func (b *Bus) Start(ctx context.Context) {
	b.startOnce.Do(func() {
		go b.run(ctx)
	})
}

func (b *Bus) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			b.Close()
			return
		case <-b.done:
			return
		case ev := <-b.ch:
			b.deliver(ctx, ev)
		}
	}
}

func (b *Bus) deliver(ctx context.Context, ev Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("event bus: handler panic on %s: %v", ev.EventType(), r)
				}
			}()
			h(ctx, ev)
		}()
	}
}

// Close stops the bus. Pending buffered events are discarded. Safe to call
// multiple times.
func (b *Bus) Close() {
	b.closeOnce.Do(func() {
		close(b.done)
	})
}
