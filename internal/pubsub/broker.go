// Package pubsub provides a generic publish/subscribe broker used to fan
// out registry change notifications to interested collaborators (panels,
// serializers, command history) without coupling them to the registry.
package pubsub

import (
	"context"
	"sync"
	"time"
)

const defaultBufferSize = 32

// Kind classifies a published event.
type Kind string

const (
	KindRegistered   Kind = "registered"
	KindUnregistered Kind = "unregistered"
	KindBound        Kind = "bound"
	KindUnbound      Kind = "unbound"
	KindRekeyed      Kind = "rekeyed"
)

// Event is a published notification with a typed payload.
type Event[T any] struct {
	Kind      Kind
	Payload   T
	Timestamp time.Time
}

// Publisher publishes events with a typed payload.
type Publisher[T any] interface {
	Publish(kind Kind, payload T)
}

// Broker fans events out to subscribers. Publishing never blocks: a
// subscriber that falls behind loses events rather than stalling the
// registry operation that produced them.
type Broker[T any] struct {
	mu     sync.RWMutex
	subs   map[chan Event[T]]struct{}
	closed bool
	buffer int
}

// NewBroker creates a broker with the default per-subscriber buffer.
func NewBroker[T any]() *Broker[T] {
	return NewBrokerWithBuffer[T](defaultBufferSize)
}

// NewBrokerWithBuffer creates a broker with a custom per-subscriber buffer.
func NewBrokerWithBuffer[T any](size int) *Broker[T] {
	return &Broker[T]{
		subs:   make(map[chan Event[T]]struct{}),
		buffer: size,
	}
}

// Subscribe registers a new subscriber. The returned channel is closed
// when ctx is cancelled or the broker shuts down.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		ch := make(chan Event[T])
		close(ch)
		return ch
	}

	sub := make(chan Event[T], b.buffer)
	b.subs[sub] = struct{}{}

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.closed {
			return
		}
		delete(b.subs, sub)
		close(sub)
	}()

	return sub
}

// Publish delivers an event to every subscriber, dropping it for any
// subscriber whose buffer is full.
func (b *Broker[T]) Publish(kind Kind, payload T) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	ev := Event[T]{Kind: kind, Payload: payload, Timestamp: time.Now()}
	for sub := range b.subs {
		select {
		case sub <- ev:
		default:
		}
	}
}

// Close shuts the broker down and closes every subscriber channel.
func (b *Broker[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for sub := range b.subs {
		close(sub)
	}
	b.subs = nil
}

// SubscriberCount returns the number of active subscribers.
func (b *Broker[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
