// Package signal provides a minimal change-notification bus. Components that
// depend on mutable state subscribe once and recompute whenever a
// notification arrives; publishers never know who is listening.
package signal

import (
	"sync"
	"sync/atomic"
)

const subscriberBufSize = 16

// Bus fans out change notifications to all subscribers.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[int64]chan struct{}
	nextID      atomic.Int64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[int64]chan struct{}),
	}
}

// Subscribe registers a listener. Returns the subscriber ID and the channel
// notifications arrive on. The channel is buffered; a subscriber that is not
// draining has further notifications coalesced rather than blocking the
// publisher.
func (b *Bus) Subscribe() (int64, <-chan struct{}) {
	id := b.nextID.Add(1)
	ch := make(chan struct{}, subscriberBufSize)
	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Bus) Unsubscribe(id int64) {
	b.mu.Lock()
	ch, ok := b.subscribers[id]
	if ok {
		delete(b.subscribers, id)
		close(ch)
	}
	b.mu.Unlock()
}

// Publish notifies all subscribers. Non-blocking.
func (b *Bus) Publish() {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// SubscriberCount returns the number of active subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
