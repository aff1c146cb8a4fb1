// Package stream fans newly admitted reports out to live subscribers.
package stream

import (
	"sync"
	"sync/atomic"

	"github.com/mr1hm/go-disaster-reports/internal/models"
)

// SubscriberBuffer is the per-subscriber queue length. Reports beyond it are
// dropped for that subscriber only.
const SubscriberBuffer = 64

type Broadcaster struct {
	subscribers map[uint64]chan *models.Report
	nextID      atomic.Uint64
	delivered   atomic.Uint64
	dropped     atomic.Uint64
	mu          sync.RWMutex
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[uint64]chan *models.Report),
	}
}

func (b *Broadcaster) Subscribe() (uint64, <-chan *models.Report) {
	id := b.nextID.Add(1)
	ch := make(chan *models.Report, SubscriberBuffer)

	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()

	return id, ch
}

// Unsubscribe closes the subscriber's channel. Unknown ids are ignored.
func (b *Broadcaster) Unsubscribe(id uint64) {
	b.mu.Lock()
	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
	}
	b.mu.Unlock()
}

func (b *Broadcaster) Broadcast(r *models.Report) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- r:
			b.delivered.Add(1)
		default:
			b.dropped.Add(1)
		}
	}
}

func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Stats returns delivered and dropped counts since creation.
func (b *Broadcaster) Stats() (delivered, dropped uint64) {
	return b.delivered.Load(), b.dropped.Load()
}

// Close closes every subscriber channel so open streams end.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, id)
	}
}
