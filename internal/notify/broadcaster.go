// Package notify fans "sync status changed" events out to UI subscribers.
// Delivery is best-effort: a subscriber whose buffer is full misses the
// event and the sender never blocks.
package notify

import (
	"sync"

	"github.com/MKhiriev/go-pass-vault/models"
)

// Notifier is the sending side used by the session layer.
type Notifier interface {
	Notify(status models.SyncStatus)
}

// Broadcaster is a [Notifier] with any number of channel subscribers.
// The zero value is not usable; call [NewBroadcaster].
type Broadcaster struct {
	mu     sync.RWMutex
	subs   map[int]chan models.SyncStatus
	nextID int
	last   *models.SyncStatus
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]chan models.SyncStatus)}
}

// Subscribe registers a new subscriber with the given channel buffer and
// returns the channel plus a cancel func that unregisters and closes it.
// Cancel is idempotent.
func (b *Broadcaster) Subscribe(buffer int) (<-chan models.SyncStatus, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan models.SyncStatus, buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}

	return ch, cancel
}

// Notify records status as the latest one and offers it to every
// subscriber without blocking.
func (b *Broadcaster) Notify(status models.SyncStatus) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.last = &status
	for _, ch := range b.subs {
		select {
		case ch <- status:
		default:
		}
	}
}

// Last returns the most recent status, if any.
func (b *Broadcaster) Last() (models.SyncStatus, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.last == nil {
		return models.SyncStatus{}, false
	}
	return *b.last, true
}
