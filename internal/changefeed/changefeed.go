// Package changefeed carries record-change notifications from the log store
// to in-memory consumers within one process.
package changefeed

import "sync"

// Change identifies what part of the stored data moved: a single date key, or
// a bulk marker meaning "assume everything changed".
type Change struct {
	Date string
	Bulk bool
}

func DateChanged(date string) Change {
	return Change{Date: date}
}

func BulkChanged() Change {
	return Change{Bulk: true}
}

// Bus is an in-process broadcast channel for Change events. Publish never
// blocks: a subscriber that is not keeping up loses intermediate events, which
// is safe because consumers reload the full snapshot on any event.
type Bus struct {
	mu          sync.Mutex
	nextID      int
	subscribers map[int]chan Change
}

func NewBus() *Bus {
	return &Bus{subscribers: make(map[int]chan Change)}
}

// Subscribe registers a new listener and returns its id together with the
// event channel. The channel is buffered; it is closed by Unsubscribe.
func (bus *Bus) Subscribe() (int, <-chan Change) {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	id := bus.nextID
	bus.nextID++

	channel := make(chan Change, 16)
	bus.subscribers[id] = channel
	return id, channel
}

func (bus *Bus) Unsubscribe(id int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	if channel, exists := bus.subscribers[id]; exists {
		delete(bus.subscribers, id)
		close(channel)
	}
}

func (bus *Bus) Publish(change Change) {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	for _, channel := range bus.subscribers {
		select {
		case channel <- change:
		default:
		}
	}
}

// SubscriberCount reports how many listeners are registered.
func (bus *Bus) SubscriberCount() int {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	return len(bus.subscribers)
}
