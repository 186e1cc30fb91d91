package cache

import "sync"

// Event is delivered to subscribers of an entry.
type Event int

const (
	// EventInvalidated means the entry was marked stale; query it to refetch.
	EventInvalidated Event = iota + 1
	// EventUpdated means a fetch for the entry completed (successfully or not).
	EventUpdated
)

func (e Event) String() string {
	switch e {
	case EventInvalidated:
		return "invalidated"
	case EventUpdated:
		return "updated"
	default:
		return "unknown"
	}
}

// Subscription observes a single cache entry. Events are coalesced: a slow
// reader sees at least one pending event, not every one.
type Subscription struct {
	c    *Cache
	key  Key
	ch   chan Event
	once sync.Once
}

// Subscribe registers interest in key. The entry is created if needed so that
// subscribing before the first query still pins it against Prune.
func (c *Cache) Subscribe(key Key) *Subscription {
	sub := &Subscription{c: c, key: key, ch: make(chan Event, 1)}

	c.mu.Lock()
	e := c.entryLocked(key)
	e.subscribers[sub] = struct{}{}
	c.mu.Unlock()

	return sub
}

// Key returns the subscribed key.
func (s *Subscription) Key() Key { return s.key }

// Events returns the notification channel. It is closed by Close.
func (s *Subscription) Events() <-chan Event { return s.ch }

// Close unregisters the subscription. The entry's unused timer starts from now.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.c.mu.Lock()
		if e, ok := s.c.entries[s.key.String()]; ok {
			delete(e.subscribers, s)
			e.lastUsed = s.c.now()
		}
		close(s.ch)
		s.c.mu.Unlock()
	})
}

// deliver is called with the cache lock held, which also serializes it
// against Close.
// A pending invalidation is never replaced by an update.
func (s *Subscription) deliver(ev Event) {
	for {
		select {
		case s.ch <- ev:
			return
		default:
		}
		select {
		case pending := <-s.ch:
			if pending == EventInvalidated {
				ev = EventInvalidated
			}
		default:
		}
	}
}
