package store

import "sync"

// Collection names used by change events.
const (
	CollectionItems      = "menu_items"
	CollectionCategories = "menu_categories"
	CollectionUsers      = "users"
	CollectionOrders     = "orders"
	CollectionSettings   = "settings"
)

// EventOp is the kind of change a subscription observes.
type EventOp string

const (
	OpCreated EventOp = "created"
	OpUpdated EventOp = "updated"
	OpDeleted EventOp = "deleted"
)

// Event describes one committed write.
type Event struct {
	Collection string
	Op         EventOp
	ID         string
	// Owner is the tenant key of the affected document, when it has one.
	Owner string
}

// Handler receives change events. Handlers must not block; slow consumers
// should hand off to their own channel.
type Handler func(Event)

// Subscription is a registered change listener. Cancel is idempotent and
// must be called when the consumer goes away.
type Subscription struct {
	id   int
	hub  *Hub
	once sync.Once
}

// Cancel removes the listener from the hub.
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s.id)
		s.hub.mu.Unlock()
	})
}

type subscriber struct {
	collection string
	owner      string
	fn         Handler
}

// Hub fans committed writes out to registered listeners. Every subscribe
// path returns a Subscription whose Cancel is the matched unsubscribe.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]subscriber
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[int]subscriber)}
}

// Register adds a listener for a collection. An empty owner matches every
// document; otherwise only events for that tenant key are delivered.
func (h *Hub) Register(collection, owner string, fn Handler) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	h.subs[h.nextID] = subscriber{collection: collection, owner: owner, fn: fn}
	return &Subscription{id: h.nextID, hub: h}
}

// Publish delivers the event to every matching listener.
func (h *Hub) Publish(ev Event) {
	h.mu.Lock()
	matched := make([]Handler, 0, len(h.subs))
	for _, s := range h.subs {
		if s.collection != ev.Collection {
			continue
		}
		if s.owner != "" && s.owner != ev.Owner {
			continue
		}
		matched = append(matched, s.fn)
	}
	h.mu.Unlock()

	for _, fn := range matched {
		fn(ev)
	}
}

// Len reports the number of active subscriptions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
