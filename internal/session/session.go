// Package session carries the authenticated identity of a request and
// notifies interested components when it changes.
package session

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Session is the resolved identity of the caller.
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Valid reports whether the session names a user.
func (s Session) Valid() bool {
	return strings.TrimSpace(s.UserID) != ""
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s Session) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext extracts the session stored by NewContext.
func FromContext(ctx context.Context) (Session, bool) {
	if ctx == nil {
		return Session{}, false
	}
	s, ok := ctx.Value(contextKey{}).(Session)
	if !ok || !s.Valid() {
		return Session{}, false
	}
	return s, true
}

// EventKind names a session change.
type EventKind string

const (
	SignedIn  EventKind = "signed_in"
	SignedOut EventKind = "signed_out"
	Deleted   EventKind = "deleted"
)

// Event is delivered to subscribers on every change.
type Event struct {
	Kind    EventKind
	Session Session
}

// Listener receives session events. Listeners run synchronously on the
// publishing goroutine and must not block.
type Listener func(Event)

// Broker fans session events out to subscribers.
type Broker struct {
	mu        sync.RWMutex
	nextID    int
	listeners map[int]Listener
}

// NewBroker constructs an empty broker.
func NewBroker() *Broker {
	return &Broker{listeners: make(map[int]Listener)}
}

// Subscribe registers fn and returns a function that removes it.
func (b *Broker) Subscribe(fn Listener) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.listeners, id)
			b.mu.Unlock()
		})
	}
}

// Publish delivers event to every current subscriber.
func (b *Broker) Publish(event Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	listeners := make([]Listener, 0, len(b.listeners))
	for _, fn := range b.listeners {
		listeners = append(listeners, fn)
	}
	b.mu.RUnlock()

	for _, fn := range listeners {
		fn(event)
	}
}

// Len returns the number of subscribers.
func (b *Broker) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}
