package catering

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"
)

// ChangeKind is the type of mutation a Change reports.
type ChangeKind string

const (
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
	ChangeDeleted ChangeKind = "deleted"
)

// Aggregate names the registry collection a Change belongs to.
type Aggregate string

const (
	AggregateMenu   Aggregate = "menu"
	AggregateRecipe Aggregate = "recipe"
	AggregateEvent  Aggregate = "event"
	AggregateClient Aggregate = "client"
)

// Change describes a single registry mutation. Menu is a snapshot of the
// affected menu and is only set for menu changes.
type Change struct {
	Kind       ChangeKind `json:"kind"`
	Aggregate  Aggregate  `json:"aggregate"`
	ID         string     `json:"id"`
	Menu       *Menu      `json:"menu,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// Subscriber reacts to registry changes.
type Subscriber interface {
	OnChange(ctx context.Context, change Change) error
}

// Notifier fans changes out to subscribers in registration order.
type Notifier struct {
	mu          sync.RWMutex
	subscribers []Subscriber
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

// Subscribe registers s. Subscribing the same subscriber twice keeps a single
// registration and returns false.
func (n *Notifier) Subscribe(s Subscriber) bool {
	if s == nil {
		return false
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.indexOfLocked(s) >= 0 {
		return false
	}
	n.subscribers = append(n.subscribers, s)
	return true
}

// Unsubscribe removes s and reports whether it was registered.
func (n *Notifier) Unsubscribe(s Subscriber) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	i := n.indexOfLocked(s)
	if i < 0 {
		return false
	}
	n.subscribers = append(n.subscribers[:i], n.subscribers[i+1:]...)
	return true
}

// Len returns the number of registered subscribers.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.subscribers)
}

// Notify delivers change to every subscriber on the calling goroutine.
// A failing or panicking subscriber does not prevent delivery to the rest;
// all failures are joined into the returned error. Each subscriber gets its
// own copy of the menu snapshot.
func (n *Notifier) Notify(ctx context.Context, change Change) error {
	n.mu.RLock()
	subs := make([]Subscriber, len(n.subscribers))
	copy(subs, n.subscribers)
	n.mu.RUnlock()

	if change.OccurredAt.IsZero() {
		change.OccurredAt = time.Now().UTC()
	}

	var errs []error
	for _, s := range subs {
		c := change
		c.Menu = change.Menu.Clone()
		if err := deliver(ctx, s, c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func deliver(ctx context.Context, s Subscriber, change Change) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("subscriber %T panicked: %v", s, r)
		}
	}()

	if err := s.OnChange(ctx, change); err != nil {
		return fmt.Errorf("subscriber %T: %w", s, err)
	}
	return nil
}

// indexOfLocked compares by identity. Subscribers whose dynamic type is not
// comparable never match, so each registration of them is kept.
func (n *Notifier) indexOfLocked(s Subscriber) int {
	if s == nil || !reflect.TypeOf(s).Comparable() {
		return -1
	}
	for i, existing := range n.subscribers {
		if reflect.TypeOf(existing) != reflect.TypeOf(s) {
			continue
		}
		if existing == s {
			return i
		}
	}
	return -1
}
