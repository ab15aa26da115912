package catering

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/appetiteclub/catering/pkg/event"
)

const DefaultChangeFeedCapacity = 100

// ChangeFeed keeps the most recent changes in memory.
// It is fed either directly as a notifier subscriber or, when built with an
// events.Subscriber, from the catering topics on the bus.
type ChangeFeed struct {
	mu       sync.RWMutex
	entries  []event.CateringEvent
	capacity int

	subscriber events.Subscriber
	logger     apt.Logger
}

// NewChangeFeed creates a feed holding up to capacity entries. subscriber may
// be nil for a local-only feed.
func NewChangeFeed(capacity int, subscriber events.Subscriber, logger apt.Logger) *ChangeFeed {
	if capacity <= 0 {
		capacity = DefaultChangeFeedCapacity
	}
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &ChangeFeed{
		entries:    make([]event.CateringEvent, 0, capacity),
		capacity:   capacity,
		subscriber: subscriber,
		logger:     logger,
	}
}

// Start subscribes to the bus when the feed has a subscriber.
func (f *ChangeFeed) Start(ctx context.Context) error {
	if f.subscriber == nil {
		return nil
	}

	f.logger.Info("Starting ChangeFeed for topic: " + event.AllTopics)
	if err := f.subscriber.Subscribe(ctx, event.AllTopics, f.handleEvent); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", event.AllTopics, err)
	}
	return nil
}

// Stop closes the subscriber if it can be closed.
func (f *ChangeFeed) Stop(ctx context.Context) error {
	if closer, ok := f.subscriber.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

// OnChange records a local change.
func (f *ChangeFeed) OnChange(ctx context.Context, change Change) error {
	f.record(ToCateringEvent(change))
	return nil
}

func (f *ChangeFeed) handleEvent(ctx context.Context, msg []byte) error {
	var evt event.CateringEvent
	if err := json.Unmarshal(msg, &evt); err != nil {
		f.logger.Errorf("Failed to unmarshal catering event: %v", err)
		return nil
	}
	f.record(evt)
	return nil
}

func (f *ChangeFeed) record(evt event.CateringEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.entries) == f.capacity {
		copy(f.entries, f.entries[1:])
		f.entries = f.entries[:len(f.entries)-1]
	}
	f.entries = append(f.entries, evt)
}

// Recent returns up to limit entries, newest first. limit <= 0 returns all.
func (f *ChangeFeed) Recent(limit int) []event.CateringEvent {
	f.mu.RLock()
	defer f.mu.RUnlock()

	n := len(f.entries)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]event.CateringEvent, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, f.entries[i])
	}
	return out
}

// Len returns the number of retained entries.
func (f *ChangeFeed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.entries)
}
