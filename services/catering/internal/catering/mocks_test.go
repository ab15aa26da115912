package catering

import (
	"context"
	"errors"
	"sync"

	"github.com/appetiteclub/apt/events"
)

// MockPublisher is a test mock for events.Publisher
type MockPublisher struct {
	mu              sync.Mutex
	PublishedEvents []PublishedEvent
	PublishFunc     func(ctx context.Context, topic string, data []byte) error
}

type PublishedEvent struct {
	Topic string
	Data  []byte
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		PublishedEvents: make([]PublishedEvent, 0),
	}
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, data []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublishedEvents = append(m.PublishedEvents, PublishedEvent{Topic: topic, Data: data})
	return nil
}

// MockSubscriber is a test mock for events.Subscriber
type MockSubscriber struct {
	Handlers      map[string]events.HandlerFunc
	SubscribeFunc func(ctx context.Context, topic string, handler events.HandlerFunc) error
	Closed        bool
}

func NewMockSubscriber() *MockSubscriber {
	return &MockSubscriber{
		Handlers: make(map[string]events.HandlerFunc),
	}
}

func (m *MockSubscriber) Subscribe(ctx context.Context, topic string, handler events.HandlerFunc) error {
	if m.SubscribeFunc != nil {
		return m.SubscribeFunc(ctx, topic, handler)
	}
	m.Handlers[topic] = handler
	return nil
}

func (m *MockSubscriber) Close() error {
	m.Closed = true
	return nil
}

// recordingSubscriber keeps every change it receives.
type recordingSubscriber struct {
	mu      sync.Mutex
	changes []Change
}

func (s *recordingSubscriber) OnChange(ctx context.Context, change Change) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changes = append(s.changes, change)
	return nil
}

func (s *recordingSubscriber) all() []Change {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Change, len(s.changes))
	copy(out, s.changes)
	return out
}

func (s *recordingSubscriber) count(aggregate Aggregate, kind ChangeKind) int {
	n := 0
	for _, c := range s.all() {
		if c.Aggregate == aggregate && c.Kind == kind {
			n++
		}
	}
	return n
}

// funcSubscriber adapts a function to Subscriber.
type funcSubscriber struct {
	fn func(ctx context.Context, change Change) error
}

func (s *funcSubscriber) OnChange(ctx context.Context, change Change) error {
	return s.fn(ctx, change)
}

// sliceSubscriber has an uncomparable dynamic type.
type sliceSubscriber []int

func (sliceSubscriber) OnChange(ctx context.Context, change Change) error {
	return nil
}

var errSubscriberFailed = errors.New("subscriber failed")
