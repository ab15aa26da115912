package catering

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/appetiteclub/catering/pkg/event"
	"github.com/google/uuid"
)

// LogSubscriber writes every change to the service log.
type LogSubscriber struct {
	logger apt.Logger
}

func NewLogSubscriber(logger apt.Logger) *LogSubscriber {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &LogSubscriber{logger: logger}
}

func (s *LogSubscriber) OnChange(ctx context.Context, change Change) error {
	if change.Menu != nil {
		s.logger.Info("catering change",
			"aggregate", change.Aggregate,
			"kind", change.Kind,
			"id", change.ID,
			"sections", len(change.Menu.Sections),
			"items", change.Menu.ItemCount())
		return nil
	}
	s.logger.Info("catering change", "aggregate", change.Aggregate, "kind", change.Kind, "id", change.ID)
	return nil
}

// Broadcaster publishes changes to the message bus so other services can
// follow the registry without querying it.
type Broadcaster struct {
	publisher events.Publisher
	logger    apt.Logger
}

func NewBroadcaster(publisher events.Publisher, logger apt.Logger) *Broadcaster {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Broadcaster{
		publisher: publisher,
		logger:    logger,
	}
}

func (b *Broadcaster) OnChange(ctx context.Context, change Change) error {
	if b.publisher == nil {
		return nil
	}

	payload := ToCateringEvent(change)
	msg, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("cannot encode %s event: %w", payload.EventType, err)
	}

	topic := event.TopicFor(payload.Aggregate)
	if err := b.publisher.Publish(ctx, topic, msg); err != nil {
		b.logger.Errorf("Failed to publish %s event: %v", payload.EventType, err)
		return fmt.Errorf("publish %s: %w", payload.EventType, err)
	}
	return nil
}

// ToCateringEvent converts a change to its wire form.
func ToCateringEvent(change Change) event.CateringEvent {
	kind := wireKind(change.Kind)
	evt := event.CateringEvent{
		EventID:     uuid.NewString(),
		EventType:   fmt.Sprintf("%s.%s", change.Aggregate, kind),
		OccurredAt:  change.OccurredAt.UTC(),
		Aggregate:   string(change.Aggregate),
		AggregateID: change.ID,
		Kind:        kind,
	}
	if change.Menu != nil {
		evt.MenuName = change.Menu.Name
		evt.SectionCount = len(change.Menu.Sections)
		evt.ItemCount = change.Menu.ItemCount()
	}
	return evt
}

func wireKind(k ChangeKind) string {
	switch k {
	case ChangeCreated:
		return event.KindCreated
	case ChangeUpdated:
		return event.KindUpdated
	case ChangeDeleted:
		return event.KindDeleted
	default:
		return string(k)
	}
}
