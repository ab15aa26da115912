package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/appetiteclub/catering/pkg"
	"github.com/appetiteclub/catering/pkg/event"
)

// WatchChanges prints every catering change event until ctx is done.
func WatchChanges(ctx context.Context, config *apt.Config, out io.Writer, logger apt.Logger) error {
	natsURL := config.GetStringOrDef("nats.url", "nats://localhost:4222")

	sub, err := pkg.NewNATSSubscriber(natsURL, logger)
	if err != nil {
		return fmt.Errorf("connect to nats: %w", err)
	}
	defer sub.Close()

	logger.Info("Watching catering changes", "url", natsURL, "topic", event.AllTopics)
	return watch(ctx, sub, out)
}

func watch(ctx context.Context, sub events.Subscriber, out io.Writer) error {
	var mu sync.Mutex
	err := sub.Subscribe(ctx, event.AllTopics, func(ctx context.Context, msg []byte) error {
		line, err := FormatChange(msg)
		if err != nil {
			return err
		}
		mu.Lock()
		defer mu.Unlock()
		_, err = fmt.Fprintln(out, line)
		return err
	})
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", event.AllTopics, err)
	}

	<-ctx.Done()
	return nil
}

// FormatChange renders a CateringEvent payload as a single line.
func FormatChange(msg []byte) (string, error) {
	var evt event.CateringEvent
	if err := json.Unmarshal(msg, &evt); err != nil {
		return "", fmt.Errorf("decode catering event: %w", err)
	}

	line := fmt.Sprintf("%s %-16s %s", evt.OccurredAt.Format("2006-01-02T15:04:05Z07:00"), evt.EventType, evt.AggregateID)
	if evt.MenuName != "" {
		line += fmt.Sprintf(" %q sections=%d items=%d", evt.MenuName, evt.SectionCount, evt.ItemCount)
	}
	return line, nil
}
