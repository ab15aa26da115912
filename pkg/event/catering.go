package event

import "time"

const (
	// MenusTopic carries menu lifecycle changes.
	MenusTopic = "catering.menus"
	// RecipesTopic carries recipe lifecycle changes.
	RecipesTopic = "catering.recipes"
	// EventsTopic carries catering event lifecycle changes.
	EventsTopic = "catering.events"
	// ClientsTopic carries client lifecycle changes.
	ClientsTopic = "catering.clients"
	// AllTopics matches every catering topic.
	AllTopics = "catering.>"

	KindCreated = "created"
	KindUpdated = "updated"
	KindDeleted = "deleted"
)

// CateringEvent is the wire representation of a registry change.
// EventType is "<aggregate>.<kind>", e.g. "menu.updated".
type CateringEvent struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	OccurredAt  time.Time `json:"occurred_at"`
	Aggregate   string    `json:"aggregate"`
	AggregateID string    `json:"aggregate_id"`
	Kind        string    `json:"kind"`

	// Denormalized menu data for consumers that do not query the registry
	MenuName     string `json:"menu_name,omitempty"`
	SectionCount int    `json:"section_count,omitempty"`
	ItemCount    int    `json:"item_count,omitempty"`
}

// TopicFor returns the topic a change on the given aggregate is published to.
func TopicFor(aggregate string) string {
	switch aggregate {
	case "menu":
		return MenusTopic
	case "recipe":
		return RecipesTopic
	case "event":
		return EventsTopic
	case "client":
		return ClientsTopic
	default:
		return "catering." + aggregate + "s"
	}
}
