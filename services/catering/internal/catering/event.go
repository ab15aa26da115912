package catering

import (
	"slices"
	"time"
)

// Event is a catering job: where and when menus get served.
type Event struct {
	ID        string    `json:"id"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Location  string    `json:"location"`
	Type      string    `json:"type"` // eventtype code
	Notes     string    `json:"notes,omitempty"`
	ClientID  string    `json:"client_id,omitempty"` // non-owning
	Services  []Service `json:"services,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Service is an extra booked with an event (staff, rentals, decoration...).
type Service struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (e *Event) GetID() string {
	return e.ID
}

func (e *Event) ResourceType() string {
	return "catering/event"
}

// Duration returns the scheduled length of the event.
func (e *Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

func (e *Event) Clone() *Event {
	if e == nil {
		return nil
	}
	c := *e
	c.Services = slices.Clone(e.Services)
	return &c
}
