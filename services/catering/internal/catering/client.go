package catering

import "time"

// Client is whoever books catering events.
type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"` // clienttype code
	Contact   string    `json:"contact"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Client) GetID() string {
	return c.ID
}

func (c *Client) ResourceType() string {
	return "catering/client"
}

func (c *Client) Clone() *Client {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
