package catering

import (
	"time"
)

// Menu is a catering offering made of ordered sections.
type Menu struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Notes       string     `json:"notes"`
	Sections    []*Section `json:"sections"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Section groups items within a menu. ID is the stable key, Title is display only.
type Section struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Order int     `json:"order"` // 1-based position among siblings
	Items []*Item `json:"items"`
}

// Item is a menu line. RecipeID is a non-owning reference into the registry's
// recipe collection: removing the item never touches the recipe.
type Item struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	RecipeID string `json:"recipe_id"`
	Note     string `json:"note,omitempty"`
}

// GetID returns the menu ID
func (m *Menu) GetID() string {
	return m.ID
}

// ResourceType returns the resource type for URL generation
func (m *Menu) ResourceType() string {
	return "catering/menu"
}

// BeforeCreate sets up the menu before it is stored
func (m *Menu) BeforeCreate() {
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now
	if m.Sections == nil {
		m.Sections = []*Section{}
	}
}

// BeforeUpdate updates the timestamp
func (m *Menu) BeforeUpdate() {
	m.UpdatedAt = time.Now()
}

// Section returns the section with the given id.
func (m *Menu) Section(id string) (*Section, bool) {
	for _, s := range m.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// SectionByTitle returns the first section whose title matches.
func (m *Menu) SectionByTitle(title string) (*Section, bool) {
	for _, s := range m.Sections {
		if s.Title == title {
			return s, true
		}
	}
	return nil, false
}

// ItemCount returns the number of items across all sections.
func (m *Menu) ItemCount() int {
	n := 0
	for _, s := range m.Sections {
		n += len(s.Items)
	}
	return n
}

// Clone returns a deep copy. Registry readers only ever see clones.
func (m *Menu) Clone() *Menu {
	if m == nil {
		return nil
	}
	c := *m
	c.Sections = make([]*Section, len(m.Sections))
	for i, s := range m.Sections {
		c.Sections[i] = s.Clone()
	}
	return &c
}

// Clone returns a deep copy of the section and its items.
func (s *Section) Clone() *Section {
	if s == nil {
		return nil
	}
	c := *s
	c.Items = make([]*Item, len(s.Items))
	for i, it := range s.Items {
		item := *it
		c.Items[i] = &item
	}
	return &c
}

func (s *Section) indexOf(itemID string) int {
	for i, it := range s.Items {
		if it.ID == itemID {
			return i
		}
	}
	return -1
}

func (s *Section) indexOfRecipe(recipeID string) int {
	for i, it := range s.Items {
		if it.RecipeID == recipeID {
			return i
		}
	}
	return -1
}

func (s *Section) removeAt(i int) *Item {
	it := s.Items[i]
	s.Items = append(s.Items[:i], s.Items[i+1:]...)
	return it
}
