package catering

import (
	"slices"
	"strings"
	"time"

	"github.com/appetiteclub/catering/pkg/enums/recipestatus"
)

// Recipe is a dish definition referenced by menu items.
type Recipe struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	PreparationTime int              `json:"preparation_time"` // minutes
	Status          string           `json:"status"`           // recipestatus code
	Author          string           `json:"author"`
	Ingredients     []IngredientDose `json:"ingredients"`
	Steps           []string         `json:"steps"`
	Tags            []string         `json:"tags"` // set, insertion ordered
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// IngredientDose is an ingredient with the quantity a recipe needs.
type IngredientDose struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit,omitempty"`
}

func (r *Recipe) GetID() string {
	return r.ID
}

func (r *Recipe) ResourceType() string {
	return "catering/recipe"
}

// BeforeCreate sets up the recipe before it is stored
func (r *Recipe) BeforeCreate() {
	now := time.Now()
	r.CreatedAt = now
	r.UpdatedAt = now
	if r.Status == "" {
		r.Status = recipestatus.Statuses.Draft.Code()
	}
	if r.Ingredients == nil {
		r.Ingredients = []IngredientDose{}
	}
	if r.Steps == nil {
		r.Steps = []string{}
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
}

// BeforeUpdate updates the timestamp
func (r *Recipe) BeforeUpdate() {
	r.UpdatedAt = time.Now()
}

// Published reports whether the recipe is visible outside the kitchen.
func (r *Recipe) Published() bool {
	return r.Status == recipestatus.Statuses.Published.Code()
}

// AddIngredient appends a dose to the ingredient list.
func (r *Recipe) AddIngredient(name string, quantity float64, unit string) {
	r.Ingredients = append(r.Ingredients, IngredientDose{
		Name:     strings.TrimSpace(name),
		Quantity: quantity,
		Unit:     unit,
	})
}

// AddStep appends a preparation step.
func (r *Recipe) AddStep(step string) {
	r.Steps = append(r.Steps, strings.TrimSpace(step))
}

// AddTag adds tag unless it is already present. Returns whether it was added.
func (r *Recipe) AddTag(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" || r.HasTag(tag) {
		return false
	}
	r.Tags = append(r.Tags, tag)
	return true
}

// RemoveTag removes tag if present.
func (r *Recipe) RemoveTag(tag string) bool {
	for i, t := range r.Tags {
		if t == tag {
			r.Tags = append(r.Tags[:i], r.Tags[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Recipe) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (r *Recipe) Clone() *Recipe {
	if r == nil {
		return nil
	}
	c := *r
	c.Ingredients = slices.Clone(r.Ingredients)
	c.Steps = slices.Clone(r.Steps)
	c.Tags = slices.Clone(r.Tags)
	return &c
}
