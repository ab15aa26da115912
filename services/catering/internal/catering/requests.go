package catering

import "time"

type MenuCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Notes       string `json:"notes"`
}

type MenuRenameRequest struct {
	Name string `json:"name"`
}

type MenuNoteRequest struct {
	Note string `json:"note"`
}

type SectionCreateRequest struct {
	Title string `json:"title"`
}

type ItemCreateRequest struct {
	RecipeID string `json:"recipe_id"`
}

type ItemUpdateRequest struct {
	Name string `json:"name"`
	Note string `json:"note"`
}

type ItemMoveRequest struct {
	RecipeID        string `json:"recipe_id"`
	TargetSectionID string `json:"target_section_id"`
}

type RecipeCreateRequest struct {
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	PreparationTime int              `json:"preparation_time"`
	Status          string           `json:"status"`
	Author          string           `json:"author"`
	Ingredients     []IngredientDose `json:"ingredients"`
	Steps           []string         `json:"steps"`
	Tags            []string         `json:"tags"`
}

// RecipeUpdateRequest carries a partial update. Nil or empty fields are left alone.
type RecipeUpdateRequest struct {
	Description     *string          `json:"description,omitempty"`
	PreparationTime *int             `json:"preparation_time,omitempty"`
	Status          *string          `json:"status,omitempty"`
	AddIngredients  []IngredientDose `json:"add_ingredients,omitempty"`
	AddSteps        []string         `json:"add_steps,omitempty"`
	AddTags         []string         `json:"add_tags,omitempty"`
	RemoveTags      []string         `json:"remove_tags,omitempty"`
}

type EventCreateRequest struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Location string    `json:"location"`
	Type     string    `json:"type"`
	Notes    string    `json:"notes"`
	ClientID string    `json:"client_id"`
	Services []Service `json:"services"`
}

type ClientCreateRequest struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Contact string `json:"contact"`
}
