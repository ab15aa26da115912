package catering

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/appetiteclub/catering/pkg/enums/clienttype"
	"github.com/appetiteclub/catering/pkg/enums/eventtype"
	"github.com/appetiteclub/catering/pkg/enums/recipestatus"
)

const (
	MinMenuNameLength   = 3
	MinRecipeNameLength = 2
	MaxPreparationTime  = 600 // minutes
	minEmailLength      = 5
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// IsValidName reports whether s, once trimmed, is non-empty and at least min runes long.
func IsValidName(s string, min int) bool {
	s = strings.TrimSpace(s)
	return s != "" && utf8.RuneCountInString(s) >= min
}

func IsValidMenuName(s string) bool {
	return IsValidName(s, MinMenuNameLength)
}

func IsValidRecipeName(s string) bool {
	return IsValidName(s, MinRecipeNameLength)
}

func IsValidDescription(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidPreparationTime accepts (0, 600] minutes.
func IsValidPreparationTime(minutes int) bool {
	return minutes > 0 && minutes <= MaxPreparationTime
}

func IsValidStatus(s string) bool {
	return recipestatus.ByName(s) != nil
}

// IsValidEmail is a loose sanity check, not RFC 5322.
func IsValidEmail(s string) bool {
	return len(s) >= minEmailLength && strings.Contains(s, "@") && strings.Contains(s, ".")
}

// IsValidMenu requires a valid name and description and at least one section.
func IsValidMenu(m *Menu) bool {
	if m == nil {
		return false
	}
	return IsValidMenuName(m.Name) && IsValidDescription(m.Description) && len(m.Sections) > 0
}

// ValidateCreateMenu validates a menu create request
func ValidateCreateMenu(ctx context.Context, req MenuCreateRequest) []ValidationError {
	var errors []ValidationError

	if !IsValidMenuName(req.Name) {
		errors = append(errors, ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("name must have at least %d characters", MinMenuNameLength),
		})
	}

	if !IsValidDescription(req.Description) {
		errors = append(errors, ValidationError{
			Field:   "description",
			Message: "description is required",
		})
	}

	return errors
}

// ValidateCreateRecipe validates a recipe create request
func ValidateCreateRecipe(ctx context.Context, req RecipeCreateRequest) []ValidationError {
	var errors []ValidationError

	if !IsValidRecipeName(req.Name) {
		errors = append(errors, ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("name must have at least %d characters", MinRecipeNameLength),
		})
	}

	if !IsValidDescription(req.Description) {
		errors = append(errors, ValidationError{
			Field:   "description",
			Message: "description is required",
		})
	}

	if !IsValidPreparationTime(req.PreparationTime) {
		errors = append(errors, ValidationError{
			Field:   "preparation_time",
			Message: fmt.Sprintf("preparation_time must be between 1 and %d minutes", MaxPreparationTime),
		})
	}

	if req.Status != "" && !IsValidStatus(req.Status) {
		errors = append(errors, ValidationError{
			Field:   "status",
			Message: "status must be one of: draft, published",
		})
	}

	for i, ing := range req.Ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("ingredients[%d].name", i),
				Message: "ingredient name is required",
			})
		}
		if ing.Quantity < 0 {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("ingredients[%d].quantity", i),
				Message: "quantity cannot be negative",
			})
		}
	}

	return errors
}

// ValidateUpdateRecipe validates the fields a partial update sets
func ValidateUpdateRecipe(ctx context.Context, req RecipeUpdateRequest) []ValidationError {
	var errors []ValidationError

	if req.Description != nil && !IsValidDescription(*req.Description) {
		errors = append(errors, ValidationError{
			Field:   "description",
			Message: "description cannot be empty",
		})
	}

	if req.PreparationTime != nil && !IsValidPreparationTime(*req.PreparationTime) {
		errors = append(errors, ValidationError{
			Field:   "preparation_time",
			Message: fmt.Sprintf("preparation_time must be between 1 and %d minutes", MaxPreparationTime),
		})
	}

	if req.Status != nil && !IsValidStatus(*req.Status) {
		errors = append(errors, ValidationError{
			Field:   "status",
			Message: "status must be one of: draft, published",
		})
	}

	return errors
}

// ValidateCreateEvent validates an event create request
func ValidateCreateEvent(ctx context.Context, req EventCreateRequest) []ValidationError {
	var errors []ValidationError

	if req.Start.IsZero() {
		errors = append(errors, ValidationError{Field: "start", Message: "start is required"})
	}

	if req.End.IsZero() {
		errors = append(errors, ValidationError{Field: "end", Message: "end is required"})
	} else if req.End.Before(req.Start) {
		errors = append(errors, ValidationError{Field: "end", Message: "end cannot be before start"})
	}

	if strings.TrimSpace(req.Location) == "" {
		errors = append(errors, ValidationError{Field: "location", Message: "location is required"})
	}

	if eventtype.ByName(req.Type) == nil {
		errors = append(errors, ValidationError{
			Field:   "type",
			Message: "type must be one of: single, complex",
		})
	}

	for i, s := range req.Services {
		if strings.TrimSpace(s.Name) == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("services[%d].name", i),
				Message: "service name is required",
			})
		}
	}

	return errors
}

// ValidateCreateClient validates a client create request
func ValidateCreateClient(ctx context.Context, req ClientCreateRequest) []ValidationError {
	var errors []ValidationError

	if !IsValidName(req.Name, MinRecipeNameLength) {
		errors = append(errors, ValidationError{Field: "name", Message: "name is required"})
	}

	if clienttype.ByName(req.Type) == nil {
		errors = append(errors, ValidationError{
			Field:   "type",
			Message: "type must be one of: private, business",
		})
	}

	contact := strings.TrimSpace(req.Contact)
	if contact == "" {
		errors = append(errors, ValidationError{Field: "contact", Message: "contact is required"})
	} else if strings.Contains(contact, "@") && !IsValidEmail(contact) {
		errors = append(errors, ValidationError{Field: "contact", Message: "contact email is not valid"})
	}

	return errors
}
