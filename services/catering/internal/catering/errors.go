package catering

import "errors"

// Sentinel errors returned by the registry. Callers match them with errors.Is.
var (
	ErrMenuNotFound    = errors.New("menu not found")
	ErrSectionNotFound = errors.New("section not found")
	ErrItemNotFound    = errors.New("item not found")
	ErrRecipeNotFound  = errors.New("recipe not found")
	ErrEventNotFound   = errors.New("event not found")
	ErrClientNotFound  = errors.New("client not found")
	ErrInvalidInput    = errors.New("invalid input")
)

// IsNotFound reports whether err is one of the not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrMenuNotFound) ||
		errors.Is(err, ErrSectionNotFound) ||
		errors.Is(err, ErrItemNotFound) ||
		errors.Is(err, ErrRecipeNotFound) ||
		errors.Is(err, ErrEventNotFound) ||
		errors.Is(err, ErrClientNotFound)
}
