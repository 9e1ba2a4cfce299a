// Package services defines the business logic for recipes, likes, the
// ingredient catalog, and the generation workflow. This file centralizes
// common service-level error values so that they can be consistently
// returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler/controller layer.
package services

import (
	"errors"
	"fmt"
	"strings"
)

// Recipe-related errors.
var (
	// ErrRecipeNotFound indicates that the requested recipe does not exist.
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrNotOwner is returned when a user attempts to delete a recipe they
	// did not create.
	ErrNotOwner = errors.New("only the owner may delete this recipe")
)

// Ingredient-related errors.
var (
	// ErrIngredientNameEmpty is returned when a proposed ingredient name is
	// blank after trimming.
	ErrIngredientNameEmpty = errors.New("ingredient name is empty")

	// ErrIngredientNameTooLong is returned when a proposed ingredient name
	// exceeds the configured maximum length.
	ErrIngredientNameTooLong = errors.New("ingredient name too long")

	// ErrIngredientExists is returned when a proposed ingredient collapses to
	// a canonical form already in the catalog. The external validator is not
	// consulted in this case.
	ErrIngredientExists = errors.New("ingredient already in the catalog")

	// ErrUpstream wraps failures of the external generation/validation
	// service. The caller's inputs are intact and the call may be retried.
	ErrUpstream = errors.New("generation service failed")
)

// IngredientRejectedError is returned when the external validator rejects a
// proposed ingredient. It carries up to three suggested alternatives.
type IngredientRejectedError struct {
	Name        string
	Suggestions []string
}

// Error implements the error interface.
func (e *IngredientRejectedError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("%q is not a recognized ingredient", e.Name)
	}
	return fmt.Sprintf("%q is not a recognized ingredient (did you mean: %s)",
		e.Name, strings.Join(e.Suggestions, ", "))
}
