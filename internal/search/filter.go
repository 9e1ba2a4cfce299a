// Package search provides the recipe-list filter: a small, deterministic,
// dependency-free narrowing of a view list by a free-text query. It is
// intentionally tiny but engineered with library ergonomics:
//
//   - No logging (callers decide how/what to log)
//   - Pure functions; the input list is never mutated
//   - Case-insensitive substring matching, not token-boundary matching
//   - Identity on an empty query (the input slice is returned as-is)
//
// A query matches an entry when the lowercased query is a substring of the
// recipe name, of at least one ingredient name, or of at least one dietary
// preference tag.
package search

import (
	"strings"

	"github.com/tbourn/go-recipe-backend/internal/recipeview"
)

// FilterByQuery returns the entries of list matching query. An empty or
// all-whitespace query returns list unchanged (no copy). The input is never
// mutated; a non-empty query always yields a fresh slice.
func FilterByQuery(list []recipeview.ClientRecipeView, query string) []recipeview.ClientRecipeView {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return list
	}

	out := make([]recipeview.ClientRecipeView, 0, len(list))
	for i := range list {
		if Matches(&list[i], q) {
			out = append(out, list[i])
		}
	}
	return out
}

// Matches reports whether the already-lowercased query hits the view's name,
// any ingredient name, or any dietary preference tag.
func Matches(v *recipeview.ClientRecipeView, loweredQuery string) bool {
	if strings.Contains(strings.ToLower(v.Name), loweredQuery) {
		return true
	}
	for _, ing := range v.Ingredients {
		if strings.Contains(strings.ToLower(ing.Name), loweredQuery) {
			return true
		}
	}
	for _, tag := range v.DietaryPreferences {
		if strings.Contains(strings.ToLower(tag), loweredQuery) {
			return true
		}
	}
	return false
}
