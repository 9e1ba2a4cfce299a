// Package services – IngredientService
//
// This file implements the IngredientService, which owns the shared
// ingredient catalog and its admission gate. A proposed ingredient passes
// through, in order: syntactic checks (non-empty, length cap), a duplicate
// short-circuit on the canonical form (no external call is spent on a name
// already present), and finally the external plausibility validator. Only a
// name that clears all three is added to the catalog.
//
// The canonical form (lowercase, singular-collapsed) is the identity used
// everywhere ingredients are compared: catalog uniqueness here and
// distinctness inside the generation workflow.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jinzhu/inflection"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/tbourn/go-recipe-backend/internal/domain"
	"github.com/tbourn/go-recipe-backend/internal/repo"
)

// CanonicalIngredient maps an ingredient name to its catalog identity:
// trimmed, lowercased, with the last word collapsed to singular so "Tomatoes"
// and "tomato" occupy one slot.
func CanonicalIngredient(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	words := strings.Fields(name)
	words[len(words)-1] = inflection.Singular(words[len(words)-1])
	return strings.Join(words, " ")
}

// IngredientRepo defines the repository contract required by
// IngredientService.
type IngredientRepo interface {
	ListIngredients(ctx context.Context, db *gorm.DB) ([]domain.IngredientCatalogEntry, error)
	FindIngredientByCanonical(ctx context.Context, db *gorm.DB, canonical string) (*domain.IngredientCatalogEntry, error)
	CreateIngredient(ctx context.Context, db *gorm.DB, name, canonical, createdBy string) (*domain.IngredientCatalogEntry, error)
}

// IngredientValidator is the external plausibility check consulted before a
// new name enters the catalog.
type IngredientValidator interface {
	// ValidateIngredient reports whether name is a plausible food
	// ingredient; when it is not, suggestions holds up to three
	// alternatives.
	ValidateIngredient(ctx context.Context, name, userID string) (valid bool, suggestions []string, err error)
}

// IngredientService manages the shared ingredient catalog.
type IngredientService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the catalog repository used by this service.
	Repo IngredientRepo
	// Validator is the external admission check for new names.
	Validator IngredientValidator

	// MaxNameLen caps proposed names by rune length.
	MaxNameLen int

	titler cases.Caser
}

// NewIngredientService constructs an IngredientService with the default
// 20-rune name cap.
func NewIngredientService(db *gorm.DB, r IngredientRepo, v IngredientValidator) *IngredientService {
	return &IngredientService{
		DB:         db,
		Repo:       r,
		Validator:  v,
		MaxNameLen: 20,
		titler:     cases.Title(language.English),
	}
}

// List returns the whole catalog ordered by display name.
func (s *IngredientService) List(ctx context.Context) ([]domain.IngredientCatalogEntry, error) {
	tr := otel.Tracer("services/IngredientService")
	ctx, span := tr.Start(ctx, "List")
	defer span.End()

	return s.Repo.ListIngredients(ctx, s.DB)
}

// Propose runs name through the admission gate and, on success, adds it to
// the catalog attributed to userID.
//
// Returned errors:
//   - ErrIngredientNameEmpty / ErrIngredientNameTooLong for syntactic
//     rejections (checked first, no external call).
//   - ErrIngredientExists when the canonical form is already present
//     (checked second, no external call).
//   - *IngredientRejectedError when the external validator rejects the
//     name, carrying up to three suggestions.
//   - ErrUpstream (wrapped) when the validator itself fails; nothing is
//     persisted and the proposal may be retried.
func (s *IngredientService) Propose(ctx context.Context, userID, name string) (*domain.IngredientCatalogEntry, error) {
	tr := otel.Tracer("services/IngredientService")
	ctx, span := tr.Start(ctx, "Propose",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrIngredientNameEmpty
	}
	if s.MaxNameLen > 0 && utf8.RuneCountInString(name) > s.MaxNameLen {
		return nil, ErrIngredientNameTooLong
	}

	canonical := CanonicalIngredient(name)
	if _, err := s.Repo.FindIngredientByCanonical(ctx, s.DB, canonical); err == nil {
		return nil, ErrIngredientExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	valid, suggestions, err := s.Validator.ValidateIngredient(ctx, name, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if !valid {
		if len(suggestions) > 3 {
			suggestions = suggestions[:3]
		}
		return nil, &IngredientRejectedError{Name: name, Suggestions: suggestions}
	}

	entry, err := s.Repo.CreateIngredient(ctx, s.DB, s.displayName(canonical), canonical, userID)
	if errors.Is(err, repo.ErrDuplicate) {
		// Lost a race with a concurrent proposal of the same name.
		return nil, ErrIngredientExists
	}
	return entry, err
}

// displayName renders the canonical form for the catalog listing.
func (s *IngredientService) displayName(canonical string) string {
	return s.titler.String(canonical)
}
