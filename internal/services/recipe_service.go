// Package services – RecipeService
//
// This file implements the RecipeService, which manages the persisted recipe
// feed: listing it as per-user views, filtering it, toggling like membership,
// deleting owned recipes, and persisting saved generation batches. Ownership
// and like semantics are enforced here; the repository stays a thin CRUD
// layer and the handlers only translate errors.
//
// Service-level errors (e.g., ErrRecipeNotFound, ErrNotOwner) are returned
// for predictable cases so handlers can map them to HTTP results
// consistently.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-recipe-backend/internal/domain"
	"github.com/tbourn/go-recipe-backend/internal/recipeview"
	"github.com/tbourn/go-recipe-backend/internal/search"
	"github.com/tbourn/go-recipe-backend/internal/workflow"
)

// RecipeRepo defines the repository contract required by RecipeService.
// Implementations are responsible for persistence of recipe aggregates.
type RecipeRepo interface {
	// ListRecipeRecords returns every live recipe with owner and liker
	// profiles, newest first.
	ListRecipeRecords(ctx context.Context, db *gorm.DB) ([]recipeview.Record, error)

	// GetRecipe fetches a recipe row by ID.
	GetRecipe(ctx context.Context, db *gorm.DB, id string) (*domain.Recipe, error)

	// GetRecipeRecord fetches a recipe with owner and liker profiles.
	GetRecipeRecord(ctx context.Context, db *gorm.DB, id string) (*recipeview.Record, error)

	// DeleteRecipe soft-deletes a recipe by ID.
	DeleteRecipe(ctx context.Context, db *gorm.DB, id string) error

	// CreateRecipeBatch inserts one saved batch transactionally.
	CreateRecipeBatch(ctx context.Context, db *gorm.DB, recipes []domain.Recipe) error

	// AddLike / RemoveLike mutate like-set membership.
	AddLike(ctx context.Context, db *gorm.DB, recipeID, userID string) (bool, error)
	RemoveLike(ctx context.Context, db *gorm.DB, recipeID, userID string) (bool, error)

	// RecipesStats returns feed row count and newest update time.
	RecipesStats(ctx context.Context, db *gorm.DB) (int64, *time.Time, error)
}

// RecipeService provides recipe-level operations over the shared feed.
type RecipeService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the recipe repository used by this service.
	Repo RecipeRepo
}

// NewRecipeService constructs a RecipeService.
func NewRecipeService(db *gorm.DB, r RecipeRepo) *RecipeService {
	return &RecipeService{DB: db, Repo: r}
}

// List returns the whole feed shaped for the viewing user, optionally
// narrowed by a case-insensitive substring query over names, ingredient
// names, and dietary tags. An empty query returns the full feed.
func (s *RecipeService) List(ctx context.Context, userID, query string) ([]recipeview.ClientRecipeView, error) {
	tr := otel.Tracer("services/RecipeService")
	ctx, span := tr.Start(ctx, "List",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	records, err := s.Repo.ListRecipeRecords(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	views := recipeview.ProjectForUser(records, userID)
	return search.FilterByQuery(views, query), nil
}

// ListForUser returns only the recipes the viewing user owns or has liked,
// narrowed by the same optional query as List.
func (s *RecipeService) ListForUser(ctx context.Context, userID, query string) ([]recipeview.ClientRecipeView, error) {
	tr := otel.Tracer("services/RecipeService")
	ctx, span := tr.Start(ctx, "ListForUser",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	views, err := s.List(ctx, userID, query)
	if err != nil {
		return nil, err
	}
	return recipeview.OwnedOrLiked(views), nil
}

// Get returns a single recipe shaped for the viewing user.
func (s *RecipeService) Get(ctx context.Context, userID, recipeID string) (*recipeview.ClientRecipeView, error) {
	tr := otel.Tracer("services/RecipeService")
	ctx, span := tr.Start(ctx, "Get",
		trace.WithAttributes(attribute.String("recipe.id", recipeID)),
	)
	defer span.End()

	rec, err := s.Repo.GetRecipeRecord(ctx, s.DB, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	v := recipeview.Project(*rec, userID)
	return &v, nil
}

// Delete removes a recipe. Only the owner may delete; anyone else gets
// ErrNotOwner and a missing recipe yields ErrRecipeNotFound.
func (s *RecipeService) Delete(ctx context.Context, userID, recipeID string) error {
	tr := otel.Tracer("services/RecipeService")
	ctx, span := tr.Start(ctx, "Delete",
		trace.WithAttributes(
			attribute.String("recipe.id", recipeID),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	r, err := s.Repo.GetRecipe(ctx, s.DB, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}
	if r.OwnerID != userID {
		return ErrNotOwner
	}
	err = s.Repo.DeleteRecipe(ctx, s.DB, recipeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecipeNotFound
	}
	return err
}

// ToggleLike flips the viewing user's membership in the recipe's like set
// and returns the recipe reshaped for that user. Membership is an insert or
// delete on a uniquely indexed row, so concurrent toggles by different users
// never clobber each other.
func (s *RecipeService) ToggleLike(ctx context.Context, userID, recipeID string) (*recipeview.ClientRecipeView, error) {
	tr := otel.Tracer("services/RecipeService")
	ctx, span := tr.Start(ctx, "ToggleLike",
		trace.WithAttributes(
			attribute.String("recipe.id", recipeID),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	if _, err := s.Repo.GetRecipe(ctx, s.DB, recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	created, err := s.Repo.AddLike(ctx, s.DB, recipeID, userID)
	if err != nil {
		return nil, err
	}
	if !created {
		if _, err := s.Repo.RemoveLike(ctx, s.DB, recipeID, userID); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, userID, recipeID)
}

// Stats returns feed row count and newest update time, used by the HTTP
// layer for ETag generation.
func (s *RecipeService) Stats(ctx context.Context) (int64, *time.Time, error) {
	tr := otel.Tracer("services/RecipeService")
	ctx, span := tr.Start(ctx, "Stats")
	defer span.End()

	return s.Repo.RecipesStats(ctx, s.DB)
}

// SaveBatch persists one saved generation batch for userID. Candidates
// arrive with PromptID already rewritten to the bare batch id; rows are
// assigned fresh UUIDs and inserted transactionally so a failure leaves no
// partial batch. It satisfies the workflow's Saver contract.
func (s *RecipeService) SaveBatch(ctx context.Context, userID string, selected []workflow.Candidate) error {
	tr := otel.Tracer("services/RecipeService")
	ctx, span := tr.Start(ctx, "SaveBatch",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int("batch.size", len(selected)),
		),
	)
	defer span.End()

	rows := make([]domain.Recipe, 0, len(selected))
	now := time.Now().UTC()
	for _, c := range selected {
		rows = append(rows, domain.Recipe{
			ID:                 uuid.NewString(),
			OwnerID:            userID,
			PromptID:           c.PromptID,
			Name:               c.Name,
			ImgLink:            c.ImgLink,
			Ingredients:        c.Ingredients,
			Instructions:       c.Instructions,
			DietaryPreferences: c.DietaryPreferences,
			Additional:         c.Additional,
			CreatedAt:          now,
		})
	}
	return s.Repo.CreateRecipeBatch(ctx, s.DB, rows)
}
