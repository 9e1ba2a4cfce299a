// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Recipe
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a recipe is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// Functions:
//
//   - CreateRecipeBatch(ctx, db, recipes) -> error
//     Inserts all rows of one generation batch in a single transaction.
//
//   - ListRecipeRecords(ctx, db) -> []recipeview.Record, error
//     Returns every live recipe with its owner profile and liker profiles,
//     newest first, assembled for view projection.
//
//   - GetRecipe(ctx, db, id) -> *domain.Recipe, error
//     Fetches a single recipe by ID, or ErrNotFound if missing.
//
//   - GetRecipeRecord(ctx, db, id) -> *recipeview.Record, error
//     Like GetRecipe but with owner and liker profiles attached.
//
//   - DeleteRecipe(ctx, db, id) -> error
//     Soft-deletes a recipe. Returns ErrNotFound if no row was affected.
//     Ownership is enforced by the service layer, which must load the row
//     first to distinguish "missing" from "not yours".
//
// This repository is designed to be wrapped by a higher-level service
// (see services.RecipeService) which enforces ownership, like semantics,
// and view projection.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-recipe-backend/internal/domain"
	"github.com/tbourn/go-recipe-backend/internal/recipeview"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateRecipeBatch inserts every recipe of one saved generation batch inside
// a single transaction, so a mid-batch failure leaves no partial batch behind.
// Callers are expected to have assigned IDs and stripped candidate tags.
func CreateRecipeBatch(ctx context.Context, db *gorm.DB, recipes []domain.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range recipes {
			if recipes[i].CreatedAt.IsZero() {
				recipes[i].CreatedAt = time.Now().UTC()
			}
			if err := tx.Create(&recipes[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ListRecipeRecords returns all live recipes ordered by creation time
// descending, each paired with its owner profile and the profiles of its
// likers. It returns an empty slice when the table is empty.
func ListRecipeRecords(ctx context.Context, db *gorm.DB) ([]recipeview.Record, error) {
	var recipes []domain.Recipe
	err := db.WithContext(ctx).
		Preload("Owner").
		Order("created_at desc").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}

	records := make([]recipeview.Record, 0, len(recipes))
	if len(recipes) == 0 {
		return records, nil
	}

	ids := make([]string, 0, len(recipes))
	for _, r := range recipes {
		ids = append(ids, r.ID)
	}
	likers, err := likersByRecipe(ctx, db, ids)
	if err != nil {
		return nil, err
	}

	for _, r := range recipes {
		records = append(records, recipeview.Record{
			Recipe:  r,
			Owner:   r.Owner,
			LikedBy: likers[r.ID],
		})
	}
	return records, nil
}

// GetRecipe fetches a single recipe by its ID. If the record does not exist,
// it returns ErrNotFound. On other DB errors, the raw error is returned.
func GetRecipe(ctx context.Context, db *gorm.DB, id string) (*domain.Recipe, error) {
	var r domain.Recipe
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetRecipeRecord fetches a single recipe with owner and liker profiles
// attached, ready for view projection. Returns ErrNotFound if missing.
func GetRecipeRecord(ctx context.Context, db *gorm.DB, id string) (*recipeview.Record, error) {
	var r domain.Recipe
	err := db.WithContext(ctx).
		Preload("Owner").
		Where("id = ?", id).
		First(&r).Error
	if err != nil {
		return nil, err
	}
	likers, err := likersByRecipe(ctx, db, []string{r.ID})
	if err != nil {
		return nil, err
	}
	return &recipeview.Record{Recipe: r, Owner: r.Owner, LikedBy: likers[r.ID]}, nil
}

// DeleteRecipe soft-deletes the recipe identified by id. If no rows are
// affected (recipe missing or already deleted), it returns ErrNotFound.
func DeleteRecipe(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.Recipe{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// likersByRecipe loads the profiles of everyone who liked any of the given
// recipes, grouped by recipe ID. Likes are returned in like-creation order.
func likersByRecipe(ctx context.Context, db *gorm.DB, recipeIDs []string) (map[string][]domain.User, error) {
	type likerRow struct {
		RecipeID string
		domain.User
	}
	var rows []likerRow
	err := db.WithContext(ctx).
		Table("recipe_likes").
		Select("recipe_likes.recipe_id, users.*").
		Joins("JOIN users ON users.id = recipe_likes.user_id").
		Where("recipe_likes.recipe_id IN ?", recipeIDs).
		Order("recipe_likes.created_at asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string][]domain.User, len(recipeIDs))
	for _, row := range rows {
		out[row.RecipeID] = append(out[row.RecipeID], row.User)
	}
	return out, nil
}
