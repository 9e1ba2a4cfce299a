// Package repo – like persistence.
//
// Like membership is a set keyed by (recipe_id, user_id) with a unique index
// behind it. Liking is an insert that silently no-ops on conflict, unliking
// is a keyed delete, so concurrent toggles by different users interleave
// without overwriting each other's rows. Every membership change also touches
// the parent recipe's updated_at, which feeds RecipesStats and the list ETag.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-recipe-backend/internal/domain"
)

// AddLike records that userID likes recipeID. It returns true when a new like
// row was created and false when the like already existed. A created like
// bumps the recipe's updated_at in the same transaction.
func AddLike(ctx context.Context, db *gorm.DB, recipeID, userID string) (bool, error) {
	like := domain.RecipeLike{
		ID:        uuid.NewString(),
		RecipeID:  recipeID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	created := false
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "recipe_id"}, {Name: "user_id"}},
				DoNothing: true,
			}).
			Create(&like)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		created = true
		return touchRecipe(tx, recipeID)
	})
	return created, err
}

// RemoveLike deletes userID's like on recipeID. It returns true when a row
// was removed and false when no like existed. A removed like bumps the
// recipe's updated_at in the same transaction.
func RemoveLike(ctx context.Context, db *gorm.DB, recipeID, userID string) (bool, error) {
	removed := false
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.
			Where("recipe_id = ? AND user_id = ?", recipeID, userID).
			Delete(&domain.RecipeLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true
		return touchRecipe(tx, recipeID)
	})
	return removed, err
}

// touchRecipe moves the recipe's updated_at forward so flag flips invalidate
// cached list responses.
func touchRecipe(tx *gorm.DB, recipeID string) error {
	return tx.Model(&domain.Recipe{}).
		Where("id = ?", recipeID).
		Update("updated_at", time.Now().UTC()).Error
}

// HasLike reports whether userID currently likes recipeID.
func HasLike(ctx context.Context, db *gorm.DB, recipeID, userID string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.RecipeLike{}).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		Count(&n).Error
	return n > 0, err
}
