// Package repo – generation usage counters.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-recipe-backend/internal/domain"
)

// GenerationCount returns how many generation calls userID has made. A user
// with no counter row has made zero calls.
func GenerationCount(ctx context.Context, db *gorm.DB, userID string) (int, error) {
	var u domain.GenerationUsage
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return u.Count, nil
}

// IncrementGenerationCount bumps userID's counter by one, creating the row on
// first use. The upsert keeps concurrent increments from losing updates.
func IncrementGenerationCount(ctx context.Context, db *gorm.DB, userID string) error {
	u := domain.GenerationUsage{
		UserID:    userID,
		Count:     1,
		UpdatedAt: time.Now().UTC(),
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"count":      gorm.Expr("count + 1"),
				"updated_at": time.Now().UTC(),
			}),
		}).
		Create(&u).Error
}
