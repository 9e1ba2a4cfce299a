// Package repo – user profile persistence.
package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-recipe-backend/internal/domain"
)

// UpsertUser inserts the profile row for the authenticated identity, or
// refreshes name/avatar when the row already exists. Called on every
// authenticated request so owner/liker references always render with the
// user's current profile.
func UpsertUser(ctx context.Context, db *gorm.DB, u domain.User) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "image", "updated_at"}),
		}).
		Create(&u).Error
}

// GetUser fetches a profile row by ID, or ErrNotFound if missing.
func GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	var u domain.User
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}
