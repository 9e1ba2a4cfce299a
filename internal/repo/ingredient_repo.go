// Package repo – ingredient catalog persistence.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-recipe-backend/internal/domain"
)

// ErrDuplicate is returned when an insert collides with an existing row on a
// uniqueness constraint.
var ErrDuplicate = errors.New("duplicate record")

// ListIngredients returns the whole shared catalog ordered by display name.
func ListIngredients(ctx context.Context, db *gorm.DB) ([]domain.IngredientCatalogEntry, error) {
	var out []domain.IngredientCatalogEntry
	err := db.WithContext(ctx).
		Order("name asc").
		Find(&out).Error
	return out, err
}

// FindIngredientByCanonical fetches the catalog entry whose canonical form
// matches canonical, or ErrNotFound if no such entry exists.
func FindIngredientByCanonical(ctx context.Context, db *gorm.DB, canonical string) (*domain.IngredientCatalogEntry, error) {
	var e domain.IngredientCatalogEntry
	err := db.WithContext(ctx).
		Where("canonical_name = ?", canonical).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateIngredient inserts a new catalog entry. Uniqueness is enforced on the
// canonical form; a collision (including a concurrent insert that won the
// race) returns ErrDuplicate.
func CreateIngredient(ctx context.Context, db *gorm.DB, name, canonical, createdBy string) (*domain.IngredientCatalogEntry, error) {
	e := domain.IngredientCatalogEntry{
		ID:            uuid.NewString(),
		Name:          name,
		CanonicalName: canonical,
		CreatedBy:     createdBy,
		CreatedAt:     time.Now().UTC(),
	}
	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "canonical_name"}},
			DoNothing: true,
		}).
		Create(&e)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrDuplicate
	}
	return &e, nil
}

// SeedIngredients inserts the given display names as catalog entries,
// skipping any whose canonical form already exists. canonicalize maps a
// display name to its canonical form.
func SeedIngredients(ctx context.Context, db *gorm.DB, names []string, canonicalize func(string) string) error {
	for _, name := range names {
		if _, err := CreateIngredient(ctx, db, name, canonicalize(name), ""); err != nil && !errors.Is(err, ErrDuplicate) {
			return err
		}
	}
	return nil
}
