package repo

import (
	"gorm.io/gorm"

	"github.com/tbourn/go-recipe-backend/internal/domain"
)

// AutoMigrate creates or updates the schema for all domain models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Recipe{},
		&domain.RecipeLike{},
		&domain.IngredientCatalogEntry{},
		&domain.GenerationUsage{},
	)
}
