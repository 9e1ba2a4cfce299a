// Package domain defines the persistence models for users, recipes, likes,
// and the shared ingredient catalog. These types are mapped with GORM and
// form the core data layer of the recipe application.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// User is the minimal profile record referenced by recipes and likes. The
// authenticated identity is supplied by the auth layer; this row only exists
// so owner/likedBy references can be rendered with a name and avatar.
//
// Fields:
//   - ID: stable identifier supplied by the identity provider (char(36)).
//   - Name: display name shown next to owned/liked recipes.
//   - Image: avatar URL (may be empty).
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type User struct {
	ID        string    `json:"id"    gorm:"type:char(36);primaryKey"`
	Name      string    `json:"name"  gorm:"type:varchar(120);not null"`
	Image     string    `json:"image" gorm:"type:varchar(512)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// RecipeIngredient is one ingredient line of a persisted recipe. Quantities
// are free-form strings exactly as produced by the generation service
// ("2 cups", "a pinch").
type RecipeIngredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// AdditionalInformation carries the optional enrichment sections the
// generation service produces alongside the core recipe.
type AdditionalInformation struct {
	Tips                   string `json:"tips,omitempty"`
	Variations             string `json:"variations,omitempty"`
	ServingSuggestions     string `json:"servingSuggestions,omitempty"`
	NutritionalInformation string `json:"nutritionalInformation,omitempty"`
}

// Recipe represents a persisted recipe owned by a user. List-valued fields
// (ingredients, instructions, dietary preferences) are stored as JSON columns
// via the GORM serializer; likes live in their own table so membership can be
// mutated atomically.
//
// Invariant: PromptID records the generation-batch identifier on every row.
// The within-batch index that tags ephemeral candidates is stripped before the
// row is created, so all recipes saved from one batch share the same PromptID.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - OwnerID: identifier of the creator; the only identity allowed to delete.
//   - PromptID: generation-batch identifier.
//   - ImgLink: URL of the generated dish image.
//   - DeletedAt: soft deletion marker (retains row for audit/history).
type Recipe struct {
	ID                 string                `json:"id"         gorm:"type:char(36);primaryKey"`
	OwnerID            string                `json:"owner_id"   gorm:"type:char(36);not null;index:idx_owner_recipes"`
	PromptID           string                `json:"prompt_id"  gorm:"type:varchar(64);not null;index:idx_recipe_prompt"`
	Name               string                `json:"name"       gorm:"type:varchar(255);not null"`
	ImgLink            string                `json:"img_link"   gorm:"type:varchar(512)"`
	Ingredients        []RecipeIngredient    `json:"ingredients"         gorm:"serializer:json;type:text"`
	Instructions       []string              `json:"instructions"        gorm:"serializer:json;type:text"`
	DietaryPreferences []string              `json:"dietary_preferences" gorm:"serializer:json;type:text"`
	Additional         AdditionalInformation `json:"additional_information" gorm:"serializer:json;type:text"`
	Tags               []string              `json:"tags"     gorm:"serializer:json;type:text"`
	Comments           []string              `json:"comments" gorm:"serializer:json;type:text"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
	DeletedAt          gorm.DeletedAt        `json:"-" gorm:"index"`

	// Owner is the creating user. Recipes are cascade-deleted if the owner
	// row is removed.
	Owner User `json:"-" gorm:"foreignKey:OwnerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Recipe.
func (Recipe) TableName() string { return "recipes" }

// RecipeLike records that a user has liked a recipe. The unique index on
// (recipe_id, user_id) gives the likedBy collection set semantics: a like is
// an insert, an unlike is a delete, and concurrent toggles from different
// users never overwrite each other.
type RecipeLike struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"`
	RecipeID  string    `json:"recipe_id" gorm:"type:char(36);not null;index;uniqueIndex:ux_like_recipe_user"`
	UserID    string    `json:"user_id"   gorm:"type:char(36);not null;index;uniqueIndex:ux_like_recipe_user"`
	CreatedAt time.Time `json:"created_at"`

	// Recipe is the liked recipe. Likes are cascade-deleted with the recipe.
	Recipe Recipe `json:"-" gorm:"foreignKey:RecipeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for RecipeLike.
func (RecipeLike) TableName() string { return "recipe_likes" }

// IngredientCatalogEntry is one entry of the shared ingredient catalog users
// pick from when assembling a workflow. Name is the display form;
// CanonicalName is the lowercase, singular-collapsed form uniqueness is
// enforced on, so "Tomato", "tomato", and "tomatoes" occupy one slot.
//
// CreatedBy is empty for seed entries and holds the proposing user's id for
// entries accepted through the validation gate.
type IngredientCatalogEntry struct {
	ID            string    `json:"id"             gorm:"type:char(36);primaryKey"`
	Name          string    `json:"name"           gorm:"type:varchar(40);not null"`
	CanonicalName string    `json:"canonical_name" gorm:"type:varchar(40);not null;uniqueIndex:ux_ingredient_canonical"`
	CreatedBy     string    `json:"created_by,omitempty" gorm:"type:char(36);index"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName returns the database table name for IngredientCatalogEntry.
func (IngredientCatalogEntry) TableName() string { return "ingredient_catalog" }

// GenerationUsage counts how many generation calls a user has made. The
// workflow consults it before step 0 is entered: once Count reaches the
// configured limit the workflow is replaced by a terminal limit view.
type GenerationUsage struct {
	UserID    string    `json:"user_id" gorm:"type:char(36);primaryKey"`
	Count     int       `json:"count"   gorm:"not null;default:0"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for GenerationUsage.
func (GenerationUsage) TableName() string { return "generation_usage" }
