// Recipe HTTP handlers.
//
// This file exposes REST endpoints for the shared recipe feed:
//   - GET    /recipes            (list, per-user view, optional q filter, ETag support)
//   - GET    /recipes/{id}       (single recipe, per-user view)
//   - DELETE /recipes/{id}       (owner-only delete)
//   - POST   /recipes/{id}/like  (toggle like membership)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses (including conditional responses).
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/go-recipe-backend/internal/recipeview"
	"github.com/tbourn/go-recipe-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// RecipeService defines recipe feed operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type RecipeService interface {
	// List returns the feed shaped for userID, optionally filtered by query.
	List(ctx context.Context, userID, query string) ([]recipeview.ClientRecipeView, error)
	// ListForUser returns only the recipes userID owns or has liked.
	ListForUser(ctx context.Context, userID, query string) ([]recipeview.ClientRecipeView, error)
	// Get returns a single recipe shaped for userID.
	Get(ctx context.Context, userID, recipeID string) (*recipeview.ClientRecipeView, error)
	// Delete removes a recipe owned by userID.
	Delete(ctx context.Context, userID, recipeID string) error
	// ToggleLike flips userID's like on a recipe and returns the fresh view.
	ToggleLike(ctx context.Context, userID, recipeID string) (*recipeview.ClientRecipeView, error)
	// Stats returns feed row count and newest update time for ETags.
	Stats(ctx context.Context) (int64, *time.Time, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for recipes, the ingredient catalog, and the
// generation workflow. It depends on abstract service interfaces to keep
// transport concerns separate from business logic.
type Handlers struct {
	recipeSvc     RecipeService
	ingredientSvc IngredientService
	workflowSvc   WorkflowService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(recipeSvc RecipeService, ingredientSvc IngredientService, workflowSvc WorkflowService) *Handlers {
	return &Handlers{recipeSvc: recipeSvc, ingredientSvc: ingredientSvc, workflowSvc: workflowSvc}
}

// userID extracts the authenticated user id from Gin context, set by the
// auth middleware. Routes registered without that middleware have no
// identity and get an empty string; handlers treat that as unauthorized.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// requireUser resolves the authenticated user or fails the request with 401.
func requireUser(c *gin.Context) (string, bool) {
	uid := userID(c)
	if uid == "" {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
		return "", false
	}
	return uid, true
}

//
// DTOs
//

// ListRecipesResponse wraps the per-user recipe feed.
type ListRecipesResponse struct {
	Recipes []recipeview.ClientRecipeView `json:"recipes"`
}

//
// Handlers
//

// ListRecipes godoc
// @ID          listRecipes
// @Summary     List recipes
// @Description Returns all recipes shaped for the current user (owns/liked flags), optionally filtered by a case-insensitive substring query. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Recipes
// @Produce     json
//
// @Param       q              query   string  false "Filter over names, ingredient names, and dietary tags"  example(tomato)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
//
// @Success     200  {object} handlers.ListRecipesResponse
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /recipes [get]
func (h *Handlers) ListRecipes(c *gin.Context) {
	ctx := c.Request.Context()
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	query := c.Query("q")

	// ETag pre-check (best effort). The tag covers feed content, viewer, and
	// query, since all three shape the body.
	if count, maxTS, err := h.recipeSvc.Stats(ctx); err == nil {
		var ts int64
		if maxTS != nil {
			ts = maxTS.Unix()
		}
		etag := fmt.Sprintf(`W/"recipes:%s:%s:%d:%d"`, uid, query, count, ts)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	views, err := h.recipeSvc.List(ctx, uid, query)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListRecipesResponse{Recipes: views})
}

// ListMyRecipes godoc
// @ID          listMyRecipes
// @Summary     List my recipes
// @Description Returns only the recipes the current user owns or has liked, optionally filtered by the same substring query as the full feed.
// @Tags        Recipes
// @Produce     json
//
// @Param       q  query  string  false "Filter over names, ingredient names, and dietary tags"  example(tomato)
//
// @Success     200  {object} handlers.ListRecipesResponse
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /recipes/mine [get]
func (h *Handlers) ListMyRecipes(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}

	views, err := h.recipeSvc.ListForUser(c.Request.Context(), uid, c.Query("q"))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListRecipesResponse{Recipes: views})
}

// GetRecipe godoc
// @ID          getRecipe
// @Summary     Get a recipe
// @Description Returns a single recipe shaped for the current user.
// @Tags        Recipes
// @Produce     json
//
// @Param       id  path  string  true "Recipe ID (UUID)"  format(uuid)
//
// @Success     200  {object} recipeview.ClientRecipeView
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     404  {object} handlers.ErrorResponse "Recipe not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /recipes/{id} [get]
func (h *Handlers) GetRecipe(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	recipeID := c.Param("id")
	if _, err := uuid.Parse(recipeID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "recipe id must be a UUID")
		return
	}

	view, err := h.recipeSvc.Get(c.Request.Context(), uid, recipeID)
	if err != nil {
		if errors.Is(err, services.ErrRecipeNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "recipe not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, view)
}

// DeleteRecipe godoc
// @ID          deleteRecipe
// @Summary     Delete a recipe
// @Description Deletes a recipe. Only the owner may delete; everyone else gets 403.
// @Tags        Recipes
// @Produce     json
//
// @Param       id  path  string  true "Recipe ID (UUID)"  format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     403  {object} handlers.ErrorResponse "Not the owner"
// @Failure     404  {object} handlers.ErrorResponse "Recipe not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /recipes/{id} [delete]
func (h *Handlers) DeleteRecipe(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	recipeID := c.Param("id")
	if _, err := uuid.Parse(recipeID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "recipe id must be a UUID")
		return
	}

	err := h.recipeSvc.Delete(c.Request.Context(), uid, recipeID)
	switch {
	case err == nil:
		noContent(c)
	case errors.Is(err, services.ErrRecipeNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "recipe not found")
	case errors.Is(err, services.ErrNotOwner):
		fail(c, http.StatusForbidden, ErrCodeForbidden, "only the owner may delete this recipe")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

// ToggleLike godoc
// @ID          toggleLike
// @Summary     Toggle a like
// @Description Flips the current user's like on a recipe and returns the updated recipe view.
// @Tags        Recipes
// @Produce     json
//
// @Param       id  path  string  true "Recipe ID (UUID)"  format(uuid)
//
// @Success     200  {object} recipeview.ClientRecipeView
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     404  {object} handlers.ErrorResponse "Recipe not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /recipes/{id}/like [post]
func (h *Handlers) ToggleLike(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	recipeID := c.Param("id")
	if _, err := uuid.Parse(recipeID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "recipe id must be a UUID")
		return
	}

	view, err := h.recipeSvc.ToggleLike(c.Request.Context(), uid, recipeID)
	if err != nil {
		if errors.Is(err, services.ErrRecipeNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "recipe not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, view)
}
