// Ingredient catalog HTTP handlers.
//
// This file exposes REST endpoints for the shared ingredient catalog:
//   - GET  /ingredients  (list)
//   - POST /ingredients  (propose a new ingredient through the admission gate)
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-recipe-backend/internal/domain"
	"github.com/tbourn/go-recipe-backend/internal/services"
)

// IngredientService defines catalog operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type IngredientService interface {
	// List returns the whole catalog ordered by display name.
	List(ctx context.Context) ([]domain.IngredientCatalogEntry, error)
	// Propose runs name through the admission gate and persists it.
	Propose(ctx context.Context, userID, name string) (*domain.IngredientCatalogEntry, error)
}

// ProposeIngredientRequest is the JSON payload for proposing an ingredient.
type ProposeIngredientRequest struct {
	// Name is the proposed ingredient (1–20 chars).
	Name string `json:"name" binding:"required,min=1,max=20" example:"tomato"`
}

// ListIngredientsResponse wraps the catalog listing.
type ListIngredientsResponse struct {
	Ingredients []domain.IngredientCatalogEntry `json:"ingredients"`
}

// ListIngredients godoc
// @ID          listIngredients
// @Summary     List the ingredient catalog
// @Description Returns every catalog entry ordered by display name.
// @Tags        Ingredients
// @Produce     json
//
// @Success     200  {object} handlers.ListIngredientsResponse
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /ingredients [get]
func (h *Handlers) ListIngredients(c *gin.Context) {
	if _, okUser := requireUser(c); !okUser {
		return
	}
	entries, err := h.ingredientSvc.List(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListIngredientsResponse{Ingredients: entries})
}

// ProposeIngredient godoc
// @ID          proposeIngredient
// @Summary     Propose a new ingredient
// @Description Validates a proposed ingredient (length, duplicate, external plausibility check) and adds it to the shared catalog.
// @Tags        Ingredients
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.ProposeIngredientRequest  true "Proposed ingredient"
//
// @Success     201  {object} domain.IngredientCatalogEntry
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     409  {object} handlers.ErrorResponse "Already in the catalog"
// @Failure     422  {object} handlers.ErrorResponse "Not a recognized ingredient (may carry suggestions)"
// @Failure     502  {object} handlers.ErrorResponse "Validation service failed"
// @Router      /ingredients [post]
func (h *Handlers) ProposeIngredient(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	var req ProposeIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name required (1–20 chars)")
		return
	}

	entry, err := h.ingredientSvc.Propose(c.Request.Context(), uid, req.Name)
	if err == nil {
		ok(c, http.StatusCreated, entry)
		return
	}

	var rejected *services.IngredientRejectedError
	switch {
	case errors.Is(err, services.ErrIngredientNameEmpty),
		errors.Is(err, services.ErrIngredientNameTooLong):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrIngredientExists):
		fail(c, http.StatusConflict, ErrCodeConflict, "ingredient already in the catalog")
	case errors.As(err, &rejected):
		failWith(c, http.StatusUnprocessableEntity, ErrorResponse{
			Code:        ErrCodeInvalidIngredient,
			Message:     rejected.Error(),
			Suggestions: rejected.Suggestions,
		})
	case errors.Is(err, services.ErrUpstream):
		fail(c, http.StatusBadGateway, ErrCodeUpstreamFailed, "ingredient validation is temporarily unavailable")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}
