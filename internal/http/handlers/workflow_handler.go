// Workflow HTTP handlers.
//
// This file exposes the recipe-creation wizard as a per-user REST resource:
//   - GET    /workflow                    (current state)
//   - DELETE /workflow                    (abandon, cancelling in-flight calls)
//   - POST   /workflow/ingredients        (add ingredient)
//   - DELETE /workflow/ingredients/{id}   (remove ingredient)
//   - POST   /workflow/preferences        (toggle dietary preference)
//   - POST   /workflow/advance            (one step forward)
//   - POST   /workflow/back               (one step backward)
//   - POST   /workflow/generate           (generation transition)
//   - POST   /workflow/selection          (toggle/select-all/clear candidates)
//   - POST   /workflow/save               (persist selection, reset on success)
//
// Every successful mutation returns the resulting wizard snapshot, so clients
// never have to derive state transitions locally. Guard violations return the
// error envelope with a stable code; clients re-fetch GET /workflow for the
// unchanged state.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-recipe-backend/internal/services"
	"github.com/tbourn/go-recipe-backend/internal/workflow"
)

// WorkflowService defines wizard operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type WorkflowService interface {
	Snapshot(ctx context.Context, userID string) (workflow.Snapshot, error)
	AddIngredient(ctx context.Context, userID, name string, quantity *float64) (workflow.Snapshot, error)
	RemoveIngredient(ctx context.Context, userID, id string) (workflow.Snapshot, error)
	TogglePreference(ctx context.Context, userID, preference string) (workflow.Snapshot, error)
	Advance(ctx context.Context, userID string) (workflow.Snapshot, error)
	Back(ctx context.Context, userID string) (workflow.Snapshot, error)
	GenerateBatch(ctx context.Context, userID string) (workflow.Snapshot, error)
	ToggleSelect(ctx context.Context, userID, promptID string) (workflow.Snapshot, error)
	SelectAll(ctx context.Context, userID string) (workflow.Snapshot, error)
	SelectNone(ctx context.Context, userID string) (workflow.Snapshot, error)
	SaveSelected(ctx context.Context, userID string) (workflow.Snapshot, error)
	Abandon(userID string)
}

//
// DTOs
//

// AddWorkflowIngredientRequest is the JSON payload for adding an ingredient
// to the wizard's working set.
type AddWorkflowIngredientRequest struct {
	// Name of the ingredient from the catalog.
	Name string `json:"name" binding:"required,min=1" example:"tomato"`
	// Quantity is optional and unitless.
	Quantity *float64 `json:"quantity,omitempty" example:"2"`
}

// TogglePreferenceRequest is the JSON payload for flipping a dietary
// preference.
type TogglePreferenceRequest struct {
	Preference string `json:"preference" binding:"required" example:"Vegan"`
}

// SelectionRequest mutates the candidate selection set. Exactly one of the
// fields must be set.
type SelectionRequest struct {
	// PromptID toggles one candidate by its tagged id ("<batch>-<i>").
	PromptID string `json:"prompt_id,omitempty" example:"chatcmpl-abc123-0"`
	// All selects every candidate.
	All bool `json:"all,omitempty"`
	// Clear empties the selection.
	Clear bool `json:"clear,omitempty"`
}

//
// Helpers
//

// writeWorkflowResult renders a wizard operation outcome: the snapshot on
// success, or the mapped guard error. Guard violations are client errors;
// only unknown failures surface as 500s.
func writeWorkflowResult(c *gin.Context, snap workflow.Snapshot, err error) {
	if err == nil {
		ok(c, http.StatusOK, snap)
		return
	}

	switch {
	case errors.Is(err, workflow.ErrLimitReached):
		fail(c, http.StatusForbidden, ErrCodeLimitReached, "generation limit reached")
	case errors.Is(err, workflow.ErrNotEnoughIngredients),
		errors.Is(err, workflow.ErrUnknownPreference),
		errors.Is(err, workflow.ErrEmptySelection):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, workflow.ErrWrongStep),
		errors.Is(err, workflow.ErrBatchExists),
		errors.Is(err, workflow.ErrDuplicateIngredient),
		errors.Is(err, workflow.ErrBusy),
		errors.Is(err, workflow.ErrAbandoned):
		fail(c, http.StatusConflict, ErrCodeConflict, err.Error())
	case errors.Is(err, services.ErrUpstream):
		fail(c, http.StatusBadGateway, ErrCodeUpstreamFailed, "recipe generation is temporarily unavailable")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

//
// Handlers
//

// GetWorkflow godoc
// @ID          getWorkflow
// @Summary     Current wizard state
// @Description Returns the current user's wizard snapshot, creating a fresh wizard at the first step when none exists.
// @Tags        Workflow
// @Produce     json
//
// @Success     200  {object} workflow.Snapshot
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /workflow [get]
func (h *Handlers) GetWorkflow(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	snap, err := h.workflowSvc.Snapshot(c.Request.Context(), uid)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, snap)
}

// AbandonWorkflow godoc
// @ID          abandonWorkflow
// @Summary     Abandon the wizard
// @Description Discards the current user's wizard. In-flight generation calls are cancelled, not orphaned.
// @Tags        Workflow
// @Produce     json
//
// @Success     204  {string} string "No Content"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Router      /workflow [delete]
func (h *Handlers) AbandonWorkflow(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	h.workflowSvc.Abandon(uid)
	noContent(c)
}

// AddWorkflowIngredient godoc
// @ID          addWorkflowIngredient
// @Summary     Add an ingredient to the wizard
// @Tags        Workflow
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.AddWorkflowIngredientRequest  true "Ingredient"
//
// @Success     200  {object} workflow.Snapshot
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     403  {object} handlers.ErrorResponse "Generation limit reached"
// @Failure     409  {object} handlers.ErrorResponse "Duplicate or inputs locked"
// @Router      /workflow/ingredients [post]
func (h *Handlers) AddWorkflowIngredient(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	var req AddWorkflowIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name required")
		return
	}
	snap, err := h.workflowSvc.AddIngredient(c.Request.Context(), uid, req.Name, req.Quantity)
	writeWorkflowResult(c, snap, err)
}

// RemoveWorkflowIngredient godoc
// @ID          removeWorkflowIngredient
// @Summary     Remove an ingredient from the wizard
// @Description Removes a working-set ingredient by id. Removing an unknown id is a no-op.
// @Tags        Workflow
// @Produce     json
//
// @Param       id  path  string  true "Working-set ingredient ID"
//
// @Success     200  {object} workflow.Snapshot
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     409  {object} handlers.ErrorResponse "Inputs locked"
// @Router      /workflow/ingredients/{id} [delete]
func (h *Handlers) RemoveWorkflowIngredient(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	snap, err := h.workflowSvc.RemoveIngredient(c.Request.Context(), uid, c.Param("id"))
	writeWorkflowResult(c, snap, err)
}

// ToggleWorkflowPreference godoc
// @ID          toggleWorkflowPreference
// @Summary     Toggle a dietary preference
// @Tags        Workflow
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.TogglePreferenceRequest  true "Preference"
//
// @Success     200  {object} workflow.Snapshot
// @Failure     400  {object} handlers.ErrorResponse "Unknown preference"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     409  {object} handlers.ErrorResponse "Inputs locked"
// @Router      /workflow/preferences [post]
func (h *Handlers) ToggleWorkflowPreference(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	var req TogglePreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "preference required")
		return
	}
	snap, err := h.workflowSvc.TogglePreference(c.Request.Context(), uid, req.Preference)
	writeWorkflowResult(c, snap, err)
}

// AdvanceWorkflow godoc
// @ID          advanceWorkflow
// @Summary     Move the wizard one step forward
// @Tags        Workflow
// @Produce     json
//
// @Success     200  {object} workflow.Snapshot
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     409  {object} handlers.ErrorResponse "Transition not allowed at this step"
// @Router      /workflow/advance [post]
func (h *Handlers) AdvanceWorkflow(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	snap, err := h.workflowSvc.Advance(c.Request.Context(), uid)
	writeWorkflowResult(c, snap, err)
}

// BackWorkflow godoc
// @ID          backWorkflow
// @Summary     Move the wizard one step backward
// @Description Steps backward. Reaching the first step discards any candidate batch; collected inputs survive.
// @Tags        Workflow
// @Produce     json
//
// @Success     200  {object} workflow.Snapshot
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     409  {object} handlers.ErrorResponse "Already at the first step"
// @Router      /workflow/back [post]
func (h *Handlers) BackWorkflow(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	snap, err := h.workflowSvc.Back(c.Request.Context(), uid)
	writeWorkflowResult(c, snap, err)
}

// GenerateWorkflow godoc
// @ID          generateWorkflow
// @Summary     Generate candidate recipes
// @Description Performs the single side-effecting generation call for the collected inputs. Requires at least 3 distinct ingredients and the review step.
// @Tags        Workflow
// @Produce     json
//
// @Success     200  {object} workflow.Snapshot
// @Failure     400  {object} handlers.ErrorResponse "Not enough ingredients"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     403  {object} handlers.ErrorResponse "Generation limit reached"
// @Failure     409  {object} handlers.ErrorResponse "Wrong step, busy, or batch already exists"
// @Failure     502  {object} handlers.ErrorResponse "Generation service failed"
// @Router      /workflow/generate [post]
func (h *Handlers) GenerateWorkflow(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	snap, err := h.workflowSvc.GenerateBatch(c.Request.Context(), uid)
	writeWorkflowResult(c, snap, err)
}

// SelectWorkflowCandidates godoc
// @ID          selectWorkflowCandidates
// @Summary     Mutate the candidate selection
// @Description Toggles one candidate by prompt id, selects all, or clears the selection.
// @Tags        Workflow
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.SelectionRequest  true "Selection mutation"
//
// @Success     200  {object} workflow.Snapshot
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     409  {object} handlers.ErrorResponse "Unknown candidate or wrong step"
// @Router      /workflow/selection [post]
func (h *Handlers) SelectWorkflowCandidates(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	var req SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	ctx := c.Request.Context()
	switch {
	case req.PromptID != "":
		snap, err := h.workflowSvc.ToggleSelect(ctx, uid, req.PromptID)
		writeWorkflowResult(c, snap, err)
	case req.All:
		snap, err := h.workflowSvc.SelectAll(ctx, uid)
		writeWorkflowResult(c, snap, err)
	case req.Clear:
		snap, err := h.workflowSvc.SelectNone(ctx, uid)
		writeWorkflowResult(c, snap, err)
	default:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "one of prompt_id, all, clear required")
	}
}

// SaveWorkflow godoc
// @ID          saveWorkflow
// @Summary     Save the selected recipes
// @Description Persists the selected candidates as recipes owned by the current user and resets the wizard. The wizard state survives a failed save so it can be retried.
// @Tags        Workflow
// @Produce     json
//
// @Success     200  {object} workflow.Snapshot
// @Failure     400  {object} handlers.ErrorResponse "Empty selection"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     409  {object} handlers.ErrorResponse "Wrong step"
// @Failure     500  {object} handlers.ErrorResponse "Persistence failed"
// @Router      /workflow/save [post]
func (h *Handlers) SaveWorkflow(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	snap, err := h.workflowSvc.SaveSelected(c.Request.Context(), uid)
	writeWorkflowResult(c, snap, err)
}
