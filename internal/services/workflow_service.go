// Package services – WorkflowService
//
// This file implements the WorkflowService, the seam between HTTP handlers
// and the per-user recipe wizard. It owns the workflow manager, implements
// the wizard's Generator contract by composing the external text generation
// call with the concurrent image fan-out, and charges the per-user
// generation counter that feeds the limit gate.
package services

import (
	"context"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-recipe-backend/internal/observability"
	"github.com/tbourn/go-recipe-backend/internal/platform/openai"
	"github.com/tbourn/go-recipe-backend/internal/workflow"
)

// GenerationClient is the external service contract required for producing
// candidate batches. *openai.Client satisfies it.
type GenerationClient interface {
	Generate(ctx context.Context, ingredients, preferences []string, userID string) ([]openai.GeneratedRecipe, string, error)
	GenerateImages(ctx context.Context, recipes []openai.GeneratedRecipe, userID string) ([]openai.GeneratedImage, error)
}

// UsageRepo defines the persistence contract for per-user generation
// counters.
type UsageRepo interface {
	GenerationCount(ctx context.Context, db *gorm.DB, userID string) (int, error)
	IncrementGenerationCount(ctx context.Context, db *gorm.DB, userID string) error
}

// WorkflowService exposes the wizard to the HTTP layer, one live instance
// per user.
type WorkflowService struct {
	// DB is the GORM handle used for usage counters.
	DB *gorm.DB
	// AI is the external generation client.
	AI GenerationClient
	// Usage is the generation-counter repository.
	Usage UsageRepo

	mgr *workflow.Manager
}

// NewWorkflowService wires a WorkflowService. Saved batches are persisted
// through saver (normally the RecipeService); maxGenerations caps generation
// calls per user, 0 disables the cap. normalize is the canonical-form mapper
// shared with the ingredient catalog.
func NewWorkflowService(db *gorm.DB, ai GenerationClient, usage UsageRepo, saver workflow.Saver, normalize workflow.Normalizer, maxGenerations int) *WorkflowService {
	s := &WorkflowService{DB: db, AI: ai, Usage: usage}
	cfg := workflow.Config{
		Generator: s,
		Saver:     saver,
		Normalize: normalize,
	}
	s.mgr = workflow.NewManager(cfg, s, maxGenerations)
	return s
}

// GenerationCount satisfies the manager's usage-source contract.
func (s *WorkflowService) GenerationCount(ctx context.Context, userID string) (int, error) {
	return s.Usage.GenerationCount(ctx, s.DB, userID)
}

// Generate satisfies the wizard's Generator contract: it requests candidate
// text, fans out one image call per candidate, joins them by name, and
// charges the user's generation counter. The counter is charged for every
// attempt that reaches the external service, successful or not, so retries
// spend the same budget.
func (s *WorkflowService) Generate(ctx context.Context, ingredients []workflow.Ingredient, preferences []string, userID string) (candidates []workflow.Candidate, batchID string, err error) {
	tr := otel.Tracer("services/WorkflowService")
	ctx, span := tr.Start(ctx, "Generate",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int("ingredient.count", len(ingredients)),
		),
	)
	defer span.End()
	defer func() { observability.ObserveGeneration(err) }()

	if err := s.Usage.IncrementGenerationCount(ctx, s.DB, userID); err != nil {
		return nil, "", err
	}

	names := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		names = append(names, describeIngredient(ing))
	}

	recipes, batchID, err := s.AI.Generate(ctx, names, preferences, userID)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	images, err := s.AI.GenerateImages(ctx, recipes, userID)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	imgByName := make(map[string]string, len(images))
	for _, img := range images {
		imgByName[img.Name] = img.ImgLink
	}

	candidates = make([]workflow.Candidate, 0, len(recipes))
	for _, r := range recipes {
		candidates = append(candidates, workflow.Candidate{
			Name:               r.Name,
			Ingredients:        r.Ingredients,
			Instructions:       r.Instructions,
			DietaryPreferences: r.DietaryPreferences,
			Additional:         r.Additional,
			ImgLink:            imgByName[r.Name],
		})
	}
	return candidates, batchID, nil
}

// Snapshot returns the current wizard state for userID, creating a fresh
// wizard at the first step when none exists.
func (s *WorkflowService) Snapshot(ctx context.Context, userID string) (workflow.Snapshot, error) {
	tr := otel.Tracer("services/WorkflowService")
	ctx, span := tr.Start(ctx, "Snapshot",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	w, err := s.mgr.Get(ctx, userID)
	if err != nil {
		return workflow.Snapshot{}, err
	}
	return w.Snapshot(), nil
}

// AddIngredient adds an ingredient to the wizard's working set.
func (s *WorkflowService) AddIngredient(ctx context.Context, userID, name string, quantity *float64) (workflow.Snapshot, error) {
	return s.mutate(ctx, userID, "AddIngredient", func(w *workflow.Workflow) error {
		_, err := w.AddIngredient(name, quantity)
		return err
	})
}

// RemoveIngredient removes an ingredient from the working set by id.
func (s *WorkflowService) RemoveIngredient(ctx context.Context, userID, id string) (workflow.Snapshot, error) {
	return s.mutate(ctx, userID, "RemoveIngredient", func(w *workflow.Workflow) error {
		return w.RemoveIngredient(id)
	})
}

// TogglePreference flips a dietary preference in the wizard's selection set.
func (s *WorkflowService) TogglePreference(ctx context.Context, userID, preference string) (workflow.Snapshot, error) {
	return s.mutate(ctx, userID, "TogglePreference", func(w *workflow.Workflow) error {
		return w.TogglePreference(preference)
	})
}

// Advance moves the wizard one step forward.
func (s *WorkflowService) Advance(ctx context.Context, userID string) (workflow.Snapshot, error) {
	return s.mutate(ctx, userID, "Advance", (*workflow.Workflow).Advance)
}

// Back moves the wizard one step backward.
func (s *WorkflowService) Back(ctx context.Context, userID string) (workflow.Snapshot, error) {
	return s.mutate(ctx, userID, "Back", (*workflow.Workflow).Back)
}

// GenerateBatch performs the wizard's generation transition.
func (s *WorkflowService) GenerateBatch(ctx context.Context, userID string) (workflow.Snapshot, error) {
	return s.mutate(ctx, userID, "GenerateBatch", func(w *workflow.Workflow) error {
		return w.Generate(ctx)
	})
}

// ToggleSelect flips one candidate's membership in the selection set.
func (s *WorkflowService) ToggleSelect(ctx context.Context, userID, promptID string) (workflow.Snapshot, error) {
	return s.mutate(ctx, userID, "ToggleSelect", func(w *workflow.Workflow) error {
		return w.ToggleSelect(promptID)
	})
}

// SelectAll puts every candidate into the selection set; SelectNone clears
// it.
func (s *WorkflowService) SelectAll(ctx context.Context, userID string) (workflow.Snapshot, error) {
	return s.mutate(ctx, userID, "SelectAll", func(w *workflow.Workflow) error {
		w.SelectAll()
		return nil
	})
}

// SelectNone clears the selection set.
func (s *WorkflowService) SelectNone(ctx context.Context, userID string) (workflow.Snapshot, error) {
	return s.mutate(ctx, userID, "SelectNone", func(w *workflow.Workflow) error {
		w.SelectNone()
		return nil
	})
}

// SaveSelected persists the selected candidates and, on success, resets the
// wizard to the first step.
func (s *WorkflowService) SaveSelected(ctx context.Context, userID string) (workflow.Snapshot, error) {
	return s.mutate(ctx, userID, "SaveSelected", func(w *workflow.Workflow) error {
		return w.SaveSelected(ctx)
	})
}

// Abandon discards the user's wizard entirely. In-flight external calls
// observe the cancellation.
func (s *WorkflowService) Abandon(userID string) {
	s.mgr.Abandon(userID)
}

// mutate applies op to the user's wizard and returns the resulting snapshot.
// The snapshot is returned even when op fails, so callers can still observe
// the unchanged state. Every mutation is traced under its operation name.
func (s *WorkflowService) mutate(ctx context.Context, userID, name string, op func(*workflow.Workflow) error) (workflow.Snapshot, error) {
	tr := otel.Tracer("services/WorkflowService")
	ctx, span := tr.Start(ctx, name,
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	w, err := s.mgr.Get(ctx, userID)
	if err != nil {
		return workflow.Snapshot{}, err
	}
	opErr := op(w)
	return w.Snapshot(), opErr
}

// describeIngredient renders one working-set ingredient for the generation
// prompt.
func describeIngredient(ing workflow.Ingredient) string {
	if ing.Quantity == nil {
		return ing.Name
	}
	return ing.Name + " x" + strconv.FormatFloat(*ing.Quantity, 'f', -1, 64)
}
