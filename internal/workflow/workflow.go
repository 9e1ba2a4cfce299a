// Package workflow implements the recipe-creation wizard: a bounded, linear
// state machine that walks one user from ingredient collection to persisted
// recipes. The package owns all wizard state and its transition guards; the
// external generation and persistence calls it drives are injected behind
// narrow interfaces so the machine itself stays deterministic and testable.
//
// States (ordered, with bounded back/forward navigation):
//
//	CollectIngredients(0) → CollectPreferences(1) → ReviewInputs(2) →
//	SelectGenerated(3) → ReviewSelected(4)
//
// Guards:
//   - 2→3 requires at least MinIngredients distinct ingredients and performs
//     the single side-effecting generation call; on failure the machine stays
//     at 2 and keeps no partial batch.
//   - The terminal save from 4 requires a non-empty selection; state is reset
//     only on confirmed success, so a retry never re-enters earlier steps.
//   - While a candidate batch exists, ingredient/preference mutation is
//     rejected (not hidden); discarding requires navigating fully back to 0.
//   - At most one side-effecting call is outstanding per workflow at a time.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/tbourn/go-recipe-backend/internal/domain"
)

// Step identifies one wizard state.
type Step int

const (
	StepCollectIngredients Step = iota
	StepCollectPreferences
	StepReviewInputs
	StepSelectGenerated
	StepReviewSelected
)

// String returns the wire name of the step.
func (s Step) String() string {
	switch s {
	case StepCollectIngredients:
		return "collect_ingredients"
	case StepCollectPreferences:
		return "collect_preferences"
	case StepReviewInputs:
		return "review_inputs"
	case StepSelectGenerated:
		return "select_generated"
	case StepReviewSelected:
		return "review_selected"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// KnownPreferences is the closed set of dietary preferences a wizard accepts.
// Selection is a set: no duplicates, insertion order kept for display.
var KnownPreferences = []string{"Vegetarian", "Vegan", "Gluten-Free", "Keto", "Paleo"}

// IsKnownPreference reports whether p belongs to the closed preference set.
func IsKnownPreference(p string) bool {
	for _, k := range KnownPreferences {
		if k == p {
			return true
		}
	}
	return false
}

// Ingredient is a wizard-local ingredient picked by the user. Quantity is
// optional; ID is generated when the ingredient enters the set.
type Ingredient struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Quantity *float64 `json:"quantity,omitempty"`
}

// Candidate is one AI-generated recipe inside a batch. It is ephemeral: it
// exists only between generation and save/discard and is never partially
// persisted. PromptID carries the batch id plus a within-batch index
// ("<batch>-<i>"); the index is stripped again at save time.
type Candidate struct {
	Name               string                       `json:"name"`
	Ingredients        []domain.RecipeIngredient    `json:"ingredients"`
	Instructions       []string                     `json:"instructions"`
	DietaryPreferences []string                     `json:"dietary_preferences"`
	Additional         domain.AdditionalInformation `json:"additional_information"`
	ImgLink            string                       `json:"img_link"`
	PromptID           string                       `json:"prompt_id"`
}

// Generator produces a candidate batch for the collected inputs. It returns
// the untagged candidates and the opaque batch identifier correlating this
// generation to the later save.
type Generator interface {
	Generate(ctx context.Context, ingredients []Ingredient, preferences []string, userID string) ([]Candidate, string, error)
}

// Saver persists the selected candidates. Implementations receive candidates
// whose PromptID has already been rewritten to the bare batch id.
type Saver interface {
	SaveBatch(ctx context.Context, userID string, selected []Candidate) error
}

// Sentinel errors returned by transition guards.
var (
	ErrBusy                 = errors.New("another workflow call is in flight")
	ErrWrongStep            = errors.New("action not available at this step")
	ErrNotEnoughIngredients = errors.New("at least 3 distinct ingredients required")
	ErrBatchExists          = errors.New("inputs are locked while generated recipes exist")
	ErrDuplicateIngredient  = errors.New("ingredient already in the set")
	ErrUnknownPreference    = errors.New("unknown dietary preference")
	ErrEmptySelection       = errors.New("no recipes selected")
	ErrLimitReached         = errors.New("generation limit reached")
	ErrAbandoned            = errors.New("workflow abandoned")
)

// Normalizer maps an ingredient name to the canonical form used for
// distinctness checks (lowercase, singular-collapsed in production).
type Normalizer func(string) string

// Config carries the collaborators and tunables of one wizard instance.
type Config struct {
	Generator Generator
	Saver     Saver

	// Normalize is used for ingredient distinctness. Defaults to a trimmed
	// lowercase comparison when nil.
	Normalize Normalizer

	// MinIngredients gates the 2→3 transition. Defaults to 3.
	MinIngredients int
}

// Workflow is one user's wizard instance. All methods are safe for
// concurrent use; side-effecting calls additionally enforce the
// single-outstanding-call rule via the busy flag.
type Workflow struct {
	mu sync.Mutex

	userID string
	cfg    Config

	// lifetime context: cancelled when the workflow is abandoned so
	// in-flight generation/persistence calls are deterministically discarded.
	ctx    context.Context
	cancel context.CancelFunc

	step        Step
	ingredients []Ingredient
	preferences []string

	batchID    string
	candidates []Candidate
	selection  map[string]struct{}

	busy         bool
	limitReached bool
}

// New constructs a wizard at step 0 for userID.
func New(userID string, cfg Config) *Workflow {
	if cfg.Normalize == nil {
		cfg.Normalize = func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	}
	if cfg.MinIngredients <= 0 {
		cfg.MinIngredients = 3
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Workflow{
		userID:    userID,
		cfg:       cfg,
		ctx:       ctx,
		cancel:    cancel,
		selection: make(map[string]struct{}),
	}
}

// MarkLimitReached switches the wizard into the terminal limit view. No
// further actions besides navigating away are possible.
func (w *Workflow) MarkLimitReached() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.limitReached = true
}

// Abandon cancels the lifetime context and discards all wizard state. Any
// in-flight external call observes the cancellation instead of being
// garbage-collected silently.
func (w *Workflow) Abandon() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cancel()
	w.resetLocked()
}

// Snapshot is the read model handlers serve to clients.
type Snapshot struct {
	Step         Step         `json:"step"`
	StepName     string       `json:"step_name"`
	Ingredients  []Ingredient `json:"ingredients"`
	Preferences  []string     `json:"preferences"`
	Candidates   []Candidate  `json:"candidates"`
	Selection    []string     `json:"selection"`
	BatchID      string       `json:"batch_id,omitempty"`
	Busy         bool         `json:"busy"`
	InputsLocked bool         `json:"inputs_locked"`
	LimitReached bool         `json:"limit_reached"`
}

// Snapshot returns a copy of the current wizard state.
func (w *Workflow) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	sel := make([]string, 0, len(w.selection))
	for _, c := range w.candidates { // batch order, not map order
		if _, ok := w.selection[c.PromptID]; ok {
			sel = append(sel, c.PromptID)
		}
	}
	return Snapshot{
		Step:         w.step,
		StepName:     w.step.String(),
		Ingredients:  append([]Ingredient(nil), w.ingredients...),
		Preferences:  append([]string(nil), w.preferences...),
		Candidates:   append([]Candidate(nil), w.candidates...),
		Selection:    sel,
		BatchID:      w.batchID,
		Busy:         w.busy,
		InputsLocked: len(w.candidates) > 0,
		LimitReached: w.limitReached,
	}
}

// AddIngredient adds a distinct ingredient to the set and returns it with a
// generated id. Distinctness is judged on the canonical form.
func (w *Workflow) AddIngredient(name string, quantity *float64) (Ingredient, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.limitReached {
		return Ingredient{}, ErrLimitReached
	}
	if len(w.candidates) > 0 {
		return Ingredient{}, ErrBatchExists
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Ingredient{}, errors.New("ingredient name is empty")
	}
	canon := w.cfg.Normalize(name)
	for _, ing := range w.ingredients {
		if w.cfg.Normalize(ing.Name) == canon {
			return Ingredient{}, ErrDuplicateIngredient
		}
	}
	ing := Ingredient{ID: uuid.NewString(), Name: name, Quantity: quantity}
	w.ingredients = append(w.ingredients, ing)
	return ing, nil
}

// RemoveIngredient drops the ingredient with the given id. Removing an
// unknown id is a no-op.
func (w *Workflow) RemoveIngredient(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.limitReached {
		return ErrLimitReached
	}
	if len(w.candidates) > 0 {
		return ErrBatchExists
	}
	for i, ing := range w.ingredients {
		if ing.ID == id {
			w.ingredients = append(w.ingredients[:i], w.ingredients[i+1:]...)
			return nil
		}
	}
	return nil
}

// TogglePreference flips membership of p in the preference set. Insertion
// order is kept for display; duplicates never accumulate.
func (w *Workflow) TogglePreference(p string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.limitReached {
		return ErrLimitReached
	}
	if len(w.candidates) > 0 {
		return ErrBatchExists
	}
	if !IsKnownPreference(p) {
		return ErrUnknownPreference
	}
	for i, have := range w.preferences {
		if have == p {
			w.preferences = append(w.preferences[:i], w.preferences[i+1:]...)
			return nil
		}
	}
	w.preferences = append(w.preferences, p)
	return nil
}

// Advance moves the wizard one step forward. The 2→3 transition is owned by
// Generate when no batch exists yet; once a batch exists, re-entering step 3
// is unconditional. 3→4 is always unconditional.
func (w *Workflow) Advance() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.limitReached {
		return ErrLimitReached
	}
	switch w.step {
	case StepCollectIngredients, StepCollectPreferences:
		w.step++
		return nil
	case StepReviewInputs:
		if len(w.candidates) == 0 {
			// The forward transition out of review is the generation call.
			return ErrWrongStep
		}
		w.step = StepSelectGenerated
		return nil
	case StepSelectGenerated:
		w.step = StepReviewSelected
		return nil
	default:
		return ErrWrongStep
	}
}

// Back moves the wizard one step backward. Navigation is always allowed;
// mutation stays locked while a batch exists. Arriving back at step 0 with a
// batch present is the explicit discard: batch and selection are dropped.
func (w *Workflow) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.limitReached {
		return ErrLimitReached
	}
	if w.step == StepCollectIngredients {
		return ErrWrongStep
	}
	w.step--
	if w.step == StepCollectIngredients && len(w.candidates) > 0 {
		w.discardBatchLocked()
	}
	return nil
}

// Generate performs the guarded 2→3 transition: it validates the ingredient
// count, dispatches the single side-effecting generation call, tags the
// returned batch, and advances. On any failure the wizard remains at step 2
// with no partial batch; retrying is a user-initiated re-invocation.
func (w *Workflow) Generate(ctx context.Context) error {
	w.mu.Lock()
	if w.limitReached {
		w.mu.Unlock()
		return ErrLimitReached
	}
	if w.step != StepReviewInputs {
		w.mu.Unlock()
		return ErrWrongStep
	}
	if len(w.candidates) > 0 {
		w.mu.Unlock()
		return ErrBatchExists
	}
	if w.distinctIngredientsLocked() < w.cfg.MinIngredients {
		w.mu.Unlock()
		return ErrNotEnoughIngredients
	}
	if w.busy {
		w.mu.Unlock()
		return ErrBusy
	}
	w.busy = true
	ingredients := append([]Ingredient(nil), w.ingredients...)
	preferences := append([]string(nil), w.preferences...)
	callCtx, stop := w.deriveCallContext(ctx)
	w.mu.Unlock()

	candidates, batchID, err := w.cfg.Generator.Generate(callCtx, ingredients, preferences, w.userID)
	stop()

	w.mu.Lock()
	defer w.mu.Unlock()
	w.busy = false
	if w.ctx.Err() != nil {
		return ErrAbandoned
	}
	if err != nil {
		return err
	}

	// Tag each candidate with a per-item identifier derived from the batch id.
	for i := range candidates {
		candidates[i].PromptID = fmt.Sprintf("%s-%d", batchID, i)
	}
	w.batchID = batchID
	w.candidates = candidates
	w.selection = make(map[string]struct{})
	w.step = StepSelectGenerated
	return nil
}

// ToggleSelect flips membership of the candidate id in the selection set.
// Unknown ids are rejected; toggling is idempotent per id.
func (w *Workflow) ToggleSelect(promptID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.limitReached {
		return ErrLimitReached
	}
	if !w.hasCandidateLocked(promptID) {
		return fmt.Errorf("unknown candidate %q", promptID)
	}
	if _, ok := w.selection[promptID]; ok {
		delete(w.selection, promptID)
	} else {
		w.selection[promptID] = struct{}{}
	}
	return nil
}

// SelectAll sets the selection to the full candidate id list.
func (w *Workflow) SelectAll() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.selection = make(map[string]struct{}, len(w.candidates))
	for _, c := range w.candidates {
		w.selection[c.PromptID] = struct{}{}
	}
}

// SelectNone clears the selection.
func (w *Workflow) SelectNone() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.selection = make(map[string]struct{})
}

// SaveSelected performs the terminal action from step 4: it persists the
// selected subset with each candidate's PromptID rewritten to the bare batch
// id, then resets the wizard to step 0. On failure all state including the
// selection survives so the user can retry.
func (w *Workflow) SaveSelected(ctx context.Context) error {
	w.mu.Lock()
	if w.limitReached {
		w.mu.Unlock()
		return ErrLimitReached
	}
	if w.step != StepReviewSelected {
		w.mu.Unlock()
		return ErrWrongStep
	}
	if len(w.selection) == 0 {
		w.mu.Unlock()
		return ErrEmptySelection
	}
	if w.busy {
		w.mu.Unlock()
		return ErrBusy
	}
	w.busy = true

	selected := make([]Candidate, 0, len(w.selection))
	for _, c := range w.candidates { // batch order
		if _, ok := w.selection[c.PromptID]; !ok {
			continue
		}
		c.PromptID = w.batchID // strip the within-batch index
		selected = append(selected, c)
	}
	callCtx, stop := w.deriveCallContext(ctx)
	w.mu.Unlock()

	err := w.cfg.Saver.SaveBatch(callCtx, w.userID, selected)
	stop()

	w.mu.Lock()
	defer w.mu.Unlock()
	w.busy = false
	if w.ctx.Err() != nil {
		return ErrAbandoned
	}
	if err != nil {
		return err
	}
	w.resetLocked()
	return nil
}

// --- internals (callers hold w.mu unless noted) ---

// deriveCallContext couples the request context with the workflow lifetime so
// abandoning the wizard cancels outstanding external calls.
func (w *Workflow) deriveCallContext(req context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(req)
	stopWatch := context.AfterFunc(w.ctx, cancel)
	return ctx, func() { stopWatch(); cancel() }
}

func (w *Workflow) distinctIngredientsLocked() int {
	seen := make(map[string]struct{}, len(w.ingredients))
	for _, ing := range w.ingredients {
		seen[w.cfg.Normalize(ing.Name)] = struct{}{}
	}
	return len(seen)
}

func (w *Workflow) hasCandidateLocked(promptID string) bool {
	for _, c := range w.candidates {
		if c.PromptID == promptID {
			return true
		}
	}
	return false
}

func (w *Workflow) discardBatchLocked() {
	w.batchID = ""
	w.candidates = nil
	w.selection = make(map[string]struct{})
}

func (w *Workflow) resetLocked() {
	w.step = StepCollectIngredients
	w.ingredients = nil
	w.preferences = nil
	w.discardBatchLocked()
}
