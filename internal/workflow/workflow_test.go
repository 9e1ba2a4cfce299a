package workflow

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// ----- Fakes -----

type fakeGenerator struct {
	calls       int
	gotIngreds  []Ingredient
	gotPrefs    []string
	gotUserID   string
	candidates  []Candidate
	batchID     string
	err         error
	blockOnCtx  bool       // when true, Generate blocks until ctx is done
	entered     chan struct{} // closed once Generate is running (blockOnCtx mode)
	ctxObserved error
}

func (g *fakeGenerator) Generate(ctx context.Context, ingredients []Ingredient, prefs []string, userID string) ([]Candidate, string, error) {
	g.calls++
	g.gotIngreds = ingredients
	g.gotPrefs = prefs
	g.gotUserID = userID
	if g.blockOnCtx {
		if g.entered != nil {
			close(g.entered)
		}
		<-ctx.Done()
		g.ctxObserved = ctx.Err()
		return nil, "", ctx.Err()
	}
	return g.candidates, g.batchID, g.err
}

type fakeSaver struct {
	calls    int
	gotUser  string
	gotBatch []Candidate
	err      error
}

func (s *fakeSaver) SaveBatch(ctx context.Context, userID string, selected []Candidate) error {
	s.calls++
	s.gotUser = userID
	s.gotBatch = selected
	return s.err
}

func threeCandidates() []Candidate {
	return []Candidate{
		{Name: "Frittata"},
		{Name: "Pancakes"},
		{Name: "Custard"},
	}
}

func newTestWorkflow(gen Generator, saver Saver) *Workflow {
	return New("u1", Config{Generator: gen, Saver: saver})
}

func addIngredients(t *testing.T, w *Workflow, names ...string) {
	t.Helper()
	for _, n := range names {
		if _, err := w.AddIngredient(n, nil); err != nil {
			t.Fatalf("AddIngredient(%q): %v", n, err)
		}
	}
}

func advanceTo(t *testing.T, w *Workflow, step Step) {
	t.Helper()
	for w.Snapshot().Step < step {
		if err := w.Advance(); err != nil {
			t.Fatalf("Advance to %v from %v: %v", step, w.Snapshot().Step, err)
		}
	}
}

// ----- Tests -----

func TestStepNames(t *testing.T) {
	want := map[Step]string{
		StepCollectIngredients: "collect_ingredients",
		StepCollectPreferences: "collect_preferences",
		StepReviewInputs:       "review_inputs",
		StepSelectGenerated:    "select_generated",
		StepReviewSelected:     "review_selected",
	}
	for s, name := range want {
		if s.String() != name {
			t.Errorf("Step(%d).String() = %q; want %q", s, s.String(), name)
		}
	}
}

func TestAddIngredient_DuplicateByCanonicalForm(t *testing.T) {
	w := New("u1", Config{
		Generator: &fakeGenerator{},
		Saver:     &fakeSaver{},
		Normalize: func(s string) string {
			// lowercase + naive singular collapse for the test
			return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s")
		},
	})
	addIngredients(t, w, "Egg")
	if _, err := w.AddIngredient("eggs", nil); !errors.Is(err, ErrDuplicateIngredient) {
		t.Fatalf("expected ErrDuplicateIngredient for plural of existing entry, got %v", err)
	}
	if got := len(w.Snapshot().Ingredients); got != 1 {
		t.Fatalf("ingredient set grew on rejected add: %d", got)
	}
}

func TestTogglePreference_SetSemanticsAndClosedSet(t *testing.T) {
	w := newTestWorkflow(&fakeGenerator{}, &fakeSaver{})

	if err := w.TogglePreference("Carnivore"); !errors.Is(err, ErrUnknownPreference) {
		t.Fatalf("expected ErrUnknownPreference, got %v", err)
	}
	for _, p := range []string{"Vegan", "Keto"} {
		if err := w.TogglePreference(p); err != nil {
			t.Fatalf("TogglePreference(%q): %v", p, err)
		}
	}
	got := w.Snapshot().Preferences
	if len(got) != 2 || got[0] != "Vegan" || got[1] != "Keto" {
		t.Fatalf("insertion order not kept: %v", got)
	}
	// Toggle off removes, never duplicates.
	if err := w.TogglePreference("Vegan"); err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	got = w.Snapshot().Preferences
	if len(got) != 1 || got[0] != "Keto" {
		t.Fatalf("toggle-off broke the set: %v", got)
	}
}

func TestGenerate_GuardRequiresThreeDistinctIngredients(t *testing.T) {
	gen := &fakeGenerator{candidates: threeCandidates(), batchID: "batch1"}
	w := newTestWorkflow(gen, &fakeSaver{})

	addIngredients(t, w, "Egg", "Flour")
	advanceTo(t, w, StepReviewInputs)

	if err := w.Generate(context.Background()); !errors.Is(err, ErrNotEnoughIngredients) {
		t.Fatalf("expected ErrNotEnoughIngredients with 2 ingredients, got %v", err)
	}
	if w.Snapshot().Step != StepReviewInputs {
		t.Fatalf("guard failure must keep the wizard at review_inputs")
	}
	if gen.calls != 0 {
		t.Fatalf("generator called despite failed guard")
	}

	addIngredients(t, w, "Milk")
	if err := w.Generate(context.Background()); err != nil {
		t.Fatalf("Generate with 3 ingredients: %v", err)
	}
	if w.Snapshot().Step != StepSelectGenerated {
		t.Fatalf("expected advance to select_generated, at %v", w.Snapshot().Step)
	}
}

func TestGenerate_TagsBatchAndLocksInputs(t *testing.T) {
	gen := &fakeGenerator{candidates: threeCandidates(), batchID: "batch1"}
	w := newTestWorkflow(gen, &fakeSaver{})
	addIngredients(t, w, "Egg", "Flour", "Milk")
	if err := w.TogglePreference("Vegetarian"); err != nil {
		t.Fatalf("TogglePreference: %v", err)
	}
	advanceTo(t, w, StepReviewInputs)

	if err := w.Generate(context.Background()); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	snap := w.Snapshot()
	if len(snap.Candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(snap.Candidates))
	}
	wantTags := []string{"batch1-0", "batch1-1", "batch1-2"}
	for i, c := range snap.Candidates {
		if c.PromptID != wantTags[i] {
			t.Fatalf("candidate %d tagged %q; want %q", i, c.PromptID, wantTags[i])
		}
	}
	if !snap.InputsLocked {
		t.Fatalf("inputs must be locked while a batch exists")
	}
	if _, err := w.AddIngredient("Sugar", nil); !errors.Is(err, ErrBatchExists) {
		t.Fatalf("expected ErrBatchExists on ingredient add, got %v", err)
	}
	if err := w.TogglePreference("Vegan"); !errors.Is(err, ErrBatchExists) {
		t.Fatalf("expected ErrBatchExists on preference toggle, got %v", err)
	}
	if err := w.RemoveIngredient(snap.Ingredients[0].ID); !errors.Is(err, ErrBatchExists) {
		t.Fatalf("expected ErrBatchExists on ingredient remove, got %v", err)
	}
	if gen.gotUserID != "u1" || len(gen.gotPrefs) != 1 || gen.gotPrefs[0] != "Vegetarian" {
		t.Fatalf("generator received wrong inputs: user=%q prefs=%v", gen.gotUserID, gen.gotPrefs)
	}
}

func TestGenerate_FailureKeepsStepAndNoPartialBatch(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("upstream down")}
	w := newTestWorkflow(gen, &fakeSaver{})
	addIngredients(t, w, "Egg", "Flour", "Milk")
	advanceTo(t, w, StepReviewInputs)

	if err := w.Generate(context.Background()); err == nil {
		t.Fatalf("expected error from failing generator")
	}
	snap := w.Snapshot()
	if snap.Step != StepReviewInputs {
		t.Fatalf("failure must keep step review_inputs, at %v", snap.Step)
	}
	if len(snap.Candidates) != 0 || snap.BatchID != "" {
		t.Fatalf("partial batch kept after failure: %+v", snap)
	}
	if snap.Busy {
		t.Fatalf("busy flag must clear on failure")
	}

	// User-initiated retry re-invokes the same step.
	gen.err = nil
	gen.candidates = threeCandidates()
	gen.batchID = "batch2"
	if err := w.Generate(context.Background()); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if w.Snapshot().Candidates[0].PromptID != "batch2-0" {
		t.Fatalf("retry did not produce a fresh batch")
	}
}

func TestSelection_ToggleAllNone(t *testing.T) {
	gen := &fakeGenerator{candidates: threeCandidates(), batchID: "b"}
	w := newTestWorkflow(gen, &fakeSaver{})
	addIngredients(t, w, "Egg", "Flour", "Milk")
	advanceTo(t, w, StepReviewInputs)
	if err := w.Generate(context.Background()); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if err := w.ToggleSelect("nope"); err == nil {
		t.Fatalf("expected rejection of unknown candidate id")
	}
	if err := w.ToggleSelect("b-1"); err != nil {
		t.Fatalf("ToggleSelect: %v", err)
	}
	if got := w.Snapshot().Selection; len(got) != 1 || got[0] != "b-1" {
		t.Fatalf("selection = %v; want [b-1]", got)
	}
	if err := w.ToggleSelect("b-1"); err != nil {
		t.Fatalf("ToggleSelect off: %v", err)
	}
	if got := w.Snapshot().Selection; len(got) != 0 {
		t.Fatalf("toggle twice should clear membership, got %v", got)
	}

	w.SelectAll()
	if got := w.Snapshot().Selection; len(got) != 3 {
		t.Fatalf("SelectAll selected %d of 3", len(got))
	}
	w.SelectNone()
	if got := w.Snapshot().Selection; len(got) != 0 {
		t.Fatalf("SelectNone left %v", got)
	}
}

func TestSelection_SurvivesNavigationBetween3And4(t *testing.T) {
	gen := &fakeGenerator{candidates: threeCandidates(), batchID: "b"}
	w := newTestWorkflow(gen, &fakeSaver{})
	addIngredients(t, w, "Egg", "Flour", "Milk")
	advanceTo(t, w, StepReviewInputs)
	if err := w.Generate(context.Background()); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if err := w.ToggleSelect("b-0"); err != nil {
		t.Fatalf("ToggleSelect: %v", err)
	}
	if err := w.Advance(); err != nil { // 3 -> 4
		t.Fatalf("Advance: %v", err)
	}
	if err := w.Back(); err != nil { // 4 -> 3
		t.Fatalf("Back: %v", err)
	}
	if got := w.Snapshot().Selection; len(got) != 1 || got[0] != "b-0" {
		t.Fatalf("selection lost across navigation: %v", got)
	}
}

func TestBack_ToStepZeroDiscardsBatch(t *testing.T) {
	gen := &fakeGenerator{candidates: threeCandidates(), batchID: "b"}
	w := newTestWorkflow(gen, &fakeSaver{})
	addIngredients(t, w, "Egg", "Flour", "Milk")
	advanceTo(t, w, StepReviewInputs)
	if err := w.Generate(context.Background()); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	for i := 0; i < 3; i++ { // 3 -> 2 -> 1 -> 0
		if err := w.Back(); err != nil {
			t.Fatalf("Back %d: %v", i, err)
		}
	}
	snap := w.Snapshot()
	if snap.Step != StepCollectIngredients {
		t.Fatalf("expected step 0, at %v", snap.Step)
	}
	if len(snap.Candidates) != 0 || snap.BatchID != "" || snap.InputsLocked {
		t.Fatalf("full back-navigation must discard the batch: %+v", snap)
	}
	// Ingredients themselves survive the discard; only candidates go.
	if len(snap.Ingredients) != 3 {
		t.Fatalf("ingredients should survive discard, got %d", len(snap.Ingredients))
	}
	if _, err := w.AddIngredient("Sugar", nil); err != nil {
		t.Fatalf("mutation should unlock after discard: %v", err)
	}
	if err := w.Back(); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("Back at step 0 must fail, got %v", err)
	}
}

func TestSaveSelected_EndToEnd(t *testing.T) {
	gen := &fakeGenerator{candidates: threeCandidates(), batchID: "batch1"}
	saver := &fakeSaver{}
	w := newTestWorkflow(gen, saver)

	addIngredients(t, w, "Egg", "Flour", "Milk")
	if err := w.TogglePreference("Vegetarian"); err != nil {
		t.Fatalf("TogglePreference: %v", err)
	}
	advanceTo(t, w, StepReviewInputs)
	if err := w.Generate(context.Background()); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if err := w.ToggleSelect("batch1-0"); err != nil {
		t.Fatalf("select first: %v", err)
	}
	if err := w.ToggleSelect("batch1-2"); err != nil {
		t.Fatalf("select third: %v", err)
	}
	if err := w.Advance(); err != nil {
		t.Fatalf("Advance to review_selected: %v", err)
	}

	if err := w.SaveSelected(context.Background()); err != nil {
		t.Fatalf("SaveSelected: %v", err)
	}

	if saver.calls != 1 || saver.gotUser != "u1" {
		t.Fatalf("saver calls=%d user=%q", saver.calls, saver.gotUser)
	}
	if len(saver.gotBatch) != 2 {
		t.Fatalf("expected exactly the 2 selected candidates, got %d", len(saver.gotBatch))
	}
	if saver.gotBatch[0].Name != "Frittata" || saver.gotBatch[1].Name != "Custard" {
		t.Fatalf("wrong candidates persisted: %+v", saver.gotBatch)
	}
	for _, c := range saver.gotBatch {
		if c.PromptID != "batch1" {
			t.Fatalf("prompt id not rewritten to bare batch id: %q", c.PromptID)
		}
	}

	// Confirmed success resets everything to step 0.
	snap := w.Snapshot()
	if snap.Step != StepCollectIngredients ||
		len(snap.Ingredients) != 0 || len(snap.Preferences) != 0 ||
		len(snap.Candidates) != 0 || len(snap.Selection) != 0 {
		t.Fatalf("workflow not fully reset after save: %+v", snap)
	}
}

func TestSaveSelected_GuardsAndRetry(t *testing.T) {
	gen := &fakeGenerator{candidates: threeCandidates(), batchID: "b"}
	saver := &fakeSaver{err: errors.New("persistence down")}
	w := newTestWorkflow(gen, saver)
	addIngredients(t, w, "Egg", "Flour", "Milk")
	advanceTo(t, w, StepReviewInputs)
	if err := w.Generate(context.Background()); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if err := w.Advance(); err != nil {
		t.Fatalf("Advance: %v", err)
	}

	if err := w.SaveSelected(context.Background()); !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("expected ErrEmptySelection, got %v", err)
	}

	if err := w.Back(); err != nil {
		t.Fatalf("Back: %v", err)
	}
	if err := w.ToggleSelect("b-1"); err != nil {
		t.Fatalf("ToggleSelect: %v", err)
	}
	if err := w.Advance(); err != nil {
		t.Fatalf("Advance: %v", err)
	}

	// Failure keeps the selection intact for a retry.
	if err := w.SaveSelected(context.Background()); err == nil {
		t.Fatalf("expected save failure")
	}
	snap := w.Snapshot()
	if snap.Step != StepReviewSelected || len(snap.Selection) != 1 {
		t.Fatalf("failed save must keep step and selection: %+v", snap)
	}

	saver.err = nil
	if err := w.SaveSelected(context.Background()); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if w.Snapshot().Step != StepCollectIngredients {
		t.Fatalf("successful retry must reset the wizard")
	}
}

func TestLimitGate_TerminalView(t *testing.T) {
	w := newTestWorkflow(&fakeGenerator{}, &fakeSaver{})
	w.MarkLimitReached()

	if !w.Snapshot().LimitReached {
		t.Fatalf("snapshot must expose the limit state")
	}
	if _, err := w.AddIngredient("Egg", nil); !errors.Is(err, ErrLimitReached) {
		t.Fatalf("expected ErrLimitReached, got %v", err)
	}
	if err := w.Advance(); !errors.Is(err, ErrLimitReached) {
		t.Fatalf("expected ErrLimitReached on advance, got %v", err)
	}
	if err := w.Generate(context.Background()); !errors.Is(err, ErrLimitReached) {
		t.Fatalf("expected ErrLimitReached on generate, got %v", err)
	}
}

func TestAbandon_CancelsInFlightGeneration(t *testing.T) {
	gen := &fakeGenerator{blockOnCtx: true, entered: make(chan struct{})}
	w := newTestWorkflow(gen, &fakeSaver{})
	addIngredients(t, w, "Egg", "Flour", "Milk")
	advanceTo(t, w, StepReviewInputs)

	done := make(chan error, 1)
	go func() { done <- w.Generate(context.Background()) }()

	// Wait until the generator is actually blocked inside the call.
	<-gen.entered
	w.Abandon()

	if err := <-done; !errors.Is(err, ErrAbandoned) {
		t.Fatalf("expected ErrAbandoned, got %v", err)
	}
	if !errors.Is(gen.ctxObserved, context.Canceled) {
		t.Fatalf("in-flight call did not observe cancellation: %v", gen.ctxObserved)
	}
	if got := w.Snapshot(); got.Step != StepCollectIngredients || len(got.Ingredients) != 0 {
		t.Fatalf("abandon must discard all state: %+v", got)
	}
}

// ----- Manager -----

type fakeUsage struct {
	count int
	err   error
}

func (u *fakeUsage) GenerationCount(ctx context.Context, userID string) (int, error) {
	return u.count, u.err
}

func TestManager_ReusesInstancePerUser(t *testing.T) {
	m := NewManager(Config{Generator: &fakeGenerator{}, Saver: &fakeSaver{}}, &fakeUsage{}, 0)

	a, err := m.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	b, err := m.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Get again: %v", err)
	}
	if a != b {
		t.Fatalf("expected the same wizard instance per user")
	}
	c, err := m.Get(context.Background(), "u2")
	if err != nil {
		t.Fatalf("Get other user: %v", err)
	}
	if c == a {
		t.Fatalf("users must not share wizard instances")
	}
}

func TestManager_LimitGatePrecedesStepZero(t *testing.T) {
	usage := &fakeUsage{count: 5}
	m := NewManager(Config{Generator: &fakeGenerator{}, Saver: &fakeSaver{}}, usage, 5)

	w, err := m.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !w.Snapshot().LimitReached {
		t.Fatalf("wizard should arrive in the terminal limit view")
	}
}

func TestManager_AbandonDropsInstance(t *testing.T) {
	m := NewManager(Config{Generator: &fakeGenerator{}, Saver: &fakeSaver{}}, &fakeUsage{}, 0)
	a, _ := m.Get(context.Background(), "u1")
	m.Abandon("u1")
	b, _ := m.Get(context.Background(), "u1")
	if a == b {
		t.Fatalf("abandon must discard the old instance")
	}
}
