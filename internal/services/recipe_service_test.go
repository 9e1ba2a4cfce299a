package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-recipe-backend/internal/domain"
	"github.com/tbourn/go-recipe-backend/internal/recipeview"
	"github.com/tbourn/go-recipe-backend/internal/workflow"
)

// fakeRecipeRepo is an in-memory RecipeRepo with call capture.
type fakeRecipeRepo struct {
	records []recipeview.Record
	likes   map[string]map[string]bool // recipeID -> userID -> liked

	savedBatches [][]domain.Recipe
	deletedIDs   []string

	listErr   error
	createErr error
}

func newFakeRecipeRepo(records ...recipeview.Record) *fakeRecipeRepo {
	f := &fakeRecipeRepo{records: records, likes: map[string]map[string]bool{}}
	for _, r := range records {
		set := map[string]bool{}
		for _, u := range r.LikedBy {
			set[u.ID] = true
		}
		f.likes[r.Recipe.ID] = set
	}
	return f
}

func (f *fakeRecipeRepo) find(id string) *recipeview.Record {
	for i := range f.records {
		if f.records[i].Recipe.ID == id {
			return &f.records[i]
		}
	}
	return nil
}

func (f *fakeRecipeRepo) ListRecipeRecords(ctx context.Context, db *gorm.DB) ([]recipeview.Record, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.records, nil
}

func (f *fakeRecipeRepo) GetRecipe(ctx context.Context, db *gorm.DB, id string) (*domain.Recipe, error) {
	if r := f.find(id); r != nil {
		cp := r.Recipe
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRecipeRepo) GetRecipeRecord(ctx context.Context, db *gorm.DB, id string) (*recipeview.Record, error) {
	r := f.find(id)
	if r == nil {
		return nil, gorm.ErrRecordNotFound
	}
	likedBy := make([]domain.User, 0)
	for uid := range f.likes[id] {
		likedBy = append(likedBy, domain.User{ID: uid, Name: "User " + uid})
	}
	return &recipeview.Record{Recipe: r.Recipe, Owner: r.Owner, LikedBy: likedBy}, nil
}

func (f *fakeRecipeRepo) DeleteRecipe(ctx context.Context, db *gorm.DB, id string) error {
	if f.find(id) == nil {
		return gorm.ErrRecordNotFound
	}
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

func (f *fakeRecipeRepo) CreateRecipeBatch(ctx context.Context, db *gorm.DB, recipes []domain.Recipe) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.savedBatches = append(f.savedBatches, recipes)
	return nil
}

func (f *fakeRecipeRepo) AddLike(ctx context.Context, db *gorm.DB, recipeID, userID string) (bool, error) {
	set := f.likes[recipeID]
	if set == nil {
		set = map[string]bool{}
		f.likes[recipeID] = set
	}
	if set[userID] {
		return false, nil
	}
	set[userID] = true
	return true, nil
}

func (f *fakeRecipeRepo) RemoveLike(ctx context.Context, db *gorm.DB, recipeID, userID string) (bool, error) {
	set := f.likes[recipeID]
	if set == nil || !set[userID] {
		return false, nil
	}
	delete(set, userID)
	return true, nil
}

func (f *fakeRecipeRepo) RecipesStats(ctx context.Context, db *gorm.DB) (int64, *time.Time, error) {
	if len(f.records) == 0 {
		return 0, nil, nil
	}
	latest := f.records[0].Recipe.UpdatedAt
	for _, r := range f.records[1:] {
		if r.Recipe.UpdatedAt.After(latest) {
			latest = r.Recipe.UpdatedAt
		}
	}
	return int64(len(f.records)), &latest, nil
}

func record(id, ownerID, name string, likers ...string) recipeview.Record {
	r := recipeview.Record{
		Recipe: domain.Recipe{
			ID:      id,
			OwnerID: ownerID,
			Name:    name,
			Ingredients: []domain.RecipeIngredient{
				{Name: "tomato", Quantity: "2"},
			},
		},
		Owner: domain.User{ID: ownerID, Name: "Owner " + ownerID},
	}
	for _, uid := range likers {
		r.LikedBy = append(r.LikedBy, domain.User{ID: uid, Name: "User " + uid})
	}
	return r
}

func TestRecipeService_List_ProjectsAndFilters(t *testing.T) {
	repo := newFakeRecipeRepo(
		record("r1", "u1", "Tomato Soup"),
		record("r2", "u2", "Cheese Pie", "u1"),
	)
	svc := NewRecipeService(nil, repo)

	views, err := svc.List(context.Background(), "u1", "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("len(views) = %d; want 2", len(views))
	}
	if !views[0].Owns || views[0].Liked {
		t.Errorf("r1 flags = owns:%v liked:%v; want owns only", views[0].Owns, views[0].Liked)
	}
	if views[1].Owns || !views[1].Liked {
		t.Errorf("r2 flags = owns:%v liked:%v; want liked only", views[1].Owns, views[1].Liked)
	}

	filtered, err := svc.List(context.Background(), "u1", "CHEESE")
	if err != nil {
		t.Fatalf("List filtered: %v", err)
	}
	if len(filtered) != 1 || filtered[0].ID != "r2" {
		t.Fatalf("filtered = %+v; want only r2", filtered)
	}
}

func TestRecipeService_Delete_OwnershipRules(t *testing.T) {
	repo := newFakeRecipeRepo(record("r1", "u1", "Soup"))
	svc := NewRecipeService(nil, repo)
	ctx := context.Background()

	if err := svc.Delete(ctx, "u2", "r1"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("foreign delete err = %v; want ErrNotOwner", err)
	}
	if len(repo.deletedIDs) != 0 {
		t.Fatalf("foreign delete reached the repo: %v", repo.deletedIDs)
	}

	if err := svc.Delete(ctx, "u1", "missing"); !errors.Is(err, ErrRecipeNotFound) {
		t.Fatalf("missing delete err = %v; want ErrRecipeNotFound", err)
	}

	if err := svc.Delete(ctx, "u1", "r1"); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if len(repo.deletedIDs) != 1 || repo.deletedIDs[0] != "r1" {
		t.Fatalf("deletedIDs = %v; want [r1]", repo.deletedIDs)
	}
}

func TestRecipeService_ToggleLike_FlipsMembership(t *testing.T) {
	repo := newFakeRecipeRepo(record("r1", "u1", "Soup"))
	svc := NewRecipeService(nil, repo)
	ctx := context.Background()

	v, err := svc.ToggleLike(ctx, "u2", "r1")
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !v.Liked {
		t.Error("first toggle: view not marked liked")
	}
	if !repo.likes["r1"]["u2"] {
		t.Error("first toggle: like row missing")
	}

	v, err = svc.ToggleLike(ctx, "u2", "r1")
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if v.Liked {
		t.Error("second toggle: view still marked liked")
	}
	if repo.likes["r1"]["u2"] {
		t.Error("second toggle: like row still present")
	}

	if _, err := svc.ToggleLike(ctx, "u2", "missing"); !errors.Is(err, ErrRecipeNotFound) {
		t.Fatalf("missing toggle err = %v; want ErrRecipeNotFound", err)
	}
}

func TestRecipeService_SaveBatch_MapsCandidates(t *testing.T) {
	repo := newFakeRecipeRepo()
	svc := NewRecipeService(nil, repo)

	selected := []workflow.Candidate{
		{
			Name:         "Soup",
			PromptID:     "batch1",
			ImgLink:      "https://img.example/soup",
			Ingredients:  []domain.RecipeIngredient{{Name: "tomato", Quantity: "2"}},
			Instructions: []string{"simmer"},
		},
		{Name: "Salsa", PromptID: "batch1", Instructions: []string{"chop"},
			Ingredients: []domain.RecipeIngredient{{Name: "tomato", Quantity: "1"}}},
	}
	if err := svc.SaveBatch(context.Background(), "u1", selected); err != nil {
		t.Fatalf("SaveBatch: %v", err)
	}

	if len(repo.savedBatches) != 1 {
		t.Fatalf("batches = %d; want 1", len(repo.savedBatches))
	}
	rows := repo.savedBatches[0]
	if len(rows) != 2 {
		t.Fatalf("rows = %d; want 2", len(rows))
	}
	seen := map[string]bool{}
	for i, r := range rows {
		if r.ID == "" || seen[r.ID] {
			t.Errorf("row %d: missing or duplicate ID %q", i, r.ID)
		}
		seen[r.ID] = true
		if r.OwnerID != "u1" {
			t.Errorf("row %d: OwnerID = %q; want u1", i, r.OwnerID)
		}
		if r.PromptID != "batch1" {
			t.Errorf("row %d: PromptID = %q; want batch1", i, r.PromptID)
		}
	}
	if rows[0].Name != "Soup" || rows[0].ImgLink != "https://img.example/soup" {
		t.Errorf("row 0 mapping wrong: %+v", rows[0])
	}
}

func TestRecipeService_ListForUser_OwnedOrLikedSubset(t *testing.T) {
	repo := newFakeRecipeRepo(
		record("r1", "u1", "Tomato Soup"),
		record("r2", "u2", "Cheese Pie", "u1"),
		record("r3", "u3", "Bread"),
	)
	svc := NewRecipeService(nil, repo)

	views, err := svc.ListForUser(context.Background(), "u1", "")
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("len(views) = %d; want owned r1 + liked r2", len(views))
	}
	if views[0].ID != "r1" || views[1].ID != "r2" {
		t.Fatalf("subset = %+v; want r1, r2 in feed order", views)
	}

	// Query applies before the subset filter, same semantics as List.
	filtered, err := svc.ListForUser(context.Background(), "u1", "cheese")
	if err != nil {
		t.Fatalf("ListForUser filtered: %v", err)
	}
	if len(filtered) != 1 || filtered[0].ID != "r2" {
		t.Fatalf("filtered = %+v; want only r2", filtered)
	}
}
