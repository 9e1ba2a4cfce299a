package recipeview

import (
	"reflect"
	"testing"

	"github.com/tbourn/go-recipe-backend/internal/domain"
)

func sampleRecords() []Record {
	alice := domain.User{ID: "u-alice", Name: "Alice", Image: "a.png"}
	bob := domain.User{ID: "u-bob", Name: "Bob"}
	return []Record{
		{
			Recipe: domain.Recipe{
				ID: "r1", OwnerID: alice.ID, PromptID: "batch1", Name: "Omelette",
				Ingredients: []domain.RecipeIngredient{{Name: "Egg", Quantity: "3"}},
			},
			Owner:   alice,
			LikedBy: []domain.User{bob},
		},
		{
			Recipe: domain.Recipe{ID: "r2", OwnerID: bob.ID, PromptID: "batch2", Name: "Soup"},
			Owner:  bob,
		},
	}
}

func TestProjectForUser_FlagsAndReduction(t *testing.T) {
	views := ProjectForUser(sampleRecords(), "u-alice")
	if len(views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(views))
	}

	first := views[0]
	if !first.Owns {
		t.Fatalf("alice owns r1; owns=false")
	}
	if first.Liked {
		t.Fatalf("alice did not like r1; liked=true")
	}
	if first.Owner != (UserRef{ID: "u-alice", Name: "Alice", Image: "a.png"}) {
		t.Fatalf("owner not reduced correctly: %+v", first.Owner)
	}
	if len(first.LikedBy) != 1 || first.LikedBy[0].ID != "u-bob" {
		t.Fatalf("likedBy not reduced correctly: %+v", first.LikedBy)
	}

	// Flags flip when the viewer changes to the likedBy member.
	views = ProjectForUser(sampleRecords(), "u-bob")
	if views[0].Owns {
		t.Fatalf("bob does not own r1")
	}
	if !views[0].Liked {
		t.Fatalf("bob liked r1; liked=false")
	}
	if !views[1].Owns {
		t.Fatalf("bob owns r2")
	}
}

func TestProjectForUser_Idempotent(t *testing.T) {
	recs := sampleRecords()
	a := ProjectForUser(recs, "u-bob")
	b := ProjectForUser(recs, "u-bob")
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("projection not idempotent for same user:\n%+v\n%+v", a, b)
	}
}

func TestReconcile_ReplacePreservesOrder(t *testing.T) {
	list := []ClientRecipeView{{ID: "a"}, {ID: "b", Name: "old"}, {ID: "c"}}
	upd := &ClientRecipeView{ID: "b", Name: "new"}

	out := Reconcile(list, upd, "")
	if len(out) != len(list) {
		t.Fatalf("length changed: %d -> %d", len(list), len(out))
	}
	wantIDs := []string{"a", "b", "c"}
	for i, id := range wantIDs {
		if out[i].ID != id {
			t.Fatalf("order disturbed at %d: got %q want %q", i, out[i].ID, id)
		}
	}
	if out[1].Name != "new" {
		t.Fatalf("entry not replaced: %+v", out[1])
	}
	// Input untouched.
	if list[1].Name != "old" {
		t.Fatalf("input list mutated")
	}
}

func TestReconcile_DeleteRemovesExactlyOne(t *testing.T) {
	list := []ClientRecipeView{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	out := Reconcile(list, nil, "b")
	if len(out) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(out))
	}
	if out[0].ID != "a" || out[1].ID != "c" {
		t.Fatalf("remaining order wrong: %+v", out)
	}
	if len(list) != 3 {
		t.Fatalf("input list mutated")
	}
}

func TestReconcile_NoMatchIsNoOp(t *testing.T) {
	list := []ClientRecipeView{{ID: "a"}, {ID: "b"}}

	out := Reconcile(list, &ClientRecipeView{ID: "zzz"}, "")
	if !reflect.DeepEqual(out, list) {
		t.Fatalf("replace with unknown id should be a no-op: %+v", out)
	}

	out = Reconcile(list, nil, "zzz")
	if !reflect.DeepEqual(out, list) {
		t.Fatalf("delete with unknown id should be a no-op: %+v", out)
	}

	// Regression guard for the corrupt-list-ends behavior: no entry may be
	// dropped or duplicated when nothing matches.
	if len(out) != 2 || out[0].ID != "a" || out[1].ID != "b" {
		t.Fatalf("list ends corrupted: %+v", out)
	}
}

func TestReconcile_EmptyList(t *testing.T) {
	if out := Reconcile(nil, &ClientRecipeView{ID: "x"}, ""); len(out) != 0 {
		t.Fatalf("expected empty result, got %+v", out)
	}
	if out := Reconcile([]ClientRecipeView{}, nil, "x"); len(out) != 0 {
		t.Fatalf("expected empty result, got %+v", out)
	}
}

func TestOwnedOrLiked_KeepsOnlyViewerEntries(t *testing.T) {
	// Alice owns r1; bob owns r2 and liked r1.
	forBob := ProjectForUser(sampleRecords(), "u-bob")
	mine := OwnedOrLiked(forBob)
	if len(mine) != 2 {
		t.Fatalf("bob owns r2 and liked r1; got %d entries", len(mine))
	}

	forAlice := ProjectForUser(sampleRecords(), "u-alice")
	mine = OwnedOrLiked(forAlice)
	if len(mine) != 1 || mine[0].ID != "r1" {
		t.Fatalf("alice keeps only r1; got %+v", mine)
	}

	// A stranger keeps nothing; the input list is untouched.
	forCarol := ProjectForUser(sampleRecords(), "u-carol")
	if got := OwnedOrLiked(forCarol); len(got) != 0 {
		t.Fatalf("stranger keeps nothing; got %+v", got)
	}
	if len(forCarol) != 2 {
		t.Fatalf("input mutated: %+v", forCarol)
	}
}
