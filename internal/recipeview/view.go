// Package recipeview implements the result-shaping layer: pure functions that
// transform persisted recipe records into client-safe, per-user-annotated
// views, and that merge single-item updates back into an existing view list.
//
// Design notes, in the spirit of a small library:
//
//   - No I/O and no logging; callers own persistence and transport.
//   - Total functions over well-formed input. Malformed records are a
//     persistence-layer contract violation and are not defended against here.
//   - Inputs are never mutated; every transformation returns fresh slices.
//   - ProjectForUser is a pure projection: it is recomputed on every response
//     and its output is never stored.
package recipeview

import (
	"time"

	"github.com/tbourn/go-recipe-backend/internal/domain"
)

// UserRef is the reduced form of a user embedded in a view. Full profile
// rows never leave the server; only id, display name, and avatar survive
// projection.
type UserRef struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// Record pairs a persisted recipe with its owner profile and the profiles of
// everyone who liked it. It is the projection input assembled by the repo
// layer.
type Record struct {
	Recipe  domain.Recipe
	Owner   domain.User
	LikedBy []domain.User
}

// ClientRecipeView is a persisted recipe reshaped for one viewing user:
// owner/likedBy reduced to UserRef, plus the derived Owns and Liked flags.
type ClientRecipeView struct {
	ID                 string                        `json:"_id"`
	Name               string                        `json:"name"`
	ImgLink            string                        `json:"img_link"`
	PromptID           string                        `json:"prompt_id"`
	Ingredients        []domain.RecipeIngredient     `json:"ingredients"`
	Instructions       []string                      `json:"instructions"`
	DietaryPreferences []string                      `json:"dietary_preferences"`
	Additional         domain.AdditionalInformation  `json:"additional_information"`
	Tags               []string                      `json:"tags,omitempty"`
	Comments           []string                      `json:"comments,omitempty"`
	Owner              UserRef                       `json:"owner"`
	LikedBy            []UserRef                     `json:"liked_by"`
	Owns               bool                          `json:"owns"`
	Liked              bool                          `json:"liked"`
	CreatedAt          time.Time                     `json:"created_at"`
	UpdatedAt          time.Time                     `json:"updated_at"`
}

// ref reduces a user row to its embeddable form.
func ref(u domain.User) UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Image: u.Image}
}

// Project shapes a single record for the viewing user.
func Project(r Record, userID string) ClientRecipeView {
	likedBy := make([]UserRef, 0, len(r.LikedBy))
	liked := false
	for _, u := range r.LikedBy {
		likedBy = append(likedBy, ref(u))
		if u.ID == userID {
			liked = true
		}
	}
	return ClientRecipeView{
		ID:                 r.Recipe.ID,
		Name:               r.Recipe.Name,
		ImgLink:            r.Recipe.ImgLink,
		PromptID:           r.Recipe.PromptID,
		Ingredients:        r.Recipe.Ingredients,
		Instructions:       r.Recipe.Instructions,
		DietaryPreferences: r.Recipe.DietaryPreferences,
		Additional:         r.Recipe.Additional,
		Tags:               r.Recipe.Tags,
		Comments:           r.Recipe.Comments,
		Owner:              ref(r.Owner),
		LikedBy:            likedBy,
		Owns:               r.Recipe.OwnerID == userID,
		Liked:              liked,
		CreatedAt:          r.Recipe.CreatedAt,
		UpdatedAt:          r.Recipe.UpdatedAt,
	}
}

// ProjectForUser shapes every record for the viewing user, preserving input
// order. Re-applying it with the same userID yields the same output.
func ProjectForUser(records []Record, userID string) []ClientRecipeView {
	out := make([]ClientRecipeView, 0, len(records))
	for _, r := range records {
		out = append(out, Project(r, userID))
	}
	return out
}

// OwnedOrLiked narrows a projected list to the entries the viewing user owns
// or has liked, preserving input order. The flags are already derived, so the
// filter needs no user id of its own.
func OwnedOrLiked(list []ClientRecipeView) []ClientRecipeView {
	out := make([]ClientRecipeView, 0, len(list))
	for _, v := range list {
		if v.Owns || v.Liked {
			out = append(out, v)
		}
	}
	return out
}

// Reconcile merges a single-item change into a view list without disturbing
// the relative order of the remaining entries.
//
// When updated is non-nil, the entry whose ID matches updated.ID is replaced
// in place. When updated is nil, the entry matching deleteID is removed.
// When no entry matches, the input is returned unchanged: "not found" is an
// explicit no-op rather than a splice at a bogus index.
func Reconcile(list []ClientRecipeView, updated *ClientRecipeView, deleteID string) []ClientRecipeView {
	target := deleteID
	if updated != nil {
		target = updated.ID
	}

	at := -1
	for i := range list {
		if list[i].ID == target {
			at = i
			break
		}
	}
	if at < 0 {
		return list
	}

	if updated != nil {
		out := make([]ClientRecipeView, len(list))
		copy(out, list)
		out[at] = *updated
		return out
	}

	out := make([]ClientRecipeView, 0, len(list)-1)
	out = append(out, list[:at]...)
	out = append(out, list[at+1:]...)
	return out
}
