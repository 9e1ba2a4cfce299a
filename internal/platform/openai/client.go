// Package openai implements the external generation service: an OpenAI-style
// chat/image HTTP API that produces recipe candidates, dish images, and
// ingredient validations.
//
// The generation response is treated as an untyped payload from an
// unreliable collaborator: it is parsed through a strict schema step
// (stripJSON + decode + validate) and any shape mismatch surfaces as
// ErrMalformedResponse rather than trusting field presence downstream.
//
// The package does no logging; callers translate its errors into their own
// diagnostics.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tbourn/go-recipe-backend/internal/domain"
)

// ErrMalformedResponse reports that the provider answered but the payload did
// not match the contract (missing fields, wrong types, no JSON at all).
var ErrMalformedResponse = errors.New("malformed generation response")

// GeneratedRecipe is one candidate recipe exactly as the provider describes
// it. It carries no batch tag; tagging is the workflow's concern.
type GeneratedRecipe struct {
	Name               string                       `json:"name"`
	Ingredients        []domain.RecipeIngredient    `json:"ingredients"`
	Instructions       []string                     `json:"instructions"`
	DietaryPreferences []string                     `json:"dietaryPreference"`
	Additional         domain.AdditionalInformation `json:"additionalInformation"`
}

// GeneratedImage pairs a recipe name with the URL of its generated image.
type GeneratedImage struct {
	Name    string `json:"name"`
	ImgLink string `json:"imgLink"`
}

// ValidationResult is the outcome of an ingredient validation call.
type ValidationResult struct {
	Valid bool `json:"valid"`
	// Suggestions holds up to three alternative spellings/names when the
	// candidate is rejected.
	Suggestions []string `json:"suggestions,omitempty"`
}

// Config carries provider settings. Zero values fall back to the public
// OpenAI endpoint and conservative defaults.
type Config struct {
	APIKey     string
	BaseURL    string        // e.g. https://api.openai.com/v1
	Model      string        // chat model for recipe text and validation
	ImageModel string        // image model for dish photos
	Timeout    time.Duration // per-request timeout
}

// Client talks to the provider. It is safe for concurrent use.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient constructs a Client from cfg, applying defaults.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = "dall-e-3"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// --- wire types (chat completions) ---

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type imageRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

type imageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

// Generate asks the provider for recipe candidates built from the given
// ingredients and dietary preferences. It returns the candidates and the
// opaque batch identifier correlating this generation call to a later save.
func (c *Client) Generate(ctx context.Context, ingredients []string, preferences []string, userID string) ([]GeneratedRecipe, string, error) {
	prompt := buildRecipePrompt(ingredients, preferences)
	resp, err := c.chat(ctx, recipeSystemPrompt, prompt, userID)
	if err != nil {
		return nil, "", err
	}

	var recipes []GeneratedRecipe
	if err := decodeStrict(resp.content, &recipes); err != nil {
		return nil, "", err
	}
	if len(recipes) == 0 {
		return nil, "", fmt.Errorf("%w: empty candidate list", ErrMalformedResponse)
	}
	for i, r := range recipes {
		if strings.TrimSpace(r.Name) == "" || len(r.Ingredients) == 0 || len(r.Instructions) == 0 {
			return nil, "", fmt.Errorf("%w: candidate %d incomplete", ErrMalformedResponse, i)
		}
	}

	batchID := resp.id
	if batchID == "" {
		batchID = uuid.NewString()
	}
	return recipes, batchID, nil
}

// GenerateImages produces one dish image per recipe. All items are
// dispatched concurrently and joined all-or-nothing: a single failure fails
// the whole image step and no partial result is returned.
func (c *Client) GenerateImages(ctx context.Context, recipes []GeneratedRecipe, userID string) ([]GeneratedImage, error) {
	out := make([]GeneratedImage, len(recipes))

	g, ctx := errgroup.WithContext(ctx)
	for i, r := range recipes {
		g.Go(func() error {
			url, err := c.image(ctx, r.Name)
			if err != nil {
				return fmt.Errorf("image for %q: %w", r.Name, err)
			}
			out[i] = GeneratedImage{Name: r.Name, ImgLink: url}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ValidateIngredient asks the provider whether name is a real, sensible food
// ingredient. A malformed answer is an error, never a silent accept.
func (c *Client) ValidateIngredient(ctx context.Context, name, userID string) (ValidationResult, error) {
	resp, err := c.chat(ctx, validatorSystemPrompt, fmt.Sprintf("Candidate ingredient: %q", name), userID)
	if err != nil {
		return ValidationResult{}, err
	}
	var result ValidationResult
	if err := decodeStrict(resp.content, &result); err != nil {
		return ValidationResult{}, err
	}
	if len(result.Suggestions) > 3 {
		result.Suggestions = result.Suggestions[:3]
	}
	return result, nil
}

// --- HTTP plumbing ---

type chatResult struct {
	id      string
	content string
}

func (c *Client) chat(ctx context.Context, system, user, userID string) (chatResult, error) {
	body := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.7,
	}
	raw, err := c.post(ctx, "/chat/completions", body)
	if err != nil {
		return chatResult{}, err
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return chatResult{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(parsed.Choices) == 0 {
		return chatResult{}, fmt.Errorf("%w: no choices", ErrMalformedResponse)
	}
	return chatResult{id: parsed.ID, content: parsed.Choices[0].Message.Content}, nil
}

func (c *Client) image(ctx context.Context, dish string) (string, error) {
	body := imageRequest{
		Model:  c.cfg.ImageModel,
		Prompt: fmt.Sprintf("A realistic, appetizing photo of %s, plated, natural light", dish),
		N:      1,
		Size:   "1024x1024",
	}
	raw, err := c.post(ctx, "/images/generations", body)
	if err != nil {
		return "", err
	}
	var parsed imageResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(parsed.Data) == 0 || parsed.Data[0].URL == "" {
		return "", fmt.Errorf("%w: no image url", ErrMalformedResponse)
	}
	return parsed.Data[0].URL, nil
}

func (c *Client) post(ctx context.Context, path string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned %d: %s", resp.StatusCode, truncateForError(raw))
	}
	return raw, nil
}

// --- prompt building & strict parsing ---

const recipeSystemPrompt = `You are an expert chef. Respond with ONLY a valid JSON array of recipe objects, no markdown fences and no prose. Each object has: "name" (string), "ingredients" (array of {"name","quantity"} with string quantities), "instructions" (array of strings), "dietaryPreference" (array of strings), "additionalInformation" ({"tips","variations","servingSuggestions","nutritionalInformation"}). Produce exactly 3 recipes.`

const validatorSystemPrompt = `You decide whether a candidate string names a real, single food ingredient. Respond with ONLY a JSON object {"valid": bool, "suggestions": [up to 3 corrected names]}. Suggestions only when valid is false.`

func buildRecipePrompt(ingredients, preferences []string) string {
	var b strings.Builder
	b.WriteString("Create recipes using these ingredients: ")
	b.WriteString(strings.Join(ingredients, ", "))
	b.WriteString(".")
	if len(preferences) > 0 {
		b.WriteString(" Every recipe must satisfy all of these dietary preferences: ")
		b.WriteString(strings.Join(preferences, ", "))
		b.WriteString(".")
	}
	return b.String()
}

// decodeStrict extracts the JSON document from a possibly fence-wrapped
// answer and decodes it into v, rejecting unknown fields at the top level of
// each object so drifting provider schemas fail loudly.
func decodeStrict(answer string, v any) error {
	doc := stripJSON(answer)
	if doc == "" {
		return fmt.Errorf("%w: no JSON document found", ErrMalformedResponse)
	}
	dec := json.NewDecoder(strings.NewReader(doc))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// stripJSON cuts the outermost JSON value out of an answer that may be
// wrapped in markdown fences or prose. Models routinely ignore "no fences".
func stripJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	start := strings.IndexAny(s, "[{")
	if start < 0 {
		return ""
	}
	var end int
	if s[start] == '[' {
		end = strings.LastIndex(s, "]")
	} else {
		end = strings.LastIndex(s, "}")
	}
	if end <= start {
		return ""
	}
	return s[start : end+1]
}

func truncateForError(raw []byte) string {
	const max = 256
	if len(raw) > max {
		raw = raw[:max]
	}
	return string(bytes.TrimSpace(raw))
}
