// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// compression, CORS, security headers, identity, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggoFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-recipe-backend/internal/config"
	"github.com/tbourn/go-recipe-backend/internal/domain"
	"github.com/tbourn/go-recipe-backend/internal/http/handlers"
	"github.com/tbourn/go-recipe-backend/internal/http/middleware"
	"github.com/tbourn/go-recipe-backend/internal/platform/openai"
	"github.com/tbourn/go-recipe-backend/internal/recipeview"
	"github.com/tbourn/go-recipe-backend/internal/repo"
	"github.com/tbourn/go-recipe-backend/internal/services"
)

// recipeRepoShim adapts the repository free functions to the
// services.RecipeRepo interface expected by the RecipeService. This keeps
// services decoupled from the concrete repo package while reusing existing
// functions.
type recipeRepoShim struct{}

// ListRecipeRecords proxies repo.ListRecipeRecords.
func (recipeRepoShim) ListRecipeRecords(ctx context.Context, db *gorm.DB) ([]recipeview.Record, error) {
	return repo.ListRecipeRecords(ctx, db)
}

// GetRecipe proxies repo.GetRecipe.
func (recipeRepoShim) GetRecipe(ctx context.Context, db *gorm.DB, id string) (*domain.Recipe, error) {
	return repo.GetRecipe(ctx, db, id)
}

// GetRecipeRecord proxies repo.GetRecipeRecord.
func (recipeRepoShim) GetRecipeRecord(ctx context.Context, db *gorm.DB, id string) (*recipeview.Record, error) {
	return repo.GetRecipeRecord(ctx, db, id)
}

// DeleteRecipe proxies repo.DeleteRecipe.
func (recipeRepoShim) DeleteRecipe(ctx context.Context, db *gorm.DB, id string) error {
	return repo.DeleteRecipe(ctx, db, id)
}

// CreateRecipeBatch proxies repo.CreateRecipeBatch.
func (recipeRepoShim) CreateRecipeBatch(ctx context.Context, db *gorm.DB, recipes []domain.Recipe) error {
	return repo.CreateRecipeBatch(ctx, db, recipes)
}

// AddLike proxies repo.AddLike.
func (recipeRepoShim) AddLike(ctx context.Context, db *gorm.DB, recipeID, userID string) (bool, error) {
	return repo.AddLike(ctx, db, recipeID, userID)
}

// RemoveLike proxies repo.RemoveLike.
func (recipeRepoShim) RemoveLike(ctx context.Context, db *gorm.DB, recipeID, userID string) (bool, error) {
	return repo.RemoveLike(ctx, db, recipeID, userID)
}

// RecipesStats proxies repo.RecipesStats.
func (recipeRepoShim) RecipesStats(ctx context.Context, db *gorm.DB) (int64, *time.Time, error) {
	return repo.RecipesStats(ctx, db)
}

// ingredientRepoShim adapts the catalog free functions to
// services.IngredientRepo.
type ingredientRepoShim struct{}

// ListIngredients proxies repo.ListIngredients.
func (ingredientRepoShim) ListIngredients(ctx context.Context, db *gorm.DB) ([]domain.IngredientCatalogEntry, error) {
	return repo.ListIngredients(ctx, db)
}

// FindIngredientByCanonical proxies repo.FindIngredientByCanonical.
func (ingredientRepoShim) FindIngredientByCanonical(ctx context.Context, db *gorm.DB, canonical string) (*domain.IngredientCatalogEntry, error) {
	return repo.FindIngredientByCanonical(ctx, db, canonical)
}

// CreateIngredient proxies repo.CreateIngredient.
func (ingredientRepoShim) CreateIngredient(ctx context.Context, db *gorm.DB, name, canonical, createdBy string) (*domain.IngredientCatalogEntry, error) {
	return repo.CreateIngredient(ctx, db, name, canonical, createdBy)
}

// usageRepoShim adapts the generation-counter free functions to
// services.UsageRepo.
type usageRepoShim struct{}

// GenerationCount proxies repo.GenerationCount.
func (usageRepoShim) GenerationCount(ctx context.Context, db *gorm.DB, userID string) (int, error) {
	return repo.GenerationCount(ctx, db, userID)
}

// IncrementGenerationCount proxies repo.IncrementGenerationCount.
func (usageRepoShim) IncrementGenerationCount(ctx context.Context, db *gorm.DB, userID string) error {
	return repo.IncrementGenerationCount(ctx, db, userID)
}

// validatorAdapter adapts the generation client's ValidateIngredient result
// struct to the tuple form services.IngredientValidator expects.
type validatorAdapter struct {
	client *openai.Client
}

func (a validatorAdapter) ValidateIngredient(ctx context.Context, name, userID string) (bool, []string, error) {
	res, err := a.client.ValidateIngredient(ctx, name, userID)
	if err != nil {
		return false, nil, err
	}
	return res.Valid, res.Suggestions, nil
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), rate limiting, CORS
// and security headers, health and metrics endpoints, and then mounts the
// versioned per-user API under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured logs with query redaction
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Gzip compression
//  7. Metrics
//  8. Rate limiter (per user/IP)
//  9. CORS and Security headers
//
// Identity (RequireUser) is applied on the API group only, so /health and
// /metrics stay reachable without forwarded headers.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, ai *openai.Client, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with query redaction
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Response compression (recipe feeds with instructions compress well)
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 9) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", "X-User-Name", "X-User-Image"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "ETag"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", "X-User-Name", "X-User-Image"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "ETag"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// API docs (disabled by default)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggoFiles.Handler))
	}

	// Dependency injection: services ← repo/db/client
	recipeSvc := services.NewRecipeService(db, recipeRepoShim{})
	ingredientSvc := services.NewIngredientService(db, ingredientRepoShim{}, validatorAdapter{client: ai})
	ingredientSvc.MaxNameLen = cfg.IngredientMaxLen
	workflowSvc := services.NewWorkflowService(db, ai, usageRepoShim{}, recipeSvc, services.CanonicalIngredient, cfg.MaxGenerations)
	h := handlers.New(recipeSvc, ingredientSvc, workflowSvc)

	// Per-user API: identity required, profiles upserted as a side effect so
	// owner and liker references render with current names.
	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	api := groupWithPrefix(r, apiBase)
	api.Use(middleware.RequireUser(func(ctx context.Context, id, name, image string) error {
		return repo.UpsertUser(ctx, db, domain.User{ID: id, Name: name, Image: image})
	}))
	{
		// Recipes
		api.GET("/recipes", h.ListRecipes)
		api.GET("/recipes/mine", h.ListMyRecipes)
		api.GET("/recipes/:id", h.GetRecipe)
		api.DELETE("/recipes/:id", h.DeleteRecipe)
		api.POST("/recipes/:id/like", h.ToggleLike)

		// Ingredient catalog
		api.GET("/ingredients", h.ListIngredients)
		api.POST("/ingredients", h.ProposeIngredient)

		// Generation workflow
		api.GET("/workflow", h.GetWorkflow)
		api.DELETE("/workflow", h.AbandonWorkflow)
		api.POST("/workflow/ingredients", h.AddWorkflowIngredient)
		api.DELETE("/workflow/ingredients/:id", h.RemoveWorkflowIngredient)
		api.POST("/workflow/preferences", h.ToggleWorkflowPreference)
		api.POST("/workflow/advance", h.AdvanceWorkflow)
		api.POST("/workflow/back", h.BackWorkflow)
		api.POST("/workflow/generate", h.GenerateWorkflow)
		api.POST("/workflow/selection", h.SelectWorkflowCandidates)
		api.POST("/workflow/save", h.SaveWorkflow)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
