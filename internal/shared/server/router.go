package server

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"docgen-backend/internal/config"
	"docgen-backend/internal/generation"
	"docgen-backend/internal/llm"
	"docgen-backend/internal/llm/openai"
	"docgen-backend/internal/render/deck"
	"docgen-backend/internal/render/spreadsheet"
	"docgen-backend/internal/shared/metrics"
	"docgen-backend/internal/shared/server/middleware"
	"docgen-backend/internal/shared/server/respond"
	"docgen-backend/internal/structurer"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				"GENERATE": {Rate: 1, Burst: 5},
			},
			GroupFor: func(c *gin.Context) string {
				if c.Request.Method == http.MethodPost && strings.HasSuffix(c.Request.URL.Path, "/documents") {
					return "GENERATE"
				}
				return ""
			},
		}),
	)

	// Dependencies
	client := newLLMClient(cfg)
	structSvc := &structurer.Service{LLM: client}
	sheetBuilder := &spreadsheet.Builder{OutputDir: cfg.OutputDir}
	deckBuilder := &deck.Builder{OutputDir: cfg.OutputDir}

	pool := generation.NewPool(cfg.WorkerCount, cfg.WorkerQueue)
	spreadsheetGen := &generation.Generator{
		Type:    generation.TypeSpreadsheet,
		Store:   generation.NewMemoryStore(cfg.JobTTL),
		Pool:    pool,
		Run:     generation.SpreadsheetRun(structSvc, sheetBuilder),
		Timeout: cfg.GenerateTimeout,
	}
	slideDeckGen := &generation.Generator{
		Type:    generation.TypeSlideDeck,
		Store:   generation.NewMemoryStore(cfg.JobTTL),
		Pool:    pool,
		Run:     generation.SlideDeckRun(structSvc, deckBuilder),
		Timeout: cfg.GenerateTimeout,
	}
	dispatcher := generation.NewDispatcher(spreadsheetGen, slideDeckGen)
	docHandler := generation.NewHandler(dispatcher, cfg.OutputDir)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	docHandler.RegisterRoutes(api)

	return r
}

// newLLMClient selects the completion backend. Missing credentials fall back
// to the placeholder so the server still serves health and status routes.
func newLLMClient(cfg config.Config) llm.Client {
	switch cfg.LLMProvider {
	case "openai":
		client, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel)
		if err != nil {
			log.Printf("openai client unavailable, using placeholder: %v", err)
			return llm.PlaceholderClient{}
		}
		return client
	default:
		log.Printf("unknown llm provider %q, using placeholder", cfg.LLMProvider)
		return llm.PlaceholderClient{}
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
