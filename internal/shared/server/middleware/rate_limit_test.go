package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimitGenerateGroup(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	groupFor := func(c *gin.Context) string {
		if c.Request.Method == http.MethodPost && c.FullPath() == "/api/documents" {
			return "GENERATE"
		}
		return ""
	}

	r := gin.New()
	r.Use(RateLimit(RateLimitConfig{
		GroupFor: groupFor,
		Limiter:  limiter,
		Rules: map[string]RateLimitRule{
			"GENERATE": {Rate: 1, Burst: 2},
		},
	}))
	r.POST("/api/documents", func(c *gin.Context) {
		c.JSON(http.StatusAccepted, gin.H{"ok": true})
	})
	r.GET("/api/documents/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	// Burst allows two submissions, the third is throttled.
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/documents", nil)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		if resp.Code != http.StatusAccepted {
			t.Fatalf("request %d: expected 202, got %d", i, resp.Code)
		}
	}
	req := httptest.NewRequest(http.MethodPost, "/api/documents", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", resp.Code)
	}
	if resp.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header on throttled response")
	}

	// Status polling is in no configured group and never throttled.
	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/documents/spreadsheet_abc", nil)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("poll %d: expected 200, got %d", i, resp.Code)
		}
	}
}

func TestRateLimiterRefill(t *testing.T) {
	current := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return current })
	rule := RateLimitRule{Rate: 1, Burst: 1}

	allowed, _ := limiter.Allow("ip|GENERATE", rule)
	if !allowed {
		t.Fatalf("first request should pass")
	}
	allowed, retryAfter := limiter.Allow("ip|GENERATE", rule)
	if allowed {
		t.Fatalf("second request should be throttled")
	}
	if retryAfter <= 0 {
		t.Fatalf("expected positive retry-after, got %v", retryAfter)
	}

	current = current.Add(2 * time.Second)
	if allowed, _ := limiter.Allow("ip|GENERATE", rule); !allowed {
		t.Fatalf("request after refill should pass")
	}
}
