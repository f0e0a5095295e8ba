package generation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newTestAPI(t *testing.T, outputDir string) (*gin.Engine, *MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	pool := NewPool(1, 8)
	t.Cleanup(pool.Close)
	store := NewMemoryStore(0)
	gen := &Generator{
		Type:  TypeSpreadsheet,
		Store: store,
		Pool:  pool,
		Run: func(ctx context.Context, req DocumentRequest) (string, error) {
			return "out.xlsx", nil
		},
	}
	handler := NewHandler(NewDispatcher(gen), outputDir)

	r := gin.New()
	handler.RegisterRoutes(r.Group("/api"))
	return r, store
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateDocumentAccepted(t *testing.T) {
	r, _ := newTestAPI(t, t.TempDir())

	w := postJSON(t, r, "/api/documents", `{"title": "Budget", "content": "quarterly numbers", "documentType": "excel"}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202: %s", w.Code, w.Body.String())
	}

	var job Job
	if err := json.Unmarshal(w.Body.Bytes(), &job); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if job.Status != StatusProcessing {
		t.Errorf("status = %q, want %q", job.Status, StatusProcessing)
	}
	if !strings.HasPrefix(job.ID, "spreadsheet_") {
		t.Errorf("job id = %q, want type prefix", job.ID)
	}
	if loc := w.Header().Get("Location"); loc != "/api/documents/"+job.ID {
		t.Errorf("Location = %q, want the status URL", loc)
	}
}

func TestCreateDocumentValidation(t *testing.T) {
	r, _ := newTestAPI(t, t.TempDir())

	tests := []struct {
		name string
		body string
	}{
		{name: "missing title", body: `{"content": "c", "documentType": "excel"}`},
		{name: "blank content", body: `{"title": "t", "content": "   ", "documentType": "excel"}`},
		{name: "bad type", body: `{"title": "t", "content": "c", "documentType": "pdf"}`},
		{name: "malformed json", body: `{"title": `},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, r, "/api/documents", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400: %s", w.Code, w.Body.String())
			}
			if !strings.Contains(w.Body.String(), "validation_error") {
				t.Errorf("body = %s, want validation_error code", w.Body.String())
			}
		})
	}
}

func TestGetDocumentStatus(t *testing.T) {
	r, store := newTestAPI(t, t.TempDir())

	completedAt := time.Now().UTC()
	_ = store.Create(context.Background(), Job{
		ID:          "spreadsheet_known",
		Title:       "Budget",
		Status:      StatusCompleted,
		FileName:    "out.xlsx",
		CreatedAt:   completedAt.Add(-time.Minute),
		CompletedAt: &completedAt,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/documents/spreadsheet_known", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var job Job
	if err := json.Unmarshal(w.Body.Bytes(), &job); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if job.Status != StatusCompleted || job.FileName != "out.xlsx" {
		t.Errorf("job = %+v, want completed record", job)
	}
}

func TestGetDocumentStatusUnknown(t *testing.T) {
	r, _ := newTestAPI(t, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/api/documents/spreadsheet_missing", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404: %s", w.Code, w.Body.String())
	}
	var job Job
	if err := json.Unmarshal(w.Body.Bytes(), &job); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if job.ID != "spreadsheet_missing" || job.Status != StatusFailed {
		t.Errorf("body = %+v, want failed record echoing the id", job)
	}
}

func TestDownloadDocumentFile(t *testing.T) {
	dir := t.TempDir()
	r, _ := newTestAPI(t, dir)

	if err := os.WriteFile(filepath.Join(dir, "Budget_20260701_120000.xlsx"), []byte("bytes"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/documents/spreadsheet/download/Budget_20260701_120000.xlsx", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Errorf("Content-Disposition = %q, want attachment", cd)
	}
	if w.Body.String() != "bytes" {
		t.Errorf("body = %q, want file content", w.Body.String())
	}
}

func TestViewDocumentFile(t *testing.T) {
	dir := t.TempDir()
	r, _ := newTestAPI(t, dir)

	if err := os.WriteFile(filepath.Join(dir, "deck.pptx"), []byte("bytes"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/documents/spreadsheet/deck.pptx", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct == "" {
		t.Errorf("missing Content-Type header")
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "inline") {
		t.Errorf("Content-Disposition = %q, want inline", cd)
	}
}

func TestFileRoutesRejectTraversal(t *testing.T) {
	r, _ := newTestAPI(t, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/api/documents/spreadsheet/download/..", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", w.Code, w.Body.String())
	}
}

func TestFileRoutesUnknownFile(t *testing.T) {
	r, _ := newTestAPI(t, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/api/documents/spreadsheet/download/missing.xlsx", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404: %s", w.Code, w.Body.String())
	}
}
