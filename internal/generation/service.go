package generation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"docgen-backend/internal/render/deck"
	"docgen-backend/internal/render/spreadsheet"
	"docgen-backend/internal/shared/metrics"
	"docgen-backend/internal/shared/telemetry"
	"docgen-backend/internal/structurer"
)

// RunFunc produces the document for an accepted request and returns the
// published file name.
type RunFunc func(ctx context.Context, req DocumentRequest) (string, error)

// Generator owns the job lifecycle for one document type: it accepts
// requests, tracks their records, and runs generation in the background.
type Generator struct {
	Type    DocumentType
	Store   Store
	Pool    *Pool
	Run     RunFunc
	Timeout time.Duration
}

// SpreadsheetRun composes the structurer and the workbook builder.
func SpreadsheetRun(s *structurer.Service, b *spreadsheet.Builder) RunFunc {
	return func(ctx context.Context, req DocumentRequest) (string, error) {
		sheets, err := s.Table(ctx, req.Title, req.Content, req.Sections)
		if err != nil {
			return "", err
		}
		return b.Build(req.Title, sheets)
	}
}

// SlideDeckRun composes the structurer and the presentation builder.
func SlideDeckRun(s *structurer.Service, b *deck.Builder) RunFunc {
	return func(ctx context.Context, req DocumentRequest) (string, error) {
		slides, err := s.Slides(ctx, req.Title, req.Content, req.Sections)
		if err != nil {
			return "", err
		}
		return b.Build(req.Title, slides)
	}
}

// Submit validates the request against this generator's type, records a
// processing job, and schedules background generation. It returns the
// processing snapshot without waiting on generation work.
func (g *Generator) Submit(ctx context.Context, req DocumentRequest) (Job, error) {
	if req.DocumentType != g.Type {
		return Job{}, fmt.Errorf("%w: got %q, want %q", ErrTypeMismatch, req.DocumentType, g.Type)
	}

	job := Job{
		ID:        string(g.Type) + "_" + uuid.NewString(),
		Title:     req.Title,
		Status:    StatusProcessing,
		CreatedAt: time.Now().UTC(),
	}
	if err := g.Store.Create(ctx, job); err != nil {
		return Job{}, err
	}

	if !g.Pool.TrySubmit(func() { g.complete(job.ID, req) }) {
		// Back the record out so a rejected submission leaves no trace.
		_ = g.Store.Delete(context.Background(), job.ID)
		metrics.IncGenerationRejected()
		return Job{}, ErrBusy
	}
	return job, nil
}

// Status returns a snapshot of the job record, if this generator owns it.
func (g *Generator) Status(ctx context.Context, jobID string) (Job, bool) {
	return g.Store.Get(ctx, jobID)
}

// complete runs in a pool worker. Whatever happens, the job ends in exactly
// one terminal state; structuring and build errors become the failed record's
// message rather than escaping the task.
func (g *Generator) complete(jobID string, req DocumentRequest) {
	defer func() {
		if r := recover(); r != nil {
			g.fail(jobID, req.Title, fmt.Errorf("panic: %v", r), time.Now().UTC())
		}
	}()

	startedAt := time.Now().UTC()
	metrics.IncGenerationStarted()
	telemetry.Info("generation.status", map[string]any{
		"job_id":        jobID,
		"document_type": string(g.Type),
		"status":        StatusProcessing,
	})

	ctx := context.Background()
	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}

	fileName, err := g.Run(ctx, req)
	if err != nil {
		g.fail(jobID, req.Title, err, startedAt)
		return
	}

	completedAt := time.Now().UTC()
	job := Job{
		ID:          jobID,
		Title:       req.Title,
		Status:      StatusCompleted,
		FileName:    fileName,
		FileURL:     fmt.Sprintf("/api/documents/%s/%s", g.Type, fileName),
		DownloadURL: fmt.Sprintf("/api/documents/%s/download/%s", g.Type, fileName),
		CreatedAt:   createdAtOf(g.Store, jobID, startedAt),
		CompletedAt: &completedAt,
	}
	if err := g.Store.Update(context.Background(), job); err != nil {
		g.fail(jobID, req.Title, fmt.Errorf("record completion: %w", err), startedAt)
		return
	}
	metrics.IncGenerationCompleted()
	metrics.ObserveGenerationDurationMs(durationMs(startedAt, completedAt))
	telemetry.Info("generation.status", map[string]any{
		"job_id":        jobID,
		"document_type": string(g.Type),
		"status":        StatusCompleted,
		"file_name":     fileName,
		"duration_ms":   durationMs(startedAt, completedAt),
	})
}

func (g *Generator) fail(jobID, title string, cause error, startedAt time.Time) {
	completedAt := time.Now().UTC()
	job := Job{
		ID:           jobID,
		Title:        title,
		Status:       StatusFailed,
		CreatedAt:    createdAtOf(g.Store, jobID, startedAt),
		CompletedAt:  &completedAt,
		ErrorMessage: sanitizeError(cause),
	}
	if err := g.Store.Update(context.Background(), job); err != nil {
		telemetry.Error("generation.fail_record", map[string]any{
			"job_id": jobID,
			"error":  err.Error(),
			"cause":  cause.Error(),
		})
	}
	metrics.IncGenerationFailed()
	metrics.ObserveGenerationDurationMs(durationMs(startedAt, completedAt))
	telemetry.Info("generation.status", map[string]any{
		"job_id":        jobID,
		"document_type": string(g.Type),
		"status":        StatusFailed,
		"error":         sanitizeError(cause),
		"duration_ms":   durationMs(startedAt, completedAt),
	})
}

// createdAtOf preserves the submission timestamp across the terminal write.
func createdAtOf(store Store, jobID string, fallback time.Time) time.Time {
	if existing, ok := store.Get(context.Background(), jobID); ok {
		return existing.CreatedAt
	}
	return fallback
}

func durationMs(startedAt, completedAt time.Time) float64 {
	return float64(completedAt.Sub(startedAt).Microseconds()) / 1000.0
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}
