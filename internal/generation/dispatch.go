package generation

import (
	"context"
	"fmt"
	"strings"
)

// Dispatcher routes requests and status lookups across the registered
// generators. Submission routes on the request's document type; status
// routes on the type prefix baked into the job id, falling back to a
// fixed-order probe for ids without a recognizable prefix.
type Dispatcher struct {
	generators []*Generator
	byType     map[DocumentType]*Generator
}

func NewDispatcher(generators ...*Generator) *Dispatcher {
	byType := make(map[DocumentType]*Generator, len(generators))
	for _, g := range generators {
		byType[g.Type] = g
	}
	return &Dispatcher{generators: generators, byType: byType}
}

func (d *Dispatcher) Submit(ctx context.Context, req DocumentRequest) (Job, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return Job{}, fmt.Errorf("%w: title and content are required", ErrInvalidInput)
	}
	g, ok := d.byType[req.DocumentType]
	if !ok {
		return Job{}, fmt.Errorf("%w: %q", ErrUnsupportedType, req.DocumentType)
	}
	return g.Submit(ctx, req)
}

// Status resolves a job id to its record. Unknown ids yield a well-formed
// not-found record alongside ErrNotFound.
func (d *Dispatcher) Status(ctx context.Context, jobID string) (Job, error) {
	if g, ok := d.byType[typeFromID(jobID)]; ok {
		if job, found := g.Status(ctx, jobID); found {
			return job, nil
		}
		return NotFoundJob(jobID), ErrNotFound
	}
	for _, g := range d.generators {
		if job, found := g.Status(ctx, jobID); found {
			return job, nil
		}
	}
	return NotFoundJob(jobID), ErrNotFound
}

func typeFromID(jobID string) DocumentType {
	if i := strings.Index(jobID, "_"); i > 0 {
		return DocumentType(jobID[:i])
	}
	return ""
}
