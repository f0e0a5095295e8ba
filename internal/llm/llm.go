package llm

import (
	"context"
	"errors"
)

// Client abstracts text-generation providers. Complete sends a prompt and
// returns the raw model output; callers own any parsing of the result.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("LLM not implemented")

// PlaceholderClient stands in when no provider is configured. Submissions
// are still accepted; their jobs fail with ErrNotImplemented.
type PlaceholderClient struct{}

// Complete returns ErrNotImplemented.
func (PlaceholderClient) Complete(ctx context.Context, prompt string) (string, error) {
	_ = ctx
	_ = prompt
	return "", ErrNotImplemented
}
