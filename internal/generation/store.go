package generation

import "context"

// Store holds job records keyed by id. Implementations must be safe for
// concurrent use; writes are atomic per key.
type Store interface {
	Create(ctx context.Context, job Job) error
	Update(ctx context.Context, job Job) error
	Get(ctx context.Context, jobID string) (Job, bool)
	Delete(ctx context.Context, jobID string) error
}
