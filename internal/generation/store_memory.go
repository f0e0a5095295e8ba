package generation

import (
	"context"
	"sync"
	"time"
)

const janitorInterval = 10 * time.Minute

// MemoryStore stores jobs in memory and is safe for concurrent use. Terminal
// records older than the configured TTL are evicted by a background janitor;
// processing records are never evicted.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]Job
	ttl  time.Duration
	done chan struct{}
	once sync.Once
}

// NewMemoryStore constructs a MemoryStore. A zero or negative ttl disables
// eviction.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		jobs: make(map[string]Job),
		ttl:  ttl,
		done: make(chan struct{}),
	}
	if ttl > 0 {
		go s.janitor()
	}
	return s
}

// Create stores the job.
func (s *MemoryStore) Create(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
	return nil
}

// Update replaces an existing job record.
func (s *MemoryStore) Update(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[job.ID]; !ok {
		return ErrNotFound
	}
	s.jobs[job.ID] = job
	return nil
}

// Get returns a snapshot of the job, if present.
func (s *MemoryStore) Get(ctx context.Context, jobID string) (Job, bool) {
	if err := ctx.Err(); err != nil {
		return Job{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[jobID]
	return job, ok
}

// Delete removes the job if present.
func (s *MemoryStore) Delete(ctx context.Context, jobID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, jobID)
	return nil
}

// Close stops the janitor.
func (s *MemoryStore) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *MemoryStore) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.evictBefore(now.Add(-s.ttl))
		}
	}
}

func (s *MemoryStore) evictBefore(cutoff time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, job := range s.jobs {
		if job.Terminal() && job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
			delete(s.jobs, id)
		}
	}
}
