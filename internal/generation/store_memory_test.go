package generation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemoryStoreCRUD(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	job := Job{ID: "spreadsheet_abc", Title: "t", Status: StatusProcessing, CreatedAt: time.Now().UTC()}
	if err := store.Create(ctx, job); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	got, ok := store.Get(ctx, job.ID)
	if !ok {
		t.Fatalf("Get did not find created job")
	}
	if got.Status != StatusProcessing {
		t.Errorf("status = %q, want %q", got.Status, StatusProcessing)
	}

	job.Status = StatusCompleted
	if err := store.Update(ctx, job); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	got, _ = store.Get(ctx, job.ID)
	if got.Status != StatusCompleted {
		t.Errorf("status after update = %q, want %q", got.Status, StatusCompleted)
	}

	if err := store.Delete(ctx, job.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, ok := store.Get(ctx, job.ID); ok {
		t.Errorf("Get found deleted job")
	}
}

func TestMemoryStoreUpdateMissing(t *testing.T) {
	store := NewMemoryStore(0)

	err := store.Update(context.Background(), Job{ID: "nope"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("job_%d", i)
			_ = store.Create(ctx, Job{ID: id, Status: StatusProcessing})
			_, _ = store.Get(ctx, id)
			_ = store.Update(ctx, Job{ID: id, Status: StatusCompleted})
		}(i)
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		job, ok := store.Get(ctx, fmt.Sprintf("job_%d", i))
		if !ok || job.Status != StatusCompleted {
			t.Fatalf("job %d missing or not completed after concurrent writes", i)
		}
	}
}

func TestEvictBeforeKeepsProcessingAndFreshJobs(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	old := time.Now().UTC().Add(-48 * time.Hour)
	fresh := time.Now().UTC()

	_ = store.Create(ctx, Job{ID: "stale", Status: StatusCompleted, CompletedAt: &old})
	_ = store.Create(ctx, Job{ID: "fresh", Status: StatusFailed, CompletedAt: &fresh})
	_ = store.Create(ctx, Job{ID: "running", Status: StatusProcessing})

	store.evictBefore(time.Now().UTC().Add(-24 * time.Hour))

	if _, ok := store.Get(ctx, "stale"); ok {
		t.Errorf("stale terminal job survived eviction")
	}
	if _, ok := store.Get(ctx, "fresh"); !ok {
		t.Errorf("fresh terminal job was evicted")
	}
	if _, ok := store.Get(ctx, "running"); !ok {
		t.Errorf("processing job was evicted")
	}
}
