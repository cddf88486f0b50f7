package batch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"dish-namer/internal/core/dish"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestMemoryStoreTTL(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := NewMemoryStore(MemoryOptions{TTL: time.Hour, Now: clock.Now})
	defer s.Close()

	if created, _ := s.Register(ctx, Job{ID: 1}); !created {
		t.Fatal("expected new job")
	}
	clock.Advance(30 * time.Minute)
	if _, err := s.Get(ctx, 1); err != nil {
		t.Fatalf("Get before expiry: %v", err)
	}

	clock.Advance(time.Hour)
	if _, err := s.Get(ctx, 1); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("Get after expiry err = %v", err)
	}
	if n := s.Sweep(); n != 1 {
		t.Fatalf("Sweep removed %d", n)
	}
	if created, _ := s.Register(ctx, Job{ID: 1}); !created {
		t.Fatal("expected expired job to be replaced")
	}
}

func TestMemoryStoreEvictsOldest(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := NewMemoryStore(MemoryOptions{MaxJobs: 2, Now: clock.Now})

	s.Register(ctx, Job{ID: 1, Generation: "g1"})
	clock.Advance(time.Second)
	s.Register(ctx, Job{ID: 2})
	clock.Advance(time.Second)
	if _, err := s.SetNaming(ctx, 1, "g1", Naming{Name: "kept"}); err != nil {
		t.Fatalf("SetNaming: %v", err)
	}
	clock.Advance(time.Second)
	s.Register(ctx, Job{ID: 3})

	if _, err := s.Get(ctx, 2); !errors.Is(err, ErrJobNotFound) {
		t.Fatal("expected least recently used job to be evicted")
	}
	for _, id := range []int{1, 3} {
		if _, err := s.Get(ctx, id); err != nil {
			t.Fatalf("job %d missing: %v", id, err)
		}
	}
	stats, _ := s.Stats(ctx)
	if stats.Jobs != 2 || stats.Named != 1 || stats.Evictions != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestMemoryStoreSetNamingOnce(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(MemoryOptions{})
	s.Register(ctx, Job{ID: 1})
	job, err := s.Get(ctx, 1)
	if err != nil || job.Generation == "" {
		t.Fatalf("Get = %+v, %v; want a generation", job, err)
	}

	first, err := s.SetNaming(ctx, 1, job.Generation, Naming{Name: "First", Ingredients: dish.FromIDs("RawRice")})
	if err != nil {
		t.Fatalf("SetNaming: %v", err)
	}
	second, err := s.SetNaming(ctx, 1, job.Generation, Naming{Name: "Second"})
	if err != nil {
		t.Fatalf("SetNaming: %v", err)
	}
	if first.Naming.Name != "First" || second.Naming.Name != "First" {
		t.Fatalf("names = %q, %q", first.Naming.Name, second.Naming.Name)
	}
	if _, err := s.SetNaming(ctx, 2, job.Generation, Naming{Name: "x"}); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("SetNaming unknown err = %v", err)
	}
}

func TestMemoryStoreSetNamingRejectsOldGeneration(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(MemoryOptions{})
	s.Register(ctx, Job{ID: 1})
	old, _ := s.Get(ctx, 1)

	s.Delete(ctx, 1)
	s.Register(ctx, Job{ID: 1})
	fresh, _ := s.Get(ctx, 1)
	if fresh.Generation == old.Generation {
		t.Fatalf("re-registration reused generation %q", old.Generation)
	}

	if _, err := s.SetNaming(ctx, 1, old.Generation, Naming{Name: "Stale"}); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("SetNaming with old generation err = %v", err)
	}
	if job, _ := s.Get(ctx, 1); job.Naming != nil {
		t.Fatalf("fresh job named %q", job.Naming.Name)
	}
}

func TestMemoryStoreGetRefreshesAccess(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := NewMemoryStore(MemoryOptions{MaxJobs: 2, Now: clock.Now})

	s.Register(ctx, Job{ID: 1})
	clock.Advance(time.Second)
	s.Register(ctx, Job{ID: 2})
	clock.Advance(time.Second)
	if _, err := s.Get(ctx, 1); err != nil {
		t.Fatalf("Get: %v", err)
	}
	clock.Advance(time.Second)
	s.Register(ctx, Job{ID: 3})

	if _, err := s.Get(ctx, 2); !errors.Is(err, ErrJobNotFound) {
		t.Fatal("expected job 2 to be evicted after job 1 was read")
	}
	if _, err := s.Get(ctx, 1); err != nil {
		t.Fatalf("job 1 evicted despite recent read: %v", err)
	}
}

func TestMemoryStoreCleanupLoopStops(t *testing.T) {
	s := NewMemoryStore(MemoryOptions{TTL: time.Millisecond, CleanupInterval: time.Millisecond})
	s.Register(context.Background(), Job{ID: 1})
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
