package batch

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"dish-namer/internal/core/dish"

	"github.com/google/uuid"
)

func TestRedisStoreKeys(t *testing.T) {
	s := &RedisStore{prefix: "dishnamer:"}
	if got := s.jobKey(7); got != "dishnamer:job:7" {
		t.Fatalf("jobKey = %q", got)
	}
	if got := s.namingKey(7, "g1"); got != "dishnamer:job:7:name:g1" {
		t.Fatalf("namingKey = %q", got)
	}
}

// 需要實際的 Redis：REDIS_ADDR=localhost:6379 go test ./internal/core/batch
func TestRedisStoreIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	ctx := context.Background()
	s, err := NewRedisStore(ctx, RedisOptions{
		Addr:      addr,
		KeyPrefix: "dishnamer-test:" + uuid.NewString() + ":",
		TTL:       time.Minute,
	})
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer s.Close()

	tr := New(s, &countingResolver{}, Options{})
	tr.RegisterJob(7, "MealSimple", "")
	first := &item{}
	tr.ProcessOutput(first, 7, dish.FromIDs("RawRice"))
	second := &item{}
	tr.ProcessOutput(second, 7, nil)
	if first.name == "" || first.name != second.name {
		t.Fatalf("names = %q, %q", first.name, second.name)
	}

	job, err := s.Get(ctx, 7)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if _, err := s.SetNaming(ctx, 7, job.Generation, Naming{Name: "Other"}); err != nil {
		t.Fatalf("SetNaming: %v", err)
	}
	if name, _ := tr.Name(7); name != first.name {
		t.Fatalf("name overwritten: %q", name)
	}

	tr.ReleaseJob(7)
	if _, err := s.Get(ctx, 7); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("Get after release err = %v", err)
	}
	tr.RegisterJob(7, "MealSimple", "")
	if job, _ := tr.Job(7); job.State() != StateRegistered {
		t.Fatalf("state after re-register = %v", job.State())
	}
	if _, err := s.SetNaming(ctx, 7, job.Generation, Naming{Name: "Stale"}); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("SetNaming with released generation err = %v", err)
	}
}
