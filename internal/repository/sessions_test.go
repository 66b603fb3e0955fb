package repository

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeClock struct {
	current time.Time
}

func (c *fakeClock) Now() time.Time { return c.current }

func newTestRepository(ttl time.Duration) (*MemorySessionsRepository, *fakeClock) {
	clock := &fakeClock{current: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	repo := NewMemorySessionsRepository(ttl)
	repo.now = clock.Now
	return repo, clock
}

func TestMemorySessionsRepository_CreateAndFind(t *testing.T) {
	repo, _ := newTestRepository(time.Hour)
	ctx := context.Background()

	sess, err := repo.Create(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.ID == "" {
		t.Fatalf("expected generated session id")
	}

	found, err := repo.FindByID(ctx, sess.ID)
	if err != nil {
		t.Fatalf("find session: %v", err)
	}
	if found != sess {
		t.Fatalf("expected the same session instance")
	}

	if _, err := repo.FindByID(ctx, "missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestMemorySessionsRepository_Expiry(t *testing.T) {
	repo, clock := newTestRepository(time.Hour)
	ctx := context.Background()

	idle, _ := repo.Create(ctx)
	busy, _ := repo.Create(ctx)
	if _, ok := busy.Begin(clock.Now()); !ok {
		t.Fatalf("expected busy session to begin")
	}

	clock.current = clock.current.Add(2 * time.Hour)

	if _, err := repo.FindByID(ctx, idle.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected idle session to be expired, got %v", err)
	}
	if _, err := repo.FindByID(ctx, busy.ID); err != nil {
		t.Fatalf("expected busy session to survive expiry, got %v", err)
	}

	if removed := repo.Sweep(); removed != 1 {
		t.Fatalf("expected 1 session swept, got %d", removed)
	}
	if repo.Len() != 1 {
		t.Fatalf("expected 1 session left, got %d", repo.Len())
	}
}

func TestMemorySessionsRepository_Delete(t *testing.T) {
	repo, _ := newTestRepository(time.Hour)
	ctx := context.Background()

	sess, _ := repo.Create(ctx)
	if err := repo.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, sess.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound on second delete, got %v", err)
	}
}

func TestMemorySessionsRepository_CancelledContext(t *testing.T) {
	repo, _ := newTestRepository(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := repo.Create(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestMemorySessionsRepository_RunStopsOnCancel(t *testing.T) {
	repo, _ := newTestRepository(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		repo.Run(ctx, time.Millisecond, nil)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("expected janitor to stop after cancel")
	}
}
