package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/octobees/wanderplan/internal/entity"
)

// ErrSessionNotFound is returned when no live session matches the identifier.
var ErrSessionNotFound = errors.New("session not found")

// SessionsRepository declares the operations on in-memory sessions.
type SessionsRepository interface {
	Create(ctx context.Context) (*entity.Session, error)
	FindByID(ctx context.Context, id string) (*entity.Session, error)
	Delete(ctx context.Context, id string) error
}

// MemorySessionsRepository keeps sessions in process memory and forgets
// them once they have been idle longer than the configured TTL.
type MemorySessionsRepository struct {
	mu       sync.RWMutex
	sessions map[string]*entity.Session
	ttl      time.Duration
	now      func() time.Time
}

// NewMemorySessionsRepository instantiates a sessions repository.
func NewMemorySessionsRepository(ttl time.Duration) *MemorySessionsRepository {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &MemorySessionsRepository{
		sessions: make(map[string]*entity.Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create registers a new empty session.
func (r *MemorySessionsRepository) Create(ctx context.Context) (*entity.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sess := entity.NewSession(uuid.NewString(), r.now())

	r.mu.Lock()
	r.sessions[sess.ID] = sess
	r.mu.Unlock()

	return sess, nil
}

// FindByID returns the live session for id.
func (r *MemorySessionsRepository) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	sess, ok := r.sessions[id]
	r.mu.RUnlock()

	if !ok || r.expired(sess) {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Delete forgets a session.
func (r *MemorySessionsRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

// Len reports how many sessions are held, expired ones included.
func (r *MemorySessionsRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep evicts idle sessions and returns how many were removed.
// Sessions with a generation call in flight are kept.
func (r *MemorySessionsRepository) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, sess := range r.sessions {
		if r.expired(sess) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps on every tick until ctx is cancelled. observe, when set, is
// called with the number of sessions left after each sweep.
func (r *MemorySessionsRepository) Run(ctx context.Context, interval time.Duration, observe func(remaining int)) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
			if observe != nil {
				observe(r.Len())
			}
		}
	}
}

func (r *MemorySessionsRepository) expired(sess *entity.Session) bool {
	if sess.Busy() {
		return false
	}
	return r.now().Sub(sess.UpdatedAt()) > r.ttl
}

var _ SessionsRepository = (*MemorySessionsRepository)(nil)
