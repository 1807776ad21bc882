package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ressKim-io/hatecheck/internal/usecase"
)

// sessionRepository keeps sessions in process memory only
type sessionRepository struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*usecase.Session
}

// NewSessionRepository creates a new in-memory session repository
func NewSessionRepository() usecase.SessionRepository {
	return &sessionRepository{
		sessions: make(map[uuid.UUID]*usecase.Session),
	}
}

func (r *sessionRepository) Create(_ context.Context, session *usecase.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = session
	return nil
}

func (r *sessionRepository) GetByID(_ context.Context, id uuid.UUID) (*usecase.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[id], nil
}

func (r *sessionRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func (r *sessionRepository) ListIdle(_ context.Context, before time.Time) ([]*usecase.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var idle []*usecase.Session
	for _, s := range r.sessions {
		if s.LastActive().Before(before) {
			idle = append(idle, s)
		}
	}
	return idle, nil
}

func (r *sessionRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions), nil
}
