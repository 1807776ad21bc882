package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ressKim-io/hatecheck/internal/domain/service"
	"github.com/ressKim-io/hatecheck/internal/infrastructure/metrics"
)

// ErrSessionNotFound is returned for unknown or evicted sessions
var ErrSessionNotFound = errors.New("session not found")

// Session binds an analyzer to an ID for the lifetime of a browser session
type Session struct {
	ID        uuid.UUID
	Analyzer  *Analyzer
	CreatedAt time.Time

	lastActive atomic.Int64
}

// NewSession creates a session around analyzer
func NewSession(analyzer *Analyzer, now time.Time) *Session {
	s := &Session{
		ID:        uuid.New(),
		Analyzer:  analyzer,
		CreatedAt: now,
	}
	s.Touch(now)
	return s
}

// Touch records activity at now
func (s *Session) Touch(now time.Time) {
	s.lastActive.Store(now.UnixNano())
}

// LastActive returns the time of the latest activity
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

// SessionRepository stores live sessions
type SessionRepository interface {
	// Create stores a new session
	Create(ctx context.Context, session *Session) error

	// GetByID retrieves a session, or nil if it does not exist
	GetByID(ctx context.Context, id uuid.UUID) (*Session, error)

	// Delete removes a session
	Delete(ctx context.Context, id uuid.UUID) error

	// ListIdle returns sessions whose last activity is before the given time
	ListIdle(ctx context.Context, before time.Time) ([]*Session, error)

	// Count returns the number of stored sessions
	Count(ctx context.Context) (int, error)
}

// SessionOutput represents the output for session operations
type SessionOutput struct {
	SessionID uuid.UUID `json:"session_id"`
	Snapshot
}

// SessionUsecase defines the session-scoped analysis operations
type SessionUsecase interface {
	Create(ctx context.Context) (*SessionOutput, error)
	Get(ctx context.Context, id uuid.UUID) (*SessionOutput, error)
	SetInput(ctx context.Context, id uuid.UUID, text string) (*SessionOutput, error)
	Submit(ctx context.Context, id uuid.UUID) (*SessionOutput, error)
	Reset(ctx context.Context, id uuid.UUID) (*SessionOutput, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Sweep(ctx context.Context, idle time.Duration) (int, error)
}

type sessionUsecase struct {
	sessions   SessionRepository
	classifier service.Classifier
	timeout    time.Duration
	logger     *zap.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
}

// NewSessionUsecase creates a new session usecase
func NewSessionUsecase(sessions SessionRepository, classifier service.Classifier, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) SessionUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &sessionUsecase{
		sessions:   sessions,
		classifier: classifier,
		timeout:    timeout,
		logger:     logger,
		metrics:    m,
		now:        time.Now,
	}
}

func (u *sessionUsecase) Create(ctx context.Context) (*SessionOutput, error) {
	session := NewSession(nil, u.now())
	session.Analyzer = NewAnalyzer(u.classifier,
		WithLogger(u.logger.With(zap.String("session_id", session.ID.String()))),
		WithMetrics(u.metrics),
		WithTimeout(u.timeout),
	)

	if err := u.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	u.updateGauge(ctx)

	return toSessionOutput(session), nil
}

func (u *sessionUsecase) Get(ctx context.Context, id uuid.UUID) (*SessionOutput, error) {
	session, err := u.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSessionOutput(session), nil
}

func (u *sessionUsecase) SetInput(ctx context.Context, id uuid.UUID, text string) (*SessionOutput, error) {
	session, err := u.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	session.Analyzer.SetInput(text)

	return toSessionOutput(session), nil
}

func (u *sessionUsecase) Submit(ctx context.Context, id uuid.UUID) (*SessionOutput, error) {
	session, err := u.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := session.Analyzer.Submit(ctx); err != nil {
		return toSessionOutput(session), err
	}
	session.Touch(u.now())

	return toSessionOutput(session), nil
}

func (u *sessionUsecase) Reset(ctx context.Context, id uuid.UUID) (*SessionOutput, error) {
	session, err := u.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	session.Analyzer.Reset()

	return toSessionOutput(session), nil
}

func (u *sessionUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	session, err := u.lookup(ctx, id)
	if err != nil {
		return err
	}

	session.Analyzer.Reset()
	if err := u.sessions.Delete(ctx, id); err != nil {
		return err
	}
	u.updateGauge(ctx)

	return nil
}

// Sweep evicts sessions idle for longer than idle and returns how many were removed
func (u *sessionUsecase) Sweep(ctx context.Context, idle time.Duration) (int, error) {
	sessions, err := u.sessions.ListIdle(ctx, u.now().Add(-idle))
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, s := range sessions {
		s.Analyzer.Reset()
		if err := u.sessions.Delete(ctx, s.ID); err != nil {
			return removed, err
		}
		removed++
	}

	if removed > 0 {
		u.logger.Info("Evicted idle sessions", zap.Int("count", removed))
		u.updateGauge(ctx)
	}

	return removed, nil
}

func (u *sessionUsecase) lookup(ctx context.Context, id uuid.UUID) (*Session, error) {
	session, err := u.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	session.Touch(u.now())
	return session, nil
}

func (u *sessionUsecase) updateGauge(ctx context.Context) {
	if n, err := u.sessions.Count(ctx); err == nil {
		u.metrics.SetSessions(n)
	}
}

func toSessionOutput(s *Session) *SessionOutput {
	return &SessionOutput{
		SessionID: s.ID,
		Snapshot:  s.Analyzer.Snapshot(),
	}
}
