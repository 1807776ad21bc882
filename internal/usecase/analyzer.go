package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ressKim-io/hatecheck/internal/domain/entity"
	"github.com/ressKim-io/hatecheck/internal/domain/service"
	"github.com/ressKim-io/hatecheck/internal/infrastructure/metrics"
)

// User-facing messages
const (
	MessageEmptyInput     = "Please enter some text to analyze."
	MessageGenericFailure = "An error occurred while analyzing the text."
)

// Error definitions for the analyzer
var (
	ErrEmptyInput           = errors.New("input text is empty")
	ErrSubmissionInFlight   = errors.New("a submission is already in flight")
	ErrSubmissionSuperseded = errors.New("submission was reset before it settled")
)

// Snapshot is a consistent view of an analyzer
type Snapshot struct {
	Input string       `json:"input"`
	State entity.State `json:"state"`
}

// Analyzer owns the input text and drives the submit lifecycle of one session.
// All transitions happen under mu and are published to subscribers before
// the lock is released, so observers never see a partial transition.
type Analyzer struct {
	classifier service.Classifier
	logger     *zap.Logger
	metrics    *metrics.Metrics
	timeout    time.Duration

	mu          sync.Mutex
	input       string
	state       entity.State
	generation  uint64
	cancel      context.CancelFunc
	subscribers map[int]func(entity.State)
	nextSubID   int
}

// AnalyzerOption configures an Analyzer
type AnalyzerOption func(*Analyzer)

// WithLogger sets the analyzer logger
func WithLogger(logger *zap.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// WithMetrics sets the analyzer metrics
func WithMetrics(m *metrics.Metrics) AnalyzerOption {
	return func(a *Analyzer) {
		a.metrics = m
	}
}

// WithTimeout bounds every submission; zero leaves it bounded only by the caller's context
func WithTimeout(d time.Duration) AnalyzerOption {
	return func(a *Analyzer) {
		a.timeout = d
	}
}

// NewAnalyzer creates an idle analyzer
func NewAnalyzer(classifier service.Classifier, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		classifier:  classifier,
		logger:      zap.NewNop(),
		state:       entity.IdleState(),
		subscribers: make(map[int]func(entity.State)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SetInput stores the text verbatim
func (a *Analyzer) SetInput(text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.input = text
}

// Input returns the current raw text
func (a *Analyzer) Input() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.input
}

// State returns the current state
func (a *Analyzer) State() entity.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Snapshot returns input and state read together
func (a *Analyzer) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Snapshot{Input: a.input, State: a.state}
}

// Subscribe registers fn to receive every state transition in order.
// fn runs while the analyzer is locked and must not call back into it.
func (a *Analyzer) Subscribe(fn func(entity.State)) (unsubscribe func()) {
	a.mu.Lock()
	id := a.nextSubID
	a.nextSubID++
	a.subscribers[id] = fn
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		delete(a.subscribers, id)
		a.mu.Unlock()
	}
}

// Submit validates the input and classifies the trimmed text.
//
// It blocks until the submission settles and returns the resulting state.
// Classification failures are reported through the state, not the error.
// The error is ErrEmptyInput when nothing was sent, ErrSubmissionInFlight
// when another submission has not settled yet, and ErrSubmissionSuperseded
// when Reset ran while the request was outstanding; in that last case the
// late response is dropped.
func (a *Analyzer) Submit(ctx context.Context) (entity.State, error) {
	a.mu.Lock()

	if a.state.IsLoading() {
		state := a.state
		a.mu.Unlock()
		a.metrics.SubmissionRejected(metrics.OutcomeRejectedBusy)
		return state, ErrSubmissionInFlight
	}

	text := strings.TrimSpace(a.input)
	if text == "" {
		a.transition(entity.FailedState(uuid.Nil, MessageEmptyInput))
		state := a.state
		a.mu.Unlock()
		a.metrics.SubmissionRejected(metrics.OutcomeValidation)
		return state, ErrEmptyInput
	}

	a.generation++
	generation := a.generation
	submissionID := uuid.New()
	reqCtx, cancel := a.requestContext(ctx)
	a.cancel = cancel
	a.transition(entity.LoadingState(submissionID))
	a.mu.Unlock()
	defer cancel()

	a.metrics.SubmissionStarted()
	start := time.Now()
	prediction, err := a.classifier.Predict(reqCtx, text)
	elapsed := time.Since(start)
	if err == nil && prediction == nil {
		err = service.ErrMalformedResponse
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	log := a.logger.With(
		zap.String("submission_id", submissionID.String()),
		zap.Duration("latency", elapsed),
	)

	if generation != a.generation {
		a.metrics.SubmissionSettled(metrics.OutcomeSuperseded, elapsed)
		log.Debug("Discarding response of superseded submission")
		return a.state, ErrSubmissionSuperseded
	}
	a.cancel = nil

	if err != nil {
		outcome := failureOutcome(err)
		a.metrics.SubmissionSettled(outcome, elapsed)
		log.Warn("Classification failed", zap.String("outcome", outcome), zap.Error(err))
		a.transition(entity.FailedState(submissionID, FailureMessage(err)))
		return a.state, nil
	}

	a.metrics.SubmissionSettled(metrics.OutcomeSuccess, elapsed)
	log.Info("Classification succeeded",
		zap.String("label", string(prediction.Label)),
		zap.Float64("confidence", prediction.Confidence),
	)
	a.transition(entity.SucceededState(submissionID, *prediction))
	return a.state, nil
}

// Reset clears input, result and error, and abandons any in-flight request.
// Calling it repeatedly has the same effect as calling it once.
func (a *Analyzer) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
		a.generation++
	}
	a.input = ""
	if a.state.Phase != entity.PhaseIdle {
		a.transition(entity.IdleState())
	}
}

func (a *Analyzer) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout > 0 {
		return context.WithTimeout(ctx, a.timeout)
	}
	return context.WithCancel(ctx)
}

// transition must be called with mu held
func (a *Analyzer) transition(next entity.State) {
	a.state = next
	for _, fn := range a.subscribers {
		fn(next)
	}
}

// FailureMessage maps a classification error to the message shown to users.
// Non-2xx responses name the status; everything else gets a generic message.
func FailureMessage(err error) string {
	var statusErr *service.StatusError
	if errors.As(err, &statusErr) {
		return "HTTP error! status: " + strconv.Itoa(statusErr.StatusCode)
	}
	return MessageGenericFailure
}

func failureOutcome(err error) string {
	var statusErr *service.StatusError
	switch {
	case errors.As(err, &statusErr):
		return metrics.OutcomeStatus
	case errors.Is(err, service.ErrMalformedResponse):
		return metrics.OutcomeDecode
	default:
		return metrics.OutcomeNetwork
	}
}
