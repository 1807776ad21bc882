package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ressKim-io/hatecheck/internal/domain/entity"
)

// ErrMalformedResponse is returned when the classifier answers with a body
// that does not decode into a prediction
var ErrMalformedResponse = errors.New("malformed classifier response")

// StatusError is returned when the classifier answers outside the 2xx range
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("classifier returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("classifier returned status %d: %s", e.StatusCode, e.Body)
}

// Classifier defines the interface for hate speech classification
type Classifier interface {
	// Predict classifies a single text
	Predict(ctx context.Context, text string) (*entity.Prediction, error)

	// PredictBatch classifies multiple texts in one call
	PredictBatch(ctx context.Context, texts []string) ([]*entity.Prediction, error)
}

// HealthChecker reports whether the classifier is able to serve predictions
type HealthChecker interface {
	Ping(ctx context.Context) error
}
