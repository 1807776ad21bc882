package client

import (
	"context"
	"fmt"

	"github.com/ressKim-io/hatecheck/internal/domain/entity"
	"github.com/ressKim-io/hatecheck/internal/domain/service"
)

// PredictClassifier adapts PredictClient to the Classifier interface
type PredictClassifier struct {
	client *PredictClient
}

var (
	_ service.Classifier    = (*PredictClassifier)(nil)
	_ service.HealthChecker = (*PredictClassifier)(nil)
)

// NewPredictClassifier creates a new PredictClassifier
func NewPredictClassifier(client *PredictClient) *PredictClassifier {
	return &PredictClassifier{client: client}
}

// Predict classifies a single text
func (c *PredictClassifier) Predict(ctx context.Context, text string) (*entity.Prediction, error) {
	resp, err := c.client.Predict(ctx, text)
	if err != nil {
		return nil, err
	}
	return toPrediction(*resp)
}

// PredictBatch classifies multiple texts
func (c *PredictClassifier) PredictBatch(ctx context.Context, texts []string) ([]*entity.Prediction, error) {
	resp, err := c.client.PredictBatch(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(resp.Results) != len(texts) {
		return nil, fmt.Errorf("%w: got %d results for %d texts", service.ErrMalformedResponse, len(resp.Results), len(texts))
	}

	predictions := make([]*entity.Prediction, len(resp.Results))
	for i, r := range resp.Results {
		p, err := toPrediction(r)
		if err != nil {
			return nil, fmt.Errorf("result %d: %w", i, err)
		}
		predictions[i] = p
	}

	return predictions, nil
}

// Ping reports an error unless the service is up with its model loaded
func (c *PredictClassifier) Ping(ctx context.Context) error {
	resp, err := c.client.Health(ctx)
	if err != nil {
		return err
	}
	if !resp.ModelLoaded {
		return fmt.Errorf("classifier %s: model not loaded", resp.Status)
	}
	return nil
}

func toPrediction(r PredictResponse) (*entity.Prediction, error) {
	p, err := entity.NewPrediction(r.Label, r.Confidence)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrMalformedResponse, err)
	}
	return p, nil
}
