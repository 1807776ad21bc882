package entity

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPrediction is returned when a decoded prediction is unusable
var ErrInvalidPrediction = errors.New("invalid prediction")

// Label represents the class name returned by the classification service
type Label string

const (
	LabelHate    Label = "HATE"
	LabelNotHate Label = "NOT_HATE"
)

// Prediction represents a single classification outcome
type Prediction struct {
	Label      Label   `json:"label"`
	Confidence float64 `json:"confidence"`
}

// NewPrediction validates the raw service values and creates a Prediction.
// The label is kept as sent by the service; only "HATE" is the positive class.
func NewPrediction(label string, confidence float64) (*Prediction, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, fmt.Errorf("%w: empty label", ErrInvalidPrediction)
	}
	if confidence < 0 || confidence > 1 {
		return nil, fmt.Errorf("%w: confidence %v out of range [0,1]", ErrInvalidPrediction, confidence)
	}

	return &Prediction{
		Label:      Label(label),
		Confidence: confidence,
	}, nil
}

// IsHate returns true if the prediction is the positive class
func (p Prediction) IsHate() bool {
	return p.Label == LabelHate
}

// Percent returns the confidence as a percentage
func (p Prediction) Percent() float64 {
	return p.Confidence * 100
}
