package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPrediction(t *testing.T) {
	tests := []struct {
		name       string
		label      string
		confidence float64
		wantErr    bool
		wantHate   bool
	}{
		{
			name:       "hate label",
			label:      "HATE",
			confidence: 0.87,
			wantHate:   true,
		},
		{
			name:       "not hate label",
			label:      "NOT_HATE",
			confidence: 0.42,
		},
		{
			name:       "backend non-hate spelling is negative class",
			label:      "NON-HATE",
			confidence: 0.99,
		},
		{
			name:       "lowercase hate is not the positive class",
			label:      "hate",
			confidence: 0.5,
		},
		{
			name:       "confidence lower bound",
			label:      "HATE",
			confidence: 0,
			wantHate:   true,
		},
		{
			name:       "confidence upper bound",
			label:      "HATE",
			confidence: 1,
			wantHate:   true,
		},
		{
			name:       "empty label",
			label:      "  ",
			confidence: 0.5,
			wantErr:    true,
		},
		{
			name:       "negative confidence",
			label:      "HATE",
			confidence: -0.1,
			wantErr:    true,
		},
		{
			name:       "confidence above one",
			label:      "HATE",
			confidence: 87,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPrediction(tt.label, tt.confidence)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPrediction)
				assert.Nil(t, p)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantHate, p.IsHate())
			assert.Equal(t, tt.confidence, p.Confidence)
		})
	}
}

func TestPrediction_Percent(t *testing.T) {
	p := Prediction{Label: LabelHate, Confidence: 0.87}
	assert.InDelta(t, 87.0, p.Percent(), 1e-9)
}
