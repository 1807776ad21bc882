package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestState_Variants(t *testing.T) {
	id := uuid.New()

	t.Run("idle has no outcome", func(t *testing.T) {
		s := IdleState()
		assert.Equal(t, PhaseIdle, s.Phase)
		assert.False(t, s.IsLoading())
		assert.False(t, s.HasOutcome())
		assert.Equal(t, uuid.Nil, s.SubmissionID)
	})

	t.Run("loading carries submission id only", func(t *testing.T) {
		s := LoadingState(id)
		assert.True(t, s.IsLoading())
		assert.False(t, s.HasResult())
		assert.False(t, s.HasError())
		assert.Equal(t, id, s.SubmissionID)
	})

	t.Run("succeeded holds prediction and no error", func(t *testing.T) {
		s := SucceededState(id, Prediction{Label: LabelHate, Confidence: 0.9})
		assert.False(t, s.IsLoading())
		assert.True(t, s.HasResult())
		assert.False(t, s.HasError())
		assert.Empty(t, s.Error)
		assert.Equal(t, LabelHate, s.Prediction.Label)
	})

	t.Run("failed holds error and no prediction", func(t *testing.T) {
		s := FailedState(id, "boom")
		assert.False(t, s.IsLoading())
		assert.False(t, s.HasResult())
		assert.True(t, s.HasError())
		assert.Nil(t, s.Prediction)
		assert.Equal(t, "boom", s.Error)
	})
}

func TestSucceededState_CopiesPrediction(t *testing.T) {
	p := Prediction{Label: LabelHate, Confidence: 0.5}
	s := SucceededState(uuid.New(), p)

	p.Confidence = 0.1

	assert.Equal(t, 0.5, s.Prediction.Confidence)
}
