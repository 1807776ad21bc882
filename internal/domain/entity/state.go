package entity

import (
	"github.com/google/uuid"
)

// Phase represents the lifecycle position of an analysis session
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseLoading   Phase = "loading"
	PhaseSucceeded Phase = "succeeded"
	PhaseFailed    Phase = "failed"
)

// State is the observable outcome of the latest submission.
// Values are built only through the constructors below, so a prediction
// and an error message are never present at the same time.
type State struct {
	Phase        Phase       `json:"phase"`
	SubmissionID uuid.UUID   `json:"submission_id"`
	Prediction   *Prediction `json:"prediction,omitempty"`
	Error        string      `json:"error,omitempty"`
}

// IdleState returns the initial state
func IdleState() State {
	return State{Phase: PhaseIdle}
}

// LoadingState returns the state of an in-flight submission
func LoadingState(submissionID uuid.UUID) State {
	return State{
		Phase:        PhaseLoading,
		SubmissionID: submissionID,
	}
}

// SucceededState returns the state of a submission that produced a prediction
func SucceededState(submissionID uuid.UUID, prediction Prediction) State {
	return State{
		Phase:        PhaseSucceeded,
		SubmissionID: submissionID,
		Prediction:   &prediction,
	}
}

// FailedState returns the state of a submission that ended with an error.
// Validation failures never reach the network and carry uuid.Nil.
func FailedState(submissionID uuid.UUID, message string) State {
	return State{
		Phase:        PhaseFailed,
		SubmissionID: submissionID,
		Error:        message,
	}
}

// IsLoading returns true while a submission is in flight
func (s State) IsLoading() bool {
	return s.Phase == PhaseLoading
}

// HasResult returns true if a prediction is present
func (s State) HasResult() bool {
	return s.Phase == PhaseSucceeded && s.Prediction != nil
}

// HasError returns true if an error message is present
func (s State) HasError() bool {
	return s.Phase == PhaseFailed
}

// HasOutcome returns true if the latest submission settled
func (s State) HasOutcome() bool {
	return s.HasResult() || s.HasError()
}
