// Package presenter maps analyzer state to display data.
// Everything here is a pure function of its arguments.
package presenter

import (
	"fmt"
	"math"
	"strings"

	"github.com/ressKim-io/hatecheck/internal/domain/entity"
)

// Submit control labels
const (
	SubmitLabelIdle = "Check Text"
	SubmitLabelBusy = "Analyzing..."
)

// Result headlines
const (
	HeadlinePositive = "Hate Speech Detected"
	HeadlineNegative = "No Hate Speech Detected"
)

// Category is the semantic class of a result
type Category string

const (
	CategoryPositive Category = "positive"
	CategoryNegative Category = "negative"
)

// View is everything a surface needs to draw the page
type View struct {
	Busy          bool        `json:"busy"`
	SubmitLabel   string      `json:"submit_label"`
	SubmitEnabled bool        `json:"submit_enabled"`
	ShowReset     bool        `json:"show_reset"`
	Error         string      `json:"error,omitempty"`
	Result        *ResultView `json:"result,omitempty"`
}

// ResultView is the rendering of a prediction
type ResultView struct {
	Category     Category `json:"category"`
	Headline     string   `json:"headline"`
	Label        string   `json:"label"`
	Confidence   string   `json:"confidence"`
	BarWidth     float64  `json:"bar_width"`
	AnalyzedText string   `json:"analyzed_text"`
}

// Render maps state and current input to a View
func Render(state entity.State, input string) View {
	v := View{
		Busy:        state.IsLoading(),
		SubmitLabel: SubmitLabelIdle,
		ShowReset:   state.HasOutcome(),
	}
	if v.Busy {
		v.SubmitLabel = SubmitLabelBusy
	}
	v.SubmitEnabled = !v.Busy && strings.TrimSpace(input) != ""

	switch {
	case state.HasError():
		v.Error = state.Error
	case state.HasResult():
		v.Result = renderResult(*state.Prediction, input)
	}

	return v
}

func renderResult(p entity.Prediction, input string) *ResultView {
	r := &ResultView{
		Category:     CategoryNegative,
		Headline:     HeadlineNegative,
		Label:        string(p.Label),
		Confidence:   FormatPercent(p.Confidence),
		BarWidth:     math.Max(0, math.Min(100, p.Percent())),
		AnalyzedText: input,
	}
	if p.IsHate() {
		r.Category = CategoryPositive
		r.Headline = HeadlinePositive
	}
	return r
}

// FormatPercent renders a [0,1] confidence as a percentage with one decimal
func FormatPercent(confidence float64) string {
	return fmt.Sprintf("%.1f%%", confidence*100)
}
