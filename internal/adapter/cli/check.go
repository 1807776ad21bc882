package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ressKim-io/hatecheck/internal/adapter/client"
	"github.com/ressKim-io/hatecheck/internal/adapter/presenter"
	"github.com/ressKim-io/hatecheck/internal/domain/entity"
	"github.com/ressKim-io/hatecheck/internal/domain/service"
	"github.com/ressKim-io/hatecheck/internal/usecase"
)

type checkResult struct {
	Input string         `json:"input"`
	View  presenter.View `json:"view"`
}

func (r checkResult) failed() bool {
	return r.View.Error != ""
}

func newCheckCommand(opts *options) *cobra.Command {
	var (
		batch  bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "check [text...]",
		Short: "Classify each argument, or each non-blank stdin line when none are given",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			texts := args
			if len(texts) == 0 {
				if texts, err = readLines(cmd.InOrStdin()); err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
			}
			if len(texts) == 0 {
				texts = []string{""}
			}

			classifier := client.NewPredictClassifier(newPredictClient(cfg))

			var results []checkResult
			if batch {
				results = checkBatch(cmd.Context(), classifier, texts, log)
			} else {
				results, err = checkEach(cmd.Context(), classifier, texts, usecase.WithLogger(log), usecase.WithTimeout(cfg.Classifier.Timeout))
				if err != nil {
					return err
				}
			}

			if asJSON {
				if err := writeJSON(cmd.OutOrStdout(), results); err != nil {
					return err
				}
			} else {
				writeText(cmd.OutOrStdout(), results)
			}

			for _, r := range results {
				if r.failed() {
					return ErrSubmissionsFailed
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&batch, "batch", false, "send all texts in one batch request")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")

	return cmd
}

// checkEach runs the texts one at a time through a single analyzer
func checkEach(ctx context.Context, classifier service.Classifier, texts []string, opts ...usecase.AnalyzerOption) ([]checkResult, error) {
	analyzer := usecase.NewAnalyzer(classifier, opts...)
	results := make([]checkResult, 0, len(texts))

	for _, text := range texts {
		analyzer.Reset()
		analyzer.SetInput(text)

		state, err := analyzer.Submit(ctx)
		if err != nil && !errors.Is(err, usecase.ErrEmptyInput) {
			return nil, err
		}
		results = append(results, checkResult{Input: text, View: presenter.Render(state, text)})
	}

	return results, nil
}

// checkBatch validates every text locally and classifies the rest in one request
func checkBatch(ctx context.Context, classifier service.Classifier, texts []string, log *zap.Logger) []checkResult {
	states := make([]entity.State, len(texts))
	var (
		pending []int
		payload []string
	)
	for i, text := range texts {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			states[i] = entity.FailedState(uuid.Nil, usecase.MessageEmptyInput)
			continue
		}
		pending = append(pending, i)
		payload = append(payload, trimmed)
	}

	if len(payload) > 0 {
		predictions, err := classifier.PredictBatch(ctx, payload)
		if err != nil {
			log.Warn("Batch classification failed", zap.Int("count", len(payload)), zap.Error(err))
		}
		for j, i := range pending {
			id := uuid.New()
			if err != nil {
				states[i] = entity.FailedState(id, usecase.FailureMessage(err))
				continue
			}
			states[i] = entity.SucceededState(id, *predictions[j])
		}
	}

	results := make([]checkResult, len(texts))
	for i, text := range texts {
		results[i] = checkResult{Input: text, View: presenter.Render(states[i], text)}
	}
	return results
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) != "" {
			lines = append(lines, scanner.Text())
		}
	}
	return lines, scanner.Err()
}

func writeText(w io.Writer, results []checkResult) {
	for _, r := range results {
		fmt.Fprintf(w, "%q\n", r.Input)
		switch {
		case r.View.Error != "":
			fmt.Fprintf(w, "  error: %s\n", r.View.Error)
		case r.View.Result != nil:
			fmt.Fprintf(w, "  %s (label %s, confidence %s)\n",
				r.View.Result.Headline, r.View.Result.Label, r.View.Result.Confidence)
		}
	}
}

func writeJSON(w io.Writer, results []checkResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
