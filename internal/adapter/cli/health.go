package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// ErrModelNotLoaded is returned when the service answers but cannot classify yet
var ErrModelNotLoaded = errors.New("classifier model not loaded")

func newHealthCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Query the classification service health endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := opts.load(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			pc := newPredictClient(cfg)
			health, err := pc.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "url: %s\n", cfg.Classifier.URL)
			fmt.Fprintf(out, "status: %s\n", health.Status)
			fmt.Fprintf(out, "model_loaded: %t\n", health.ModelLoaded)
			if info, err := pc.Info(cmd.Context()); err == nil && info.Message != "" {
				fmt.Fprintf(out, "service: %s\n", info.Message)
			}

			if !health.ModelLoaded {
				return ErrModelNotLoaded
			}
			return nil
		},
	}
}
