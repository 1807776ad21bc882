// Package cli implements the hatecheck command line.
package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ressKim-io/hatecheck/internal/adapter/client"
	"github.com/ressKim-io/hatecheck/internal/infrastructure/config"
	"github.com/ressKim-io/hatecheck/internal/infrastructure/logger"
)

// ErrSubmissionsFailed is returned when at least one text could not be classified
var ErrSubmissionsFailed = errors.New("one or more submissions failed")

type options struct {
	configPath string
	url        string
	timeout    time.Duration
	logLevel   string
}

// NewRootCommand builds the hatecheck command tree
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "hatecheck",
		Short:         "Classify text with a remote hate speech detection service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", config.FileFromEnv("config.yaml"), "path to YAML config file")
	flags.StringVar(&opts.url, "url", "", "classification service base URL (overrides config)")
	flags.DurationVar(&opts.timeout, "timeout", 0, "per-request timeout, 0 disables (overrides config)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (overrides config)")

	root.AddCommand(newCheckCommand(opts))
	root.AddCommand(newHealthCommand(opts))

	return root
}

// load resolves configuration with flag overrides and builds a logger on stderr
func (o *options) load(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.Classifier.URL = o.url
	}
	if flags.Changed("timeout") {
		cfg.Classifier.Timeout = o.timeout
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	log, err := logger.NewLoggerTo(&cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func newPredictClient(cfg *config.Config) *client.PredictClient {
	return client.NewPredictClient(cfg.Classifier.URL, cfg.Classifier.Timeout)
}
