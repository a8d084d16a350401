package app

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Kamar-Folarin/download-tracker/internal/collector"
	"github.com/Kamar-Folarin/download-tracker/internal/config"
	apperrors "github.com/Kamar-Folarin/download-tracker/internal/errors"
	"github.com/Kamar-Folarin/download-tracker/internal/github"
	"github.com/Kamar-Folarin/download-tracker/internal/homebrew"
	"github.com/Kamar-Folarin/download-tracker/internal/store"
)

var (
	dataDir   string
	logLevel  string
	logFormat string
	failFast  bool

	// nowFunc stamps the run; replaced in tests
	nowFunc = time.Now

	// RootCmd is the only command: one collection run
	RootCmd = &cobra.Command{
		Use:   "download-tracker",
		Short: "Record GitHub release downloads and Homebrew installs as CSV time series",
		Long: `download-tracker queries the GitHub releases API and the Homebrew formula
analytics API once and appends what it sees to CSV files, building a
history out of APIs that only report current totals.

Files written below the data directory:
  github_release/downloads/<tag>.csv   download counts per asset, one row per run
  github_release/info/<tag>.json       latest raw release object
  github_release/releases.csv          release metadata, one row per release id
  homebrew/installs.csv                30 day install counts, one row per run

Configuration is read from the environment (and a .env file when present):
  GITHUB_TOKEN           optional bearer token for the releases API
  GITHUB_REPOSITORY      owner/repo to track (default macvim-dev/macvim)
  HOMEBREW_FORMULA       formula to track (default macvim)
  HTTP_TIMEOUT_SECONDS   per request timeout, 0 disables (default 30)

Run it from a scheduler; every invocation adds one observation.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runCollect,
	}
)

func init() {
	RootCmd.Flags().StringVar(&dataDir, "data-dir", "", "storage directory (default: $DATA_DIR or .)")
	RootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default: $LOG_LEVEL or info)")
	RootCmd.Flags().StringVar(&logFormat, "log-format", "", "log format: text or json (default: $LOG_FORMAT or text)")
	RootCmd.Flags().BoolVar(&failFast, "fail-fast", false, "skip Homebrew collection when release collection fails")
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

// loadConfig reads the environment and applies explicitly set flags on top
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, apperrors.NewValidationError("invalid configuration", err)
	}

	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("log-level") {
		cfg.Logger.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logger.Format = logFormat
	}
	if flags.Changed("fail-fast") {
		cfg.FailFast = failFast
	}

	return cfg, nil
}

func runCollect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := cfg.Logger.NewLogger(cmd.OutOrStdout())
	if err != nil {
		return apperrors.NewValidationError("invalid logger configuration", err)
	}

	githubClient, err := github.NewGitHubClient(cfg.GitHub, logger, github.WithTimeout(cfg.HTTPTimeout))
	if err != nil {
		return err
	}

	homebrewClient, err := homebrew.NewClient(cfg.Homebrew, logger, cfg.HTTPTimeout)
	if err != nil {
		return err
	}

	svc := collector.NewService(
		githubClient,
		homebrewClient,
		store.NewCSVStore(cfg.DataDir, logger),
		logger,
		collector.WithFailFast(cfg.FailFast),
	)

	return svc.Run(cmd.Context(), nowFunc())
}
