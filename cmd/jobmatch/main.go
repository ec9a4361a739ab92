// Package main provides the jobmatch CLI: the resume upload client with its
// client-side fallback, and the extraction service.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/jobmatch/internal/config"
	"github.com/jonathan/jobmatch/internal/observability"
)

var (
	verbose    bool
	configPath string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "jobmatch",
	Short: "Resume extraction client and service",
	Long: "jobmatch uploads a PDF resume to the extraction service, falls back to parsing it " +
		"locally with the AI model when the service cannot, and merges the result into your profile.",
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		slog.SetDefault(observability.NewLogger(os.Stderr, observability.LevelFor(verbose), logFormat))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON config file")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadClientConfig builds the client configuration: defaults, then the
// config file, then the environment. Flags are applied by the caller.
func loadClientConfig(path string, getenv func(string) string) (*config.Config, error) {
	cfg := config.Defaults()
	if path != "" {
		fileCfg, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}
	cfg.ApplyEnv(getenv)
	return &cfg, nil
}
