package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobmatch/internal/apiclient"
	"github.com/jonathan/jobmatch/internal/config"
	"github.com/jonathan/jobmatch/internal/failure"
	"github.com/jonathan/jobmatch/internal/fallback"
	"github.com/jonathan/jobmatch/internal/intake"
	"github.com/jonathan/jobmatch/internal/llm"
	"github.com/jonathan/jobmatch/internal/observability"
	"github.com/jonathan/jobmatch/internal/pdftext"
	"github.com/jonathan/jobmatch/internal/pipeline"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <resume.pdf>",
	Short: "Upload a resume and merge the parsed profile",
	Long: `Upload a PDF resume to the extraction service and merge the parsed fields into your profile.

When the service's AI parsing is unavailable, the resume can be parsed locally
with the AI model instead (requires GEMINI_API_KEY). You are asked first unless
--accept-fallback or --no-fallback is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

var (
	uploadAPIURL         string
	uploadToken          string
	uploadAcceptFallback bool
	uploadNoFallback     bool
	uploadTelemetryDB    string
)

func init() {
	uploadCmd.Flags().StringVar(&uploadAPIURL, "api-url", "", "Extraction service base URL (overrides JOBMATCH_API_URL)")
	uploadCmd.Flags().StringVar(&uploadToken, "token", "", "Bearer token (overrides JOBMATCH_TOKEN)")
	uploadCmd.Flags().BoolVar(&uploadAcceptFallback, "accept-fallback", false, "Parse locally without asking when the service fails")
	uploadCmd.Flags().BoolVar(&uploadNoFallback, "no-fallback", false, "Never parse locally")
	uploadCmd.Flags().StringVar(&uploadTelemetryDB, "telemetry-db", "", "SQLite file for attempt telemetry (overrides JOBMATCH_TELEMETRY_DB)")
	uploadCmd.MarkFlagsMutuallyExclusive("accept-fallback", "no-fallback")

	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	cfg, err := loadClientConfig(configPath, os.Getenv)
	if err != nil {
		return err
	}
	if uploadAPIURL != "" {
		cfg.APIBaseURL = uploadAPIURL
	}
	if uploadToken != "" {
		cfg.Token = uploadToken
	}
	if uploadTelemetryDB != "" {
		cfg.TelemetryDB = uploadTelemetryDB
	}
	if uploadAcceptFallback {
		cfg.AcceptFallback = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	logger := slog.Default()

	sink, err := openTelemetry(ctx, cfg.TelemetryDB, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := sink.Close(); err != nil {
			logger.Warn("failed to close telemetry", "error", err)
		}
	}()

	decider := fallbackDecider(cfg.AcceptFallback, uploadNoFallback, cmd.InOrStdin(), cmd.ErrOrStderr())
	runner, err := buildRunner(cfg, sink, decider, cmd.ErrOrStderr(), logger)
	if err != nil {
		return err
	}

	sel, err := intake.Open(args[0])
	if err != nil {
		return err
	}

	result := runner.Run(ctx, sel)
	printer := observability.NewPrinter(cmd.OutOrStdout())
	if result.Err != nil {
		printer.PrintFailure(result.Err)
		return fmt.Errorf("upload failed: %s", result.Err.Kind)
	}

	printer.PrintProfile(*result.Profile)
	printer.PrintMergeSummary(result.Before, result.After)
	return nil
}

// openTelemetry builds the sink: slog always, sqlite when path is set.
func openTelemetry(ctx context.Context, path string, logger *slog.Logger) (*observability.Sink, error) {
	stores := []observability.Store{observability.NewSlogStore(logger)}
	if path != "" {
		sqlite, err := observability.OpenSQLiteStore(ctx, path)
		if err != nil {
			return nil, err
		}
		stores = append(stores, sqlite)
	}
	return observability.NewSink(logger, stores...), nil
}

// buildRunner wires the pipeline for the configured service and model.
func buildRunner(cfg *config.Config, recorder pipeline.Recorder, decider pipeline.FallbackDecider, progress io.Writer, logger *slog.Logger) (*pipeline.Runner, error) {
	client, err := apiclient.New(apiclient.Options{
		BaseURL: cfg.APIBaseURL,
		Token:   cfg.Token,
		Timeout: cfg.SubmitTimeout(),
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	deps := pipeline.Deps{
		Primary:   client,
		Prober:    newProber(cfg, logger),
		Extractor: pdftext.New(),
		Store:     client,
		Decider:   decider,
		Recorder:  recorder,
		Logger:    logger,
	}
	opts := pipeline.RunOptions{
		Policy:        intake.Policy{MaxBytes: cfg.MaxUploadBytes},
		SubmitTimeout: cfg.SubmitTimeout(),
		ModelTimeout:  cfg.ModelTimeout(),
		OnProgress: func(e pipeline.ProgressEvent) {
			if e.Message != "" {
				fmt.Fprintf(progress, "→ %s\n", e.Message) //nolint:errcheck // progress output is best effort
			}
		},
	}
	return pipeline.NewRunner(deps, opts), nil
}

// newProber builds the client-side capability probe. Without an API key the
// probe reports the model as unavailable.
func newProber(cfg *config.Config, logger *slog.Logger) *fallback.Prober {
	llmCfg := llm.DefaultConfig()
	if cfg.Model != "" {
		llmCfg = llmCfg.WithModel(llm.TierStandard, cfg.Model)
	}
	return fallback.NewProber(fallback.GeminiFactory(llmCfg, cfg.GeminiAPIKey), logger)
}

// fallbackDecider picks the fallback policy, asking on in when neither
// accept nor never is set. never wins over accept.
func fallbackDecider(accept, never bool, in io.Reader, out io.Writer) pipeline.FallbackDecider {
	switch {
	case never:
		return pipeline.NeverAccept
	case accept:
		return pipeline.AlwaysAccept
	default:
		return promptDecider(in, out)
	}
}

// promptDecider asks the user on out and reads a yes/no answer from in.
// Anything but y/yes declines.
func promptDecider(in io.Reader, out io.Writer) pipeline.FallbackDecider {
	reader := bufio.NewReader(in)
	return pipeline.FallbackFunc(func(ctx context.Context, c failure.Classification) bool {
		if ctx.Err() != nil {
			return false
		}
		fmt.Fprintf(out, "%s\nParse the resume locally with the AI model instead? [y/N]: ", c.UserMessage) //nolint:errcheck // prompt output is best effort
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		default:
			return false
		}
	})
}
