package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobmatch/internal/config"
	"github.com/jonathan/jobmatch/internal/db"
	"github.com/jonathan/jobmatch/internal/llm"
	"github.com/jonathan/jobmatch/internal/parsing"
	"github.com/jonathan/jobmatch/internal/pdftext"
	"github.com/jonathan/jobmatch/internal/server"
	"github.com/jonathan/jobmatch/internal/server/ratelimit"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the resume extraction service",
	Long: `Start an HTTP server that parses uploaded PDF resumes and stores user profiles.

Requires DATABASE_URL and JWT_SECRET. Without GEMINI_API_KEY resumes are parsed
with keyword matching only.`,
	RunE: runServe,
}

var (
	servePort        int
	serveMaxUploadMB int
	serveStrictAI    bool
)

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on (overrides PORT)")
	serveCmd.Flags().IntVar(&serveMaxUploadMB, "max-upload-mb", 10, "Upload size limit in MB (overrides MAX_UPLOAD_MB)")
	serveCmd.Flags().BoolVar(&serveStrictAI, "strict-ai", false, "Report AI failures as 503/500 instead of falling back to keyword matching")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadServerConfig(os.Getenv)
	if err != nil {
		return err
	}
	applyServeFlags(cmd, cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.Default()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()
	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}

	parser, closeModel, err := newServerParser(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeModel()

	srv, err := server.New(cfg, server.Deps{
		Store:     database,
		Parser:    parser,
		Extractor: pdftext.New(),
		Logger:    logger,
		RateLimit: ratelimit.LoadConfig(os.Getenv),
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}

// applyServeFlags lets explicitly set flags win over the environment.
func applyServeFlags(cmd *cobra.Command, cfg *config.ServerConfig) {
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	if cmd.Flags().Changed("max-upload-mb") && serveMaxUploadMB > 0 {
		cfg.MaxUploadBytes = int64(serveMaxUploadMB) * 1024 * 1024
	}
	if cmd.Flags().Changed("strict-ai") {
		cfg.StrictAI = serveStrictAI
	}
}

// newServerParser builds the service parser. Without an API key it runs
// keyword extraction only.
func newServerParser(ctx context.Context, cfg *config.ServerConfig, logger *slog.Logger) (*parsing.ServerParser, func(), error) {
	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY not set; resumes will be parsed with keyword matching only")
		return parsing.NewServerParser(nil, nil, cfg.StrictAI, logger), func() {}, nil
	}

	llmCfg := llm.DefaultConfig()
	client, err := llm.NewClient(ctx, llmCfg, cfg.GeminiAPIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create model client: %w", err)
	}
	closeFn := func() {
		if err := client.Close(); err != nil {
			logger.Warn("failed to close model client", "error", err)
		}
	}
	return parsing.NewServerParser(client, llmCfg.Chain(llm.TierStandard), cfg.StrictAI, logger), closeFn, nil
}
