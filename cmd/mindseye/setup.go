package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/jonathan/mindseye/internal/config"
	"github.com/jonathan/mindseye/internal/fetch"
	"github.com/jonathan/mindseye/internal/ledger"
	"github.com/jonathan/mindseye/internal/llm"
	"github.com/jonathan/mindseye/internal/logging"
	"github.com/jonathan/mindseye/internal/observability"
	"github.com/jonathan/mindseye/internal/orchestrator"
	"github.com/spf13/cobra"
)

// app bundles everything a subcommand needs once configuration has been resolved.
type app struct {
	ctx          context.Context
	cfg          *config.Config
	logger       *slog.Logger
	ledger       ledger.Ledger
	generator    *llm.GeminiClient
	orchestrator *orchestrator.Orchestrator
	printer      *observability.Printer
}

// loadConfig resolves configuration from file, environment and flags, validates it
// and returns a context carrying the invocation logger.
func loadConfig(cmd *cobra.Command) (context.Context, *config.Config, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	invocationID := uuid.NewString()
	newLogger := func(level, format string) *slog.Logger {
		if verbose {
			level = "debug"
		}
		return logging.New(level, format, cmd.ErrOrStderr()).
			With("invocation_id", invocationID, "command", cmd.Name())
	}

	// Until the config is resolved, only the environment can pick the log settings.
	ctx = logging.WithLogger(ctx, newLogger(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT")))

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if backendOption != "" {
		cfg.LedgerBackend = backendOption
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	logger := newLogger(cfg.LogLevel, cfg.LogFormat)
	ctx = logging.WithLogger(ctx, logger)

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger.Debug("configuration loaded",
		"ledger_backend", cfg.LedgerBackend,
		"model", cfg.GeminiModelID,
		"fetch_docs", cfg.FetchDocs)
	return ctx, cfg, nil
}

// newApp opens the ledger and, when withGenerator is set, the Gemini client.
func newApp(cmd *cobra.Command, withGenerator bool) (*app, error) {
	ctx, cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	a := &app{
		ctx:     ctx,
		cfg:     cfg,
		logger:  logging.FromContext(ctx),
		printer: observability.NewPrinter(cmd.OutOrStdout()),
	}

	a.ledger, err = ledger.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}

	var generator orchestrator.Generator = unavailableGenerator{}
	if withGenerator {
		a.generator, err = llm.NewGeminiClient(ctx, geminiConfig(cfg), cfg.GeminiAPIKey)
		if err != nil {
			_ = a.ledger.Close()
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		generator = a.generator
	}

	orchCfg := orchestrator.Config{
		Model:             cfg.GeminiModelID,
		DefaultRunContext: cfg.DefaultRunContext,
	}
	if cfg.FetchDocs {
		orchCfg.Docs = fetch.NewDocFetcher(&fetch.DocFetcherConfig{UseBrowser: cfg.UseBrowser})
	}
	a.orchestrator = orchestrator.New(a.ledger, generator, orchCfg)

	return a, nil
}

// geminiConfig maps the resolved configuration onto the Gemini client settings.
func geminiConfig(cfg *config.Config) llm.Config {
	llmCfg := llm.DefaultConfig()
	if cfg.GeminiModelID != "" {
		llmCfg.Model = cfg.GeminiModelID
	}
	if cfg.GeminiTemperature != nil {
		llmCfg = llmCfg.WithTemperature(*cfg.GeminiTemperature)
	}
	return llmCfg
}

func (a *app) Close() {
	if a.generator != nil {
		if err := a.generator.Close(); err != nil {
			a.logger.Warn("failed to close Gemini client", "error", err)
		}
	}
	if err := a.ledger.Close(); err != nil {
		a.logger.Warn("failed to close ledger", "error", err)
	}
}

func jsonOutput() bool {
	return outputFormat == "json"
}

// unavailableGenerator stands in for Gemini in commands that never generate.
type unavailableGenerator struct{}

func (unavailableGenerator) Generate(context.Context, string) (string, error) {
	return "", errors.New("generation is not available for this command")
}
