package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/smart-applier/internal/config"
	"github.com/jonathan/smart-applier/internal/db"
	"github.com/jonathan/smart-applier/internal/embedding"
	"github.com/jonathan/smart-applier/internal/llm"
	"github.com/jonathan/smart-applier/internal/matching"
	"github.com/jonathan/smart-applier/internal/pipeline"
	"github.com/jonathan/smart-applier/internal/rendering"
	"github.com/jonathan/smart-applier/internal/store"
	"github.com/jonathan/smart-applier/internal/tailoring"
	"github.com/jonathan/smart-applier/internal/understanding"
)

// application holds the wired service and everything that must be closed
// when a command finishes
type application struct {
	cfg     config.Config
	svc     *pipeline.Service
	store   store.Store
	logger  *slog.Logger
	closers []io.Closer
}

func (a *application) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
}

// loadConfig resolves configuration in order: config file, environment,
// global flags, built-in defaults.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	// Only override if the flag was explicitly set
	flags := cmd.Flags()
	if flags.Changed("store") {
		cfg.Store = storeKind
	}
	if flags.Changed("data-dir") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("db-url") {
		cfg.DatabaseURL = databaseURL
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}

	cfg.ApplyEnv(os.LookupEnv)
	cfg = cfg.MergeWithDefaults(config.Defaults())
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newApplication wires the store, embedding provider, generative collaborator
// and engine components described by cfg
func newApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (*application, error) {
	app := &application{cfg: cfg, logger: logger}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, st)
	if _, ok := st.(*store.Memory); ok {
		logger.Warn("using the in-memory store, data is discarded on exit")
	}

	if cfg.S3.Bucket != "" {
		blobs, err := store.NewS3Blobs(ctx, store.S3Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Prefix:    cfg.S3.Prefix,
		})
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to create blob store: %w", err)
		}
		st = store.WithBlobs(st, blobs)
		logger.Debug("resume documents stored in S3", "bucket", cfg.S3.Bucket)
	}
	app.store = st

	provider, err := embedding.New(ctx, cfg.EmbeddingConfig())
	if err != nil {
		app.Close()
		return nil, err
	}
	logger.Debug("embedding provider ready", "model", provider.Model(), "dimension", provider.Dimension())

	var text understanding.Provider = understanding.Null{}
	if cfg.GeminiAPIKey != "" {
		llmCfg, err := cfg.LLMConfig()
		if err != nil {
			app.Close()
			return nil, err
		}
		client, err := llm.NewClient(ctx, llmCfg, cfg.GeminiAPIKey)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		app.closers = append(app.closers, client)
		text = understanding.NewGenerative(client)
	} else {
		logger.Debug("no Gemini API key, keyword extraction and rewrite use fallbacks")
	}

	renderer, err := rendering.NewLaTeXRenderer(cfg.Template)
	if err != nil {
		app.Close()
		return nil, err
	}

	matcher := matching.NewMatcher(provider,
		matching.WithIndexKind(cfg.Index),
		matching.WithRecorder(st),
		matching.WithLogger(logger))
	orch := tailoring.NewOrchestrator(provider,
		tailoring.WithThreshold(cfg.TailorThreshold),
		tailoring.WithUnderstanding(text),
		tailoring.WithRenderer(renderer),
		tailoring.WithSessionLogger(st),
		tailoring.WithRewrite(!cfg.DisableRewrite),
		tailoring.WithLogger(logger))

	app.svc = pipeline.New(st, provider, matcher, orch,
		pipeline.WithAdvisor(text),
		pipeline.WithGapThreshold(cfg.GapThreshold),
		pipeline.WithLogger(logger))
	return app, nil
}

func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	kind, err := store.ParseKind(cfg.Store)
	if err != nil {
		return nil, err
	}
	switch kind {
	case store.KindSQLite:
		return store.NewSQLite(store.SQLiteConfig{Path: cfg.Locations().DatabasePath})
	case store.KindPostgres:
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := database.EnsureSchema(ctx); err != nil {
			_ = database.Close()
			return nil, err
		}
		return database, nil
	default:
		return store.NewMemory(), nil
	}
}

// setup loads configuration and wires the application for a command
func setup(cmd *cobra.Command) (*application, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
	return newApplication(cmd.Context(), cfg, logger)
}
