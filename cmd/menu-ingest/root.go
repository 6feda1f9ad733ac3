package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/barista-ai/menu-ingest/config"
	"github.com/barista-ai/menu-ingest/internal/chunker"
	"github.com/barista-ai/menu-ingest/internal/db"
	"github.com/barista-ai/menu-ingest/internal/embeddings"
	"github.com/barista-ai/menu-ingest/internal/ingest"
	"github.com/barista-ai/menu-ingest/internal/logger"
	"github.com/barista-ai/menu-ingest/internal/ollama"
	"github.com/barista-ai/menu-ingest/internal/tui"
)

var (
	configPath string
	useTUI     bool
)

var rootCmd = &cobra.Command{
	Use:   "menu-ingest <path>",
	Short: "Load a Markdown menu into the vector store",
	Long: `Splits a Markdown menu into one chunk per section, embeds each chunk
and stores it with its text in Postgres (pgvector).

Run "menu-ingest migrate" once to create the table.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runIngest,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "path to the config file")
	rootCmd.Flags().BoolVar(&useTUI, "tui", false, "show live progress")
}

// env is what every command needs once configuration is loaded.
type env struct {
	cfg *config.Config
	log *zap.Logger
	db  *db.DB
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func setup(ctx context.Context, quiet bool) (*env, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
		Quiet:  quiet,
	})
	if err != nil {
		return nil, err
	}

	database, err := db.New(ctx, cfg.Database.ConnectionString, cfg.Database.Table)
	if err != nil {
		log.Error("failed to connect to database", zap.Error(err))
		_ = log.Sync()
		return nil, err
	}

	return &env{cfg: cfg, log: log, db: database}, nil
}

func (e *env) close() {
	e.db.Close()
	_ = e.log.Sync()
}

func (e *env) pipeline(ctx context.Context) (*ingest.Pipeline, error) {
	cfg := e.cfg

	provider, err := embeddings.NewProvider(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Embeddings.Provider == config.ProviderOllama {
		selector := ollama.NewModelSelector(ollama.NewClient(cfg.Ollama.BaseURL, cfg.Embeddings.Timeout))
		if err := selector.EnsureModel(ctx, cfg.Embeddings.Model); err != nil {
			return nil, err
		}
	}

	embedder := embeddings.NewEmbedder(provider, embeddings.Options{
		Model:             cfg.Embeddings.Model,
		TaskType:          cfg.Embeddings.TaskType,
		RequestsPerSecond: cfg.Embeddings.RequestsPerSecond,
		Burst:             cfg.Embeddings.Burst,
		Normalize:         cfg.Embeddings.Normalize,
	}, e.log)

	return ingest.NewPipeline(
		chunker.NewMarkdownHeader(cfg.Chunking.HeaderMarker),
		embedder,
		ingest.NewWriter(e.db, e.log),
		e.log,
	), nil
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := args[0]

	e, err := setup(ctx, useTUI)
	if err != nil {
		return err
	}
	defer e.close()

	e.log.Info("starting ingestion",
		zap.String("path", path),
		zap.String("provider", e.cfg.Embeddings.Provider),
		zap.String("model", e.cfg.Embeddings.Model),
		zap.String("table", e.db.Table()),
	)

	pipeline, err := e.pipeline(ctx)
	if err != nil {
		e.log.Error("failed to build pipeline", zap.Error(err))
		return err
	}

	var report *ingest.Report
	if useTUI {
		report, err = tui.Run(ctx, pipeline, path)
	} else {
		report, err = pipeline.Run(ctx, path)
		fmt.Fprintln(cmd.OutOrStdout(), tui.RenderSummary(report, err))
	}

	if total, cerr := e.db.CountRecords(context.WithoutCancel(ctx)); cerr == nil {
		e.log.Info("table size", zap.String("table", e.db.Table()), zap.Int64("records", total))
	}

	if err != nil {
		return err
	}
	if f := report.Failure(); f != nil {
		return f.Err
	}
	return nil
}
