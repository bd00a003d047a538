package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/docmindhq/docmind/internal/config"
	"github.com/docmindhq/docmind/internal/core/ports"
	"github.com/docmindhq/docmind/internal/core/usecase"
	"github.com/docmindhq/docmind/internal/infrastructure/extractor"
	"github.com/docmindhq/docmind/internal/infrastructure/llm/ollama"
	"github.com/docmindhq/docmind/internal/infrastructure/llm/openai"
	"github.com/docmindhq/docmind/internal/infrastructure/queue/nats"
	"github.com/docmindhq/docmind/internal/infrastructure/repository/postgres"
	"github.com/docmindhq/docmind/internal/infrastructure/resilience"
	"github.com/docmindhq/docmind/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config

	Queue     ports.MessageQueue
	Repo      ports.DocumentRepository
	IngestUC  ports.DocumentIngestor
	AnalyzeUC ports.DocumentAnalyzer
	ProcessUC ports.DocumentProcessor
	Feedback  ports.FeedbackService
	Stats     ports.StatsService

	closeFn func()
}

// Options carries per-binary observability hooks. AnalysisObserver may be
// nil; the orchestrator then runs unobserved.
type Options struct {
	AnalysisObserver usecase.AnalysisObserver
}

func New(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	feedbackRepo := postgres.NewFeedbackRepository(db)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: resilience.NewExecutor(resilience.DefaultConfig()),
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	providerExecutor := resilience.NewExecutor(resilience.ProviderConfig())
	providerTimeout := time.Duration(cfg.ProviderTimeoutSeconds) * time.Second

	var primary ports.AnalysisProvider
	if cfg.PrimaryEnabled() {
		primary = ollama.New(cfg.OllamaURL, cfg.OllamaModel, ollama.Options{
			Executor: providerExecutor,
		})
	}
	var secondary ports.AnalysisProvider
	if cfg.SecondaryEnabled() {
		secondary = openai.New(cfg.OpenAIAPIKey, cfg.OpenAIModel, openai.Options{
			BaseURL:  cfg.OpenAIBaseURL,
			Executor: providerExecutor,
		})
	}

	analyzeUC := usecase.NewAnalyzeUseCase(primary, secondary, usecase.AnalyzeOptions{
		Preferred:       usecase.ProviderPreference(cfg.PreferredProvider),
		TruncationLimit: cfg.TruncationLimit,
		AttemptTimeout:  providerTimeout,
	}, opts.AnalysisObserver)

	textExtractor := extractor.New(storage)
	ingestUC := usecase.NewIngestDocumentUseCase(repo, storage, queue)
	processUC := usecase.NewProcessDocumentUseCase(repo, textExtractor, analyzeUC)
	feedbackUC := usecase.NewFeedbackUseCase(repo, feedbackRepo)
	statsUC := usecase.NewStatsUseCase(repo)

	return &App{
		Config: cfg,
		Queue:  queue,
		Repo:   repo,

		IngestUC:  ingestUC,
		AnalyzeUC: analyzeUC,
		ProcessUC: processUC,
		Feedback:  feedbackUC,
		Stats:     statsUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
