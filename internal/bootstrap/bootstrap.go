package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/docuvault/redactsvc/internal/config"
	"github.com/docuvault/redactsvc/internal/core/ports"
	"github.com/docuvault/redactsvc/internal/core/usecase"
	"github.com/docuvault/redactsvc/internal/infrastructure/extractor/doctext"
	"github.com/docuvault/redactsvc/internal/infrastructure/llm/ollama"
	"github.com/docuvault/redactsvc/internal/infrastructure/ocr/gateway"
	"github.com/docuvault/redactsvc/internal/infrastructure/queue/nats"
	"github.com/docuvault/redactsvc/internal/infrastructure/report/pdfreport"
	"github.com/docuvault/redactsvc/internal/infrastructure/repository/postgres"
	"github.com/docuvault/redactsvc/internal/infrastructure/resilience"
	"github.com/docuvault/redactsvc/internal/infrastructure/storage/localfs"
	"github.com/docuvault/redactsvc/internal/matching"
)

type App struct {
	Config config.Config

	Queue ports.MessageQueue

	UploadUC   ports.DocumentIngestor
	ProcessUC  *usecase.ProcessDocumentUseCase
	ReadUC     ports.DocumentReader
	ReviewUC   ports.ReviewService
	RedactUC   ports.RedactionService
	ProfilesUC ports.ProfileService

	closeFn func()
}

// New wires the full dependency graph. The process observer is optional so
// the API binary does not have to carry worker metrics.
func New(ctx context.Context, cfg config.Config, observer usecase.PipelineObserver) (*App, error) {
	if err := initSentry(cfg.SentryDSN); err != nil {
		return nil, fmt.Errorf("init sentry: %w", err)
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	repo := postgres.NewDocumentRepository(db)
	analysisRepo := postgres.NewAnalysisRepository(db)
	profileStore := postgres.NewProfileStore(db)
	feedbackRepo := postgres.NewFeedbackRepository(db)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultSettings())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{Executor: executor})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	ocrClient := gateway.New(cfg.OCRGatewayURL, executor)
	classifier := ollama.NewClassifier(ollama.New(cfg.OllamaURL, cfg.OllamaModel, executor))
	extractor := doctext.New(storage)
	renderer := pdfreport.New()

	matcher, err := matching.New()
	if err != nil {
		queue.Close()
		_ = db.Close()
		return nil, fmt.Errorf("load field matcher: %w", err)
	}

	uploadUC := usecase.NewUploadDocumentUseCase(repo, storage, queue)
	processUC := usecase.NewProcessDocumentUseCase(
		repo, analysisRepo, profileStore, storage,
		ocrClient, extractor, classifier, matcher, observer,
	)
	readUC := usecase.NewReadDocumentUseCase(repo, analysisRepo)
	reviewUC := usecase.NewReviewUseCase(repo, analysisRepo, profileStore, feedbackRepo)
	redactUC := usecase.NewRedactUseCase(repo, analysisRepo, storage, renderer)
	profilesUC := usecase.NewProfileUseCase(profileStore)

	return &App{
		Config: cfg,
		Queue:  queue,

		UploadUC:   uploadUC,
		ProcessUC:  processUC,
		ReadUC:     readUC,
		ReviewUC:   reviewUC,
		RedactUC:   redactUC,
		ProfilesUC: profilesUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
			sentry.Flush(2 * time.Second)
		},
	}, nil
}

func initSentry(dsn string) error {
	if dsn == "" {
		return nil
	}
	return sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		AttachStacktrace: true,
	})
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
