package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"ai-digest/classifier"
	"ai-digest/composer"
	"ai-digest/config"
	"ai-digest/domain"
	"ai-digest/driver"
	"ai-digest/handler"
	"ai-digest/normalizer"
	"ai-digest/repository"
	"ai-digest/retry"
	"ai-digest/scorer"
	"ai-digest/service"
)

// Dependencies holds all application dependencies.
type Dependencies struct {
	Config   *config.Config
	DBPool   *pgxpool.Pool
	Handlers *handler.Handlers
	Ingest   service.IngestService
	Logger   *slog.Logger
}

// BuildDependencies constructs all application dependencies.
// Returns a cleanup function that should be deferred.
func BuildDependencies(ctx context.Context, log *slog.Logger) (*Dependencies, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	dbPool, err := driver.Init(ctx, driver.Config{
		Host:     cfg.Database.Host,
		Port:     strconv.Itoa(cfg.Database.Port),
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Name:     cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
		MaxConns: cfg.Database.MaxConns,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init database: %w", err)
	}

	if err := driver.EnsureSchema(ctx, dbPool); err != nil {
		dbPool.Close()
		return nil, nil, err
	}

	// Scoring table, taxonomy and source registry, with file overrides.
	table, err := loadScoringTable(cfg)
	if err != nil {
		dbPool.Close()
		return nil, nil, err
	}
	taxonomy, err := loadTaxonomy(cfg)
	if err != nil {
		dbPool.Close()
		return nil, nil, err
	}
	sources, err := loadSources(cfg)
	if err != nil {
		dbPool.Close()
		return nil, nil, err
	}

	// Repositories
	itemRepo := repository.NewItemRepository(dbPool, log)
	topicRepo := repository.NewTopicRepository(dbPool, log)
	sourceRepo := repository.NewSourceRepository(dbPool, log)
	archiveRepo := repository.NewArchiveRepository(dbPool, log)
	lockRepo := repository.NewRunLockRepository(dbPool, log)

	if err := topicRepo.Seed(ctx, taxonomy); err != nil {
		dbPool.Close()
		return nil, nil, err
	}
	if err := sourceRepo.Seed(ctx, sources); err != nil {
		dbPool.Close()
		return nil, nil, err
	}

	// Pipeline components
	sc := scorer.New(table)
	cl := classifier.New(taxonomy)
	norm := normalizer.New(log)
	comp := composer.New(composerCaps(cfg), topicCategories(taxonomy))

	retrier := retry.NewRetrier(retry.RetryConfig{
		MaxAttempts:   cfg.Retry.MaxAttempts,
		BaseDelay:     cfg.Retry.BaseDelay,
		MaxDelay:      cfg.Retry.MaxDelay,
		BackoffFactor: cfg.Retry.BackoffFactor,
		JitterFactor:  cfg.Retry.JitterFactor,
	}, service.IsRetryableError, log)

	fetcher := service.NewFeedFetcher(
		&http.Client{Timeout: cfg.Scrape.SourceTimeout},
		cfg.Scrape.UserAgent,
		cfg.Scrape.SourceTimeout,
		log,
	)

	// Services
	ingest := service.NewIngestService(fetcher, norm, sc, cl,
		itemRepo, sourceRepo, lockRepo, retrier,
		cfg.Scrape.Concurrency, cfg.Digest.WindowHours, log)
	digest := service.NewDigestService(itemRepo, archiveRepo, ingest, comp, cfg.Digest.WindowHours, log)
	rescore := service.NewRescoreService(itemRepo, lockRepo, sc, cl, cfg.Digest.WindowHours, log)

	handlers := &handler.Handlers{
		Digest:  digest,
		Ingest:  ingest,
		Rescore: rescore,
		Topics:  topicRepo,
		Sources: sourceRepo,
		DB:      dbPool,
		Logger:  log,
	}

	cleanup := func() {
		dbPool.Close()
	}

	return &Dependencies{
		Config:   cfg,
		DBPool:   dbPool,
		Handlers: handlers,
		Ingest:   ingest,
		Logger:   log,
	}, cleanup, nil
}

func loadScoringTable(cfg *config.Config) (scorer.Table, error) {
	if cfg.Digest.KeywordsPath != "" {
		return scorer.LoadTableFile(cfg.Digest.KeywordsPath)
	}
	return scorer.DefaultTable()
}

func loadTaxonomy(cfg *config.Config) ([]domain.Topic, error) {
	if cfg.Digest.TopicsPath != "" {
		return classifier.LoadTaxonomyFile(cfg.Digest.TopicsPath)
	}
	return classifier.DefaultTaxonomy()
}

func loadSources(cfg *config.Config) ([]domain.Source, error) {
	if cfg.Digest.SourcesPath != "" {
		return config.LoadSourcesFile(cfg.Digest.SourcesPath)
	}
	return config.DefaultSources()
}

func composerCaps(cfg *config.Config) composer.Caps {
	caps := composer.DefaultCaps()
	caps.Blog = cfg.Digest.BlogCap
	caps.Audio = cfg.Digest.AudioCap
	caps.Video = cfg.Digest.VideoCap
	return caps
}

func topicCategories(taxonomy []domain.Topic) map[string]string {
	categories := make(map[string]string, len(taxonomy))
	for _, topic := range taxonomy {
		categories[topic.ID] = topic.Category
	}
	return categories
}
