package container

import (
	"fmt"
	"net/http"

	"go-image-similarity/internal/cache"
	"go-image-similarity/internal/catalog"
	"go-image-similarity/internal/config"
	"go-image-similarity/internal/factory"
	"go-image-similarity/internal/game"
	"go-image-similarity/internal/logger"
	"go-image-similarity/internal/observer"
	"go-image-similarity/internal/service"
	"go-image-similarity/internal/storage"
	"go-image-similarity/internal/strategy"
	"go-image-similarity/internal/transport"
)

// Container holds all application dependencies
type Container struct {
	config       *config.Config
	log          *logger.Logger
	imageFetcher storage.ImageFetcher
	fullStrategy strategy.ComparisonStrategy
	fastStrategy strategy.ComparisonStrategy
	publisher    observer.Subject
	metrics      *observer.MetricsObserver
	service      service.ComparisonService
	handler      http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer() (*Container, error) {
	// Load configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.NewLogger()

	// Build dependency graph
	var featureCache *cache.DiskCache
	if cfg.CacheDir != "" {
		featureCache, err = cache.New(cfg.CacheDir, log)
		if err != nil {
			return nil, fmt.Errorf("failed to open feature cache: %w", err)
		}
	}

	factories := factory.NewComponentFactory(cfg, log, featureCache)
	imageFetcher, err := factories.StorageFactory.CreateStorage(factory.StorageType(cfg.StorageBackend))
	if err != nil {
		return nil, fmt.Errorf("failed to create storage backend: %w", err)
	}

	fullStrategy, err := factories.StrategyFactory.CreateStrategy(factory.FullStrategy)
	if err != nil {
		return nil, err
	}
	fastStrategy, err := factories.StrategyFactory.CreateStrategy(factory.FastStrategy)
	if err != nil {
		return nil, err
	}
	if cfg.FastMode {
		fullStrategy = fastStrategy
	}

	publisher := observer.NewEventPublisher()
	publisher.Subscribe(observer.NewLoggingObserver(log.Logrus()))
	metrics := observer.NewMetricsObserver()
	publisher.Subscribe(metrics)

	// OCR only matters for the game path; a missing tesseract install
	// degrades to prompt-only matching.
	extractor := game.NewTesseractExtractor("")

	svc := service.NewComparisonService(
		imageFetcher,
		fullStrategy,
		fastStrategy,
		catalog.NewBuiltin(),
		publisher,
		extractor,
		cfg.WinScore,
		log,
	)
	handler := transport.NewHandler(svc, cfg, log)

	return &Container{
		config:       cfg,
		log:          log,
		imageFetcher: imageFetcher,
		fullStrategy: fullStrategy,
		fastStrategy: fastStrategy,
		publisher:    publisher,
		metrics:      metrics,
		service:      svc,
		handler:      handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the shared logger
func (c *Container) Logger() *logger.Logger {
	return c.log
}

// Metrics returns the metrics observer
func (c *Container) Metrics() *observer.MetricsObserver {
	return c.metrics
}

// Service returns the comparison service
func (c *Container) Service() service.ComparisonService {
	return c.service
}
