package factory

import (
	"fmt"

	"go-image-similarity/internal/cache"
	"go-image-similarity/internal/config"
	"go-image-similarity/internal/logger"
	"go-image-similarity/internal/storage"
	"go-image-similarity/internal/strategy"
)

// StrategyType represents different scoring strategies
type StrategyType string

const (
	// FullStrategy runs every axis at full fidelity
	FullStrategy StrategyType = "full"
	// FastStrategy trades keypoint matching for latency
	FastStrategy StrategyType = "fast"
)

// StorageType represents different types of storage backends
type StorageType string

const (
	// HTTPStorage for HTTP-based image fetching
	HTTPStorage StorageType = "http"
	// AzureStorage for Azure blob storage
	AzureStorage StorageType = "azure"
	// LocalStorage for local file system
	LocalStorage StorageType = "local"
)

// StrategyFactory creates scoring strategies
type StrategyFactory interface {
	CreateStrategy(strategyType StrategyType) (strategy.ComparisonStrategy, error)
}

// StorageFactory creates storage implementations
type StorageFactory interface {
	CreateStorage(storageType StorageType) (storage.ImageFetcher, error)
}

// strategyFactory implements StrategyFactory
type strategyFactory struct {
	log          *logger.Logger
	featureCache *cache.DiskCache
}

// NewStrategyFactory creates a new strategy factory
func NewStrategyFactory(log *logger.Logger, featureCache *cache.DiskCache) StrategyFactory {
	return &strategyFactory{log: log, featureCache: featureCache}
}

// CreateStrategy creates a scoring strategy of the specified type
func (f *strategyFactory) CreateStrategy(strategyType StrategyType) (strategy.ComparisonStrategy, error) {
	switch strategyType {
	case FullStrategy:
		return strategy.NewFullComparisonStrategy(f.log, f.featureCache), nil
	case FastStrategy:
		return strategy.NewFastComparisonStrategy(f.log, f.featureCache), nil
	default:
		return nil, fmt.Errorf("unsupported strategy type: %s", strategyType)
	}
}

// storageFactory implements StorageFactory
type storageFactory struct {
	cfg *config.Config
}

// NewStorageFactory creates a new storage factory
func NewStorageFactory(cfg *config.Config) StorageFactory {
	return &storageFactory{cfg: cfg}
}

// CreateStorage creates a storage implementation based on the specified type
func (f *storageFactory) CreateStorage(storageType StorageType) (storage.ImageFetcher, error) {
	switch storageType {
	case HTTPStorage:
		return storage.NewHTTPImageFetcher(), nil
	case AzureStorage:
		return storage.NewAzureFetcher(f.cfg.AzureAccountName, f.cfg.AzureAccountKey)
	case LocalStorage:
		return storage.NewLocalFetcher(f.cfg.LocalImageDir), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}

// ComponentFactory combines all factories
type ComponentFactory struct {
	StrategyFactory StrategyFactory
	StorageFactory  StorageFactory
}

// NewComponentFactory creates a new component factory
func NewComponentFactory(cfg *config.Config, log *logger.Logger, featureCache *cache.DiskCache) *ComponentFactory {
	return &ComponentFactory{
		StrategyFactory: NewStrategyFactory(log, featureCache),
		StorageFactory:  NewStorageFactory(cfg),
	}
}
