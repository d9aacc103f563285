package strategy

import (
	"go-image-similarity/internal/cache"
	"go-image-similarity/internal/engine"
	"go-image-similarity/internal/logger"
	"go-image-similarity/internal/raster"
	"go-image-similarity/pkg/models"
)

// ComparisonStrategy defines the interface for different scoring strategies
type ComparisonStrategy interface {
	Compare(target, candidate *raster.Image) (*models.SimilarityReport, error)
	GetStrategyName() string
}

// FullComparisonStrategy runs every axis at full fidelity
type FullComparisonStrategy struct {
	engine *engine.Engine
}

// NewFullComparisonStrategy creates the default scoring strategy. A nil
// featureCache disables descriptor caching.
func NewFullComparisonStrategy(log *logger.Logger, featureCache *cache.DiskCache) ComparisonStrategy {
	return &FullComparisonStrategy{
		engine: engine.New(engine.DefaultOptions().WithCache(featureCache), log),
	}
}

// Compare performs a full-fidelity comparison
func (s *FullComparisonStrategy) Compare(target, candidate *raster.Image) (*models.SimilarityReport, error) {
	return s.engine.Compare(target, candidate)
}

// GetStrategyName returns the strategy name
func (s *FullComparisonStrategy) GetStrategyName() string {
	return "full_comparison"
}

// FastComparisonStrategy trades keypoint matching for latency
type FastComparisonStrategy struct {
	engine *engine.Engine
}

// NewFastComparisonStrategy creates the reduced-latency strategy
func NewFastComparisonStrategy(log *logger.Logger, featureCache *cache.DiskCache) ComparisonStrategy {
	return &FastComparisonStrategy{
		engine: engine.New(engine.FastOptions().WithCache(featureCache), log),
	}
}

// Compare performs a fast comparison
func (s *FastComparisonStrategy) Compare(target, candidate *raster.Image) (*models.SimilarityReport, error) {
	return s.engine.Compare(target, candidate)
}

// GetStrategyName returns the strategy name
func (s *FastComparisonStrategy) GetStrategyName() string {
	return "fast_comparison"
}

// ComparisonContext manages the active scoring strategy
type ComparisonContext struct {
	strategy ComparisonStrategy
}

// NewComparisonContext creates a new comparison context
func NewComparisonContext(strategy ComparisonStrategy) *ComparisonContext {
	return &ComparisonContext{
		strategy: strategy,
	}
}

// SetStrategy changes the scoring strategy
func (c *ComparisonContext) SetStrategy(strategy ComparisonStrategy) {
	c.strategy = strategy
}

// ExecuteComparison scores a pair using the current strategy
func (c *ComparisonContext) ExecuteComparison(target, candidate *raster.Image) (*models.SimilarityReport, error) {
	return c.strategy.Compare(target, candidate)
}

// GetCurrentStrategy returns the current strategy name
func (c *ComparisonContext) GetCurrentStrategy() string {
	return c.strategy.GetStrategyName()
}
