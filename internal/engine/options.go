package engine

import "go-image-similarity/internal/cache"

// Options provides flexible configuration for similarity scoring
type Options struct {
	// Perceptual settings
	PatchSize   int
	PatchStride int

	// Keypoint settings
	MaxKeypointsPerLevel int
	MatchRatio           float64
	BinaryMatchMaxDist   int

	// Structural settings
	SSIMWindow          int
	BrightnessTolerance float64

	// Feature toggles
	FastMode         bool // skip keypoint matching in the semantic axis
	SkipTextureAxis  bool
	WorkingSize      int // square side for dense gradient descriptors
	TextureMaxSide   int // downsample cap for the Gabor bank

	// Performance options
	UseWorkerPool bool
	MaxWorkers    int

	// FeatureCache, when set, persists dense descriptors across
	// comparisons of the same image content.
	FeatureCache *cache.DiskCache
}

// DefaultOptions returns default scoring options
func DefaultOptions() Options {
	return Options{
		PatchSize:            16,
		PatchStride:          8,
		MaxKeypointsPerLevel: 200,
		MatchRatio:           0.7,
		BinaryMatchMaxDist:   50,
		SSIMWindow:           7,
		BrightnessTolerance:  0.3,
		FastMode:             false,
		SkipTextureAxis:      false,
		WorkingSize:          128,
		TextureMaxSide:       128,
		UseWorkerPool:        true,
		MaxWorkers:           0, // use CPU count
	}
}

// FastOptions returns options for latency-sensitive scoring
func FastOptions() Options {
	opts := DefaultOptions()
	opts.FastMode = true
	opts.PatchStride = 16
	opts.TextureMaxSide = 96
	return opts
}

// WithFastMode enables fast scoring mode
func (opts Options) WithFastMode() Options {
	opts.FastMode = true
	opts.PatchStride = 16
	opts.TextureMaxSide = 96
	return opts
}

// WithWorkers sets the worker pool size
func (opts Options) WithWorkers(n int) Options {
	opts.MaxWorkers = n
	return opts
}

// WithCache attaches a feature cache
func (opts Options) WithCache(c *cache.DiskCache) Options {
	opts.FeatureCache = c
	return opts
}
