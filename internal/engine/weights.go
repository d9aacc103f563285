package engine

import (
	"gonum.org/v1/gonum/stat"

	"go-image-similarity/internal/feature"
	"go-image-similarity/internal/raster"
	"go-image-similarity/pkg/models"
)

const (
	edgeDensityThreshold   = 0.1
	colorVarianceThreshold = 0.3
	textureComplexityLimit = 0.5

	edgeMagnitudeThreshold = 100
)

// adaptiveWeighter derives the fusion weights from measured content
// signals of the image pair, so structural content counts more on edgy
// images, color counts more on colorful ones, and texture counts more
// on busy surfaces.
type adaptiveWeighter struct {
	base models.WeightProfile
}

func newAdaptiveWeighter() *adaptiveWeighter {
	return &adaptiveWeighter{
		base: models.WeightProfile{
			Perceptual:    0.30,
			Semantic:      0.25,
			Structural:    0.20,
			ColorAdvanced: 0.15,
			Texture:       0.10,
		},
	}
}

// Weights returns the normalized adaptive profile for an image pair.
func (aw *adaptiveWeighter) Weights(t, c *imageData) models.WeightProfile {
	w := aw.base

	if edgeDensity(t, c) > edgeDensityThreshold {
		w.Structural *= 1.15
		w.Perceptual *= 0.95
	}
	if colorVariance(t.img, c.img) > colorVarianceThreshold {
		w.ColorAdvanced *= 1.2
		w.Semantic *= 0.95
	}
	if textureComplexity(t, c) > textureComplexityLimit {
		w.Texture *= 1.25
		w.Perceptual *= 0.9
	}

	w.Normalize()
	return w
}

// edgeDensity averages the strong-gradient pixel fraction of both planes.
func edgeDensity(t, c *imageData) float64 {
	dt := feature.EdgeDensity(t.gray, t.width, t.height, edgeMagnitudeThreshold)
	dc := feature.EdgeDensity(c.gray, c.width, c.height, edgeMagnitudeThreshold)
	return (dt + dc) / 2
}

// colorVariance sums the per-channel pixel variance of both images,
// averaged over channels and scaled to the 8-bit range.
func colorVariance(t, c *raster.Image) float64 {
	var total float64
	for ch := 0; ch < raster.Channels; ch++ {
		total += stat.Variance(channelPlane(t, ch), nil) +
			stat.Variance(channelPlane(c, ch), nil)
	}
	return total / float64(raster.Channels) / (255 * 255)
}

// textureComplexity averages the dispersion of fine-grained LBP codes.
// The divisor scales the 0..9 code range so busy textures land near 0.5.
func textureComplexity(t, c *imageData) float64 {
	dt := feature.Dispersion(feature.LBPCodes(t.gray, t.width, t.height, 8, 1))
	dc := feature.Dispersion(feature.LBPCodes(c.gray, c.width, c.height, 8, 1))
	return (dt + dc) / (2 * 10)
}
