package engine

import (
	"math"

	"go-image-similarity/internal/feature"
	"go-image-similarity/internal/raster"
	"go-image-similarity/pkg/models"
)

const (
	colorHistWeight    = 0.5
	colorEMDWeight     = 0.3
	colorMomentsWeight = 0.2

	emdBins = 50
)

// colorAnalyzer measures color distribution similarity from three
// complementary views of the Lab planes: histogram agreement,
// per-channel transport distance, and statistical color moments.
type colorAnalyzer struct{}

func (c *colorAnalyzer) Axis() models.Axis { return models.AxisColorAdvanced }

func (c *colorAnalyzer) Score(target, candidate *imageData) float64 {
	return colorHistWeight*labHistogramSim(target, candidate) +
		colorEMDWeight*channelEMDSim(target, candidate) +
		colorMomentsWeight*colorMomentsSim(target, candidate)
}

// labHistogramSim blends histogram correlation and chi-square agreement
// per Lab channel. Lightness carries half the weight; the two chroma
// channels split the rest.
func labHistogramSim(t, c *imageData) float64 {
	type channel struct {
		tPlane, cPlane []float64
		bins           int
		min, max       float64
		weight         float64
	}
	channels := []channel{
		{t.labL, c.labL, 100, 0, 100, 0.5},
		{t.labA, c.labA, 64, -128, 128, 0.25},
		{t.labB, c.labB, 64, -128, 128, 0.25},
	}

	var total float64
	for _, ch := range channels {
		h1 := feature.Histogram(ch.tPlane, ch.bins, ch.min, ch.max)
		h2 := feature.Histogram(ch.cPlane, ch.bins, ch.min, ch.max)
		sim := 0.6*feature.HistCorrelation(h1, h2) + 0.4*feature.ChiSquareSim(h1, h2)
		total += ch.weight * sim
	}
	return total
}

// labChannel pairs one Lab plane of each image with its value range.
type labChannel struct {
	tPlane, cPlane []float64
	min, max       float64
}

func labChannels(t, c *imageData) [3]labChannel {
	return [3]labChannel{
		{t.labL, c.labL, 0, 100},
		{t.labA, c.labA, -128, 128},
		{t.labB, c.labB, -128, 128},
	}
}

// channelEMDSim averages the earth-mover's distance similarity of the
// Lab channel distributions, each normalized by its channel range.
func channelEMDSim(t, c *imageData) float64 {
	var total float64
	for _, ch := range labChannels(t, c) {
		h1 := feature.Histogram(ch.tPlane, emdBins, ch.min, ch.max)
		h2 := feature.Histogram(ch.cPlane, emdBins, ch.min, ch.max)
		total += feature.EMDSim(h1, h2, ch.max-ch.min)
	}
	return total / 3
}

// colorMomentsSim compares mean, variance and skewness per Lab channel,
// with each statistic normalized by the channel's value range.
func colorMomentsSim(t, c *imageData) float64 {
	var total float64
	for _, ch := range labChannels(t, c) {
		span := ch.max - ch.min
		meanT, varT, skewT := feature.Moments(ch.tPlane)
		meanC, varC, skewC := feature.Moments(ch.cPlane)

		meanSim := 1 - math.Abs(meanT-meanC)/span
		varSim := 1 - math.Abs(varT-varC)/(span*span)
		skewSim := 1 - math.Min(1, math.Abs(skewT-skewC)/10)

		total += 0.5*clamp01(meanSim) + 0.3*clamp01(varSim) + 0.2*clamp01(skewSim)
	}
	return total / 3
}

func channelPlane(img *raster.Image, ch int) []float64 {
	n := img.Width * img.Height
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = float64(img.Pix[i*raster.Channels+ch])
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
