package engine

import (
	"fmt"

	"go-image-similarity/internal/cache"
	"go-image-similarity/internal/feature"
	"go-image-similarity/pkg/models"
)

const (
	textureGaborWeight    = 0.5
	textureLBPWeight      = 0.3
	textureVarianceWeight = 0.2

	varianceMapWindow = 5
)

// textureAnalyzer measures surface-pattern similarity with a Gabor
// filter bank, local binary patterns and a local-variance energy map.
// Input is downsampled before filtering; texture statistics survive the
// reduction and the bank convolution is the engine's costliest step.
type textureAnalyzer struct {
	opts Options
}

func (t *textureAnalyzer) Axis() models.Axis { return models.AxisTexture }

func (t *textureAnalyzer) Score(target, candidate *imageData) float64 {
	if t.opts.SkipTextureAxis {
		return neutralScore
	}

	tGray, w, h := t.workingPlane(target)
	cGray, _, _ := t.workingPlane(candidate)

	gaborSim := t.gaborSimilarity(target, tGray, candidate, cGray, w, h)

	lbpSim := feature.ChiSquareSim(
		feature.LBPHistogram(feature.LBPCodes(tGray, w, h, 24, 3), 24),
		feature.LBPHistogram(feature.LBPCodes(cGray, w, h, 24, 3), 24),
	)

	varSim := feature.Correlation(
		feature.VarianceMap(tGray, w, h, varianceMapWindow),
		feature.VarianceMap(cGray, w, h, varianceMapWindow),
	)

	return textureGaborWeight*gaborSim +
		textureLBPWeight*lbpSim +
		textureVarianceWeight*varSim
}

// workingPlane returns the grayscale plane downsampled so the longest
// side does not exceed the configured cap.
func (t *textureAnalyzer) workingPlane(d *imageData) ([]float64, int, int) {
	maxSide := t.opts.TextureMaxSide
	longest := d.width
	if d.height > longest {
		longest = d.height
	}
	if longest <= maxSide {
		return d.gray, d.width, d.height
	}

	scale := float64(maxSide) / float64(longest)
	small := d.img.Rescale(scale)
	return small.Gray(), small.Width, small.Height
}

// gaborSimilarity compares filter bank energy vectors. A pair of planes
// that both fail to excite the bank is indistinguishable here and
// scores neutral.
func (t *textureAnalyzer) gaborSimilarity(ta *imageData, aGray []float64, ca *imageData, bGray []float64, width, height int) float64 {
	ea := t.gaborEnergies(ta, aGray, width, height)
	eb := t.gaborEnergies(ca, bGray, width, height)

	if isZeroVector(ea) && isZeroVector(eb) {
		return neutralScore
	}
	return feature.Cosine(ea, eb)
}

// gaborEnergies computes (or recalls) the bank response for one image.
// The downsample cap is part of the key because the energies depend on
// the plane size the bank saw.
func (t *textureAnalyzer) gaborEnergies(d *imageData, gray []float64, width, height int) []float64 {
	var key string
	if t.opts.FeatureCache != nil {
		key = fmt.Sprintf("%s-gabor%d", cache.Key(d.img), t.opts.TextureMaxSide)
		if entry, ok := t.opts.FeatureCache.Get(key); ok && len(entry.GaborEnergy) > 0 {
			return entry.GaborEnergy
		}
	}

	energies := feature.GaborEnergies(gray, width, height)

	if t.opts.FeatureCache != nil {
		t.opts.FeatureCache.Put(key, &cache.Entry{GaborEnergy: energies})
	}
	return energies
}

func isZeroVector(v []float64) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
