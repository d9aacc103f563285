package engine

import (
	"math"

	"go-image-similarity/pkg/models"
)

var (
	perceptualScales       = []float64{1.0, 0.5, 0.25}
	perceptualScaleWeights = []float64{0.6, 0.3, 0.1}
)

// perceptualAnalyzer measures low-level visual resemblance with
// multi-scale normalized cross-correlation of Lab patches. Each 16px
// patch is compared jointly across all three channels, so flat-color
// regions still correlate through their chroma.
type perceptualAnalyzer struct {
	opts Options
}

func (p *perceptualAnalyzer) Axis() models.Axis { return models.AxisPerceptual }

func (p *perceptualAnalyzer) Score(target, candidate *imageData) float64 {
	var total, weightSum float64
	for i, scale := range perceptualScales {
		t := target
		c := candidate
		if scale != 1.0 {
			t = prepare(target.img.Rescale(scale))
			c = prepare(candidate.img.Rescale(scale))
		}
		total += perceptualScaleWeights[i] * p.scoreAtScale(t, c)
		weightSum += perceptualScaleWeights[i]
	}
	score := total / weightSum

	// Gamma lift rewards partial matches without saturating.
	return 1 - math.Pow(1-score, 0.8)
}

// scoreAtScale averages the positive joint NCC over a sliding patch
// grid. Images smaller than one patch are compared as a single patch.
func (p *perceptualAnalyzer) scoreAtScale(t, c *imageData) float64 {
	size := p.opts.PatchSize
	stride := p.opts.PatchStride
	w, h := t.width, t.height

	if w < size || h < size {
		return positivePart(jointNCC(t, c, 0, 0, w, h))
	}

	var total float64
	count := 0
	for y := 0; y+size <= h; y += stride {
		for x := 0; x+size <= w; x += stride {
			total += positivePart(jointNCC(t, c, x, y, size, size))
			count++
		}
	}
	if count == 0 {
		return neutralScore
	}
	return total / float64(count)
}

// jointNCC computes zero-mean normalized cross-correlation over the
// concatenated L, a and b values of one patch. Flat patches carry no
// structure, so both-flat pairs fall back to a Lab distance of their
// mean colors; a single flat side is ambiguous and scores neutral.
func jointNCC(t, c *imageData, px, py, pw, ph int) float64 {
	n := float64(pw * ph)
	var meanT, meanC [3]float64
	channels := [3][2][]float64{
		{t.labL, c.labL}, {t.labA, c.labA}, {t.labB, c.labB},
	}

	for y := py; y < py+ph; y++ {
		for x := px; x < px+pw; x++ {
			i := y*t.width + x
			for ch, pair := range channels {
				meanT[ch] += pair[0][i]
				meanC[ch] += pair[1][i]
			}
		}
	}
	for ch := 0; ch < 3; ch++ {
		meanT[ch] /= n
		meanC[ch] /= n
	}

	var dot, varT, varC float64
	for y := py; y < py+ph; y++ {
		for x := px; x < px+pw; x++ {
			i := y*t.width + x
			for ch, pair := range channels {
				dt := pair[0][i] - meanT[ch]
				dc := pair[1][i] - meanC[ch]
				dot += dt * dc
				varT += dt * dt
				varC += dc * dc
			}
		}
	}

	if varT < 1e-6 || varC < 1e-6 {
		if varT < 1e-6 && varC < 1e-6 {
			dl := meanT[0] - meanC[0]
			da := meanT[1] - meanC[1]
			db := meanT[2] - meanC[2]
			deltaE := math.Sqrt(dl*dl + da*da + db*db)
			if deltaE > 100 {
				deltaE = 100
			}
			return 1 - deltaE/100
		}
		return neutralScore
	}
	return dot / math.Sqrt(varT*varC)
}

func positivePart(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
