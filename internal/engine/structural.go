package engine

import (
	"math"

	"go-image-similarity/pkg/models"
)

// SSIM stabilization constants for 8-bit data range.
var (
	ssimC1 = math.Pow(0.01*255, 2)
	ssimC2 = math.Pow(0.03*255, 2)
)

// structuralAnalyzer measures layout similarity with mean windowed SSIM
// over the luminance planes, sharpened and penalized for gross
// brightness mismatch.
type structuralAnalyzer struct {
	opts Options
}

func (s *structuralAnalyzer) Axis() models.Axis { return models.AxisStructural }

func (s *structuralAnalyzer) Score(target, candidate *imageData) float64 {
	ssim := meanSSIM(target.gray, candidate.gray, target.width, target.height, s.opts.SSIMWindow)
	if ssim < 0 {
		ssim = 0
	}
	score := math.Pow(ssim, 1.8)

	meanT := mean(target.gray)
	meanC := mean(candidate.gray)
	if math.Abs(meanT-meanC)/255 > s.opts.BrightnessTolerance {
		score *= 0.5
	}
	return score
}

// meanSSIM slides a uniform win x win window over both planes and
// averages the per-window SSIM index.
func meanSSIM(a, b []float64, width, height, win int) float64 {
	if width < win || height < win {
		return windowSSIM(a, b, width, 0, 0, width, height)
	}

	var total float64
	count := 0
	for y := 0; y+win <= height; y++ {
		for x := 0; x+win <= width; x++ {
			total += windowSSIM(a, b, width, x, y, win, win)
			count++
		}
	}
	return total / float64(count)
}

func windowSSIM(a, b []float64, width, px, py, pw, ph int) float64 {
	n := float64(pw * ph)
	var meanA, meanB float64
	for y := py; y < py+ph; y++ {
		for x := px; x < px+pw; x++ {
			i := y*width + x
			meanA += a[i]
			meanB += b[i]
		}
	}
	meanA /= n
	meanB /= n

	var varA, varB, cov float64
	for y := py; y < py+ph; y++ {
		for x := px; x < px+pw; x++ {
			i := y*width + x
			da := a[i] - meanA
			db := b[i] - meanB
			varA += da * da
			varB += db * db
			cov += da * db
		}
	}
	varA /= n
	varB /= n
	cov /= n

	num := (2*meanA*meanB + ssimC1) * (2*cov + ssimC2)
	den := (meanA*meanA + meanB*meanB + ssimC1) * (varA + varB + ssimC2)
	return num / den
}

func mean(data []float64) float64 {
	var total float64
	for _, v := range data {
		total += v
	}
	return total / float64(len(data))
}
