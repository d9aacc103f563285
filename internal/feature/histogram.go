package feature

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Histogram bins data into a normalized histogram over [min, max].
// Values outside the range clamp into the edge bins.
func Histogram(data []float64, bins int, min, max float64) []float64 {
	hist := make([]float64, bins)
	if len(data) == 0 || max <= min {
		return hist
	}
	scale := float64(bins) / (max - min)
	for _, v := range data {
		bin := int((v - min) * scale)
		if bin < 0 {
			bin = 0
		}
		if bin >= bins {
			bin = bins - 1
		}
		hist[bin]++
	}
	for i := range hist {
		hist[i] /= float64(len(data))
	}
	return hist
}

// HistCorrelation returns the Pearson correlation of two histograms,
// clipped to [0, 1]. Degenerate (constant) histograms compare as 1 when
// identical and 0 otherwise.
func HistCorrelation(h1, h2 []float64) float64 {
	if len(h1) != len(h2) || len(h1) == 0 {
		return 0
	}
	if isConstant(h1) || isConstant(h2) {
		if histEqual(h1, h2) {
			return 1
		}
		return 0
	}
	corr := stat.Correlation(h1, h2, nil)
	if math.IsNaN(corr) || corr < 0 {
		return 0
	}
	if corr > 1 {
		return 1
	}
	return corr
}

// ChiSquareSim converts a symmetric chi-square distance between two
// normalized histograms into a similarity via exp(-chi2/2).
func ChiSquareSim(h1, h2 []float64) float64 {
	if len(h1) != len(h2) {
		return 0
	}
	var chi2 float64
	for i := range h1 {
		d := h1[i] - h2[i]
		s := h1[i] + h2[i]
		if s > 1e-10 {
			chi2 += d * d / s
		}
	}
	return math.Exp(-chi2 / 2)
}

// EMDSim converts the earth-mover's distance between two normalized
// histograms over a value range into a similarity in [0, 1]. For 1-D
// histograms the EMD is the integrated absolute CDF difference.
func EMDSim(h1, h2 []float64, valueRange float64) float64 {
	if len(h1) != len(h2) || len(h1) == 0 || valueRange <= 0 {
		return 0
	}
	binWidth := valueRange / float64(len(h1))
	var cdf1, cdf2, emd float64
	for i := range h1 {
		cdf1 += h1[i]
		cdf2 += h2[i]
		emd += math.Abs(cdf1-cdf2) * binWidth
	}
	sim := 1 - emd/valueRange
	if sim < 0 {
		return 0
	}
	return sim
}

// Moments returns the mean, variance and skewness of a data plane.
func Moments(data []float64) (mean, variance, skew float64) {
	if len(data) == 0 {
		return 0, 0, 0
	}
	mean = stat.Mean(data, nil)
	variance = stat.Variance(data, nil)
	skew = stat.Skew(data, nil)
	if math.IsNaN(skew) {
		skew = 0
	}
	return mean, variance, skew
}

// Correlation returns the Pearson correlation of two planes clipped to
// [0, 1], with 0.5 as the neutral value for degenerate inputs.
func Correlation(a, b []float64) float64 {
	if len(a) != len(b) || len(a) < 2 {
		return 0.5
	}
	if isConstant(a) || isConstant(b) {
		return 0.5
	}
	corr := stat.Correlation(a, b, nil)
	if math.IsNaN(corr) {
		return 0.5
	}
	if corr < 0 {
		return 0
	}
	if corr > 1 {
		return 1
	}
	return corr
}

func isConstant(data []float64) bool {
	for i := 1; i < len(data); i++ {
		if data[i] != data[0] {
			return false
		}
	}
	return true
}

func histEqual(h1, h2 []float64) bool {
	for i := range h1 {
		if math.Abs(h1[i]-h2[i]) > 1e-12 {
			return false
		}
	}
	return true
}
