package engine

import (
	"math"

	"go-image-similarity/pkg/models"
)

const (
	minScoreFloor     = 0.15
	varianceThreshold = 0.15
)

// fuse combines the per-axis scores under the adaptive weights and
// applies the discrimination curve: a weak axis crushes the total, the
// mid-band is stretched apart, and disagreement between axes costs a
// flat penalty.
func fuse(scores map[models.Axis]float64, weights models.WeightProfile) float64 {
	var combined float64
	for _, axis := range models.Axes {
		combined += weights.Get(axis) * scores[axis]
	}

	minScore := 1.0
	for _, axis := range models.Axes {
		if s := scores[axis]; s < minScore {
			minScore = s
		}
	}
	if minScore < minScoreFloor {
		combined *= math.Pow(minScore/minScoreFloor, 1.5)
	}

	switch {
	case combined > 0.7:
		combined = 0.7 + math.Pow(combined-0.7, 0.8)
	case combined > 0.4:
		combined = math.Pow(combined, 1.1)
	default:
		combined = math.Pow(combined, 1.4)
	}

	if axisVariance(scores) > varianceThreshold {
		combined *= 0.9
	}

	return clamp01(combined)
}

// axisVariance is the population variance of the five axis scores.
func axisVariance(scores map[models.Axis]float64) float64 {
	n := float64(len(models.Axes))
	var mean float64
	for _, axis := range models.Axes {
		mean += scores[axis]
	}
	mean /= n

	var variance float64
	for _, axis := range models.Axes {
		d := scores[axis] - mean
		variance += d * d
	}
	return variance / n
}
