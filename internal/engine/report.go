package engine

import (
	"fmt"

	"go-image-similarity/pkg/models"
)

// buildReport assembles the outward report, including the alias fields
// kept for consumers of the previous scoring API: histogram and colors
// mirror the color axis, edges blends structural with texture, and
// hsv_similarity is a damped color score.
func buildReport(combined float64, scores map[models.Axis]float64, weights models.WeightProfile) *models.SimilarityReport {
	structural := scores[models.AxisStructural]
	texture := scores[models.AxisTexture]
	color := scores[models.AxisColorAdvanced]

	return &models.SimilarityReport{
		Combined:        combined,
		Perceptual:      scores[models.AxisPerceptual],
		Semantic:        scores[models.AxisSemantic],
		Structural:      structural,
		ColorAdvanced:   color,
		Texture:         texture,
		AdaptiveWeights: weights,

		Histogram:     color,
		Edges:         0.8*structural + 0.2*texture,
		Colors:        color,
		HOGFeatures:   scores[models.AxisSemantic],
		HSVSimilarity: 0.9 * color,
	}
}

var axisLabels = map[models.Axis]string{
	models.AxisPerceptual:    "Visual appearance",
	models.AxisSemantic:      "Content and shapes",
	models.AxisStructural:    "Layout and composition",
	models.AxisColorAdvanced: "Color palette",
	models.AxisTexture:       "Surface texture",
}

var focusHints = map[models.Axis]string{
	models.AxisPerceptual:    "overall visual appearance dominates this comparison",
	models.AxisSemantic:      "recognizable content dominates this comparison",
	models.AxisStructural:    "layout and composition dominate this comparison",
	models.AxisColorAdvanced: "color palette dominates this comparison",
	models.AxisTexture:       "surface texture dominates this comparison",
}

// Explain renders a human-readable breakdown of a report: one line per
// axis with a quality band, an overall verdict, and a note on which
// axis the adaptive weighting emphasized.
func Explain(report *models.SimilarityReport) []string {
	lines := make([]string, 0, len(models.Axes)+2)
	for _, axis := range models.Axes {
		score := report.Score(axis)
		lines = append(lines, fmt.Sprintf("%s: %.0f%% (%s)",
			axisLabels[axis], score*100, band(score)))
	}

	lines = append(lines, fmt.Sprintf("Overall: %.0f%% — %s",
		report.Combined*100, verdict(report.Combined)))
	lines = append(lines, "Focus: "+focusHints[report.AdaptiveWeights.Dominant()])
	return lines
}

func band(score float64) string {
	switch {
	case score > 0.8:
		return "strong match"
	case score >= 0.6:
		return "good match"
	default:
		return "weak match"
	}
}

func verdict(combined float64) string {
	switch {
	case combined >= 0.85:
		return "excellent match"
	case combined >= 0.7:
		return "close match"
	case combined >= 0.5:
		return "partial match"
	default:
		return "poor match"
	}
}
