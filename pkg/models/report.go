package models

// Axis identifies one of the five independent similarity axes.
type Axis string

const (
	AxisPerceptual    Axis = "perceptual"
	AxisSemantic      Axis = "semantic"
	AxisStructural    Axis = "structural"
	AxisColorAdvanced Axis = "color_advanced"
	AxisTexture       Axis = "texture"
)

// Axes lists the five axes in report order.
var Axes = []Axis{AxisPerceptual, AxisSemantic, AxisStructural, AxisColorAdvanced, AxisTexture}

// WeightProfile maps the five axis names to non-negative weights summing to 1.0.
type WeightProfile struct {
	Perceptual    float64 `json:"perceptual"`
	Semantic      float64 `json:"semantic"`
	Structural    float64 `json:"structural"`
	ColorAdvanced float64 `json:"color_advanced"`
	Texture       float64 `json:"texture"`
}

// Get returns the weight for the given axis.
func (w WeightProfile) Get(axis Axis) float64 {
	switch axis {
	case AxisPerceptual:
		return w.Perceptual
	case AxisSemantic:
		return w.Semantic
	case AxisStructural:
		return w.Structural
	case AxisColorAdvanced:
		return w.ColorAdvanced
	case AxisTexture:
		return w.Texture
	}
	return 0
}

// Set assigns the weight for the given axis.
func (w *WeightProfile) Set(axis Axis, v float64) {
	switch axis {
	case AxisPerceptual:
		w.Perceptual = v
	case AxisSemantic:
		w.Semantic = v
	case AxisStructural:
		w.Structural = v
	case AxisColorAdvanced:
		w.ColorAdvanced = v
	case AxisTexture:
		w.Texture = v
	}
}

// Sum returns the total of all weights.
func (w WeightProfile) Sum() float64 {
	return w.Perceptual + w.Semantic + w.Structural + w.ColorAdvanced + w.Texture
}

// Normalize rescales the weights in place so they sum to 1.0.
// A zero profile is left untouched.
func (w *WeightProfile) Normalize() {
	total := w.Sum()
	if total <= 0 {
		return
	}
	w.Perceptual /= total
	w.Semantic /= total
	w.Structural /= total
	w.ColorAdvanced /= total
	w.Texture /= total
}

// Dominant returns the axis carrying the largest weight.
func (w WeightProfile) Dominant() Axis {
	best := AxisPerceptual
	for _, axis := range Axes {
		if w.Get(axis) > w.Get(best) {
			best = axis
		}
	}
	return best
}

// SimilarityReport is the single output of a comparison: the combined score,
// the per-axis scores, the adaptive weights used for fusion, and legacy field
// aliases kept for older consumers of the scoring API.
type SimilarityReport struct {
	Combined        float64       `json:"combined"`
	Perceptual      float64       `json:"perceptual"`
	Semantic        float64       `json:"semantic"`
	Structural      float64       `json:"structural"`
	ColorAdvanced   float64       `json:"color_advanced"`
	Texture         float64       `json:"texture"`
	AdaptiveWeights WeightProfile `json:"adaptive_weights"`

	// Legacy aliases retained for older consumers.
	Histogram     float64 `json:"histogram"`
	Edges         float64 `json:"edges"`
	Colors        float64 `json:"colors"`
	HOGFeatures   float64 `json:"hog_features"`
	HSVSimilarity float64 `json:"hsv_similarity"`
}

// Score returns the score recorded for the given axis.
func (r *SimilarityReport) Score(axis Axis) float64 {
	switch axis {
	case AxisPerceptual:
		return r.Perceptual
	case AxisSemantic:
		return r.Semantic
	case AxisStructural:
		return r.Structural
	case AxisColorAdvanced:
		return r.ColorAdvanced
	case AxisTexture:
		return r.Texture
	}
	return 0
}
