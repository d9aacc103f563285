package engine

import (
	"math"
	"math/rand"
	"testing"

	"go-image-similarity/internal/cache"
	apperrors "go-image-similarity/internal/errors"
	"go-image-similarity/internal/raster"
	"go-image-similarity/pkg/models"
)

// createNoiseImage builds a deterministic textured test image.
func createNoiseImage(width, height int, seed int64) *raster.Image {
	rng := rand.New(rand.NewSource(seed))
	img := raster.New(width, height)
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.Intn(256))
	}
	return img
}

func createUniformImage(width, height int, r, g, b uint8) *raster.Image {
	img := raster.New(width, height)
	for i := 0; i < len(img.Pix); i += raster.Channels {
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
	}
	return img
}

// createCircleImage draws a filled circle on a white background.
func createCircleImage(width, height, cx, cy, radius int, r, g, b uint8) *raster.Image {
	img := createUniformImage(width, height, 255, 255, 255)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= radius*radius {
				i := (y*width + x) * raster.Channels
				img.Pix[i] = r
				img.Pix[i+1] = g
				img.Pix[i+2] = b
			}
		}
	}
	return img
}

// createTextImage draws dark horizontal bar patterns resembling lines of
// text on a white background.
func createTextImage(width, height int) *raster.Image {
	img := createUniformImage(width, height, 255, 255, 255)
	rng := rand.New(rand.NewSource(99))
	for line := 8; line < height-8; line += 12 {
		x := 4
		for x < width-8 {
			runLen := 3 + rng.Intn(8)
			for dx := 0; dx < runLen && x+dx < width-4; dx++ {
				for dy := 0; dy < 5; dy++ {
					i := ((line+dy)*width + x + dx) * raster.Channels
					img.Pix[i] = 20
					img.Pix[i+1] = 20
					img.Pix[i+2] = 20
				}
			}
			x += runLen + 2 + rng.Intn(5)
		}
	}
	return img
}

func createGradientImage(width, height int) *raster.Image {
	img := raster.New(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := (y*width + x) * raster.Channels
			img.Pix[i] = uint8(x * 255 / width)
			img.Pix[i+1] = uint8(y * 255 / height)
			img.Pix[i+2] = 128
		}
	}
	return img
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e := New(DefaultOptions(), nil)
	t.Cleanup(e.Close)
	return e
}

func TestCompareIdentity(t *testing.T) {
	e := newTestEngine(t)
	img := createNoiseImage(96, 96, 1)

	report, err := e.Compare(img, img)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if report.Combined < 0.90 {
		t.Errorf("identity combined = %f, want >= 0.90", report.Combined)
	}
	for _, axis := range []models.Axis{models.AxisPerceptual, models.AxisStructural, models.AxisColorAdvanced, models.AxisTexture} {
		if s := report.Score(axis); s < 0.9 {
			t.Errorf("identity %s = %f, want >= 0.9", axis, s)
		}
	}
}

func TestCompareAxesNotDegraded(t *testing.T) {
	// A failed analyzer substitutes the 0.5 neutral, so identity scores
	// sitting near it would mean an axis silently died rather than ran.
	e := newTestEngine(t)
	img := createNoiseImage(96, 96, 15)

	report, err := e.Compare(img, img)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	for _, axis := range models.Axes {
		if s := report.Score(axis); s <= 0.6 {
			t.Errorf("identity %s = %f, want well above the neutral fallback", axis, s)
		}
	}
}

func TestSafeWeightsFallback(t *testing.T) {
	e := newTestEngine(t)
	good := prepare(createNoiseImage(32, 32, 16))
	broken := &imageData{
		img:    good.img,
		width:  good.width,
		height: good.height,
		gray:   good.gray[:8],
		labL:   good.labL,
		labA:   good.labA,
		labB:   good.labB,
	}

	// A truncated plane blows up the content signals; weighting must
	// degrade to the base profile instead of escaping Compare.
	w := e.safeWeights(broken, good)
	if w != e.weighter.base {
		t.Errorf("broken content signals should fall back to base weights, got %+v", w)
	}

	if w = e.safeWeights(good, good); w == e.weighter.base {
		// Noise trips at least the edge-density signal, so the adaptive
		// profile must differ from base on the healthy path.
		t.Error("healthy pair unexpectedly returned base weights")
	}
}

func TestCompareDivergentImages(t *testing.T) {
	e := newTestEngine(t)

	blue := createUniformImage(96, 96, 0, 0, 255)
	red := createUniformImage(96, 96, 255, 0, 0)
	report, err := e.Compare(blue, red)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if report.Combined >= 0.35 {
		t.Errorf("blue vs red combined = %f, want < 0.35", report.Combined)
	}

	text := createTextImage(96, 96)
	report, err = e.Compare(blue, text)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if report.Combined >= 0.35 {
		t.Errorf("blue vs text combined = %f, want < 0.35", report.Combined)
	}
}

func TestCompareNearMatchOrdering(t *testing.T) {
	e := newTestEngine(t)

	target := createCircleImage(96, 96, 48, 48, 24, 0, 0, 255)
	shifted := createCircleImage(96, 96, 51, 51, 24, 30, 30, 235)

	near, err := e.Compare(target, shifted)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	identity, err := e.Compare(target, target)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	far, err := e.Compare(target, createUniformImage(96, 96, 255, 0, 0))
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	if near.Perceptual <= 0.7 {
		t.Errorf("near-match perceptual = %f, want > 0.7", near.Perceptual)
	}
	if near.Combined <= far.Combined || near.Combined >= identity.Combined {
		t.Errorf("ordering violated: identity %f, near %f, far %f",
			identity.Combined, near.Combined, far.Combined)
	}
	if near.Combined < 0.5 || near.Combined > 0.95 {
		t.Errorf("near-match combined = %f, want in [0.5, 0.95]", near.Combined)
	}
}

func TestCompareScoreRanges(t *testing.T) {
	e := newTestEngine(t)
	pairs := [][2]*raster.Image{
		{createNoiseImage(64, 64, 2), createNoiseImage(64, 64, 3)},
		{createGradientImage(64, 64), createTextImage(64, 64)},
		{createUniformImage(64, 64, 128, 128, 128), createNoiseImage(64, 64, 4)},
	}

	for _, pair := range pairs {
		report, err := e.Compare(pair[0], pair[1])
		if err != nil {
			t.Fatalf("Compare failed: %v", err)
		}
		scores := []float64{
			report.Combined, report.Perceptual, report.Semantic,
			report.Structural, report.ColorAdvanced, report.Texture,
			report.Histogram, report.Edges, report.Colors,
			report.HOGFeatures, report.HSVSimilarity,
		}
		for i, s := range scores {
			if s < 0 || s > 1 {
				t.Errorf("score[%d] = %f out of [0, 1]", i, s)
			}
		}
		if sum := report.AdaptiveWeights.Sum(); math.Abs(sum-1) > 1e-6 {
			t.Errorf("weights sum to %f, want 1", sum)
		}
	}
}

func TestCompareDeterministic(t *testing.T) {
	e := newTestEngine(t)
	a := createNoiseImage(64, 64, 5)
	b := createNoiseImage(64, 64, 6)

	first, err := e.Compare(a, b)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	second, err := e.Compare(a, b)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if *first != *second {
		t.Errorf("reports differ across runs:\n%+v\n%+v", first, second)
	}
}

func TestCompareResizesCandidate(t *testing.T) {
	e := newTestEngine(t)
	target := createGradientImage(64, 64)
	candidate := createGradientImage(128, 128)

	report, err := e.Compare(target, candidate)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if report.Combined < 0.8 {
		t.Errorf("same gradient at 2x size scored %f, want >= 0.8", report.Combined)
	}
}

func TestCompareInvalidInput(t *testing.T) {
	e := newTestEngine(t)
	valid := createNoiseImage(32, 32, 7)

	tests := []struct {
		name              string
		target, candidate *raster.Image
	}{
		{"nil target", nil, valid},
		{"nil candidate", valid, nil},
		{"zero area", raster.New(0, 0), valid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Compare(tt.target, tt.candidate)
			if err == nil {
				t.Fatal("expected error")
			}
			if !apperrors.IsType(err, apperrors.ErrorTypeInvalidInput) {
				t.Errorf("expected invalid_input, got %v", err)
			}
		})
	}
}

func TestCompareFastMode(t *testing.T) {
	e := New(FastOptions(), nil)
	defer e.Close()

	img := createNoiseImage(64, 64, 8)
	report, err := e.Compare(img, img)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if report.Combined < 0.9 {
		t.Errorf("fast-mode identity = %f, want >= 0.9", report.Combined)
	}
}

func TestCompareWithFeatureCache(t *testing.T) {
	featureCache, err := cache.New(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("cache.New failed: %v", err)
	}
	cached := New(DefaultOptions().WithCache(featureCache), nil)
	defer cached.Close()
	plain := newTestEngine(t)

	a := createNoiseImage(64, 64, 10)
	b := createGradientImage(64, 64)

	want, err := plain.Compare(a, b)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	// First run populates the cache, second run reads it back.
	cold, err := cached.Compare(a, b)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	warm, err := cached.Compare(a, b)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	if *cold != *want {
		t.Errorf("cached engine diverges from uncached:\n%+v\n%+v", cold, want)
	}
	if *warm != *cold {
		t.Errorf("warm run diverges from cold run:\n%+v\n%+v", warm, cold)
	}
}

func TestColorLabChannelStats(t *testing.T) {
	red := prepare(createUniformImage(48, 48, 200, 40, 40))
	darkRed := prepare(createUniformImage(48, 48, 160, 30, 30))
	blue := prepare(createUniformImage(48, 48, 40, 40, 200))

	if sim := channelEMDSim(red, red); sim < 0.999 {
		t.Errorf("identical EMD sim = %f, want ~1", sim)
	}
	if sim := colorMomentsSim(red, red); sim < 0.999 {
		t.Errorf("identical moments sim = %f, want ~1", sim)
	}

	// A shade shift moves mostly L; a hue swap moves the chroma planes
	// far, so it must score lower on both statistics.
	if near, far := channelEMDSim(red, darkRed), channelEMDSim(red, blue); near <= far {
		t.Errorf("EMD: shade shift %f should beat hue swap %f", near, far)
	}
	if near, far := colorMomentsSim(red, darkRed), colorMomentsSim(red, blue); near <= far {
		t.Errorf("moments: shade shift %f should beat hue swap %f", near, far)
	}
}

func TestStructuralBrightnessPenalty(t *testing.T) {
	s := &structuralAnalyzer{opts: DefaultOptions()}

	base := prepare(createUniformImage(48, 48, 100, 100, 100))
	nearBright := prepare(createUniformImage(48, 48, 120, 120, 120))
	farBright := prepare(createUniformImage(48, 48, 220, 220, 220))

	nearScore := s.Score(base, nearBright)
	farScore := s.Score(base, farBright)
	if farScore >= nearScore {
		t.Errorf("brightness penalty missing: near %f, far %f", nearScore, farScore)
	}
}

func TestExplain(t *testing.T) {
	e := newTestEngine(t)
	img := createNoiseImage(64, 64, 9)
	report, err := e.Compare(img, img)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	lines := Explain(report)
	if len(lines) != 7 {
		t.Fatalf("Explain returned %d lines, want 7", len(lines))
	}
	for _, line := range lines[:5] {
		if line == "" {
			t.Error("empty axis line")
		}
	}
	if lines[5][:7] != "Overall" {
		t.Errorf("verdict line = %q", lines[5])
	}
	if lines[6][:5] != "Focus" {
		t.Errorf("focus line = %q", lines[6])
	}
}
