package strategy

import (
	"testing"

	"go-image-similarity/internal/raster"
	"go-image-similarity/pkg/models"
)

type stubStrategy struct {
	name  string
	calls int
}

func (s *stubStrategy) Compare(target, candidate *raster.Image) (*models.SimilarityReport, error) {
	s.calls++
	return &models.SimilarityReport{Combined: 0.5}, nil
}

func (s *stubStrategy) GetStrategyName() string { return s.name }

func TestComparisonContextSwitching(t *testing.T) {
	full := &stubStrategy{name: "full_comparison"}
	fast := &stubStrategy{name: "fast_comparison"}
	img := raster.New(4, 4)

	ctx := NewComparisonContext(full)
	if got := ctx.GetCurrentStrategy(); got != "full_comparison" {
		t.Errorf("current strategy = %q, want full_comparison", got)
	}
	report, err := ctx.ExecuteComparison(img, img)
	if err != nil {
		t.Fatalf("ExecuteComparison failed: %v", err)
	}
	if report.Combined != 0.5 || full.calls != 1 {
		t.Errorf("full strategy not executed: combined=%f calls=%d", report.Combined, full.calls)
	}

	ctx.SetStrategy(fast)
	if got := ctx.GetCurrentStrategy(); got != "fast_comparison" {
		t.Errorf("current strategy = %q, want fast_comparison", got)
	}
	if _, err := ctx.ExecuteComparison(img, img); err != nil {
		t.Fatalf("ExecuteComparison failed: %v", err)
	}
	if fast.calls != 1 || full.calls != 1 {
		t.Errorf("strategy switch not honored: full=%d fast=%d", full.calls, fast.calls)
	}
}
