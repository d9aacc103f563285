package engine

import (
	"fmt"
	"sync"

	"go-image-similarity/internal/logger"
	"go-image-similarity/internal/raster"
	"go-image-similarity/pkg/models"
)

// neutralScore substitutes for an axis whose analyzer failed. Scoring is
// fail-soft after input validation: a broken axis degrades the report,
// it never aborts the comparison.
const neutralScore = 0.5

// Analyzer scores one similarity axis over a pair of normalized images.
// Implementations must be pure functions of the two inputs.
type Analyzer interface {
	Axis() models.Axis
	Score(target, candidate *imageData) float64
}

// imageData caches the derived planes every analyzer reads, so each
// conversion happens once per comparison.
type imageData struct {
	img              *raster.Image
	width, height    int
	gray             []float64
	labL, labA, labB []float64
}

func prepare(img *raster.Image) *imageData {
	l, a, b := img.Lab()
	return &imageData{
		img:    img,
		width:  img.Width,
		height: img.Height,
		gray:   img.Gray(),
		labL:   l,
		labA:   a,
		labB:   b,
	}
}

// Engine runs the five similarity analyzers concurrently and fuses their
// scores under adaptive weights. Configuration is owned per instance;
// there is no package-level state.
type Engine struct {
	opts      Options
	log       *logger.Logger
	pool      *WorkerPool
	analyzers []Analyzer
	weighter  *adaptiveWeighter
}

// New creates an engine with the given options.
func New(opts Options, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.NewLogger()
	}
	e := &Engine{
		opts: opts,
		log:  log,
		analyzers: []Analyzer{
			&perceptualAnalyzer{opts: opts},
			&semanticAnalyzer{opts: opts},
			&structuralAnalyzer{opts: opts},
			&colorAnalyzer{},
			&textureAnalyzer{opts: opts},
		},
		weighter: newAdaptiveWeighter(),
	}
	if opts.UseWorkerPool {
		e.pool = NewWorkerPool(opts.MaxWorkers)
		e.pool.Start()
	}
	return e
}

// Close releases the engine's worker pool.
func (e *Engine) Close() {
	if e.pool != nil {
		e.pool.Close()
		e.pool = nil
	}
}

// Compare scores candidate against target and returns the full report.
// Inputs are validated fail-fast; the candidate is resized to the
// target's dimensions before any analyzer runs. After validation the
// comparison always succeeds: individual analyzer panics are logged and
// replaced by the neutral score, and weighting or fusion failures fall
// back to the base profile and plain weighted sum.
func (e *Engine) Compare(target, candidate *raster.Image) (*models.SimilarityReport, error) {
	target, candidate, err := raster.Normalize(target, candidate)
	if err != nil {
		return nil, err
	}

	t := prepare(target)
	c := prepare(candidate)

	scores := make(map[models.Axis]float64, len(e.analyzers))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, a := range e.analyzers {
		a := a
		wg.Add(1)
		job := func() {
			defer wg.Done()
			score := e.safeScore(a, t, c)
			mu.Lock()
			scores[a.Axis()] = score
			mu.Unlock()
		}
		if e.pool != nil {
			e.pool.Submit(job)
		} else {
			go job()
		}
	}
	wg.Wait()

	weights := e.safeWeights(t, c)
	combined := e.safeFuse(scores, weights)
	return buildReport(combined, scores, weights), nil
}

// safeWeights derives the adaptive profile, falling back to the base
// profile when the weighter fails. Like the analyzers, weighting is
// fail-soft: a broken content signal degrades to fixed weights.
func (e *Engine) safeWeights(t, c *imageData) (weights models.WeightProfile) {
	defer func() {
		if r := recover(); r != nil {
			e.log.WithField("panic", fmt.Sprintf("%v", r)).
				Warn("adaptive weighter failed, substituting base profile")
			weights = e.weighter.base
		}
	}()
	return e.weighter.Weights(t, c)
}

// safeFuse applies the discrimination curve, falling back to the plain
// clamped weighted sum when the curve fails.
func (e *Engine) safeFuse(scores map[models.Axis]float64, weights models.WeightProfile) (combined float64) {
	defer func() {
		if r := recover(); r != nil {
			e.log.WithField("panic", fmt.Sprintf("%v", r)).
				Warn("score fusion failed, substituting weighted sum")
			var sum float64
			for _, axis := range models.Axes {
				sum += weights.Get(axis) * scores[axis]
			}
			combined = clamp01(sum)
		}
	}()
	return fuse(scores, weights)
}

// safeScore runs one analyzer, converting a panic into the neutral
// fallback and clamping the result to [0, 1].
func (e *Engine) safeScore(a Analyzer, t, c *imageData) (score float64) {
	defer func() {
		if r := recover(); r != nil {
			e.log.WithFields(map[string]interface{}{
				"axis":  string(a.Axis()),
				"panic": fmt.Sprintf("%v", r),
			}).Warn("analyzer failed, substituting neutral score")
			score = neutralScore
		}
	}()

	score = a.Score(t, c)
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score
}
