package engine

import (
	"fmt"
	"math"

	"go-image-similarity/internal/cache"
	"go-image-similarity/internal/feature"
	"go-image-similarity/pkg/models"
)

const (
	semanticHOGWeight      = 0.4
	semanticLBPWeight      = 0.3
	semanticKeypointWeight = 0.2
	semanticBinaryWeight   = 0.1

	// Below this many keypoints a match count says nothing; the
	// sub-score degrades to a weak constant instead.
	minKeypoints       = 5
	keypointStarvation = 0.3
)

// semanticAnalyzer approximates content-level similarity from dense
// gradient statistics and sparse keypoint matching. In fast mode the
// two keypoint sub-scores are skipped and their weight is
// redistributed over the dense descriptors.
type semanticAnalyzer struct {
	opts Options
}

func (s *semanticAnalyzer) Axis() models.Axis { return models.AxisSemantic }

func (s *semanticAnalyzer) Score(target, candidate *imageData) float64 {
	tHOG, tLBP := s.denseDescriptors(target)
	cHOG, cLBP := s.denseDescriptors(candidate)

	hogSim := feature.Cosine(tHOG, cHOG)
	lbpSim := feature.ChiSquareSim(tLBP, cLBP)

	var score float64
	if s.opts.FastMode {
		denseTotal := semanticHOGWeight + semanticLBPWeight
		score = (semanticHOGWeight*hogSim + semanticLBPWeight*lbpSim) / denseTotal
	} else {
		kpSim, binarySim := s.keypointScores(target, candidate)
		score = semanticHOGWeight*hogSim +
			semanticLBPWeight*lbpSim +
			semanticKeypointWeight*kpSim +
			semanticBinaryWeight*binarySim
	}

	// Sharpen so partial semantic overlap does not read as a match.
	return math.Pow(score, 1.5)
}

// denseDescriptors computes (or recalls) the HOG vector and LBP
// histogram of the working-size grayscale plane. The cache key carries
// the working size, so differently configured engines never collide.
func (s *semanticAnalyzer) denseDescriptors(d *imageData) (hog, lbpHist []float64) {
	size := s.opts.WorkingSize

	var key string
	if s.opts.FeatureCache != nil {
		key = fmt.Sprintf("%s-dense%d", cache.Key(d.img), size)
		if entry, ok := s.opts.FeatureCache.Get(key); ok && len(entry.HOG) > 0 && len(entry.LBPHistogram) > 0 {
			return entry.HOG, entry.LBPHistogram
		}
	}

	gray := prepare(d.img.Resize(size, size)).gray
	hog = feature.HOG(gray, size, size)
	lbpHist = feature.LBPHistogram(feature.LBPCodes(gray, size, size, 24, 3), 24)

	if s.opts.FeatureCache != nil {
		s.opts.FeatureCache.Put(key, &cache.Entry{HOG: hog, LBPHistogram: lbpHist})
	}
	return hog, lbpHist
}

func (s *semanticAnalyzer) keypointScores(target, candidate *imageData) (kpSim, binarySim float64) {
	tSet := feature.ExtractKeypoints(target.gray, target.width, target.height, s.opts.MaxKeypointsPerLevel)
	cSet := feature.ExtractKeypoints(candidate.gray, candidate.width, candidate.height, s.opts.MaxKeypointsPerLevel)

	maxKP := tSet.Len()
	if cSet.Len() > maxKP {
		maxKP = cSet.Len()
	}
	if tSet.Len() < minKeypoints || cSet.Len() < minKeypoints {
		return keypointStarvation, keypointStarvation
	}

	good := feature.MatchRatio(tSet, cSet, s.opts.MatchRatio)
	kpSim = math.Min(1, 2*float64(good)/float64(maxKP))

	crossChecked := feature.MatchBinary(tSet, cSet, s.opts.BinaryMatchMaxDist)
	binarySim = math.Min(1, 1.5*float64(crossChecked)/float64(maxKP))
	return kpSim, binarySim
}
