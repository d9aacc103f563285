package feature

import (
	"math"
	"math/bits"
	"math/rand"
	"sort"
)

const (
	pyramidLevels   = 3
	harrisK         = 0.04
	patchSize       = 16
	descriptorCells = 4
	descriptorBins  = 8
	binaryBits      = 256
	binarySeed      = 42
)

// Keypoint is a corner detected at some pyramid level, with coordinates
// in that level's plane.
type Keypoint struct {
	X, Y     int
	Level    int
	Response float64
}

// KeypointSet bundles detected keypoints with their float and binary
// descriptors, index-aligned.
type KeypointSet struct {
	Points      []Keypoint
	Descriptors [][]float64
	Binary      [][4]uint64
}

// Len returns the number of keypoints in the set.
func (ks *KeypointSet) Len() int { return len(ks.Points) }

// binaryPairs holds the fixed point-pair sampling pattern for the binary
// descriptor. Generated once from a constant seed so descriptors, and
// therefore reports, are byte-deterministic across runs.
var binaryPairs = buildBinaryPairs()

func buildBinaryPairs() [][4]int {
	rng := rand.New(rand.NewSource(binarySeed))
	pairs := make([][4]int, binaryBits)
	for i := range pairs {
		pairs[i] = [4]int{
			rng.Intn(patchSize), rng.Intn(patchSize),
			rng.Intn(patchSize), rng.Intn(patchSize),
		}
	}
	return pairs
}

// ExtractKeypoints detects Harris corners over a 3-level pyramid and
// computes a 128-d gradient-histogram descriptor plus a 256-bit binary
// descriptor for each.
func ExtractKeypoints(gray []float64, width, height, maxPerLevel int) *KeypointSet {
	set := &KeypointSet{}

	plane, w, h := gray, width, height
	for level := 0; level < pyramidLevels; level++ {
		if w < patchSize*2 || h < patchSize*2 {
			break
		}
		corners := harrisCorners(plane, w, h, maxPerLevel)
		for _, c := range corners {
			c.Level = level
			desc := describePatch(plane, w, h, c.X, c.Y)
			if desc == nil {
				continue
			}
			set.Points = append(set.Points, c)
			set.Descriptors = append(set.Descriptors, desc)
			set.Binary = append(set.Binary, binaryDescriptor(plane, w, c.X, c.Y))
		}
		plane, w, h = downsample(plane, w, h)
	}
	return set
}

// harrisCorners returns up to maxCorners non-max-suppressed Harris
// responses above 1% of the strongest response.
func harrisCorners(gray []float64, width, height, maxCorners int) []Keypoint {
	gx, gy := Sobel(gray, width, height)

	// Structure tensor components smoothed over a 3x3 window.
	response := make([]float64, len(gray))
	maxResponse := 0.0
	for y := 2; y < height-2; y++ {
		for x := 2; x < width-2; x++ {
			var sxx, syy, sxy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					i := (y+ky)*width + x + kx
					sxx += gx[i] * gx[i]
					syy += gy[i] * gy[i]
					sxy += gx[i] * gy[i]
				}
			}
			det := sxx*syy - sxy*sxy
			trace := sxx + syy
			r := det - harrisK*trace*trace
			response[y*width+x] = r
			if r > maxResponse {
				maxResponse = r
			}
		}
	}
	if maxResponse <= 0 {
		return nil
	}

	threshold := 0.01 * maxResponse
	var corners []Keypoint
	for y := 2; y < height-2; y++ {
		for x := 2; x < width-2; x++ {
			r := response[y*width+x]
			if r < threshold {
				continue
			}
			// 3x3 non-maximum suppression.
			isMax := true
			for ky := -1; ky <= 1 && isMax; ky++ {
				for kx := -1; kx <= 1; kx++ {
					if response[(y+ky)*width+x+kx] > r {
						isMax = false
						break
					}
				}
			}
			if isMax {
				corners = append(corners, Keypoint{X: x, Y: y, Response: r})
			}
		}
	}

	sort.Slice(corners, func(i, j int) bool { return corners[i].Response > corners[j].Response })
	if len(corners) > maxCorners {
		corners = corners[:maxCorners]
	}
	return corners
}

// describePatch builds a 4x4-cell, 8-orientation-bin gradient histogram
// over the 16x16 patch centered on (cx, cy), L2 normalized to 128 dims.
// Returns nil when the patch does not fit in the plane.
func describePatch(gray []float64, width, height, cx, cy int) []float64 {
	half := patchSize / 2
	if cx < half || cy < half || cx+half >= width || cy+half >= height {
		return nil
	}

	desc := make([]float64, descriptorCells*descriptorCells*descriptorBins)
	cellSize := patchSize / descriptorCells
	for dy := 0; dy < patchSize; dy++ {
		for dx := 0; dx < patchSize; dx++ {
			x := cx - half + dx
			y := cy - half + dy
			i := y*width + x
			ix := gray[i+1] - gray[i-1]
			iy := gray[i+width] - gray[i-width]
			mag := math.Hypot(ix, iy)
			if mag == 0 {
				continue
			}
			angle := math.Atan2(iy, ix)
			bin := int((angle + math.Pi) / (2 * math.Pi) * descriptorBins)
			if bin >= descriptorBins {
				bin = descriptorBins - 1
			}
			cell := (dy/cellSize)*descriptorCells + dx/cellSize
			desc[cell*descriptorBins+bin] += mag
		}
	}

	var norm float64
	for _, v := range desc {
		norm += v * v
	}
	if norm == 0 {
		return nil
	}
	norm = math.Sqrt(norm)
	for i := range desc {
		desc[i] /= norm
	}
	return desc
}

// binaryDescriptor compares fixed pixel pairs inside the patch into a
// 256-bit string.
func binaryDescriptor(gray []float64, width, cx, cy int) [4]uint64 {
	half := patchSize / 2
	var out [4]uint64
	for i, p := range binaryPairs {
		a := gray[(cy-half+p[1])*width+cx-half+p[0]]
		b := gray[(cy-half+p[3])*width+cx-half+p[2]]
		if a < b {
			out[i/64] |= 1 << uint(i%64)
		}
	}
	return out
}

func hamming(a, b [4]uint64) int {
	return bits.OnesCount64(a[0]^b[0]) + bits.OnesCount64(a[1]^b[1]) +
		bits.OnesCount64(a[2]^b[2]) + bits.OnesCount64(a[3]^b[3])
}

// MatchRatio counts descriptor matches passing Lowe's ratio test: a
// match is good when the best distance is below ratio times the
// second-best distance.
func MatchRatio(a, b *KeypointSet, ratio float64) int {
	if a.Len() == 0 || b.Len() < 2 {
		return 0
	}
	good := 0
	for _, da := range a.Descriptors {
		best, second := math.Inf(1), math.Inf(1)
		for _, db := range b.Descriptors {
			d := l2(da, db)
			if d < best {
				second = best
				best = d
			} else if d < second {
				second = d
			}
		}
		if second > 0 && best < ratio*second {
			good++
		}
	}
	return good
}

// MatchBinary counts cross-checked binary matches with Hamming distance
// below maxDist: the pair must be mutual nearest neighbors.
func MatchBinary(a, b *KeypointSet, maxDist int) int {
	if a.Len() == 0 || b.Len() == 0 {
		return 0
	}

	bestAB := make([]int, a.Len())
	for i, da := range a.Binary {
		bestIdx, bestDist := -1, maxDist+1
		for j, db := range b.Binary {
			if d := hamming(da, db); d < bestDist {
				bestIdx, bestDist = j, d
			}
		}
		bestAB[i] = bestIdx
	}

	good := 0
	for j, db := range b.Binary {
		bestIdx, bestDist := -1, maxDist+1
		for i, da := range a.Binary {
			if d := hamming(db, da); d < bestDist {
				bestIdx, bestDist = i, d
			}
		}
		if bestIdx >= 0 && bestAB[bestIdx] == j {
			good++
		}
	}
	return good
}

func l2(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// downsample halves a plane by 2x2 box averaging.
func downsample(gray []float64, width, height int) ([]float64, int, int) {
	w, h := width/2, height/2
	out := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (2*y)*width + 2*x
			out[y*w+x] = (gray[i] + gray[i+1] + gray[i+width] + gray[i+width+1]) / 4
		}
	}
	return out, w, h
}
