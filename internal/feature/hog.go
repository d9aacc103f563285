package feature

import "math"

const (
	hogBins      = 9
	hogCellSize  = 8
	hogBlockSize = 2
)

// HOG computes a dense histogram-of-oriented-gradients descriptor over a
// grayscale plane: 9 unsigned orientation bins per 8x8 cell, 2x2 blocks
// with stride 1, L2 normalization per block. For the canonical 128x128
// input the descriptor has 15*15*36 = 8100 dimensions.
func HOG(gray []float64, width, height int) []float64 {
	gx, gy := Sobel(gray, width, height)

	cellsX := width / hogCellSize
	cellsY := height / hogCellSize
	if cellsX < hogBlockSize || cellsY < hogBlockSize {
		return nil
	}

	// Per-cell orientation histograms.
	cells := make([][]float64, cellsX*cellsY)
	for i := range cells {
		cells[i] = make([]float64, hogBins)
	}
	binWidth := 180.0 / float64(hogBins)
	for y := 0; y < cellsY*hogCellSize; y++ {
		for x := 0; x < cellsX*hogCellSize; x++ {
			i := y*width + x
			mag := math.Hypot(gx[i], gy[i])
			if mag == 0 {
				continue
			}
			angle := math.Atan2(gy[i], gx[i]) * 180 / math.Pi
			if angle < 0 {
				angle += 180
			}
			if angle >= 180 {
				angle -= 180
			}
			bin := int(angle / binWidth)
			if bin >= hogBins {
				bin = hogBins - 1
			}
			cell := (y/hogCellSize)*cellsX + x/hogCellSize
			cells[cell][bin] += mag
		}
	}

	// Block normalization with overlapping 2x2 blocks.
	blocksX := cellsX - hogBlockSize + 1
	blocksY := cellsY - hogBlockSize + 1
	descriptor := make([]float64, 0, blocksX*blocksY*hogBlockSize*hogBlockSize*hogBins)
	block := make([]float64, hogBlockSize*hogBlockSize*hogBins)

	for by := 0; by < blocksY; by++ {
		for bx := 0; bx < blocksX; bx++ {
			k := 0
			for dy := 0; dy < hogBlockSize; dy++ {
				for dx := 0; dx < hogBlockSize; dx++ {
					copy(block[k:k+hogBins], cells[(by+dy)*cellsX+bx+dx])
					k += hogBins
				}
			}
			var norm float64
			for _, v := range block {
				norm += v * v
			}
			norm = math.Sqrt(norm) + 1e-10
			for _, v := range block {
				descriptor = append(descriptor, v/norm)
			}
		}
	}
	return descriptor
}
