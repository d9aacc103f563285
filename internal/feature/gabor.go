package feature

import "math"

const (
	gaborKernelSize = 21
	gaborSigma      = 5.0
	gaborGamma      = 0.5
)

var (
	gaborOrientations = []float64{0, 45, 90, 135}
	gaborFrequencies  = []float64{0.1, 0.3, 0.5}
)

// gaborKernel builds the real part of a Gabor filter for one
// orientation (degrees) and spatial frequency (cycles per pixel).
func gaborKernel(thetaDeg, freq float64) []float64 {
	kernel := make([]float64, gaborKernelSize*gaborKernelSize)
	theta := thetaDeg * math.Pi / 180
	sinT, cosT := math.Sin(theta), math.Cos(theta)
	half := gaborKernelSize / 2

	i := 0
	for y := -half; y <= half; y++ {
		for x := -half; x <= half; x++ {
			xr := float64(x)*cosT + float64(y)*sinT
			yr := -float64(x)*sinT + float64(y)*cosT
			envelope := math.Exp(-(xr*xr + gaborGamma*gaborGamma*yr*yr) / (2 * gaborSigma * gaborSigma))
			kernel[i] = envelope * math.Cos(2*math.Pi*freq*xr)
			i++
		}
	}
	return kernel
}

var gaborBank = buildGaborBank()

func buildGaborBank() [][]float64 {
	bank := make([][]float64, 0, len(gaborOrientations)*len(gaborFrequencies))
	for _, theta := range gaborOrientations {
		for _, freq := range gaborFrequencies {
			bank = append(bank, gaborKernel(theta, freq))
		}
	}
	return bank
}

// GaborEnergies convolves the plane with a 4-orientation, 3-frequency
// Gabor bank and returns the mean absolute response per filter. The
// resulting 12-dimensional energy vector characterizes texture.
func GaborEnergies(gray []float64, width, height int) []float64 {
	energies := make([]float64, len(gaborBank))
	half := gaborKernelSize / 2

	for f, kernel := range gaborBank {
		var total float64
		count := 0
		for y := half; y < height-half; y++ {
			for x := half; x < width-half; x++ {
				var acc float64
				k := 0
				for ky := -half; ky <= half; ky++ {
					row := (y + ky) * width
					for kx := -half; kx <= half; kx++ {
						acc += gray[row+x+kx] * kernel[k]
						k++
					}
				}
				total += math.Abs(acc)
				count++
			}
		}
		if count > 0 {
			energies[f] = total / float64(count)
		}
	}
	return energies
}

// VarianceMap computes the local variance of each pixel over a win x win
// neighborhood. Border pixels use the truncated window.
func VarianceMap(gray []float64, width, height, win int) []float64 {
	out := make([]float64, len(gray))
	half := win / 2

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum, sumSq float64
			count := 0
			for ky := -half; ky <= half; ky++ {
				yy := y + ky
				if yy < 0 || yy >= height {
					continue
				}
				for kx := -half; kx <= half; kx++ {
					xx := x + kx
					if xx < 0 || xx >= width {
						continue
					}
					v := gray[yy*width+xx]
					sum += v
					sumSq += v * v
					count++
				}
			}
			mean := sum / float64(count)
			out[y*width+x] = sumSq/float64(count) - mean*mean
		}
	}
	return out
}
