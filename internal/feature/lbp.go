package feature

import "math"

// LBPCodes computes rotation-invariant uniform local binary pattern codes
// for a grayscale plane using p circularly interpolated neighbors at
// radius r. Uniform patterns map to their popcount (0..p); non-uniform
// patterns map to p+1. Pixels closer than r to the border stay zero.
func LBPCodes(gray []float64, width, height, p int, r float64) []float64 {
	codes := make([]float64, len(gray))
	margin := int(math.Ceil(r))

	// Precomputed sampling offsets around the circle.
	dx := make([]float64, p)
	dy := make([]float64, p)
	for k := 0; k < p; k++ {
		angle := 2 * math.Pi * float64(k) / float64(p)
		dx[k] = r * math.Cos(angle)
		dy[k] = -r * math.Sin(angle)
	}

	bits := make([]int, p)
	for y := margin; y < height-margin; y++ {
		for x := margin; x < width-margin; x++ {
			center := gray[y*width+x]
			ones := 0
			for k := 0; k < p; k++ {
				v := bilinear(gray, width, height, float64(x)+dx[k], float64(y)+dy[k])
				if v >= center {
					bits[k] = 1
					ones++
				} else {
					bits[k] = 0
				}
			}

			// Count 0/1 transitions around the circle.
			transitions := 0
			for k := 0; k < p; k++ {
				if bits[k] != bits[(k+1)%p] {
					transitions++
				}
			}

			code := float64(p + 1)
			if transitions <= 2 {
				code = float64(ones)
			}
			codes[y*width+x] = code
		}
	}
	return codes
}

// LBPHistogram bins LBP codes into a normalized p+2 bucket histogram.
func LBPHistogram(codes []float64, p int) []float64 {
	hist := make([]float64, p+2)
	for _, c := range codes {
		bin := int(c)
		if bin < 0 {
			bin = 0
		}
		if bin > p+1 {
			bin = p + 1
		}
		hist[bin]++
	}
	total := float64(len(codes))
	if total > 0 {
		for i := range hist {
			hist[i] /= total
		}
	}
	return hist
}

// Dispersion returns the population standard deviation of a code plane.
// Used as the texture-complexity content signal.
func Dispersion(codes []float64) float64 {
	if len(codes) == 0 {
		return 0
	}
	var mean float64
	for _, c := range codes {
		mean += c
	}
	mean /= float64(len(codes))

	var variance float64
	for _, c := range codes {
		d := c - mean
		variance += d * d
	}
	variance /= float64(len(codes))
	return math.Sqrt(variance)
}

// bilinear samples the plane at a fractional coordinate. The circle
// offsets can be exact integers (e.g. dy=+1 at the bottom of the
// circle), which puts the sample on the last row or column, so the
// interpolation cell is clamped to the plane.
func bilinear(gray []float64, width, height int, x, y float64) float64 {
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	x0 := int(x)
	y0 := int(y)
	x1 := x0 + 1
	y1 := y0 + 1
	if x1 >= width {
		x1 = width - 1
	}
	if y1 >= height {
		y1 = height - 1
	}
	fx := x - float64(x0)
	fy := y - float64(y0)

	top := gray[y0*width+x0]*(1-fx) + gray[y0*width+x1]*fx
	bottom := gray[y1*width+x0]*(1-fx) + gray[y1*width+x1]*fx
	return top*(1-fy) + bottom*fy
}
