package feature

import "math"

// Sobel computes horizontal and vertical Sobel gradients of a grayscale
// plane. Border pixels are left at zero.
func Sobel(gray []float64, width, height int) (gx, gy []float64) {
	gx = make([]float64, len(gray))
	gy = make([]float64, len(gray))

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			tl := gray[i-width-1]
			tc := gray[i-width]
			tr := gray[i-width+1]
			ml := gray[i-1]
			mr := gray[i+1]
			bl := gray[i+width-1]
			bc := gray[i+width]
			br := gray[i+width+1]

			gx[i] = -tl + tr - 2*ml + 2*mr - bl + br
			gy[i] = -tl - 2*tc - tr + bl + 2*bc + br
		}
	}
	return gx, gy
}

// EdgeDensity returns the fraction of pixels whose Sobel gradient magnitude
// exceeds the given threshold.
func EdgeDensity(gray []float64, width, height int, threshold float64) float64 {
	gx, gy := Sobel(gray, width, height)
	count := 0
	for i := range gx {
		if math.Hypot(gx[i], gy[i]) > threshold {
			count++
		}
	}
	return float64(count) / float64(len(gray))
}

// Cosine returns the cosine similarity of two equal-length vectors,
// clipped to [0, 1]. Zero vectors compare as 0.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}
