package raster

import "math"

// Gray returns the luminance plane (ITU-R BT.601 weights) in [0, 255].
func (im *Image) Gray() []float64 {
	out := make([]float64, im.Width*im.Height)
	idx := 0
	for i := range out {
		r := float64(im.Pix[idx])
		g := float64(im.Pix[idx+1])
		b := float64(im.Pix[idx+2])
		out[i] = 0.299*r + 0.587*g + 0.114*b
		idx += Channels
	}
	return out
}

// Lab returns the three CIE Lab (D65) planes. L is in [0, 100]; a and b
// are roughly in [-128, 127].
func (im *Image) Lab() (l, a, b []float64) {
	n := im.Width * im.Height
	l = make([]float64, n)
	a = make([]float64, n)
	b = make([]float64, n)

	idx := 0
	for i := 0; i < n; i++ {
		lv, av, bv := rgbToLab(im.Pix[idx], im.Pix[idx+1], im.Pix[idx+2])
		l[i], a[i], b[i] = lv, av, bv
		idx += Channels
	}
	return l, a, b
}

// MeanBrightness returns the average luminance in [0, 255].
func (im *Image) MeanBrightness() float64 {
	gray := im.Gray()
	var total float64
	for _, g := range gray {
		total += g
	}
	return total / float64(len(gray))
}

// D65 reference white.
const (
	refX = 95.047
	refY = 100.0
	refZ = 108.883
)

func rgbToLab(r8, g8, b8 uint8) (l, a, b float64) {
	// sRGB companding removal
	rf := srgbToLinear(float64(r8) / 255.0)
	gf := srgbToLinear(float64(g8) / 255.0)
	bf := srgbToLinear(float64(b8) / 255.0)

	// linear RGB -> XYZ (sRGB matrix, D65)
	x := (rf*0.4124564 + gf*0.3575761 + bf*0.1804375) * 100.0
	y := (rf*0.2126729 + gf*0.7151522 + bf*0.0721750) * 100.0
	z := (rf*0.0193339 + gf*0.1191920 + bf*0.9503041) * 100.0

	fx := labF(x / refX)
	fy := labF(y / refY)
	fz := labF(z / refZ)

	l = 116.0*fy - 16.0
	a = 500.0 * (fx - fy)
	b = 200.0 * (fy - fz)
	return l, a, b
}

func srgbToLinear(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

func labF(t float64) float64 {
	if t > 0.008856 {
		return math.Cbrt(t)
	}
	return 7.787*t + 16.0/116.0
}
