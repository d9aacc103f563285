package raster

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/webp"

	apperrors "go-image-similarity/internal/errors"
)

// Channels is the fixed channel count of a raster image (RGB).
const Channels = 3

// Image is an immutable 3-channel 8-bit image with interleaved RGB pixels.
// All scoring code operates on this representation; construction goes
// through FromImage or Decode so every image entering the engine has
// already been flattened to the same layout.
type Image struct {
	Width  int
	Height int
	Pix    []uint8 // len = Width*Height*Channels, row-major RGB
}

// New allocates a zeroed image of the given dimensions.
func New(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*Channels),
	}
}

// FromImage flattens any decoded image.Image into the engine's RGB layout.
func FromImage(src image.Image) *Image {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	out := New(width, height)

	idx := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := src.At(x, y).RGBA()
			out.Pix[idx] = uint8(r >> 8)
			out.Pix[idx+1] = uint8(g >> 8)
			out.Pix[idx+2] = uint8(b >> 8)
			idx += Channels
		}
	}
	return out
}

// Decode reads an encoded image (PNG, JPEG, GIF or WebP) and flattens it.
func Decode(r io.Reader) (*Image, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("failed to decode image data", err)
	}
	return FromImage(src), nil
}

// At returns the RGB triple at (x, y). Callers must stay in bounds.
func (im *Image) At(x, y int) (r, g, b uint8) {
	idx := (y*im.Width + x) * Channels
	return im.Pix[idx], im.Pix[idx+1], im.Pix[idx+2]
}

// Clone returns a deep copy.
func (im *Image) Clone() *Image {
	out := &Image{Width: im.Width, Height: im.Height, Pix: make([]uint8, len(im.Pix))}
	copy(out.Pix, im.Pix)
	return out
}

// Validate enforces the fail-fast input contract: an image must be non-nil,
// have positive dimensions and carry a pixel buffer matching its shape.
func (im *Image) Validate() error {
	if im == nil {
		return apperrors.NewInvalidInputError("image is nil", nil)
	}
	if im.Width <= 0 || im.Height <= 0 {
		return apperrors.NewInvalidInputError(
			fmt.Sprintf("image has zero area (%dx%d)", im.Width, im.Height), nil)
	}
	if len(im.Pix) != im.Width*im.Height*Channels {
		return apperrors.NewInvalidInputError(
			fmt.Sprintf("pixel buffer length %d does not match %dx%dx%d shape",
				len(im.Pix), im.Width, im.Height, Channels), nil)
	}
	return nil
}

// Normalize validates both inputs and resizes candidate to the target's
// dimensions with bicubic interpolation. The target is never modified; the
// returned candidate shares storage with the input when no resize is needed.
func Normalize(target, candidate *Image) (*Image, *Image, error) {
	if err := target.Validate(); err != nil {
		return nil, nil, err
	}
	if err := candidate.Validate(); err != nil {
		return nil, nil, err
	}
	if target.Width == candidate.Width && target.Height == candidate.Height {
		return target, candidate, nil
	}
	return target, candidate.Resize(target.Width, target.Height), nil
}

// Resize returns a bicubically resampled copy at the given dimensions.
func (im *Image) Resize(width, height int) *Image {
	resized := resize.Resize(uint(width), uint(height), im.toNRGBA(), resize.Bicubic)
	return FromImage(resized)
}

// Rescale returns a copy scaled by the given factor (minimum 1x1).
func (im *Image) Rescale(scale float64) *Image {
	w := int(float64(im.Width) * scale)
	h := int(float64(im.Height) * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return im.Resize(w, h)
}

// toNRGBA converts to the stdlib image type the resampler consumes.
func (im *Image) toNRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, im.Width, im.Height))
	src := 0
	for y := 0; y < im.Height; y++ {
		dst := y * out.Stride
		for x := 0; x < im.Width; x++ {
			out.Pix[dst] = im.Pix[src]
			out.Pix[dst+1] = im.Pix[src+1]
			out.Pix[dst+2] = im.Pix[src+2]
			out.Pix[dst+3] = 0xff
			src += Channels
			dst += 4
		}
	}
	return out
}

// ToImage converts back to a stdlib image, for hashing and encoding.
func (im *Image) ToImage() image.Image {
	return im.toNRGBA()
}
