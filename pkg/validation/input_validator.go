package validation

import (
	"fmt"

	apperrors "go-image-similarity/internal/errors"
	"go-image-similarity/internal/raster"
)

// InputThresholds defines configurable limits for comparison inputs
type InputThresholds struct {
	MinWidth  int
	MinHeight int
	MaxPixels int

	// MaxAspectMismatch is the largest allowed ratio between the two
	// images' aspect ratios before resizing would distort content badly.
	MaxAspectMismatch float64
}

// DefaultInputThresholds returns the default input limits
func DefaultInputThresholds() InputThresholds {
	return InputThresholds{
		MinWidth:          8,
		MinHeight:         8,
		MaxPixels:         4096 * 4096,
		MaxAspectMismatch: 3.0,
	}
}

// InputValidator checks image pairs before they reach the scoring engine
type InputValidator struct {
	thresholds InputThresholds
}

// NewInputValidator creates an input validator with default thresholds
func NewInputValidator() *InputValidator {
	return &InputValidator{thresholds: DefaultInputThresholds()}
}

// NewInputValidatorWithThresholds creates an input validator with custom thresholds
func NewInputValidatorWithThresholds(thresholds InputThresholds) *InputValidator {
	return &InputValidator{thresholds: thresholds}
}

// ValidateImage checks a single decoded image against the input limits.
func (iv *InputValidator) ValidateImage(img *raster.Image) error {
	if err := img.Validate(); err != nil {
		return err
	}
	if img.Width < iv.thresholds.MinWidth || img.Height < iv.thresholds.MinHeight {
		return apperrors.NewInvalidInputError(
			fmt.Sprintf("image %dx%d is below the %dx%d minimum",
				img.Width, img.Height, iv.thresholds.MinWidth, iv.thresholds.MinHeight), nil)
	}
	if img.Width*img.Height > iv.thresholds.MaxPixels {
		return apperrors.NewInvalidInputError(
			fmt.Sprintf("image %dx%d exceeds the %d pixel limit",
				img.Width, img.Height, iv.thresholds.MaxPixels), nil)
	}
	return nil
}

// ValidatePair checks both comparison inputs and their shape compatibility.
func (iv *InputValidator) ValidatePair(target, candidate *raster.Image) error {
	if err := iv.ValidateImage(target); err != nil {
		return err
	}
	if err := iv.ValidateImage(candidate); err != nil {
		return err
	}

	targetAspect := float64(target.Width) / float64(target.Height)
	candidateAspect := float64(candidate.Width) / float64(candidate.Height)
	mismatch := targetAspect / candidateAspect
	if mismatch < 1 {
		mismatch = 1 / mismatch
	}
	if mismatch > iv.thresholds.MaxAspectMismatch {
		return apperrors.NewInvalidInputError(
			fmt.Sprintf("aspect ratios differ by %.1fx, beyond the %.1fx limit",
				mismatch, iv.thresholds.MaxAspectMismatch), nil)
	}
	return nil
}
