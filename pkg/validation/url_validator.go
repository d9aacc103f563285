package validation

import (
	"net/url"
	"path"
	"strings"

	apperrors "go-image-similarity/internal/errors"
)

// imageExtensions lists the file types the raster decoder accepts.
var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}

// URLValidator screens remote image refs before any fetch is attempted:
// scheme and host policy, plus an extension check against the formats
// the decoder can handle.
type URLValidator struct {
	allowedSchemes []string
	allowedHosts   []string
}

// NewURLValidator allows http and https fetches from any host.
func NewURLValidator() *URLValidator {
	return &URLValidator{
		allowedSchemes: []string{"http", "https"},
	}
}

// NewURLValidatorWithOptions restricts fetches to the given schemes and
// hosts. An empty host list allows any host.
func NewURLValidatorWithOptions(schemes []string, hosts []string) *URLValidator {
	return &URLValidator{
		allowedSchemes: schemes,
		allowedHosts:   hosts,
	}
}

// ValidateImageURL reports whether the ref may be fetched as an image.
func (v *URLValidator) ValidateImageURL(imageURL string) error {
	if strings.TrimSpace(imageURL) == "" {
		return apperrors.NewValidationError("URL cannot be empty", nil)
	}

	parsed, err := url.Parse(imageURL)
	if err != nil {
		return apperrors.NewValidationError("Invalid URL format", err)
	}

	if !v.isSchemeAllowed(parsed.Scheme) {
		return apperrors.NewValidationError("URL scheme not allowed", nil)
	}

	if parsed.Host == "" {
		return apperrors.NewValidationError("URL must have a valid host", nil)
	}

	if !v.isHostAllowed(parsed.Hostname()) {
		return apperrors.NewValidationError("URL host not allowed", nil)
	}

	if !isImagePath(parsed.Path) {
		return apperrors.NewValidationError("URL does not name a supported image format", nil)
	}

	return nil
}

func (v *URLValidator) isSchemeAllowed(scheme string) bool {
	for _, allowed := range v.allowedSchemes {
		if strings.EqualFold(scheme, allowed) {
			return true
		}
	}
	return false
}

// isHostAllowed matches the bare hostname, so refs carrying a port
// still satisfy the allow-list. An empty list allows every host.
func (v *URLValidator) isHostAllowed(hostname string) bool {
	if len(v.allowedHosts) == 0 {
		return true
	}
	for _, allowed := range v.allowedHosts {
		if strings.EqualFold(hostname, allowed) {
			return true
		}
	}
	return false
}

// isImagePath accepts paths ending in a decodable image extension.
// Extensionless paths pass too; their format is settled at decode time.
func isImagePath(p string) bool {
	ext := strings.ToLower(path.Ext(p))
	if ext == "" {
		return true
	}
	for _, allowed := range imageExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
