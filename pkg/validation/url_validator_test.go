package validation

import (
	"testing"

	apperrors "go-image-similarity/internal/errors"
)

func TestValidateImageURL(t *testing.T) {
	validator := NewURLValidator()

	tests := []struct {
		name    string
		url     string
		wantErr string
	}{
		{"https png", "https://example.com/image.png", ""},
		{"http jpg", "http://example.com/photos/image.jpg", ""},
		{"gif on subdomain", "https://cdn.example.com/a/b/image.gif", ""},
		{"webp", "https://example.com/image.webp", ""},
		{"ip host with port", "http://192.168.1.1:8080/image.jpg", ""},
		{"extensionless path", "https://example.com/render?id=42", ""},
		{"empty", "", "URL cannot be empty"},
		{"whitespace only", " \t\n", "URL cannot be empty"},
		{"no scheme", "example.com/image.png", "URL scheme not allowed"},
		{"ftp scheme", "ftp://example.com/image.png", "URL scheme not allowed"},
		{"file scheme", "file:///tmp/image.png", "URL scheme not allowed"},
		{"data url", "data:image/png;base64,AAAA", "URL scheme not allowed"},
		{"missing host", "http:///image.png", "URL must have a valid host"},
		{"non-image extension", "https://example.com/report.pdf", "URL does not name a supported image format"},
		{"executable extension", "https://example.com/setup.exe", "URL does not name a supported image format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateImageURL(tt.url)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateImageURL(%q) = %v, want nil", tt.url, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("ValidateImageURL(%q) = nil, want error", tt.url)
			}
			appErr, ok := err.(*apperrors.AppError)
			if !ok {
				t.Fatalf("expected AppError, got %T", err)
			}
			if appErr.Message != tt.wantErr {
				t.Errorf("message = %q, want %q", appErr.Message, tt.wantErr)
			}
			if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
				t.Errorf("expected validation error type, got %v", appErr.Type)
			}
		})
	}
}

func TestValidateImageURLHostAllowList(t *testing.T) {
	validator := NewURLValidatorWithOptions([]string{"https"}, []string{"images.example.com"})

	allowed := []string{
		"https://images.example.com/target.png",
		"https://IMAGES.EXAMPLE.COM/target.png",
		"https://images.example.com:8443/target.png",
	}
	for _, u := range allowed {
		if err := validator.ValidateImageURL(u); err != nil {
			t.Errorf("ValidateImageURL(%q) = %v, want nil", u, err)
		}
	}

	denied := map[string]string{
		"https://other.example.com/target.png": "URL host not allowed",
		"http://images.example.com/target.png": "URL scheme not allowed",
	}
	for u, want := range denied {
		err := validator.ValidateImageURL(u)
		if err == nil {
			t.Errorf("ValidateImageURL(%q) = nil, want error", u)
			continue
		}
		if appErr, ok := err.(*apperrors.AppError); !ok || appErr.Message != want {
			t.Errorf("ValidateImageURL(%q) = %v, want message %q", u, err, want)
		}
	}
}

func TestIsImagePath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/a/b/image.png", true},
		{"/image.JPEG", true},
		{"/render", true},
		{"/", true},
		{"/notes.txt", false},
		{"/archive.tar.gz", false},
	}
	for _, tt := range tests {
		if got := isImagePath(tt.path); got != tt.want {
			t.Errorf("isImagePath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
