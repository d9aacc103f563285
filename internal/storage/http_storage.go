package storage

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"go-image-similarity/internal/raster"
	"go-image-similarity/pkg/validation"
)

// ImageFetcher resolves an image reference to a decoded raster image.
// The ref format depends on the backend: URL, blob locator or file path.
type ImageFetcher interface {
	FetchImage(ctx context.Context, ref string) (*raster.Image, error)
}

// HTTPImageFetcher downloads images over HTTP with bounded retries.
type HTTPImageFetcher struct {
	client    *http.Client
	validator *validation.URLValidator
}

// NewHTTPImageFetcher creates an HTTP image fetcher tuned for single
// image downloads.
func NewHTTPImageFetcher() ImageFetcher {
	transport := &http.Transport{
		// Connection pooling sized for one-off image fetches
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		DisableCompression:     false,
		MaxResponseHeaderBytes: 4096,

		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: true,
		},
	}

	return &HTTPImageFetcher{
		validator: validation.NewURLValidator(),
		client: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
	}
}

func (h *HTTPImageFetcher) FetchImage(ctx context.Context, ref string) (*raster.Image, error) {
	if err := h.validator.ValidateImageURL(ref); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "GET", ref, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	req.Header.Set("Accept", "image/jpeg, image/png, image/webp, image/gif, */*")
	req.Header.Set("User-Agent", "Go-Image-Similarity/1.0")
	req.Header.Set("Accept-Encoding", "gzip, deflate")

	// 3 attempts; only transient failures are retried.
	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt < 3; attempt++ {
		resp, err = h.client.Do(req)
		if err != nil {
			lastErr = err
		}

		if err == nil && resp != nil && resp.StatusCode == http.StatusOK {
			break
		}

		if err == nil && resp != nil {
			func() {
				defer resp.Body.Close()
				if resp.StatusCode >= 400 && resp.StatusCode < 500 {
					lastErr = fmt.Errorf("client error: status code %d", resp.StatusCode)
					return
				}
				if resp.StatusCode >= 500 {
					lastErr = fmt.Errorf("server error: status code %d", resp.StatusCode)
				}
			}()

			// 4xx is non-retryable.
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				resp = nil
				break
			}
		}

		if attempt < 2 && (err != nil || (resp != nil && resp.StatusCode >= 500)) {
			time.Sleep(time.Duration(attempt+1) * time.Second)
		}

		if resp != nil && (err != nil || resp.StatusCode != http.StatusOK) {
			resp = nil
		}
	}

	if resp == nil || (err == nil && resp.StatusCode != http.StatusOK) {
		if lastErr != nil {
			return nil, fmt.Errorf("failed to fetch image after 3 attempts: %w", lastErr)
		}
		return nil, fmt.Errorf("failed to fetch image after 3 attempts: unknown error")
	}

	defer resp.Body.Close()
	return raster.Decode(resp.Body)
}
