package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// encodePNG renders a small solid-color PNG for serving in tests.
func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{R: 40, G: 90, B: 180, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestHTTPImageFetcher_RetryLogic(t *testing.T) {
	tests := []struct {
		name          string
		responses     []int
		expectRetries int
		expectError   bool
		errorContains string
	}{
		{
			name:          "Success on first attempt",
			responses:     []int{200},
			expectRetries: 1,
		},
		{
			name:          "Success on second attempt after 5xx",
			responses:     []int{500, 200},
			expectRetries: 2,
		},
		{
			name:          "4xx client error - no retry",
			responses:     []int{404},
			expectRetries: 1,
			expectError:   true,
			errorContains: "client error: status code 404",
		},
		{
			name:          "4xx after 5xx - retry until 4xx then stop",
			responses:     []int{500, 404},
			expectRetries: 2,
			expectError:   true,
			errorContains: "client error: status code 404",
		},
		{
			name:          "All 5xx errors - retry all attempts",
			responses:     []int{500, 502, 503},
			expectRetries: 3,
			expectError:   true,
			errorContains: "server error: status code 503",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pngData := encodePNG(t, 2, 2)
			requestCount := 0

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if requestCount >= len(tt.responses) {
					w.WriteHeader(500)
					return
				}
				statusCode := tt.responses[requestCount]
				requestCount++

				if statusCode == 200 {
					w.Header().Set("Content-Type", "image/png")
					w.Write(pngData)
					return
				}
				w.WriteHeader(statusCode)
				fmt.Fprintf(w, "Error %d", statusCode)
			}))
			defer server.Close()

			fetcher := NewHTTPImageFetcher()
			img, err := fetcher.FetchImage(context.Background(), server.URL)

			if requestCount != tt.expectRetries {
				t.Errorf("expected %d requests, got %d", tt.expectRetries, requestCount)
			}
			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got none")
				}
				if tt.errorContains != "" && !strings.Contains(err.Error(), tt.errorContains) {
					t.Errorf("expected error containing %q, got: %s", tt.errorContains, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected success, got: %v", err)
			}
			if img.Width != 2 || img.Height != 2 {
				t.Errorf("decoded %dx%d, want 2x2", img.Width, img.Height)
			}
		})
	}
}

func TestHTTPImageFetcher_NetworkError_Retry(t *testing.T) {
	pngData := encodePNG(t, 1, 1)
	requestCount := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount++
		if requestCount < 3 {
			// Drop the connection to simulate a transient network error.
			if hj, ok := w.(http.Hijacker); ok {
				conn, _, _ := hj.Hijack()
				conn.Close()
			}
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(pngData)
	}))
	defer server.Close()

	fetcher := NewHTTPImageFetcher()

	start := time.Now()
	_, err := fetcher.FetchImage(context.Background(), server.URL)
	duration := time.Since(start)

	if err != nil {
		t.Errorf("expected success after retries, got: %v", err)
	}
	if requestCount != 3 {
		t.Errorf("expected 3 requests, got %d", requestCount)
	}
	// Backoff sleeps 1s then 2s between attempts.
	if duration < 3*time.Second {
		t.Errorf("expected at least 3s of backoff, took %v", duration)
	}
}

func TestLocalFetcher(t *testing.T) {
	dir := t.TempDir()
	pngData := encodePNG(t, 3, 3)
	if err := os.WriteFile(filepath.Join(dir, "target.png"), pngData, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	fetcher := NewLocalFetcher(dir)

	img, err := fetcher.FetchImage(context.Background(), "target.png")
	if err != nil {
		t.Fatalf("FetchImage failed: %v", err)
	}
	if img.Width != 3 || img.Height != 3 {
		t.Errorf("decoded %dx%d, want 3x3", img.Width, img.Height)
	}

	if _, err := fetcher.FetchImage(context.Background(), "missing.png"); err == nil {
		t.Error("expected error for missing file")
	}

	if _, err := fetcher.FetchImage(context.Background(), "../../etc/passwd"); err == nil {
		t.Error("expected error for path traversal")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := fetcher.FetchImage(ctx, "target.png"); err == nil {
		t.Error("expected error for canceled context")
	}
}
