package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go-image-similarity/internal/raster"
)

// localFetcher resolves refs as file paths under a base directory.
// Refs escaping the base directory are rejected.
type localFetcher struct {
	baseDir string
}

// NewLocalFetcher creates a filesystem-backed image fetcher rooted at
// baseDir. An empty baseDir allows absolute paths anywhere.
func NewLocalFetcher(baseDir string) ImageFetcher {
	return &localFetcher{baseDir: baseDir}
}

func (l *localFetcher) FetchImage(ctx context.Context, ref string) (*raster.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := ref
	if l.baseDir != "" {
		path = filepath.Join(l.baseDir, filepath.Clean("/"+ref))
		if !strings.HasPrefix(path, filepath.Clean(l.baseDir)+string(os.PathSeparator)) {
			return nil, fmt.Errorf("ref %q escapes the image directory", ref)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer f.Close()

	return raster.Decode(f)
}
