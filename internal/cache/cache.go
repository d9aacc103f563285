// Package cache provides an optional on-disk store for derived feature
// data, keyed by image pixel content. Entries are write-once: a key's
// value never changes, so duplicate writes are idempotent no-ops and
// readers never see partial state. Processes sharing a cache directory
// must synchronize externally.
package cache

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"go-image-similarity/internal/logger"
	"go-image-similarity/internal/raster"
)

// DiskCache stores gob-encoded feature entries under a directory.
type DiskCache struct {
	dir string
	log *logger.Logger
}

// Entry is the cached descriptor bundle for one image.
type Entry struct {
	HOG          []float64
	LBPHistogram []float64
	GaborEnergy  []float64
}

// New opens (creating if needed) a disk cache rooted at dir.
func New(dir string, log *logger.Logger) (*DiskCache, error) {
	if log == nil {
		log = logger.NewLogger()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &DiskCache{dir: dir, log: log}, nil
}

// Key derives the cache key for an image from its pixel content, so
// re-encoded or re-downloaded copies of the same image share an entry.
func Key(img *raster.Image) string {
	h := sha256.New()
	var dims [8]byte
	for i, v := range []int{img.Width, img.Height} {
		dims[i*4] = byte(v >> 24)
		dims[i*4+1] = byte(v >> 16)
		dims[i*4+2] = byte(v >> 8)
		dims[i*4+3] = byte(v)
	}
	h.Write(dims[:])
	h.Write(img.Pix)
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the entry for key, or ok=false when it is absent or
// unreadable. A corrupt entry is treated as a miss; callers recompute.
func (dc *DiskCache) Get(key string) (*Entry, bool) {
	f, err := os.Open(dc.path(key))
	if err != nil {
		return nil, false
	}
	defer f.Close()

	var entry Entry
	if err := gob.NewDecoder(f).Decode(&entry); err != nil {
		dc.log.WithError(err).WithField("key", key).Warn("discarding unreadable cache entry")
		return nil, false
	}
	return &entry, true
}

// Put stores the entry for key. Existing entries are left untouched;
// the value for a content hash never changes. Write failures are logged
// and swallowed, a cold cache only costs recomputation.
func (dc *DiskCache) Put(key string, entry *Entry) {
	path := dc.path(key)
	if _, err := os.Stat(path); err == nil {
		return
	}

	tmp, err := os.CreateTemp(dc.dir, "entry-*.tmp")
	if err != nil {
		dc.log.WithError(err).Warn("failed to create cache temp file")
		return
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(entry); err != nil {
		tmp.Close()
		dc.log.WithError(err).Warn("failed to encode cache entry")
		return
	}
	if err := tmp.Close(); err != nil {
		dc.log.WithError(err).Warn("failed to flush cache entry")
		return
	}
	// Rename makes the entry visible atomically.
	if err := os.Rename(tmp.Name(), path); err != nil {
		dc.log.WithError(err).Warn("failed to publish cache entry")
	}
}

func (dc *DiskCache) path(key string) string {
	return filepath.Join(dc.dir, key+".gob")
}
