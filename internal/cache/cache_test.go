package cache

import (
	"os"
	"path/filepath"
	"testing"

	"go-image-similarity/internal/raster"
)

func testImage(seed uint8) *raster.Image {
	img := raster.New(8, 8)
	for i := range img.Pix {
		img.Pix[i] = seed + uint8(i)
	}
	return img
}

func TestKeyStability(t *testing.T) {
	img := testImage(1)
	if Key(img) != Key(img.Clone()) {
		t.Error("identical pixel content must share a key")
	}
	if Key(img) == Key(testImage(2)) {
		t.Error("different content must not collide")
	}
}

func TestGetPutRoundTrip(t *testing.T) {
	dc, err := New(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	key := Key(testImage(3))
	if _, ok := dc.Get(key); ok {
		t.Fatal("empty cache reported a hit")
	}

	entry := &Entry{HOG: []float64{1, 2, 3}, GaborEnergy: []float64{4, 5}}
	dc.Put(key, entry)

	got, ok := dc.Get(key)
	if !ok {
		t.Fatal("expected a hit after Put")
	}
	if len(got.HOG) != 3 || got.HOG[2] != 3 || len(got.GaborEnergy) != 2 {
		t.Errorf("round trip mangled entry: %+v", got)
	}
}

func TestPutIsWriteOnce(t *testing.T) {
	dc, err := New(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	key := Key(testImage(4))
	dc.Put(key, &Entry{HOG: []float64{1}})
	dc.Put(key, &Entry{HOG: []float64{9, 9, 9}})

	got, ok := dc.Get(key)
	if !ok {
		t.Fatal("expected a hit")
	}
	if len(got.HOG) != 1 || got.HOG[0] != 1 {
		t.Errorf("duplicate Put must not overwrite, got %+v", got)
	}
}

func TestCorruptEntryIsMiss(t *testing.T) {
	dir := t.TempDir()
	dc, err := New(dir, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	key := Key(testImage(5))
	if err := os.WriteFile(filepath.Join(dir, key+".gob"), []byte("garbage"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, ok := dc.Get(key); ok {
		t.Error("corrupt entry must read as a miss")
	}
}
