package icons

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"fredon/pkg/logging"
)

const indexFileName = "index.json"

// fingerprintAbsent marks entries derived from an unresolvable source
// (placeholders). They stay valid only while the source remains absent.
const fingerprintAbsent = "absent"

// diskEntry is one row of the on-disk index, mapping a source fingerprint
// to a derived, pre-scaled PNG file.
type diskEntry struct {
	Source      string `json:"source"`
	Fingerprint string `json:"fingerprint"`
	File        string `json:"file"`
	Size        int    `json:"size"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

// DiskCache is the persistent icon cache tier: a directory of pre-decoded,
// pre-scaled PNG files plus an index keyed by source path and target size.
// The directory is safe to delete wholesale at any time; it is treated as a
// cold cache and heals itself.
type DiskCache struct {
	dir string

	mu    sync.Mutex
	index map[string]diskEntry
}

// OpenDiskCache opens (or creates) the persistent cache at dir. A corrupt
// or missing index simply starts the cache cold.
func OpenDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating icon cache directory: %w", err)
	}

	dc := &DiskCache{dir: dir, index: make(map[string]diskEntry)}

	data, err := os.ReadFile(filepath.Join(dir, indexFileName))
	if err == nil {
		if err := json.Unmarshal(data, &dc.index); err != nil {
			logging.Warn("IconCache", "Corrupt disk cache index, starting cold: %v", err)
			dc.index = make(map[string]diskEntry)
		} else {
			logging.Debug("IconCache", "Loaded %d disk cache entries from %s", len(dc.index), dir)
		}
	}
	return dc, nil
}

// DefaultDiskCacheDir returns the user-scoped persistent cache directory.
func DefaultDiskCacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "fredon", "icons"), nil
}

// entryKey derives the index key and derived-file name for a source path,
// fingerprint and target size.
func entryKey(source, fingerprint string, size int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s\x00%s\x00%d", source, fingerprint, size)))
	return hex.EncodeToString(sum[:16])
}

// Get returns the pre-scaled image for (source, size) if the stored
// fingerprint still matches.
func (dc *DiskCache) Get(source, fingerprint string, size int) (Image, bool) {
	key := entryKey(source, fingerprint, size)

	dc.mu.Lock()
	entry, ok := dc.index[key]
	dc.mu.Unlock()
	if !ok || entry.Fingerprint != fingerprint {
		return Image{}, false
	}

	data, err := os.ReadFile(filepath.Join(dc.dir, entry.File))
	if err != nil {
		// Derived file vanished; drop the stale row.
		dc.mu.Lock()
		delete(dc.index, key)
		dc.mu.Unlock()
		return Image{}, false
	}
	return Image{PNG: data, Width: entry.Width, Height: entry.Height}, true
}

// Put stores a derived image and persists the index. Failures are logged
// and swallowed; the disk tier is best-effort.
func (dc *DiskCache) Put(source, fingerprint string, size int, img Image) {
	key := entryKey(source, fingerprint, size)
	fileName := key + ".png"

	if err := os.WriteFile(filepath.Join(dc.dir, fileName), img.PNG, 0644); err != nil {
		logging.Warn("IconCache", "Failed to write derived icon %s: %v", fileName, err)
		return
	}

	dc.mu.Lock()
	dc.index[key] = diskEntry{
		Source:      source,
		Fingerprint: fingerprint,
		File:        fileName,
		Size:        size,
		Width:       img.Width,
		Height:      img.Height,
	}
	dc.mu.Unlock()

	dc.saveIndex()
}

// Sweep drops entries whose source file no longer exists and removes their
// derived files. Returns the number of entries removed.
func (dc *DiskCache) Sweep() int {
	dc.mu.Lock()
	var stale []string
	for key, entry := range dc.index {
		if entry.Fingerprint == fingerprintAbsent {
			continue
		}
		if _, err := os.Stat(entry.Source); os.IsNotExist(err) {
			stale = append(stale, key)
		}
	}
	var files []string
	for _, key := range stale {
		files = append(files, dc.index[key].File)
		delete(dc.index, key)
	}
	dc.mu.Unlock()

	for _, file := range files {
		os.Remove(filepath.Join(dc.dir, file))
	}
	if len(stale) > 0 {
		dc.saveIndex()
		logging.Info("IconCache", "Swept %d stale disk cache entries", len(stale))
	}
	return len(stale)
}

// Clear removes every derived file and the index.
func (dc *DiskCache) Clear() error {
	dc.mu.Lock()
	files := make([]string, 0, len(dc.index))
	for _, entry := range dc.index {
		files = append(files, entry.File)
	}
	dc.index = make(map[string]diskEntry)
	dc.mu.Unlock()

	for _, file := range files {
		os.Remove(filepath.Join(dc.dir, file))
	}
	if err := os.Remove(filepath.Join(dc.dir, indexFileName)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Len returns the number of indexed entries.
func (dc *DiskCache) Len() int {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	return len(dc.index)
}

// saveIndex persists the index atomically via a temp file rename so a crash
// can never leave a partially written index behind.
func (dc *DiskCache) saveIndex() {
	dc.mu.Lock()
	data, err := json.Marshal(dc.index)
	dc.mu.Unlock()
	if err != nil {
		logging.Error("IconCache", err, "Failed to marshal disk cache index")
		return
	}

	target := filepath.Join(dc.dir, indexFileName)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		logging.Warn("IconCache", "Failed to write disk cache index: %v", err)
		return
	}
	if err := os.Rename(tmp, target); err != nil {
		logging.Warn("IconCache", "Failed to replace disk cache index: %v", err)
	}
}
