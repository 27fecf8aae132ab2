package icons

import (
	"container/list"
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"fredon/pkg/logging"
)

const (
	// DefaultBudget caps the in-memory tier at 50 MiB of decoded data.
	DefaultBudget = 50 << 20

	// DefaultIconSize is used when a caller requests size zero.
	DefaultIconSize = 64

	// evictHeadroom is the fraction of the budget eviction shrinks to,
	// so a single oversized insert does not trigger churn on every Get.
	evictHeadroom = 0.8

	defaultSweepInterval = 15 * time.Minute
)

type cacheKey struct {
	ref  string
	size int
}

type cacheEntry struct {
	img         Image
	fingerprint string
	elem        *list.Element
}

// Cache resolves an icon reference plus target size to decoded pixel data.
// Get never fails: it returns cached real data, freshly decoded data, or a
// synthesized placeholder.
//
// Lookups hit two tiers: a byte-budgeted in-memory LRU index and the
// persistent DiskCache of pre-scaled files. The mutex guards only the
// index; decode work happens outside it, and a singleflight group collapses
// concurrent misses for the same key into one decode.
type Cache struct {
	mu      sync.Mutex
	entries map[cacheKey]*cacheEntry
	lru     *list.List // of cacheKey, front = most recently used
	bytes   int64
	budget  int64

	group    singleflight.Group
	resolver *Resolver
	disk     *DiskCache

	decodes atomic.Int64
}

// Stats is a point-in-time snapshot of cache accounting.
type Stats struct {
	Entries       int
	ResidentBytes int64
	Budget        int64
	Decodes       int64
	DiskEntries   int
}

// New creates a cache with the given byte budget (0 selects the default).
// disk may be nil to run memory-only.
func New(budget int64, disk *DiskCache) *Cache {
	if budget <= 0 {
		budget = DefaultBudget
	}
	return &Cache{
		entries:  make(map[cacheKey]*cacheEntry),
		lru:      list.New(),
		budget:   budget,
		resolver: NewResolver(),
		disk:     disk,
	}
}

// Get returns the icon for ref scaled to fit size×size. The source is
// located by literal path, extension substitution or system icon
// directories; unresolvable or undecodable references yield a deterministic
// placeholder that is cached like real data, so repeated lookups for a
// broken reference stay cheap. Entries are invalidated when the source
// file's fingerprint changes.
func (c *Cache) Get(ref string, size int) Image {
	if size <= 0 {
		size = DefaultIconSize
	}
	key := cacheKey{ref: ref, size: size}

	// Stat before taking the lock: no I/O happens under the index mutex.
	source, resolved := c.resolver.Resolve(ref)
	fingerprint := fingerprintAbsent
	if resolved {
		fingerprint = fileFingerprint(source)
	}

	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		if e.fingerprint == fingerprint {
			c.lru.MoveToFront(e.elem)
			img := e.img
			c.mu.Unlock()
			return img
		}
		c.removeLocked(key, e)
	}
	c.mu.Unlock()

	// Collapse concurrent misses for the same key into a single load;
	// later requesters wait for the in-flight result instead of decoding
	// again.
	v, _, _ := c.group.Do(fmt.Sprintf("%s\x00%d", ref, size), func() (interface{}, error) {
		img := c.load(ref, source, resolved, fingerprint, size)
		c.insert(key, img, fingerprint)
		return img, nil
	})
	return v.(Image)
}

// load produces the image for a miss: disk tier first, then a fresh decode,
// then the placeholder. Write-through to the disk tier on success.
func (c *Cache) load(ref, source string, resolved bool, fingerprint string, size int) Image {
	lookup := source
	if !resolved {
		lookup = ref
	}

	if c.disk != nil {
		if img, ok := c.disk.Get(lookup, fingerprint, size); ok {
			logging.Debug("IconCache", "Disk tier hit for %s@%d", ref, size)
			return img
		}
	}

	var img Image
	if resolved {
		decoded, err := decodeFile(source, size)
		if err != nil {
			logging.Warn("IconCache", "Failed to decode %s: %v", source, err)
			img = placeholder(size)
		} else {
			c.decodes.Add(1)
			img = decoded
		}
	} else {
		logging.Debug("IconCache", "Icon %s not found, synthesizing placeholder", ref)
		img = placeholder(size)
	}

	if c.disk != nil && len(img.PNG) > 0 {
		c.disk.Put(lookup, fingerprint, size, img)
	}
	return img
}

// insert stores an entry and evicts least-recently-used entries until the
// byte budget holds. Entries larger than the budget are not cached.
func (c *Cache) insert(key cacheKey, img Image, fingerprint string) {
	size := int64(img.Bytes())
	if size == 0 || size > c.budget {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[key]; ok {
		c.removeLocked(key, old)
	}

	e := &cacheEntry{img: img, fingerprint: fingerprint}
	e.elem = c.lru.PushFront(key)
	c.entries[key] = e
	c.bytes += size

	if c.bytes <= c.budget {
		return
	}
	target := int64(float64(c.budget) * evictHeadroom)
	evicted := 0
	for c.bytes > target {
		back := c.lru.Back()
		if back == nil {
			break
		}
		victim := back.Value.(cacheKey)
		c.removeLocked(victim, c.entries[victim])
		evicted++
	}
	logging.Debug("IconCache", "Evicted %d entries, resident %d/%d bytes", evicted, c.bytes, c.budget)
}

func (c *Cache) removeLocked(key cacheKey, e *cacheEntry) {
	c.lru.Remove(e.elem)
	delete(c.entries, key)
	c.bytes -= int64(e.img.Bytes())
}

// Decodes returns how many source decodes have been performed. Cached and
// placeholder lookups do not increment it.
func (c *Cache) Decodes() int64 {
	return c.decodes.Load()
}

// Stats returns current cache accounting.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	s := Stats{
		Entries:       len(c.entries),
		ResidentBytes: c.bytes,
		Budget:        c.budget,
	}
	c.mu.Unlock()
	s.Decodes = c.decodes.Load()
	if c.disk != nil {
		s.DiskEntries = c.disk.Len()
	}
	return s
}

// StartSweeper periodically drops disk-tier entries whose source file no
// longer exists. It returns immediately; the sweep runs until ctx is done.
func (c *Cache) StartSweeper(ctx context.Context, interval time.Duration) {
	if c.disk == nil {
		return
	}
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.disk.Sweep()
			}
		}
	}()
}

// fileFingerprint derives the staleness fingerprint for a source file from
// its modification time and size.
func fileFingerprint(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return fingerprintAbsent
	}
	return fmt.Sprintf("%d-%d", info.ModTime().UnixNano(), info.Size())
}
