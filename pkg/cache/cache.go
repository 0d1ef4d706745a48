// Package cache implements the fingerprint-keyed ResultCache from
// spec.md §4.7: it lets the same hook run once per unique (inputs,
// tool version) combination across both the check phase and autofix's
// issue-collection re-runs.
package cache

import (
	"container/list"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/crackerjack-ci/crackerjack/pkg/hook"
	"github.com/crackerjack-ci/crackerjack/pkg/logger"
)

var log = logger.New("cache")

// Entry is a cached HookResult plus the bookkeeping ResultCache needs
// for LRU eviction (spec.md §3 CacheEntry).
type Entry struct {
	Fingerprint string
	Result      hook.Result
	CreatedAt   time.Time
	HitCount    int
}

// sizeOf approximates an Entry's footprint against the byte budget:
// exact accounting isn't worth the complexity, a reasonable
// over-estimate is enough to bound memory.
func sizeOf(e *Entry) int64 {
	n := len(e.Result.Stdout) + len(e.Result.Stderr) + len(e.Fingerprint)
	for _, iss := range e.Result.ParsedIssues {
		n += len(iss.FilePath) + len(iss.Message) + len(iss.Code) + 64
	}
	return int64(n) + 256
}

// Fingerprint computes the spec.md §4.7 fingerprint:
// SHA256(hook_name ‖ command_template ‖ sorted_file_paths ‖
// concatenated per-file content hashes ‖ tool_version_if_known).
// Per-file content hashes use xxhash for speed; only the final
// combination is SHA-256, matching the spec's explicit choice of a
// cryptographic hash for the externally-visible fingerprint.
func Fingerprint(def hook.Definition, filePaths []string, readFile func(string) ([]byte, error)) (string, error) {
	h := sha256.New()

	fmt.Fprintf(h, "%s\x00", def.Name)
	for _, part := range def.CommandTemplate {
		fmt.Fprintf(h, "%s\x00", part)
	}

	sorted := append([]string(nil), filePaths...)
	sort.Strings(sorted)
	for _, p := range sorted {
		fmt.Fprintf(h, "%s\x00", p)
		content, err := readFile(p)
		if err != nil {
			return "", fmt.Errorf("cache: hashing %s: %w", p, err)
		}
		fmt.Fprintf(h, "%x\x00", xxhash.Sum64(content))
	}

	if def.VersionProbe != nil {
		version, err := def.VersionProbe()
		if err != nil {
			log.Printf("version probe for %s failed, fingerprint omits tool version: %v", def.Name, err)
		} else {
			fmt.Fprintf(h, "%s\x00", version)
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// ResultCache is an in-memory LRU cache of hook.Result, keyed by
// fingerprint, optionally persisted to disk under
// <dir>/hook_results/<fingerprint>.bin.
type ResultCache struct {
	mu         sync.Mutex
	dir        string
	byteBudget int64
	usedBytes  int64
	index      map[string]*list.Element // fingerprint -> lru element
	lru        *list.List                // front = most recently used
	filesOf    map[string]map[string]struct{} // fingerprint -> files it references
}

// New constructs a ResultCache persisting under dir (empty string
// disables disk persistence) with the given LRU byte budget.
func New(dir string, byteBudget int64) *ResultCache {
	if byteBudget <= 0 {
		byteBudget = 8 * 1024 * 1024
	}
	return &ResultCache{
		dir:        dir,
		byteBudget: byteBudget,
		index:      make(map[string]*list.Element),
		lru:        list.New(),
		filesOf:    make(map[string]map[string]struct{}),
	}
}

// Lookup returns the cached result for fingerprint, if any. A hit
// promotes the entry to most-recently-used.
func (c *ResultCache) Lookup(fingerprint string) (hook.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.index[fingerprint]; ok {
		entry := el.Value.(*Entry)
		entry.HitCount++
		c.lru.MoveToFront(el)
		result := entry.Result
		result.CacheHit = true
		return result, true
	}

	if c.dir != "" {
		if entry, err := c.loadFromDisk(fingerprint); err == nil {
			c.insertLocked(entry)
			result := entry.Result
			result.CacheHit = true
			return result, true
		}
	}

	return hook.Result{}, false
}

// Store records result under fingerprint, associating it with
// filePaths so a later InvalidateFile call can find it. Both passed
// and failed results may be cached (spec.md §4.7): the inputs being
// identical is what licenses reuse, not the outcome.
func (c *ResultCache) Store(fingerprint string, filePaths []string, result hook.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := &Entry{Fingerprint: fingerprint, Result: result, CreatedAt: time.Now()}
	c.insertLocked(entry)

	files := make(map[string]struct{}, len(filePaths))
	for _, p := range filePaths {
		files[p] = struct{}{}
	}
	c.filesOf[fingerprint] = files

	if c.dir != "" {
		if err := c.persistToDisk(entry); err != nil {
			log.Printf("failed to persist cache entry %s: %v", fingerprint, err)
		}
	}
}

func (c *ResultCache) insertLocked(entry *Entry) {
	if el, ok := c.index[entry.Fingerprint]; ok {
		c.usedBytes -= sizeOf(el.Value.(*Entry))
		el.Value = entry
		c.lru.MoveToFront(el)
	} else {
		el := c.lru.PushFront(entry)
		c.index[entry.Fingerprint] = el
	}
	c.usedBytes += sizeOf(entry)
	c.evictLocked()
}

func (c *ResultCache) evictLocked() {
	for c.usedBytes > c.byteBudget {
		back := c.lru.Back()
		if back == nil {
			return
		}
		evicted := back.Value.(*Entry)
		c.lru.Remove(back)
		delete(c.index, evicted.Fingerprint)
		delete(c.filesOf, evicted.Fingerprint)
		c.usedBytes -= sizeOf(evicted)
		if c.dir != "" {
			_ = os.Remove(c.diskPath(evicted.Fingerprint))
		}
	}
}

// InvalidateFile drops every cached entry whose fingerprint was
// computed from path, since a mutation (e.g. an applied autofix)
// means a fresh fingerprint will no longer match it anyway — but a
// stale in-memory/disk entry must not be served in the meantime.
func (c *ResultCache) InvalidateFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for fp, files := range c.filesOf {
		if _, ok := files[path]; !ok {
			continue
		}
		if el, ok := c.index[fp]; ok {
			evicted := el.Value.(*Entry)
			c.lru.Remove(el)
			c.usedBytes -= sizeOf(evicted)
			delete(c.index, fp)
		}
		delete(c.filesOf, fp)
		if c.dir != "" {
			_ = os.Remove(c.diskPath(fp))
		}
	}
}

func (c *ResultCache) diskPath(fingerprint string) string {
	return filepath.Join(c.dir, "hook_results", fingerprint+".bin")
}

func (c *ResultCache) persistToDisk(entry *Entry) error {
	path := c.diskPath(entry.Fingerprint)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(f).Encode(entry); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (c *ResultCache) loadFromDisk(fingerprint string) (*Entry, error) {
	f, err := os.Open(c.diskPath(fingerprint))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entry Entry
	if err := gob.NewDecoder(f).Decode(&entry); err != nil {
		return nil, err
	}
	return &entry, nil
}
