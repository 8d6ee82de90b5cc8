// Package cache is a content-addressed answer cache persisted as a flat JSON
// document. The full document is loaded at startup and rewritten on every
// write, so cached answers survive process restarts.
package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/meddesk-ai/meddesk/pkg/models"
)

// contextPrefixLen bounds how much of the context document participates in
// the fingerprint. Matches the persisted key format.
const contextPrefixLen = 500

// Store is a write-through answer cache. Entries are never mutated and never
// evicted.
type Store struct {
	path   string
	mem    *gocache.Cache
	log    *zap.Logger
	mu     sync.Mutex // serializes persistence
	hits   atomic.Int64
	misses atomic.Int64
}

// Fingerprint computes the cache key for a (query, context) pair: a SHA-256
// over the query and the first 500 characters of the context text. The prefix
// is cut on a rune boundary so a multi-byte character is never split.
func Fingerprint(query, contextText string) string {
	if len(contextText) > contextPrefixLen {
		cut := contextPrefixLen
		for cut > 0 && !utf8.RuneStart(contextText[cut]) {
			cut--
		}
		contextText = contextText[:cut]
	}
	h := sha256.New()
	h.Write([]byte(query))
	h.Write([]byte("|"))
	h.Write([]byte(contextText))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// New creates a Store backed by the JSON document at path. A missing or
// unparseable document starts the store empty; that is never an error.
func New(path string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{
		path: path,
		mem:  gocache.New(gocache.NoExpiration, 0),
		log:  log,
	}
	s.load()
	return s
}

func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("cache load failed, starting empty", zap.Error(err))
		}
		return
	}

	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		s.log.Warn("cache file unparseable, starting empty", zap.Error(err))
		return
	}

	for k, v := range entries {
		s.mem.Set(k, v, gocache.NoExpiration)
	}
	s.log.Debug("cache loaded", zap.Int("entries", len(entries)))
}

// Get returns the cached answer for key, if present.
func (s *Store) Get(key string) (string, bool) {
	v, ok := s.mem.Get(key)
	if !ok {
		s.misses.Add(1)
		return "", false
	}
	text, ok := v.(string)
	if !ok {
		s.misses.Add(1)
		return "", false
	}
	s.hits.Add(1)
	return text, true
}

// Put stores an answer and immediately rewrites the persisted document.
func (s *Store) Put(key, text string) error {
	s.mem.Set(key, text, gocache.NoExpiration)
	return s.persist()
}

func (s *Store) persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make(map[string]string, s.mem.ItemCount())
	for k, item := range s.mem.Items() {
		if text, ok := item.Object.(string); ok {
			entries[k] = text
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cache dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	return nil
}

// Len returns the number of cached answers.
func (s *Store) Len() int {
	return s.mem.ItemCount()
}

// Stats returns cache performance metrics for this process.
func (s *Store) Stats() models.CacheStats {
	return models.CacheStats{
		Entries: int64(s.mem.ItemCount()),
		Hits:    s.hits.Load(),
		Misses:  s.misses.Load(),
	}
}

// Clear removes all entries, in memory and on disk.
func (s *Store) Clear() error {
	s.mem.Flush()
	return s.persist()
}
