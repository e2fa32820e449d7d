package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/thomas-vilte/prtriage/internal/config"
)

// Cache stores JSON encoded values under string keys until they expire.
type Cache interface {
	Get(key string) (json.RawMessage, bool, error)
	Set(key string, value interface{}) error
	Delete(key string) error
	// Clean removes every entry.
	Clean() error
	Close() error
}

// Key builds the cache key for the open pull requests of a repository.
func Key(owner, repo string, limit int) string {
	return fmt.Sprintf("prs:%s:%s:%d", owner, repo, limit)
}

// New returns the backend selected by cfg.
func New(cfg config.CacheConfig) (Cache, error) {
	switch cfg.Backend {
	case config.CacheNone:
		return Noop{}, nil
	case config.CacheSQLite:
		path := cfg.Path
		if path == "" {
			p, err := DefaultPath()
			if err != nil {
				return nil, err
			}
			path = p
		}
		return NewSQLite(path, cfg.TTL.Duration)
	case config.CacheMemory, "":
		return NewMemory(cfg.TTL.Duration, cfg.MaxEntries), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// DefaultPath returns ~/.prtriage/cache.db, creating the directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error resolving home directory: %w", err)
	}
	dir := filepath.Join(home, ".prtriage")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating cache directory: %w", err)
	}
	return filepath.Join(dir, "cache.db"), nil
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(string) (json.RawMessage, bool, error) { return nil, false, nil }
func (Noop) Set(string, interface{}) error             { return nil }
func (Noop) Delete(string) error                       { return nil }
func (Noop) Clean() error                              { return nil }
func (Noop) Close() error                              { return nil }

var (
	_ Cache = Noop{}
	_ Cache = (*Memory)(nil)
	_ Cache = (*SQLite)(nil)
)

type clock func() time.Time
