package cache

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/thomas-vilte/prtriage/internal/config"
)

type testData struct {
	Name string `json:"name"`
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestMemory(ttl time.Duration, size int) (*Memory, *fakeClock) {
	clk := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewMemory(ttl, size)
	m.now = clk.now
	return m, clk
}

func newTestSQLite(t *testing.T, ttl time.Duration) (*SQLite, *fakeClock) {
	t.Helper()
	c, err := NewSQLite(filepath.Join(t.TempDir(), "cache.db"), ttl)
	if err != nil {
		t.Fatalf("NewSQLite() error = %v", err)
	}
	t.Cleanup(func() {
		if err := c.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	clk := &fakeClock{t: time.Now()}
	c.now = clk.now
	return c, clk
}

func decode(t *testing.T, raw json.RawMessage) testData {
	t.Helper()
	var got testData
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	return got
}

func TestKey(t *testing.T) {
	if got := Key("acme", "widgets", 50); got != "prs:acme:widgets:50" {
		t.Errorf("Key() = %q, want %q", got, "prs:acme:widgets:50")
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.CacheConfig
		wantErr bool
		check   func(Cache) bool
	}{
		{
			name:  "memory",
			cfg:   config.CacheConfig{Backend: config.CacheMemory, TTL: config.Duration{Duration: time.Minute}, MaxEntries: 10},
			check: func(c Cache) bool { _, ok := c.(*Memory); return ok },
		},
		{
			name:  "none",
			cfg:   config.CacheConfig{Backend: config.CacheNone},
			check: func(c Cache) bool { _, ok := c.(Noop); return ok },
		},
		{
			name:  "sqlite",
			cfg:   config.CacheConfig{Backend: config.CacheSQLite, TTL: config.Duration{Duration: time.Minute}, Path: filepath.Join(t.TempDir(), "c.db")},
			check: func(c Cache) bool { _, ok := c.(*SQLite); return ok },
		},
		{
			name:    "unknown",
			cfg:     config.CacheConfig{Backend: "redis"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("New() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			defer func() { _ = c.Close() }()
			if !tt.check(c) {
				t.Errorf("New() returned %T", c)
			}
		})
	}
}

func TestMemory_SetAndGet(t *testing.T) {
	// Arrange
	m, _ := newTestMemory(time.Hour, 10)

	// Act
	if err := m.Set("key", testData{Name: "prtriage"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	raw, found, err := m.Get("key")

	// Assert
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found {
		t.Fatal("Get() found = false, want true")
	}
	if got := decode(t, raw); got.Name != "prtriage" {
		t.Errorf("Get() name = %q, want %q", got.Name, "prtriage")
	}
}

func TestMemory_Expired(t *testing.T) {
	// Arrange
	m, clk := newTestMemory(time.Minute, 10)
	if err := m.Set("key", testData{Name: "old"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	// Act
	clk.advance(time.Minute)
	_, found, err := m.Get("key")

	// Assert
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("Get() found = true for an expired entry")
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}
}

func TestMemory_Eviction(t *testing.T) {
	t.Run("evicts the oldest insertion when full", func(t *testing.T) {
		// Arrange
		m, clk := newTestMemory(time.Hour, 2)
		_ = m.Set("a", testData{Name: "a"})
		clk.advance(time.Second)
		_ = m.Set("b", testData{Name: "b"})

		// Act
		_ = m.Set("c", testData{Name: "c"})

		// Assert
		if _, found, _ := m.Get("a"); found {
			t.Error("oldest entry was not evicted")
		}
		for _, k := range []string{"b", "c"} {
			if _, found, _ := m.Get(k); !found {
				t.Errorf("entry %q missing", k)
			}
		}
	})

	t.Run("prunes expired entries before evicting", func(t *testing.T) {
		// Arrange
		m, clk := newTestMemory(time.Minute, 2)
		_ = m.Set("a", testData{Name: "a"})
		clk.advance(30 * time.Second)
		_ = m.Set("b", testData{Name: "b"})
		clk.advance(40 * time.Second)

		// Act
		_ = m.Set("c", testData{Name: "c"})

		// Assert
		if m.Len() != 2 {
			t.Errorf("Len() = %d, want 2", m.Len())
		}
		if _, found, _ := m.Get("b"); !found {
			t.Error("live entry was evicted although an expired one could be pruned")
		}
	})

	t.Run("overwriting a key does not evict", func(t *testing.T) {
		m, _ := newTestMemory(time.Hour, 2)
		_ = m.Set("a", testData{Name: "a"})
		_ = m.Set("b", testData{Name: "b"})

		_ = m.Set("a", testData{Name: "a2"})

		raw, found, _ := m.Get("b")
		if !found {
			t.Fatal("entry b was evicted on overwrite")
		}
		if got := decode(t, raw); got.Name != "b" {
			t.Errorf("Get(b) = %q", got.Name)
		}
	})
}

func TestMemory_CleanAndDelete(t *testing.T) {
	m, clk := newTestMemory(time.Minute, 10)
	_ = m.Set("a", testData{})
	_ = m.Set("b", testData{})
	_ = m.Delete("a")
	if m.Len() != 1 {
		t.Fatalf("Len() after Delete = %d, want 1", m.Len())
	}

	clk.advance(2 * time.Minute)
	removed, err := m.CleanExpired()
	if err != nil || removed != 1 {
		t.Fatalf("CleanExpired() = %d, %v; want 1, nil", removed, err)
	}

	_ = m.Set("c", testData{})
	if err := m.Clean(); err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if m.Len() != 0 {
		t.Errorf("Len() after Clean = %d, want 0", m.Len())
	}
}

func TestMemory_SetUnserializable(t *testing.T) {
	m, _ := newTestMemory(time.Minute, 10)

	if err := m.Set("key", make(chan int)); err == nil {
		t.Error("Set() expected error for a channel value")
	}
}

func TestSQLite_SetAndGet(t *testing.T) {
	// Arrange
	c, _ := newTestSQLite(t, time.Hour)

	// Act
	if err := c.Set("key", testData{Name: "first"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := c.Set("key", testData{Name: "second"}); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}
	raw, found, err := c.Get("key")

	// Assert
	if err != nil || !found {
		t.Fatalf("Get() = found %v, err %v", found, err)
	}
	if got := decode(t, raw); got.Name != "second" {
		t.Errorf("Get() name = %q, want %q", got.Name, "second")
	}
}

func TestSQLite_Expiration(t *testing.T) {
	// Arrange
	c, clk := newTestSQLite(t, time.Minute)
	_ = c.Set("old", testData{Name: "old"})
	clk.advance(2 * time.Minute)
	_ = c.Set("new", testData{Name: "new"})

	// Act
	_, found, err := c.Get("old")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	removed, err := c.CleanExpired()

	// Assert
	if found {
		t.Error("Get() returned an expired row")
	}
	if err != nil {
		t.Fatalf("CleanExpired() error = %v", err)
	}
	if removed != 0 {
		t.Errorf("CleanExpired() removed %d, want 0 (expired row already dropped on read)", removed)
	}
	if n, _ := c.Len(); n != 1 {
		t.Errorf("Len() = %d, want 1", n)
	}
}

func TestSQLite_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	first, err := NewSQLite(path, time.Hour)
	if err != nil {
		t.Fatalf("NewSQLite() error = %v", err)
	}
	if err := first.Set("key", testData{Name: "kept"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	second, err := NewSQLite(path, time.Hour)
	if err != nil {
		t.Fatalf("NewSQLite() reopen error = %v", err)
	}
	defer func() { _ = second.Close() }()

	raw, found, err := second.Get("key")
	if err != nil || !found {
		t.Fatalf("Get() = found %v, err %v", found, err)
	}
	if got := decode(t, raw); got.Name != "kept" {
		t.Errorf("Get() name = %q", got.Name)
	}
}

func TestSQLite_Clean(t *testing.T) {
	c, _ := newTestSQLite(t, time.Hour)
	_ = c.Set("a", testData{})
	_ = c.Set("b", testData{})

	if err := c.Delete("a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := c.Clean(); err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if n, _ := c.Len(); n != 0 {
		t.Errorf("Len() = %d, want 0", n)
	}
}

func TestNoop(t *testing.T) {
	var c Cache = Noop{}
	if err := c.Set("key", testData{}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, found, _ := c.Get("key"); found {
		t.Error("Noop.Get() found = true")
	}
}
