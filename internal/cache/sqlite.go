package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	apperrors "github.com/thomas-vilte/prtriage/internal/errors"
)

const schema = `CREATE TABLE IF NOT EXISTS entries (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	expires_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entries_expires_at ON entries(expires_at);`

// SQLite keeps cached pull request lists between CLI runs.
type SQLite struct {
	db  *sql.DB
	ttl time.Duration
	now clock
}

// NewSQLite opens (or creates) the cache database at path in WAL mode and
// drops entries that already expired.
func NewSQLite(path string, ttl time.Duration) (*SQLite, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, apperrors.ErrCacheOpen.WithError(err).WithContext("path", path)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, apperrors.ErrCacheOpen.WithError(err).WithContext("path", path)
	}

	c := &SQLite{db: db, ttl: ttl, now: time.Now}
	_, _ = c.CleanExpired()
	return c, nil
}

func (c *SQLite) Get(key string) (json.RawMessage, bool, error) {
	var (
		value     []byte
		expiresAt int64
	)
	err := c.db.QueryRow(`SELECT value, expires_at FROM entries WHERE key = ?`, key).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.ErrCacheRead.WithError(err).WithContext("key", key)
	}

	if c.now().UnixNano() >= expiresAt {
		_ = c.Delete(key)
		return nil, false, nil
	}
	return json.RawMessage(value), true, nil
}

func (c *SQLite) Set(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return apperrors.ErrCacheWrite.WithError(err).WithContext("key", key)
	}

	_, err = c.db.Exec(
		`INSERT INTO entries (key, value, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, data, c.now().Add(c.ttl).UnixNano(),
	)
	if err != nil {
		return apperrors.ErrCacheWrite.WithError(err).WithContext("key", key)
	}
	return nil
}

func (c *SQLite) Delete(key string) error {
	if _, err := c.db.Exec(`DELETE FROM entries WHERE key = ?`, key); err != nil {
		return apperrors.ErrCacheWrite.WithError(err).WithContext("key", key)
	}
	return nil
}

func (c *SQLite) Clean() error {
	if _, err := c.db.Exec(`DELETE FROM entries`); err != nil {
		return apperrors.ErrCacheWrite.WithError(err)
	}
	return nil
}

// CleanExpired deletes expired rows and reports how many were removed.
func (c *SQLite) CleanExpired() (int, error) {
	res, err := c.db.Exec(`DELETE FROM entries WHERE expires_at <= ?`, c.now().UnixNano())
	if err != nil {
		return 0, apperrors.ErrCacheWrite.WithError(err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (c *SQLite) Len() (int, error) {
	var n int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0, apperrors.ErrCacheRead.WithError(err)
	}
	return n, nil
}

func (c *SQLite) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}
