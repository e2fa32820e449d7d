package logger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultStoreSize = 500

type Category string

const (
	// CategoryProduct is for failures on our side.
	CategoryProduct Category = "product"
	// CategoryUser is for failures caused by the caller, such as a bad token or repository.
	CategoryUser Category = "user"
)

type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Category  Category  `json:"category"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Source    string    `json:"source,omitempty"`
}

// Query narrows Store.Get. Zero values mean no filtering, except Limit which defaults to 50.
type Query struct {
	Level string
	Since time.Time
	Limit int
}

// Store keeps the most recent entries of one category in memory.
type Store struct {
	mu       sync.Mutex
	category Category
	max      int
	entries  []Entry
	now      func() time.Time
}

func NewStore(category Category, max int) *Store {
	if max <= 0 {
		max = DefaultStoreSize
	}
	return &Store{category: category, max: max, now: time.Now}
}

func (s *Store) Category() Category {
	return s.category
}

func (s *Store) Append(level, message, details, source string) Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := Entry{
		ID:        uuid.NewString(),
		Timestamp: s.now().UTC(),
		Category:  s.category,
		Level:     level,
		Message:   Redact(message),
		Details:   Redact(details),
		Source:    source,
	}

	s.entries = append(s.entries, e)
	if over := len(s.entries) - s.max; over > 0 {
		s.entries = append([]Entry(nil), s.entries[over:]...)
	}
	return e
}

// Get returns matching entries newest first, along with how many matched before the limit.
func (s *Store) Get(q Query) ([]Entry, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if q.Level != "" && e.Level != q.Level {
			continue
		}
		if !q.Since.IsZero() && e.Timestamp.Before(q.Since) {
			continue
		}
		matched = append(matched, e)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	start := len(matched) - limit
	if start < 0 {
		start = 0
	}

	out := make([]Entry, 0, len(matched)-start)
	for i := len(matched) - 1; i >= start; i-- {
		out = append(out, matched[i])
	}
	return out, len(matched)
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// ErrorLog records failures both through slog and in per-category stores
// that the HTTP API exposes. A nil *ErrorLog only logs.
type ErrorLog struct {
	Product *Store
	User    *Store
}

func NewErrorLog(size int) *ErrorLog {
	return &ErrorLog{
		Product: NewStore(CategoryProduct, size),
		User:    NewStore(CategoryUser, size),
	}
}

func (l *ErrorLog) Store(c Category) (*Store, bool) {
	if l == nil {
		return nil, false
	}
	switch c {
	case CategoryProduct:
		return l.Product, true
	case CategoryUser:
		return l.User, true
	default:
		return nil, false
	}
}

func (l *ErrorLog) ProductError(ctx context.Context, source, message string, err error) {
	Error(ctx, "[product] "+message, err, "source", source)
	if l == nil {
		return
	}
	details := ""
	if err != nil {
		details = err.Error()
	}
	l.Product.Append("error", message, details, source)
}

func (l *ErrorLog) UserError(ctx context.Context, source, message, details string) {
	Warn(ctx, "[user] "+message, "source", source, "details", details)
	if l == nil {
		return
	}
	l.User.Append("error", message, details, source)
}
