package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	maxClientIDLength = 45
	clientIdleTTL     = 10 * time.Minute
	rateWindow        = time.Minute
)

// windowLimiter allows max requests per fixed window. The window opens on the
// first request and its whole quota comes back once it ends.
type windowLimiter struct {
	mu      sync.Mutex
	max     int
	resetAt time.Time
	quota   *rate.Limiter
}

func newWindowLimiter(max int) *windowLimiter {
	return &windowLimiter{max: max}
}

func (w *windowLimiter) allow(now time.Time) bool {
	if w.max <= 0 {
		return true
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.quota == nil || !now.Before(w.resetAt) {
		// A zero rate never refills, so the burst is the quota of this window.
		w.quota = rate.NewLimiter(0, w.max)
		w.resetAt = now.Add(rateWindow)
	}
	return w.quota.AllowN(now, 1)
}

type clientEntry struct {
	limiter  *windowLimiter
	lastSeen time.Time
}

// clientLimiter keeps one window per client id.
type clientLimiter struct {
	mu        sync.Mutex
	perMinute int
	clients   map[string]*clientEntry
}

func newClientLimiter(perMinute int) *clientLimiter {
	return &clientLimiter{perMinute: perMinute, clients: make(map[string]*clientEntry)}
}

func (c *clientLimiter) allow(id string, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.clients[id]
	if !ok {
		e = &clientEntry{limiter: newWindowLimiter(c.perMinute)}
		c.clients[id] = e
	}
	e.lastSeen = now
	return e.limiter.allow(now)
}

// sweep forgets clients idle for longer than clientIdleTTL.
func (c *clientLimiter) sweep(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, e := range c.clients {
		if now.Sub(e.lastSeen) > clientIdleTTL {
			delete(c.clients, id)
		}
	}
}

func (c *clientLimiter) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.clients)
}

// clientID prefers the first X-Forwarded-For hop, then X-Real-IP, then the
// connection address.
func clientID(r *http.Request) string {
	id := ""
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		id = strings.TrimSpace(first)
	}
	if id == "" {
		id = strings.TrimSpace(r.Header.Get("X-Real-IP"))
	}
	if id == "" {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			id = host
		} else {
			id = r.RemoteAddr
		}
	}
	if len(id) > maxClientIDLength {
		id = id[:maxClientIDLength]
	}
	if id == "" {
		return "unknown"
	}
	return id
}
