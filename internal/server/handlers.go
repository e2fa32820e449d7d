package server

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	domainErrors "github.com/thomas-vilte/prtriage/internal/errors"
	"github.com/thomas-vilte/prtriage/internal/filters"
	"github.com/thomas-vilte/prtriage/internal/logger"
	"github.com/thomas-vilte/prtriage/internal/services"
)

const (
	defaultLogLimit = 50
	maxLogLimit     = 500
)

var logLevels = map[string]bool{"info": true, "warn": true, "error": true}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status                string    `json:"status"`
	Timestamp             time.Time `json:"timestamp"`
	GitHubTokenConfigured bool      `json:"githubTokenConfigured"`
}

type logsResponse struct {
	Logs  []logger.Entry `json:"logs"`
	Total int            `json:"total"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) handlePRs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := s.now()

	if !s.global.allow(now) {
		writeError(w, http.StatusTooManyRequests, domainErrors.ErrRateLimited.Message)
		return
	}

	id := clientID(r)
	if !s.clients.allow(id, now) {
		s.errLog.UserError(ctx, errorSource, "Rate limit exceeded", fmt.Sprintf(`{"clientId":%q}`, id))
		writeError(w, http.StatusTooManyRequests, domainErrors.ErrRateLimited.Message)
		return
	}

	q := r.URL.Query()
	owner, repo, err := services.ValidateRepository(q.Get("owner"), q.Get("repo"))
	if err != nil {
		writeError(w, http.StatusBadRequest, detailOf(err))
		return
	}

	res, err := s.ranker.Rank(ctx, services.RankRequest{
		Owner:   owner,
		Repo:    repo,
		Limit:   services.ParseLimit(q.Get("limit")),
		Filters: filters.FromValues(q, s.opts.Filters),
	})
	if err != nil {
		s.writeRankError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (s *Server) writeRankError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domainErrors.ErrTokenMissing):
		s.errLog.UserError(r.Context(), errorSource, "Missing GitHub token", err.Error())
		writeError(w, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, domainErrors.ErrGitHubRateLimit):
		writeError(w, http.StatusTooManyRequests, "GitHub rate limit exceeded")
	case errors.Is(err, domainErrors.ErrRepositoryNotFound):
		writeError(w, http.StatusNotFound, "Repository not found")
	default:
		s.errLog.ProductError(r.Context(), errorSource, "PR fetch failed: "+err.Error(), domainErrors.ErrServer.WithError(err))
		writeError(w, http.StatusInternalServerError, domainErrors.ErrServer.Message)
	}
}

func detailOf(err error) string {
	var appErr *domainErrors.AppError
	if errors.As(err, &appErr) {
		if d, ok := appErr.Context["detail"].(string); ok && d != "" {
			return d
		}
		return appErr.Message
	}
	return err.Error()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:                "ok",
		Timestamp:             s.now().UTC(),
		GitHubTokenConfigured: s.opts.TokenConfigured,
	})
}

// requireAdmin guards product logs with the admin bearer token when one is
// configured. User logs stay open.
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if logger.Category(r.PathValue("category")) == logger.CategoryProduct && s.opts.AdminToken != "" {
			token := strings.TrimSpace(r.Header.Get("Authorization"))
			if len(token) > 7 && strings.EqualFold(token[:7], "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if subtle.ConstantTimeCompare([]byte(token), []byte(s.opts.AdminToken)) != 1 {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
		}
		next(w, r)
	}
}

func (s *Server) store(w http.ResponseWriter, r *http.Request) (*logger.Store, bool) {
	store, ok := s.errLog.Store(logger.Category(r.PathValue("category")))
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown log category")
		return nil, false
	}
	return store, true
}

func (s *Server) handleGetLogs(w http.ResponseWriter, r *http.Request) {
	store, ok := s.store(w, r)
	if !ok {
		return
	}

	query, problem := parseLogQuery(r)
	if problem != "" {
		writeError(w, http.StatusBadRequest, problem)
		return
	}

	logs, total := store.Get(query)
	writeJSON(w, http.StatusOK, logsResponse{Logs: logs, Total: total})
}

func (s *Server) handleClearLogs(w http.ResponseWriter, r *http.Request) {
	store, ok := s.store(w, r)
	if !ok {
		return
	}
	store.Clear()
	writeJSON(w, http.StatusOK, map[string]bool{"cleared": true})
}

// parseLogQuery returns the query, or a message explaining the bad parameter.
func parseLogQuery(r *http.Request) (logger.Query, string) {
	q := r.URL.Query()
	query := logger.Query{Limit: defaultLogLimit}

	if level := q.Get("level"); level != "" {
		if !logLevels[level] {
			return query, "Invalid level: must be one of info, warn, error"
		}
		query.Level = level
	}

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return query, "Invalid limit: must be a positive integer"
		}
		query.Limit = min(n, maxLogLimit)
	}

	if raw := q.Get("since"); raw != "" {
		since, ok := parseSince(raw)
		if !ok {
			return query, "Invalid since: must be a valid ISO 8601 date"
		}
		query.Since = since
	}
	return query, ""
}

// sinceLayouts are tried in order; dates without a zone are UTC.
var sinceLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04", time.DateOnly}

func parseSince(raw string) (time.Time, bool) {
	for _, layout := range sinceLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
