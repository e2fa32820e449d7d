package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/thomas-vilte/prtriage/internal/filters"
	"github.com/thomas-vilte/prtriage/internal/logger"
	"github.com/thomas-vilte/prtriage/internal/models"
	"github.com/thomas-vilte/prtriage/internal/services"
)

const (
	serverReadTimeout  = 15 * time.Second
	serverWriteTimeout = 60 * time.Second
	serverIdleTimeout  = 120 * time.Second
	errorSource        = "api"
)

// Ranker is the part of services.RankingService the API needs.
type Ranker interface {
	Rank(ctx context.Context, req services.RankRequest) (*models.RankResult, error)
}

type Options struct {
	Addr                string
	ClientRatePerMinute int
	GlobalRatePerMinute int
	AdminToken          string
	TokenConfigured     bool
	Filters             filters.Config
	ShutdownTimeout     time.Duration
}

type Server struct {
	ranker  Ranker
	errLog  *logger.ErrorLog
	opts    Options
	clients *clientLimiter
	global  *windowLimiter
	now     func() time.Time
}

func New(ranker Ranker, errLog *logger.ErrorLog, opts Options) *Server {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	return &Server{
		ranker:  ranker,
		errLog:  errLog,
		opts:    opts,
		clients: newClientLimiter(opts.ClientRatePerMinute),
		global:  newWindowLimiter(opts.GlobalRatePerMinute),
		now:     time.Now,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/prs", s.handlePRs)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/logs/{category}", s.requireAdmin(s.handleGetLogs))
	mux.HandleFunc("DELETE /api/logs/{category}", s.requireAdmin(s.handleClearLogs))
	return s.withRequestLogging(mux)
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
		IdleTimeout:  serverIdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	sweep := time.NewTicker(clientIdleTTL)
	defer sweep.Stop()

	for {
		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-sweep.C:
			s.clients.sweep(s.now())
		case <-ctx.Done():
			logger.Info(ctx, "shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			return nil
		}
	}
}

func (s *Server) withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		ctx := logger.With(r.Context(), "method", r.Method, "path", r.URL.Path)

		next.ServeHTTP(rec, r.WithContext(ctx))

		logger.Debug(ctx, "request served", "status", rec.status, "duration", time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
