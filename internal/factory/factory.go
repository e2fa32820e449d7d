package factory

import (
	"context"
	"errors"
	"sync"

	"github.com/thomas-vilte/prtriage/internal/cache"
	"github.com/thomas-vilte/prtriage/internal/config"
	domainErrors "github.com/thomas-vilte/prtriage/internal/errors"
	"github.com/thomas-vilte/prtriage/internal/logger"
	"github.com/thomas-vilte/prtriage/internal/scoring"
	"github.com/thomas-vilte/prtriage/internal/services"
	"github.com/thomas-vilte/prtriage/internal/vcs"
	"github.com/thomas-vilte/prtriage/internal/vcs/github"
)

// RankingServiceFactory builds ranking services on demand, so commands that
// never talk to GitHub do not need a token.
type RankingServiceFactory interface {
	CreateRankingService(ctx context.Context, weights scoring.Weights) (services.Ranking, error)
}

// ServingServiceFactory is RankingServiceFactory for the HTTP server, which
// starts even without credentials.
type ServingServiceFactory interface {
	CreateServingService(ctx context.Context, weights scoring.Weights) (services.Ranking, error)
}

type ProviderBuilder func(ctx context.Context, cfg *config.Config, errLog *logger.ErrorLog) (vcs.PRProvider, error)

type Factory struct {
	cfg         *config.Config
	errLog      *logger.ErrorLog
	newProvider ProviderBuilder

	mu       sync.Mutex
	provider vcs.PRProvider
	cache    cache.Cache
}

func NewFactory(cfg *config.Config, errLog *logger.ErrorLog) *Factory {
	return &Factory{cfg: cfg, errLog: errLog, newProvider: NewGitHubProvider}
}

// WithProviderBuilder replaces the GitHub client, mainly for tests.
func (f *Factory) WithProviderBuilder(b ProviderBuilder) *Factory {
	f.newProvider = b
	return f
}

// NewGitHubProvider authenticates as a GitHub App when one is configured and
// with the personal token otherwise.
func NewGitHubProvider(ctx context.Context, cfg *config.Config, errLog *logger.ErrorLog) (vcs.PRProvider, error) {
	opts := github.Options{
		Token:    cfg.Token(),
		APIURL:   cfg.GitHubAPIURL,
		ErrorLog: errLog,
	}
	if cfg.UsesGitHubApp() {
		creds, err := github.LoadAppCredentials(cfg.GitHubApp.AppID, cfg.GitHubApp.InstallationID, cfg.GitHubApp.PrivateKeyPath)
		if err != nil {
			return nil, err
		}
		opts.App = creds
	}
	return github.NewGitHubClient(ctx, opts)
}

func (f *Factory) CreateRankingService(ctx context.Context, weights scoring.Weights) (services.Ranking, error) {
	provider, err := f.Provider(ctx)
	if err != nil {
		return nil, err
	}
	c, err := f.Cache()
	if err != nil {
		return nil, err
	}
	return services.NewRankingService(provider, c, scoring.NewEngine(weights)), nil
}

func (f *Factory) CreateServingService(ctx context.Context, weights scoring.Weights) (services.Ranking, error) {
	provider, err := f.ProviderOrUnavailable(ctx)
	if err != nil {
		return nil, err
	}
	c, err := f.Cache()
	if err != nil {
		return nil, err
	}
	return services.NewRankingService(provider, c, scoring.NewEngine(weights)), nil
}

// Provider returns the shared PR provider, creating it on first use.
func (f *Factory) Provider(ctx context.Context) (vcs.PRProvider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.provider != nil {
		return f.provider, nil
	}
	p, err := f.newProvider(ctx, f.cfg, f.errLog)
	if err != nil {
		return nil, err
	}
	f.provider = p
	return p, nil
}

// ProviderOrUnavailable is Provider for long running processes: a missing
// token yields a provider that reports it on every call.
func (f *Factory) ProviderOrUnavailable(ctx context.Context) (vcs.PRProvider, error) {
	p, err := f.Provider(ctx)
	if errors.Is(err, domainErrors.ErrTokenMissing) {
		logger.Warn(ctx, "no GitHub token configured, pull request requests will fail")
		return vcs.Unavailable{Err: err}, nil
	}
	return p, err
}

func (f *Factory) Cache() (cache.Cache, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cache != nil {
		return f.cache, nil
	}
	c, err := cache.New(f.cfg.Cache)
	if err != nil {
		return nil, err
	}
	f.cache = c
	return c, nil
}

func (f *Factory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cache == nil {
		return nil
	}
	err := f.cache.Close()
	f.cache = nil
	return err
}
