package services

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/thomas-vilte/prtriage/internal/cache"
	"github.com/thomas-vilte/prtriage/internal/config"
	"github.com/thomas-vilte/prtriage/internal/filters"
	"github.com/thomas-vilte/prtriage/internal/logger"
	"github.com/thomas-vilte/prtriage/internal/models"
	"github.com/thomas-vilte/prtriage/internal/scoring"
	"github.com/thomas-vilte/prtriage/internal/vcs"
)

// MaxConcurrentRepos bounds RankMany.
const MaxConcurrentRepos = 4

type (
	// RankRequest describes one repository to rank. A zero Limit means config.DefaultLimit.
	RankRequest struct {
		Owner   string
		Repo    string
		Limit   int
		Filters filters.Config
		NoCache bool
	}

	// ScoreReport is the full verdict for a single pull request.
	ScoreReport struct {
		PR         models.FilteredPR  `json:"pr" yaml:"pr"`
		Filter     filters.Result     `json:"filter" yaml:"filter"`
		Complexity scoring.Complexity `json:"complexity" yaml:"complexity"`
	}

	cachedPRs struct {
		PRs       []models.PullRequest `json:"prs"`
		FetchedAt time.Time            `json:"fetchedAt"`
	}
)

type RankingService struct {
	provider vcs.PRProvider
	cache    cache.Cache
	engine   *scoring.Engine
	now      func() time.Time
}

func NewRankingService(provider vcs.PRProvider, c cache.Cache, engine *scoring.Engine) *RankingService {
	if c == nil {
		c = cache.Noop{}
	}
	return &RankingService{
		provider: provider,
		cache:    c,
		engine:   engine,
		now:      time.Now,
	}
}

// Rank fetches the open pull requests of a repository (from cache when
// possible), filters them and returns the candidates sorted by score.
// Filtering and scoring always run, so cached lists honour new filters.
func (s *RankingService) Rank(ctx context.Context, req RankRequest) (*models.RankResult, error) {
	log := logger.FromContext(ctx)
	limit := config.DefaultLimit
	if req.Limit != 0 {
		limit = ClampLimit(req.Limit)
	}

	prs, fetchedAt, cached, err := s.fetch(ctx, req.Owner, req.Repo, limit, req.NoCache)
	if err != nil {
		return nil, err
	}

	partition := filters.FilterPRs(prs, req.Filters)
	ranked := s.engine.ScorePRs(partition.Passed)

	excluded := make([]models.ExcludedPR, 0, len(partition.Filtered))
	for _, pr := range partition.Filtered {
		verdict := filters.FilterPR(pr, req.Filters)
		excluded = append(excluded, models.ExcludedPR{
			Number: pr.Number,
			Title:  pr.Title,
			Reason: verdict.Reasons[0],
		})
	}

	log.Info("pull requests ranked",
		"repository", req.Owner+"/"+req.Repo,
		"total", len(prs),
		"filtered", len(partition.Filtered),
		"cached", cached)

	return &models.RankResult{
		PRs:       ranked,
		Total:     len(prs),
		Filtered:  len(prs) - len(partition.Passed),
		Owner:     req.Owner,
		Repo:      req.Repo,
		FetchedAt: fetchedAt,
		Cached:    cached,
		Excluded:  excluded,
	}, nil
}

func (s *RankingService) fetch(ctx context.Context, owner, repo string, limit int, noCache bool) ([]models.PullRequest, time.Time, bool, error) {
	key := cache.Key(owner, repo, limit)

	if !noCache {
		raw, found, err := s.cache.Get(key)
		switch {
		case err != nil:
			logger.Warn(ctx, "cache read failed", "key", key, "error", err)
		case found:
			var entry cachedPRs
			if err := json.Unmarshal(raw, &entry); err == nil {
				logger.Debug(ctx, "cache hit", "key", key, "count", len(entry.PRs))
				return entry.PRs, entry.FetchedAt, true, nil
			}
			logger.Warn(ctx, "discarding unreadable cache entry", "key", key)
		}
	}

	prs, err := s.provider.ListOpenPRs(ctx, owner, repo, limit)
	if err != nil {
		return nil, time.Time{}, false, err
	}

	fetchedAt := s.now().UTC()
	if err := s.cache.Set(key, cachedPRs{PRs: prs, FetchedAt: fetchedAt}); err != nil {
		logger.Warn(ctx, "cache write failed", "key", key, "error", err)
	}
	return prs, fetchedAt, false, nil
}

// RankMany ranks several repositories concurrently. Results keep request
// order; the first failure cancels the rest.
func (s *RankingService) RankMany(ctx context.Context, reqs []RankRequest) ([]*models.RankResult, error) {
	results := make([]*models.RankResult, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConcurrentRepos)

	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			res, err := s.Rank(ctx, req)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ScoreOne fetches a single pull request and reports its score together with
// the filter verdict. Excluded pull requests are scored too.
func (s *RankingService) ScoreOne(ctx context.Context, owner, repo string, number int, cfg filters.Config) (*ScoreReport, error) {
	pr, err := s.provider.GetPR(ctx, owner, repo, number)
	if err != nil {
		return nil, err
	}

	score, breakdown := s.engine.ScorePR(*pr)
	return &ScoreReport{
		PR: models.FilteredPR{
			PullRequest:    *pr,
			Score:          score,
			ScoreBreakdown: breakdown,
		},
		Filter:     filters.FilterPR(*pr, cfg),
		Complexity: scoring.ComplexityLabel(score),
	}, nil
}
