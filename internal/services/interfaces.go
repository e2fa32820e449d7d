package services

import (
	"context"

	"github.com/thomas-vilte/prtriage/internal/filters"
	"github.com/thomas-vilte/prtriage/internal/models"
)

// Ranking is what the CLI commands and the HTTP API need from RankingService.
type Ranking interface {
	Rank(ctx context.Context, req RankRequest) (*models.RankResult, error)
	RankMany(ctx context.Context, reqs []RankRequest) ([]*models.RankResult, error)
	ScoreOne(ctx context.Context, owner, repo string, number int, cfg filters.Config) (*ScoreReport, error)
}

var _ Ranking = (*RankingService)(nil)
