package models

import "time"

type (
	// ExcludedPR records why a pull request was left out of a ranking.
	ExcludedPR struct {
		Number int    `json:"number" yaml:"number"`
		Title  string `json:"title" yaml:"title"`
		Reason string `json:"reason" yaml:"reason"`
	}

	// RankResult is the outcome of ranking the open pull requests of one repository.
	RankResult struct {
		PRs       []FilteredPR `json:"prs" yaml:"prs"`
		Total     int          `json:"total" yaml:"total"`
		Filtered  int          `json:"filtered" yaml:"filtered"`
		Owner     string       `json:"owner" yaml:"owner"`
		Repo      string       `json:"repo" yaml:"repo"`
		FetchedAt time.Time    `json:"fetchedAt" yaml:"fetchedAt"`
		Cached    bool         `json:"cached" yaml:"cached"`
		Excluded  []ExcludedPR `json:"excluded,omitempty" yaml:"excluded,omitempty"`
	}
)
