package filters

import (
	"strings"

	"github.com/thomas-vilte/prtriage/internal/models"
)

// Reasons reported for excluded pull requests, in evaluation order.
const (
	ReasonDraft         = "draft"
	ReasonApproved      = "approved"
	ReasonHoldLabel     = "hold-label"
	ReasonConflicts     = "conflicts"
	ReasonActiveReviews = "active-reviews"
	ReasonSkipReview    = "skip-review"
)

// Result is the verdict for a single pull request.
// Reasons is empty iff Passes is true.
type Result struct {
	Passes  bool     `json:"passes" yaml:"passes"`
	Reasons []string `json:"reasons" yaml:"reasons"`
}

type Partition struct {
	Passed   []models.PullRequest
	Filtered []models.PullRequest
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

func HasApproval(pr models.PullRequest) bool {
	for _, r := range pr.Reviews {
		if r.State == models.ReviewApproved {
			return true
		}
	}
	return false
}

// HasMatchingLabel reports whether any label of pr is in labels.
func HasMatchingLabel(pr models.PullRequest, labels []string) bool {
	if len(labels) == 0 {
		return false
	}
	wanted := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		wanted[normalizeLabel(l)] = struct{}{}
	}
	for _, l := range pr.Labels {
		if _, ok := wanted[normalizeLabel(l.Name)]; ok {
			return true
		}
	}
	return false
}

func HasConflicts(pr models.PullRequest) bool {
	return pr.Mergeable == models.Conflicting
}

func HasActiveReviewers(pr models.PullRequest) bool {
	return len(pr.ReviewRequests) > 0
}

// FilterPR evaluates the gates in priority order and stops at the first one that excludes pr.
func FilterPR(pr models.PullRequest, cfg Config) Result {
	gates := []struct {
		enabled bool
		check   func() bool
		reason  string
	}{
		{cfg.ExcludeDrafts, func() bool { return pr.IsDraft }, ReasonDraft},
		{cfg.ExcludeApproved, func() bool { return HasApproval(pr) }, ReasonApproved},
		{cfg.ExcludeHold, func() bool { return HasMatchingLabel(pr, cfg.HoldLabels) }, ReasonHoldLabel},
		{cfg.ExcludeConflicts, func() bool { return HasConflicts(pr) }, ReasonConflicts},
		{cfg.ExcludeActiveReviews, func() bool { return HasActiveReviewers(pr) }, ReasonActiveReviews},
		{cfg.ExcludeSkipReview, func() bool { return HasMatchingLabel(pr, cfg.SkipLabels) }, ReasonSkipReview},
	}

	for _, g := range gates {
		if g.enabled && g.check() {
			return Result{Passes: false, Reasons: []string{g.reason}}
		}
	}
	return Result{Passes: true, Reasons: []string{}}
}

// FilterPRs splits prs into those that pass and those that do not, keeping input order.
func FilterPRs(prs []models.PullRequest, cfg Config) Partition {
	p := Partition{
		Passed:   make([]models.PullRequest, 0, len(prs)),
		Filtered: make([]models.PullRequest, 0),
	}
	for _, pr := range prs {
		if FilterPR(pr, cfg).Passes {
			p.Passed = append(p.Passed, pr)
		} else {
			p.Filtered = append(p.Filtered, pr)
		}
	}
	return p
}
