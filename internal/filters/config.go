package filters

// Config selects which pull requests are left out of a ranking.
// Labels are matched case-insensitively.
type Config struct {
	HoldLabels           []string `toml:"hold_labels" json:"holdLabels" yaml:"holdLabels"`
	SkipLabels           []string `toml:"skip_labels" json:"skipLabels" yaml:"skipLabels"`
	ExcludeDrafts        bool     `toml:"exclude_drafts" json:"excludeDrafts" yaml:"excludeDrafts"`
	ExcludeApproved      bool     `toml:"exclude_approved" json:"excludeApproved" yaml:"excludeApproved"`
	ExcludeHold          bool     `toml:"exclude_hold" json:"excludeHold" yaml:"excludeHold"`
	ExcludeConflicts     bool     `toml:"exclude_conflicts" json:"excludeConflicts" yaml:"excludeConflicts"`
	ExcludeActiveReviews bool     `toml:"exclude_active_reviews" json:"excludeActiveReviews" yaml:"excludeActiveReviews"`
	ExcludeSkipReview    bool     `toml:"exclude_skip_review" json:"excludeSkipReview" yaml:"excludeSkipReview"`
}

// DefaultConfig keeps conflicting and actively reviewed pull requests:
// they still need a reviewer.
func DefaultConfig() Config {
	return Config{
		HoldLabels:           []string{"hold", "on-hold", "do-not-merge", "wip", "blocked"},
		SkipLabels:           []string{"skip-review", "no-review", "auto-merge"},
		ExcludeDrafts:        true,
		ExcludeApproved:      true,
		ExcludeHold:          true,
		ExcludeConflicts:     false,
		ExcludeActiveReviews: false,
		ExcludeSkipReview:    true,
	}
}
