package filters

import "strings"

const (
	MaxLabels       = 50
	MaxLabelsLength = 2048
)

// Parameter names shared by CLI flags and HTTP query strings.
const (
	ParamHoldLabels           = "holdLabels"
	ParamSkipLabels           = "skipLabels"
	ParamExcludeDrafts        = "excludeDrafts"
	ParamExcludeApproved      = "excludeApproved"
	ParamExcludeHold          = "excludeHold"
	ParamExcludeConflicts     = "excludeConflicts"
	ParamExcludeActiveReviews = "excludeActiveReviews"
	ParamExcludeSkipReview    = "excludeSkipReview"
)

// ParseLabels splits a comma separated list. Oversized input yields no labels.
func ParseLabels(s string) []string {
	if strings.TrimSpace(s) == "" || len(s) > MaxLabelsLength {
		return nil
	}

	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
		if len(out) == MaxLabels {
			break
		}
	}
	return out
}

func ParseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

// Values is the read side of url.Values and similar lookups.
type Values interface {
	Get(key string) string
	Has(key string) bool
}

// FromValues builds a Config from named parameters. Missing booleans and
// empty label lists keep the value from defaults.
func FromValues(v Values, defaults Config) Config {
	cfg := defaults

	if labels := ParseLabels(v.Get(ParamHoldLabels)); len(labels) > 0 {
		cfg.HoldLabels = labels
	}
	if labels := ParseLabels(v.Get(ParamSkipLabels)); len(labels) > 0 {
		cfg.SkipLabels = labels
	}

	flags := map[string]*bool{
		ParamExcludeDrafts:        &cfg.ExcludeDrafts,
		ParamExcludeApproved:      &cfg.ExcludeApproved,
		ParamExcludeHold:          &cfg.ExcludeHold,
		ParamExcludeConflicts:     &cfg.ExcludeConflicts,
		ParamExcludeActiveReviews: &cfg.ExcludeActiveReviews,
		ParamExcludeSkipReview:    &cfg.ExcludeSkipReview,
	}
	for name, dst := range flags {
		if v.Has(name) {
			*dst = ParseBool(v.Get(name))
		}
	}

	return cfg
}
