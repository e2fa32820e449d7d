package config

import (
	"sort"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/thomas-vilte/prtriage/internal/errors"
	"github.com/thomas-vilte/prtriage/internal/filters"
)

type setter func(c *Config, value string) error

func intSetter(dst func(*Config) *int) setter {
	return func(c *Config, value string) error {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return err
		}
		*dst(c) = n
		return nil
	}
}

func int64Setter(dst func(*Config) *int64) setter {
	return func(c *Config, value string) error {
		n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return err
		}
		*dst(c) = n
		return nil
	}
}

func stringSetter(dst func(*Config) *string) setter {
	return func(c *Config, value string) error {
		*dst(c) = strings.TrimSpace(value)
		return nil
	}
}

func boolSetter(dst func(*Config) *bool) setter {
	return func(c *Config, value string) error {
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return err
		}
		*dst(c) = b
		return nil
	}
}

func durationSetter(dst func(*Config) *Duration) setter {
	return func(c *Config, value string) error {
		d, err := time.ParseDuration(strings.TrimSpace(value))
		if err != nil {
			return err
		}
		dst(c).Duration = d
		return nil
	}
}

func labelsSetter(dst func(*Config) *[]string) setter {
	return func(c *Config, value string) error {
		*dst(c) = filters.ParseLabels(value)
		return nil
	}
}

func weightSetter(name string) setter {
	return func(c *Config, value string) error {
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return err
		}
		return c.Weights.Set(name, v)
	}
}

var setters = map[string]setter{
	"language":       stringSetter(func(c *Config) *string { return &c.Language }),
	"github_token":   stringSetter(func(c *Config) *string { return &c.GitHubToken }),
	"github_api_url": stringSetter(func(c *Config) *string { return &c.GitHubAPIURL }),
	"default_limit":  intSetter(func(c *Config) *int { return &c.DefaultLimit }),

	"github_app.app_id":           int64Setter(func(c *Config) *int64 { return &c.GitHubApp.AppID }),
	"github_app.installation_id":  int64Setter(func(c *Config) *int64 { return &c.GitHubApp.InstallationID }),
	"github_app.private_key_path": stringSetter(func(c *Config) *string { return &c.GitHubApp.PrivateKeyPath }),

	"cache.backend":     stringSetter(func(c *Config) *string { return &c.Cache.Backend }),
	"cache.ttl":         durationSetter(func(c *Config) *Duration { return &c.Cache.TTL }),
	"cache.max_entries": intSetter(func(c *Config) *int { return &c.Cache.MaxEntries }),
	"cache.path":        stringSetter(func(c *Config) *string { return &c.Cache.Path }),

	"filters.hold_labels":            labelsSetter(func(c *Config) *[]string { return &c.Filters.HoldLabels }),
	"filters.skip_labels":            labelsSetter(func(c *Config) *[]string { return &c.Filters.SkipLabels }),
	"filters.exclude_drafts":         boolSetter(func(c *Config) *bool { return &c.Filters.ExcludeDrafts }),
	"filters.exclude_approved":       boolSetter(func(c *Config) *bool { return &c.Filters.ExcludeApproved }),
	"filters.exclude_hold":           boolSetter(func(c *Config) *bool { return &c.Filters.ExcludeHold }),
	"filters.exclude_conflicts":      boolSetter(func(c *Config) *bool { return &c.Filters.ExcludeConflicts }),
	"filters.exclude_active_reviews": boolSetter(func(c *Config) *bool { return &c.Filters.ExcludeActiveReviews }),
	"filters.exclude_skip_review":    boolSetter(func(c *Config) *bool { return &c.Filters.ExcludeSkipReview }),

	"weights.lines":         weightSetter("lines"),
	"weights.files":         weightSetter("files"),
	"weights.file_types":    weightSetter("file_types"),
	"weights.deps":          weightSetter("deps"),
	"weights.tests":         weightSetter("tests"),
	"weights.docs":          weightSetter("docs"),
	"weights.cross_cutting": weightSetter("cross_cutting"),

	"server.addr":                   stringSetter(func(c *Config) *string { return &c.Server.Addr }),
	"server.client_rate_per_minute": intSetter(func(c *Config) *int { return &c.Server.ClientRatePerMinute }),
	"server.global_rate_per_minute": intSetter(func(c *Config) *int { return &c.Server.GlobalRatePerMinute }),
	"server.admin_token":            stringSetter(func(c *Config) *string { return &c.Server.AdminToken }),
	"server.shutdown_timeout":       durationSetter(func(c *Config) *Duration { return &c.Server.ShutdownTimeout }),
}

// Keys lists the keys accepted by Set, sorted.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set assigns value to a dotted key and validates the result. On error c is left unchanged.
func (c *Config) Set(key, value string) error {
	set, ok := setters[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return apperrors.ErrUnknownConfigKey.WithContext("key", key)
	}

	next := *c
	next.Filters.HoldLabels = append([]string(nil), c.Filters.HoldLabels...)
	next.Filters.SkipLabels = append([]string(nil), c.Filters.SkipLabels...)

	if err := set(&next, value); err != nil {
		return apperrors.ErrConfigInvalid.WithError(err).WithContext("key", key)
	}
	if err := next.Validate(); err != nil {
		return err
	}

	*c = next
	return nil
}
