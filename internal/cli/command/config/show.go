package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/prtriage/internal/cli/flags"
	"github.com/thomas-vilte/prtriage/internal/config"
	"github.com/thomas-vilte/prtriage/internal/i18n"
	"github.com/thomas-vilte/prtriage/internal/ui"
)

func (c *ConfigCommandFactory) newShowCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: t.GetMessage("config_show_usage", 0, nil),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := flags.Stdout(cmd)
			ui.PrintSectionBanner(w, t.GetMessage("current_config", 0, nil))

			ui.PrintKeyValue(w, t.GetMessage("config_show.path", 0, nil), cfg.PathFile)
			ui.PrintKeyValue(w, "language", cfg.Language)
			ui.PrintKeyValue(w, "default_limit", fmt.Sprint(cfg.DefaultLimit))

			switch {
			case cfg.UsesGitHubApp():
				ui.PrintKeyValue(w, "github_app.app_id", fmt.Sprint(cfg.GitHubApp.AppID))
				ui.PrintKeyValue(w, "github_app.installation_id", fmt.Sprint(cfg.GitHubApp.InstallationID))
			case cfg.Token() != "":
				ui.PrintKeyValue(w, "github_token", config.MaskSecret(cfg.Token()))
			default:
				ui.PrintWarning(w, t.GetMessage("config_show.token_not_set", 0, nil))
			}
			if cfg.GitHubAPIURL != "" {
				ui.PrintKeyValue(w, "github_api_url", cfg.GitHubAPIURL)
			}

			ui.PrintKeyValue(w, "cache.backend", cfg.Cache.Backend)
			if cfg.Cache.Backend != config.CacheNone {
				ui.PrintKeyValue(w, "cache.ttl", cfg.Cache.TTL.String())
				ui.PrintKeyValue(w, "cache.max_entries", fmt.Sprint(cfg.Cache.MaxEntries))
			}

			f := cfg.Filters
			ui.PrintKeyValue(w, "filters.hold_labels", strings.Join(f.HoldLabels, ", "))
			ui.PrintKeyValue(w, "filters.skip_labels", strings.Join(f.SkipLabels, ", "))
			for _, kv := range []struct {
				key string
				on  bool
			}{
				{"filters.exclude_drafts", f.ExcludeDrafts},
				{"filters.exclude_approved", f.ExcludeApproved},
				{"filters.exclude_hold", f.ExcludeHold},
				{"filters.exclude_conflicts", f.ExcludeConflicts},
				{"filters.exclude_active_reviews", f.ExcludeActiveReviews},
				{"filters.exclude_skip_review", f.ExcludeSkipReview},
			} {
				ui.PrintKeyValue(w, kv.key, fmt.Sprint(kv.on))
			}

			wt := cfg.Weights
			ui.PrintKeyValue(w, "weights", fmt.Sprintf("lines=%.2f files=%.2f file_types=%.2f deps=%.2f tests=%.2f docs=%.2f cross_cutting=%.2f",
				wt.Lines, wt.Files, wt.FileTypes, wt.Deps, wt.Tests, wt.Docs, wt.CrossCutting))

			ui.PrintKeyValue(w, "server.addr", cfg.Server.Addr)
			if cfg.AdminToken() != "" {
				ui.PrintKeyValue(w, "server.admin_token", config.MaskSecret(cfg.AdminToken()))
			}
			return nil
		},
	}
}
