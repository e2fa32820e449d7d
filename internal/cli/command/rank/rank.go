package rank

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/prtriage/internal/cli/flags"
	"github.com/thomas-vilte/prtriage/internal/config"
	domainErrors "github.com/thomas-vilte/prtriage/internal/errors"
	"github.com/thomas-vilte/prtriage/internal/factory"
	"github.com/thomas-vilte/prtriage/internal/i18n"
	"github.com/thomas-vilte/prtriage/internal/logger"
	"github.com/thomas-vilte/prtriage/internal/models"
	"github.com/thomas-vilte/prtriage/internal/scoring"
	"github.com/thomas-vilte/prtriage/internal/services"
	"github.com/thomas-vilte/prtriage/internal/ui"
)

const weightSumTolerance = 0.01

type RankCommandFactory struct {
	serviceFactory factory.RankingServiceFactory
}

func NewRankCommandFactory(f factory.RankingServiceFactory) *RankCommandFactory {
	return &RankCommandFactory{serviceFactory: f}
}

func (f *RankCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	cmdFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "limit",
			Aliases: []string{"l"},
			Value:   strconv.Itoa(cfg.DefaultLimit),
			Usage:   t.GetMessage("rank.flag_limit", 0, nil),
		},
		&cli.StringFlag{
			Name:  "sort",
			Value: "score",
			Usage: t.GetMessage("rank.flag_sort", 0, map[string]interface{}{"Fields": strings.Join(services.SortFields, ", ")}),
		},
		&cli.BoolFlag{Name: "asc", Usage: t.GetMessage("rank.flag_asc", 0, nil)},
		&cli.BoolFlag{Name: "show-filtered", Usage: t.GetMessage("rank.flag_show_filtered", 0, nil)},
		&cli.BoolFlag{Name: "breakdown", Aliases: []string{"b"}, Usage: t.GetMessage("rank.flag_breakdown", 0, nil)},
		&cli.BoolFlag{Name: flags.NoCache, Usage: t.GetMessage("rank.flag_no_cache", 0, nil)},
	}
	cmdFlags = append(cmdFlags, flags.FilterFlags(t)...)
	cmdFlags = append(cmdFlags, flags.ScoringFlags(t)...)

	return &cli.Command{
		Name:      "rank",
		Aliases:   []string{"r"},
		Usage:     t.GetMessage("rank_command_description", 0, nil),
		ArgsUsage: "<owner/repo> [owner/repo...]",
		Flags:     cmdFlags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return f.run(ctx, cmd, t, cfg)
		},
	}
}

func (f *RankCommandFactory) run(ctx context.Context, cmd *cli.Command, t *i18n.Translations, cfg *config.Config) error {
	if cmd.Args().Len() == 0 {
		return domainErrors.ErrInvalidRepository.
			WithContext("detail", t.GetMessage("rank.error_no_repository", 0, nil)).
			WithSuggestion("prtriage rank owner/repo")
	}

	format, err := flags.Format(cmd)
	if err != nil {
		return err
	}
	if err := services.ValidateSortField(cmd.String("sort")); err != nil {
		return err
	}
	weights, err := flags.Weights(cmd, cfg.Weights)
	if err != nil {
		return err
	}
	if weightsNeedWarning(weights) {
		ui.PrintWarning(flags.Stderr(cmd), t.GetMessage("rank.weights_sum_warning", 0, map[string]interface{}{"Sum": fmt.Sprintf("%.2f", weights.Sum())}))
	}

	filterCfg := flags.FilterConfig(cmd, cfg.Filters)
	reqs := make([]services.RankRequest, 0, cmd.Args().Len())
	for _, arg := range cmd.Args().Slice() {
		owner, repo, err := services.ParseRepository(arg)
		if err != nil {
			return err
		}
		reqs = append(reqs, services.RankRequest{
			Owner:   owner,
			Repo:    repo,
			Limit:   services.ParseLimit(cmd.String("limit")),
			Filters: filterCfg,
			NoCache: cmd.Bool(flags.NoCache),
		})
	}

	svc, err := f.serviceFactory.CreateRankingService(ctx, weights)
	if err != nil {
		return err
	}

	results, err := f.fetch(ctx, cmd, t, svc, reqs, format)
	if err != nil {
		return err
	}

	for _, res := range results {
		if err := services.Sort(res.PRs, cmd.String("sort"), cmd.Bool("asc")); err != nil {
			return err
		}
	}

	return render(cmd, t, results, format)
}

// fetch shows a spinner only for interactive table output.
func (f *RankCommandFactory) fetch(ctx context.Context, cmd *cli.Command, t *i18n.Translations, svc services.Ranking, reqs []services.RankRequest, format ui.Format) ([]*models.RankResult, error) {
	names := make([]string, len(reqs))
	for i, r := range reqs {
		names[i] = r.Owner + "/" + r.Repo
	}
	logger.Debug(ctx, "ranking repositories", "repositories", names)

	rank := func() ([]*models.RankResult, error) {
		if len(reqs) == 1 {
			res, err := svc.Rank(ctx, reqs[0])
			if err != nil {
				return nil, err
			}
			return []*models.RankResult{res}, nil
		}
		return svc.RankMany(ctx, reqs)
	}

	if format != ui.FormatTable || color.NoColor {
		return rank()
	}

	var results []*models.RankResult
	err := ui.WithSpinner(flags.Stderr(cmd), t.GetMessage("fetching_prs", 0, map[string]interface{}{"Repository": strings.Join(names, ", ")}), func() error {
		var err error
		results, err = rank()
		return err
	})
	return results, err
}

func render(cmd *cli.Command, t *i18n.Translations, results []*models.RankResult, format ui.Format) error {
	w := flags.Stdout(cmd)

	switch format {
	case ui.FormatJSON, ui.FormatYAML:
		var v interface{} = results
		if len(results) == 1 {
			v = results[0]
		}
		if format == ui.FormatJSON {
			return ui.WriteJSON(w, v)
		}
		return ui.WriteYAML(w, v)
	}

	opts := ui.RankingOptions{
		ShowBreakdown: cmd.Bool("breakdown"),
		ShowExcluded:  cmd.Bool("show-filtered"),
	}
	for i, res := range results {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		ui.RenderRanking(w, t, res, opts)
	}
	return nil
}

// weightsNeedWarning reports whether w deviates enough from 1 to warn about.
// Such weights are still used as given.
func weightsNeedWarning(w scoring.Weights) bool {
	return math.Abs(w.Sum()-1) > weightSumTolerance
}
