package score

import (
	"context"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/prtriage/internal/cli/flags"
	"github.com/thomas-vilte/prtriage/internal/config"
	domainErrors "github.com/thomas-vilte/prtriage/internal/errors"
	"github.com/thomas-vilte/prtriage/internal/factory"
	"github.com/thomas-vilte/prtriage/internal/i18n"
	"github.com/thomas-vilte/prtriage/internal/regex"
	"github.com/thomas-vilte/prtriage/internal/services"
	"github.com/thomas-vilte/prtriage/internal/ui"
)

type ScoreCommandFactory struct {
	serviceFactory factory.RankingServiceFactory
}

func NewScoreCommandFactory(f factory.RankingServiceFactory) *ScoreCommandFactory {
	return &ScoreCommandFactory{serviceFactory: f}
}

func (f *ScoreCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	cmdFlags := []cli.Flag{
		&cli.BoolFlag{Name: "files", Aliases: []string{"f"}, Usage: t.GetMessage("score.flag_files", 0, nil)},
	}
	cmdFlags = append(cmdFlags, flags.FilterFlags(t)...)
	cmdFlags = append(cmdFlags, flags.ScoringFlags(t)...)

	return &cli.Command{
		Name:      "score",
		Aliases:   []string{"s"},
		Usage:     t.GetMessage("score.usage", 0, nil),
		ArgsUsage: "<owner/repo> <number> | <pull request URL>",
		Flags:     cmdFlags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			owner, repo, number, err := parseTarget(cmd.Args().Slice())
			if err != nil {
				return err
			}
			format, err := flags.Format(cmd)
			if err != nil {
				return err
			}
			weights, err := flags.Weights(cmd, cfg.Weights)
			if err != nil {
				return err
			}

			svc, err := f.serviceFactory.CreateRankingService(ctx, weights)
			if err != nil {
				return err
			}

			report, err := svc.ScoreOne(ctx, owner, repo, number, flags.FilterConfig(cmd, cfg.Filters))
			if err != nil {
				return err
			}

			w := flags.Stdout(cmd)
			switch format {
			case ui.FormatJSON:
				return ui.WriteJSON(w, report)
			case ui.FormatYAML:
				return ui.WriteYAML(w, report)
			default:
				ui.RenderScoreReport(w, t, report, cmd.Bool("files"))
				return nil
			}
		},
	}
}

// parseTarget accepts "owner/repo number" or a single pull request URL.
func parseTarget(args []string) (owner, repo string, number int, err error) {
	switch len(args) {
	case 1:
		m := regex.PRURL.FindStringSubmatch(args[0])
		if m == nil {
			return "", "", 0, domainErrors.ErrInvalidPRNumber.
				WithContext("detail", strconv.Quote(args[0])).
				WithSuggestion("prtriage score owner/repo 123")
		}
		owner, repo, err = services.ValidateRepository(m[1], m[2])
		if err != nil {
			return "", "", 0, err
		}
		number, err = services.ParsePRNumber(m[3])
		return owner, repo, number, err
	case 2:
		owner, repo, err = services.ParseRepository(args[0])
		if err != nil {
			return "", "", 0, err
		}
		number, err = services.ParsePRNumber(args[1])
		return owner, repo, number, err
	default:
		return "", "", 0, domainErrors.ErrInvalidPRNumber.
			WithContext("detail", "expected <owner/repo> <number>").
			WithSuggestion("prtriage score owner/repo 123")
	}
}
