package config

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/prtriage/internal/cli/flags"
	"github.com/thomas-vilte/prtriage/internal/config"
	"github.com/thomas-vilte/prtriage/internal/i18n"
	"github.com/thomas-vilte/prtriage/internal/ui"
)

func (c *ConfigCommandFactory) newInitCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: t.GetMessage("config_init_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "token", Usage: t.GetMessage("config_init_token_flag", 0, nil)},
			&cli.StringFlag{Name: "lang", Usage: t.GetMessage("config_init_lang_flag", 0, nil)},
			&cli.BoolFlag{Name: "force", Usage: t.GetMessage("config_init_force_flag", 0, nil)},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := flags.Stdout(cmd)

			if _, err := os.Stat(cfg.PathFile); err == nil && !cmd.Bool("force") && !cmd.IsSet("token") && !cmd.IsSet("lang") {
				ui.PrintWarning(w, t.GetMessage("config_init_exists", 0, map[string]interface{}{"Path": cfg.PathFile}))
				return nil
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}

			next := config.Default()
			if !cmd.Bool("force") {
				*next = *cfg
			}
			next.PathFile = cfg.PathFile

			if cmd.IsSet("lang") {
				next.Language = config.NormalizeLanguage(cmd.String("lang"))
			}
			if cmd.IsSet("token") {
				next.GitHubToken = cmd.String("token")
			}

			if err := config.Save(next); err != nil {
				return err
			}
			*cfg = *next

			ui.PrintSuccess(w, t.GetMessage("config_init_saved", 0, map[string]interface{}{"Path": cfg.PathFile}))
			if cfg.Token() == "" && !cfg.UsesGitHubApp() {
				ui.PrintInfo(w, t.GetMessage("config_token_hint", 0, nil))
			}
			return nil
		},
	}
}
