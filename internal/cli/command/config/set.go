package config

import (
	"context"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/prtriage/internal/cli/flags"
	"github.com/thomas-vilte/prtriage/internal/config"
	domainErrors "github.com/thomas-vilte/prtriage/internal/errors"
	"github.com/thomas-vilte/prtriage/internal/i18n"
	"github.com/thomas-vilte/prtriage/internal/ui"
)

func (c *ConfigCommandFactory) newSetCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     t.GetMessage("config_set_usage", 0, nil),
		ArgsUsage: "<key> <value>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := flags.Stdout(cmd)

			if cmd.Args().Len() != 2 {
				return domainErrors.ErrUnknownConfigKey.
					WithContext("detail", t.GetMessage("config_set_expected_args", 0, nil)).
					WithSuggestion(strings.Join(config.Keys(), "\n"))
			}
			key, value := cmd.Args().Get(0), cmd.Args().Get(1)

			if err := cfg.Set(key, value); err != nil {
				return err
			}
			if err := config.Save(cfg); err != nil {
				return err
			}

			ui.PrintSuccess(w, t.GetMessage("config_set_saved", 0, map[string]interface{}{"Key": key}))
			return nil
		},
	}
}
