package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/prtriage/internal/cli/command/cache"
	"github.com/thomas-vilte/prtriage/internal/cli/command/completion"
	configcmd "github.com/thomas-vilte/prtriage/internal/cli/command/config"
	"github.com/thomas-vilte/prtriage/internal/cli/command/rank"
	"github.com/thomas-vilte/prtriage/internal/cli/command/score"
	"github.com/thomas-vilte/prtriage/internal/cli/command/serve"
	"github.com/thomas-vilte/prtriage/internal/cli/registry"
	"github.com/thomas-vilte/prtriage/internal/config"
	"github.com/thomas-vilte/prtriage/internal/factory"
	"github.com/thomas-vilte/prtriage/internal/i18n"
	"github.com/thomas-vilte/prtriage/internal/logger"
	"github.com/thomas-vilte/prtriage/internal/ui"
	"github.com/thomas-vilte/prtriage/internal/version"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	translations, err := i18n.NewTranslations(config.LangEN)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error loading translations: %v\n", err)
		return 1
	}

	cfgApp, err := config.Load(configPathFromArgs(args))
	if err != nil {
		ui.HandleAppError(os.Stderr, err, translations)
		return 1
	}
	if err := translations.SetLanguage(config.NormalizeLanguage(cfgApp.Language)); err != nil {
		logger.Warn(context.Background(), "falling back to English", "language", cfgApp.Language)
	}

	errLog := logger.NewErrorLog(logger.DefaultStoreSize)
	serviceFactory := factory.NewFactory(cfgApp, errLog)
	defer func() { _ = serviceFactory.Close() }()

	app, err := newApp(cfgApp, translations, serviceFactory, errLog)
	if err != nil {
		ui.HandleAppError(os.Stderr, err, translations)
		return 1
	}

	if err := app.Run(context.Background(), args); err != nil {
		ui.StopActiveSpinner()
		ui.HandleAppError(os.Stderr, err, translations)
		return 1
	}
	return 0
}

func newApp(cfgApp *config.Config, t *i18n.Translations, f *factory.Factory, errLog *logger.ErrorLog) (*cli.Command, error) {
	commands := registry.NewRegistry(cfgApp, t)
	for name, cmdFactory := range map[string]registry.CommandFactory{
		"rank":       rank.NewRankCommandFactory(f),
		"score":      score.NewScoreCommandFactory(f),
		"serve":      serve.NewServeCommandFactory(f, errLog),
		"config":     configcmd.NewConfigCommandFactory(),
		"cache":      cache.NewCacheCommandFactory(),
		"completion": completion.NewCompletionCommandFactory(),
	} {
		if err := commands.Register(name, cmdFactory); err != nil {
			return nil, err
		}
	}

	return &cli.Command{
		Name:        "prtriage",
		Usage:       t.GetMessage("app_usage", 0, nil),
		Version:     version.Version,
		Description: t.GetMessage("app_description", 0, nil),
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Usage: t.GetMessage("flags.debug", 0, nil)},
			&cli.BoolFlag{Name: "verbose", Usage: t.GetMessage("flags.verbose", 0, nil)},
			&cli.StringFlag{Name: "config", Usage: t.GetMessage("flags.config", 0, nil), Value: cfgApp.PathFile},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logger.Initialize(cmd.Bool("debug"), cmd.Bool("verbose"))
			return ctx, nil
		},
		Commands:              commands.CreateCommands(),
		EnableShellCompletion: true,
	}, nil
}

// configPathFromArgs finds --config before the CLI is built, since the
// configuration decides the language of every command description.
func configPathFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		if v, ok := strings.CutPrefix(arg, "--config="); ok {
			return v
		}
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}
