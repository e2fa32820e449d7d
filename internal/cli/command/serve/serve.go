package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/prtriage/internal/cli/flags"
	"github.com/thomas-vilte/prtriage/internal/config"
	"github.com/thomas-vilte/prtriage/internal/factory"
	"github.com/thomas-vilte/prtriage/internal/i18n"
	"github.com/thomas-vilte/prtriage/internal/logger"
	"github.com/thomas-vilte/prtriage/internal/server"
	"github.com/thomas-vilte/prtriage/internal/ui"
)

// Runner starts the HTTP server and blocks until ctx is done.
type Runner func(ctx context.Context, srv *server.Server) error

type ServeCommandFactory struct {
	serviceFactory factory.ServingServiceFactory
	errLog         *logger.ErrorLog
	run            Runner
}

func NewServeCommandFactory(f factory.ServingServiceFactory, errLog *logger.ErrorLog) *ServeCommandFactory {
	return &ServeCommandFactory{
		serviceFactory: f,
		errLog:         errLog,
		run: func(ctx context.Context, srv *server.Server) error {
			return srv.Run(ctx)
		},
	}
}

func (f *ServeCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: t.GetMessage("serve.usage", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Value: cfg.Server.Addr,
				Usage: t.GetMessage("serve.flag_addr", 0, nil),
			},
			&cli.BoolFlag{
				Name:  "json-logs",
				Usage: t.GetMessage("serve.flag_json_logs", 0, nil),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Bool("json-logs") {
				logger.InitializeJSON(os.Stderr, cmd.Bool("debug"), true)
			}

			svc, err := f.serviceFactory.CreateServingService(ctx, cfg.Weights)
			if err != nil {
				return err
			}

			srv := server.New(svc, f.errLog, server.Options{
				Addr:                cmd.String("addr"),
				ClientRatePerMinute: cfg.Server.ClientRatePerMinute,
				GlobalRatePerMinute: cfg.Server.GlobalRatePerMinute,
				AdminToken:          cfg.AdminToken(),
				TokenConfigured:     cfg.Token() != "" || cfg.UsesGitHubApp(),
				Filters:             cfg.Filters,
				ShutdownTimeout:     cfg.Server.ShutdownTimeout.Duration,
			})

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			ui.PrintInfo(flags.Stderr(cmd), t.GetMessage("serve.listening", 0, map[string]interface{}{"Addr": cmd.String("addr")}))
			return f.run(ctx, srv)
		},
	}
}
