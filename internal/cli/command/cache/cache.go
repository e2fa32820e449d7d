package cache

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/prtriage/internal/cache"
	"github.com/thomas-vilte/prtriage/internal/cli/flags"
	"github.com/thomas-vilte/prtriage/internal/config"
	"github.com/thomas-vilte/prtriage/internal/i18n"
	"github.com/thomas-vilte/prtriage/internal/ui"
)

type expirer interface {
	CleanExpired() (int, error)
}

type CacheCommandFactory struct{}

func NewCacheCommandFactory() *CacheCommandFactory {
	return &CacheCommandFactory{}
}

func (c *CacheCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: t.GetMessage("cache.usage", 0, nil),
		Commands: []*cli.Command{
			{
				Name:  "clean",
				Usage: t.GetMessage("cache.clean_usage", 0, nil),
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "expired",
						Usage: t.GetMessage("cache.flag_expired", 0, nil),
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					w := flags.Stdout(cmd)

					if cfg.Cache.Backend != config.CacheSQLite {
						ui.PrintInfo(w, t.GetMessage("cache.nothing_to_clean", 0, map[string]interface{}{"Backend": cfg.Cache.Backend}))
						return nil
					}

					store, err := cache.New(cfg.Cache)
					if err != nil {
						return err
					}
					defer func() { _ = store.Close() }()

					if cmd.Bool("expired") {
						if e, ok := store.(expirer); ok {
							n, err := e.CleanExpired()
							if err != nil {
								return fmt.Errorf(t.GetMessage("cache.error_clean", 0, nil)+": %w", err)
							}
							ui.PrintSuccess(w, t.GetMessage("cache.expired_cleaned", n, map[string]interface{}{"Count": n}))
							return nil
						}
					}

					if err := store.Clean(); err != nil {
						return fmt.Errorf(t.GetMessage("cache.error_clean", 0, nil)+": %w", err)
					}
					ui.PrintSuccess(w, t.GetMessage("cache.cleaned", 0, nil))
					return nil
				},
			},
		},
	}
}
