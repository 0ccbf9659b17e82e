package api

import (
	"github.com/rs/zerolog/log"
	"github.com/travigo/stopwatch/pkg/config"
	"github.com/travigo/stopwatch/pkg/redis_client"
	"github.com/travigo/stopwatch/pkg/stopcache"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Serves the departure boards mirrored into Redis",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
						Usage: "listen target for the web server",
					},
					&cli.StringFlag{
						Name:  "config",
						Value: config.DefaultPath,
						Usage: "settings file used for stop search",
					},
				},
				Action: func(c *cli.Context) error {
					if err := redis_client.Connect(); err != nil {
						return err
					}

					backend := Backend{
						Snapshots: stopcache.NewSnapshotMirror(redis_client.Client, 0),
					}

					// Search needs an API key, the mirrored boards do not
					if settings, err := config.Load(c.String("config")); err == nil {
						backend.Searcher = stopcache.NewSearchCache(redis_client.Client, settings.DigitransitClient())
					} else {
						log.Warn().Err(err).Msg("Stop search disabled")
					}

					log.Info().Str("listen", c.String("listen")).Msg("Starting web api")

					return SetupServer(c.String("listen"), backend)
				},
			},
		},
	}
}
