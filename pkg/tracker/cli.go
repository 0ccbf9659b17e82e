package tracker

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"github.com/travigo/stopwatch/pkg/api"
	"github.com/travigo/stopwatch/pkg/config"
	"github.com/travigo/stopwatch/pkg/departures"
	"github.com/travigo/stopwatch/pkg/redis_client"
	"github.com/travigo/stopwatch/pkg/stopcache"
	"github.com/urfave/cli/v2"
)

func loadSettings(c *cli.Context) (*config.Settings, error) {
	settings, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	settings.UseLocation()

	return settings, nil
}

func RegisterCLI() *cli.Command {
	configFlag := &cli.StringFlag{
		Name:  "config",
		Value: config.DefaultPath,
		Usage: "settings file to load",
	}

	return &cli.Command{
		Name:  "tracker",
		Usage: "Track departures of the configured stops",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run the refresh loop until interrupted",
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{
						Name:  "listen",
						Usage: "also serve the web api on this listen target",
					},
				},
				Action: func(c *cli.Context) error {
					settings, err := loadSettings(c)
					if err != nil {
						return err
					}

					client := settings.DigitransitClient()
					tracker := NewTracker(client, settings.StopConfigs(), settings.RefreshRate())

					backend := api.Backend{
						Snapshots: tracker,
						Tracker:   tracker,
						Searcher:  client,
					}

					if redis_client.Configured() {
						if err := redis_client.Connect(); err != nil {
							return err
						}

						tracker.Publishers = append(tracker.Publishers, stopcache.NewSnapshotMirror(redis_client.Client, 3*settings.RefreshRate()))
						backend.Searcher = stopcache.NewSearchCache(redis_client.Client, client)
					}

					ctx, cancel := context.WithCancel(c.Context)
					defer cancel()

					go func() {
						if err := tracker.Run(ctx); err != nil {
							log.Error().Err(err).Msg("Departure tracker stopped")
						}
					}()

					if listen := c.String("listen"); listen != "" {
						go func() {
							log.Info().Str("listen", listen).Msg("Starting web api")

							if err := api.SetupServer(listen, backend); err != nil {
								log.Error().Err(err).Msg("Web api stopped")
							}
						}()
					}

					signals := make(chan os.Signal, 1)
					signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
					defer signal.Stop(signals)

					<-signals // wait for signal
					go func() {
						<-signals // hard exit on second signal (in case shutdown gets stuck)
						os.Exit(1)
					}()

					return nil
				},
			},
			{
				Name:  "fetch",
				Usage: "fetch a single stop once and print its departures",
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{
						Name:     "stop",
						Usage:    "stop identifier, eg tampere:0835",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "lines",
						Usage: "comma separated line labels, every line when empty",
					},
				},
				Action: func(c *cli.Context) error {
					settings, err := loadSettings(c)
					if err != nil {
						return err
					}

					fetcher := &Fetcher{Source: settings.DigitransitClient()}
					state, err := fetcher.Fetch(c.Context, departures.StopConfig{
						StopID: c.String("stop"),
						Accept: departures.ParseAcceptSet(c.String("lines")),
					})
					if err != nil {
						return err
					}

					pretty.Println(state)

					return nil
				},
			},
			{
				Name:      "search",
				Usage:     "search stops by name",
				ArgsUsage: "<text>",
				Flags:     []cli.Flag{configFlag},
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return cli.Exit("search text is required", 1)
					}

					settings, err := loadSettings(c)
					if err != nil {
						return err
					}

					results, err := settings.DigitransitClient().SearchStops(c.Context, c.Args().First())
					if err != nil {
						return err
					}

					for _, result := range results {
						fmt.Printf("%-16s %s\n", result.StopID(), result.Label)
					}

					return nil
				},
			},
		},
	}
}
