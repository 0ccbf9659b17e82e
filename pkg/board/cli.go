package board

import (
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/travigo/stopwatch/pkg/config"
	"github.com/travigo/stopwatch/pkg/tracker"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "board",
		Usage: "Terminal departure board for the configured stops",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "draw the board until q is pressed",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "config",
						Value: config.DefaultPath,
						Usage: "settings file to load",
					},
					&cli.StringFlag{
						Name:  "log-file",
						Usage: "write logs to this file instead of discarding them",
					},
					&cli.BoolFlag{
						Name:  "no-colour",
						Usage: "draw without ANSI colours or the alternate screen",
					},
				},
				Action: func(c *cli.Context) error {
					// The board owns the terminal
					var logOutput io.Writer = io.Discard
					if logFile := c.String("log-file"); logFile != "" {
						file, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
						if err != nil {
							return err
						}
						defer file.Close()

						logOutput = file
					}
					log.Logger = log.Output(zerolog.ConsoleWriter{Out: logOutput, NoColor: true})

					settings, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}
					settings.UseLocation()

					departureTracker := tracker.NewTracker(settings.DigitransitClient(), settings.StopConfigs(), settings.RefreshRate())

					ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
					defer stop()

					go func() {
						if err := departureTracker.Run(ctx); err != nil {
							log.Error().Err(err).Msg("Departure tracker stopped")
						}
					}()

					departureBoard := &Board{
						Model: Model{
							Source:   departureTracker,
							Renderer: Renderer{Colour: !c.Bool("no-colour")},
						},
						Input:     os.Stdin,
						Output:    os.Stdout,
						AltScreen: !c.Bool("no-colour"),
					}

					return departureBoard.Run(ctx)
				},
			},
		},
	}
}

var _ Source = (*tracker.Tracker)(nil)
