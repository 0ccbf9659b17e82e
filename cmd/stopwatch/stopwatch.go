package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/travigo/stopwatch/pkg/api"
	"github.com/travigo/stopwatch/pkg/board"
	"github.com/travigo/stopwatch/pkg/tracker"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	setupLogging()

	app := &cli.App{
		Name:        "stopwatch",
		Description: "Live departure boards for Digitransit stops",

		Commands: []*cli.Command{
			tracker.RegisterCLI(),
			board.RegisterCLI(),
			api.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}

func setupLogging() {
	if os.Getenv("STOPWATCH_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("STOPWATCH_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}
}
