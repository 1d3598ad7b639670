package main

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/humanscore/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	root := newRootCmd(os.Stdin, os.Stdout)
	if err := fang.Execute(context.Background(), root, fang.WithVersion(app.VersionString())); err != nil {
		os.Exit(1)
	}
}
