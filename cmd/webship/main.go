package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pdmleite/webship/internal/cli/commands"
)

func main() {
	// Logs go to stderr so vendor CLI output on stdout stays clean
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	commands.Execute()
}
