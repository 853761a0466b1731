package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pdmleite/webship/internal/state"
	"github.com/pdmleite/webship/pkg/config"
	"github.com/pdmleite/webship/pkg/database"
)

// Creates the history database ahead of first use, mainly for packaging
// checks. The CLI does the same migration lazily, so running this is
// never required.
func main() {
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	log.Info().Msg("Initializing history database...")

	cfg, err := config.Load("")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	db, err := database.New(database.Config{
		Path:     cfg.Database.Path,
		LogLevel: cfg.Log.Level,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}

	if err := database.Migrate(db, &state.Deployment{}); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	if err := database.Close(db); err != nil {
		log.Error().Err(err).Msg("Failed to close database connection")
	}

	fmt.Println("\n✅ History database initialized!")
	fmt.Printf("\nLocation: %s\n", cfg.Database.Path)
	fmt.Println("Tables:")
	fmt.Println("  - deployments")
}
