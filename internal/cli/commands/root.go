package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/pdmleite/webship/internal/state"
	"github.com/pdmleite/webship/pkg/config"
	"github.com/pdmleite/webship/pkg/database"
)

var (
	version = "dev"

	cfg *config.Config

	flagConfig   string
	flagLogLevel string
	flagVerbose  bool
	flagYes      bool
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
)

var rootCmd = &cobra.Command{
	Use:   "webship",
	Short: "webship - deploy web projects to Vercel, Netlify or Firebase Hosting",
	Long: `webship deploys static sites and single-page apps through the hosting
platforms' own CLIs, so authentication and uploads stay with the vendor
tools while webship handles detection, settings and config generation.

Core Flow:
  Project directory → Analyzer → Settings → Platform config → Build → Vendor CLI → URL`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	Version:           version,
	PersistentPreRunE: initApp,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", red("Error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: ~/.config/webship/webship.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose output, shorthand for --log-level debug")
	rootCmd.PersistentFlags().BoolVarP(&flagYes, "yes", "y", false, "answer every prompt with its default")
}

// initApp loads configuration and applies the log level before any
// subcommand runs
func initApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(flagConfig)
	if err != nil {
		return err
	}

	setLogLevel(effectiveLogLevel())
	return nil
}

// effectiveLogLevel resolves the log level, flags beating config
func effectiveLogLevel() string {
	if flagVerbose {
		return "debug"
	}
	if flagLogLevel != "" {
		return flagLogLevel
	}
	if cfg != nil {
		return cfg.Log.Level
	}
	return "info"
}

// setLogLevel sets the global log level
func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// openHistory opens the deployment history database and runs migrations
func openHistory() (*gorm.DB, *state.Repository, error) {
	db, err := database.New(database.Config{
		Path:     cfg.Database.Path,
		LogLevel: effectiveLogLevel(),
	})
	if err != nil {
		return nil, nil, err
	}

	if err := database.Migrate(db, &state.Deployment{}); err != nil {
		_ = database.Close(db)
		return nil, nil, err
	}

	return db, state.NewRepository(db), nil
}
