package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pdmleite/webship/internal/deploy"
	"github.com/pdmleite/webship/internal/prompt"
	"github.com/pdmleite/webship/pkg/database"
)

var (
	flagPlatform   string
	flagProd       bool
	flagBuildCmd   string
	flagPublishDir string
	flagSkipBuild  bool
	flagMessage    string
	flagSave       bool
)

var deployCmd = &cobra.Command{
	Use:   "deploy [dir]",
	Short: "Deploy a web project",
	Long: `Deploy detects the project type, fills in build settings from saved
answers and prompts, generates the platform config when needed, runs the
build and hands the result to the platform's own CLI.

The target directory defaults to the current one. Answers from the first
run are saved to .webship.yaml so repeat deploys go straight through.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDeploy,
}

func init() {
	deployCmd.Flags().StringVarP(&flagPlatform, "platform", "p", "", "target platform: vercel, netlify or firebase")
	deployCmd.Flags().BoolVar(&flagProd, "prod", false, "deploy to production instead of a draft")
	deployCmd.Flags().StringVar(&flagBuildCmd, "build-cmd", "", "build command, overriding detection")
	deployCmd.Flags().StringVar(&flagPublishDir, "publish-dir", "", "directory to publish, overriding detection")
	deployCmd.Flags().BoolVar(&flagSkipBuild, "skip-build", false, "deploy the publish directory as-is")
	deployCmd.Flags().StringVarP(&flagMessage, "message", "m", "", "deploy message, where the platform supports one")
	deployCmd.Flags().BoolVar(&flagSave, "save", false, "write the resolved settings to .webship.yaml")

	rootCmd.AddCommand(deployCmd)
}

func runDeploy(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// History is best effort; a broken database must not block a deploy
	var tracker *deploy.Tracker
	db, repo, err := openHistory()
	if err != nil {
		log.Warn().Err(err).Msg("History database unavailable, this deployment will not be recorded")
	} else {
		defer func() { _ = database.Close(db) }()
		tracker = deploy.NewTracker(repo)
	}

	opts := deploy.Options{
		Platform:     flagPlatform,
		Prod:         flagProd,
		BuildCommand: flagBuildCmd,
		PublishDir:   flagPublishDir,
		SkipBuild:    flagSkipBuild,
		Message:      flagMessage,
		Save:         flagSave,
	}
	if len(args) > 0 {
		opts.Dir = args[0]
	}

	service := deploy.NewService(deploy.ServiceConfig{
		Prompter:        prompt.New(flagYes),
		Tracker:         tracker,
		Out:             cmd.OutOrStdout(),
		DefaultPlatform: cfg.Defaults.Platform,
		BuildTimeout:    cfg.Timeouts.Build,
		DeployTimeout:   cfg.Timeouts.Deploy,
		CheckTimeout:    cfg.Timeouts.Check,
	})

	_, err = service.Deploy(ctx, opts)
	return err
}
