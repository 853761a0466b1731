package commands

import (
	"github.com/spf13/cobra"

	"github.com/pdmleite/webship/internal/deploy"
	"github.com/pdmleite/webship/internal/prompt"
)

var flagForce bool

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Configure a project for deployment without deploying it",
	Long: `Init runs detection and the settings questionnaire, generates the
platform config file and saves the answers to .webship.yaml. Nothing is
deployed; run "webship deploy" afterwards.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&flagForce, "force", false, "reconfigure even when .webship.yaml already exists")
	initCmd.Flags().StringVarP(&flagPlatform, "platform", "p", "", "target platform: vercel, netlify or firebase")

	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	opts := deploy.Options{Platform: flagPlatform}
	if len(args) > 0 {
		opts.Dir = args[0]
	}

	service := deploy.NewService(deploy.ServiceConfig{
		Prompter:        prompt.New(flagYes),
		Out:             cmd.OutOrStdout(),
		DefaultPlatform: cfg.Defaults.Platform,
	})

	return service.Setup(cmd.Context(), opts, flagForce)
}
