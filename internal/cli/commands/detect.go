package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdmleite/webship/internal/analyzer"
)

var flagDetectJSON bool

var detectCmd = &cobra.Command{
	Use:   "detect [dir]",
	Short: "Show what webship detects about a project",
	Long: `Detect inspects package.json, lockfiles and framework config files and
reports the framework, package manager and deployment defaults webship
would use, without touching anything.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDetect,
}

func init() {
	detectCmd.Flags().BoolVar(&flagDetectJSON, "json", false, "print the analysis as JSON")

	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	analysis, err := analyzer.New().Analyze(dir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if flagDetectJSON {
		data, err := json.MarshalIndent(analysis, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode analysis: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	fmt.Fprintf(out, "%s %s\n", bold("Project:"), analysis.ProjectName)
	fmt.Fprintf(out, "%s %s\n", bold("Framework:"), analysis.FrameworkName)
	fmt.Fprintf(out, "%s %s\n", bold("Package manager:"), analysis.PackageManager)
	if analysis.BuildCommand != "" {
		fmt.Fprintf(out, "%s %s\n", bold("Build command:"), analysis.BuildCommand)
	} else {
		fmt.Fprintf(out, "%s %s\n", bold("Build command:"), yellow("none detected"))
	}
	fmt.Fprintf(out, "%s %s\n", bold("Publish directory:"), analysis.PublishDir)
	if analysis.DevPort > 0 {
		fmt.Fprintf(out, "%s %d\n", bold("Dev port:"), analysis.DevPort)
	}
	fmt.Fprintf(out, "%s %v\n", bold("Single-page app:"), analysis.SPA)
	if analysis.NodeVersion != "" {
		fmt.Fprintf(out, "%s %s\n", bold("Node version:"), analysis.NodeVersion)
	}

	return nil
}
