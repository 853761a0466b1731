package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdmleite/webship/internal/platform"
	"github.com/pdmleite/webship/internal/runner"
	"github.com/pdmleite/webship/pkg/database"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check vendor CLIs and local setup",
	Long: `Doctor checks each supported platform CLI: whether it is installed, which
version is on PATH and whether you are logged in. It also verifies that the
history database can be opened. Doctor only reports; it never changes
anything.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, bold("Platform CLIs"))
	for _, plat := range platform.All() {
		checkPlatformCLI(cmd.Context(), out, plat)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, bold("History database"))
	checkDatabase(out)

	return nil
}

func checkPlatformCLI(ctx context.Context, out io.Writer, plat platform.Platform) {
	cli := runner.New(plat.Binary())
	if !cli.Available() {
		fmt.Fprintf(out, "  %s %s: %s not installed\n", red("✖"), plat.DisplayName(), plat.Binary())
		fmt.Fprintf(out, "      %s\n", yellow(plat.InstallHint()))
		return
	}

	versionCtx, cancel := context.WithTimeout(ctx, cfg.Timeouts.Check)
	defer cancel()

	version, err := cli.Version(versionCtx)
	if err != nil || version == "" {
		version = "version unknown"
	}

	authCtx, cancelAuth := context.WithTimeout(ctx, cfg.Timeouts.Check)
	defer cancelAuth()

	result, err := cli.RunQuiet(authCtx, "", plat.AuthCheckArgs()...)
	loggedIn := err == nil && result != nil && plat.AuthOK(result.Stdout+"\n"+result.Stderr)

	if loggedIn {
		fmt.Fprintf(out, "  %s %s: %s, logged in\n", green("✔"), plat.DisplayName(), version)
		return
	}

	fmt.Fprintf(out, "  %s %s: %s, not logged in\n", yellow("!"), plat.DisplayName(), version)
	fmt.Fprintf(out, "      %s\n", yellow(plat.LoginHint()))
}

func checkDatabase(out io.Writer) {
	db, err := database.New(database.Config{Path: cfg.Database.Path, LogLevel: effectiveLogLevel()})
	if err != nil {
		fmt.Fprintf(out, "  %s %s: %v\n", red("✖"), cfg.Database.Path, err)
		return
	}
	defer func() { _ = database.Close(db) }()

	if err := database.HealthCheck(db); err != nil {
		fmt.Fprintf(out, "  %s %s: %v\n", red("✖"), cfg.Database.Path, err)
		return
	}

	fmt.Fprintf(out, "  %s %s\n", green("✔"), cfg.Database.Path)
}
