package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdmleite/webship/internal/prompt"
	"github.com/pdmleite/webship/internal/state"
	"github.com/pdmleite/webship/pkg/database"
)

var (
	flagHistoryLimit    int
	flagHistoryPlatform string
	flagHistoryProject  string
	flagHistoryJSON     bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past deployments",
	Long: `History lists recorded deployments, newest first. Every deploy attempt
is recorded, including failures, so this doubles as a quick audit of what
went where.`,
	RunE: runHistory,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all recorded deployments",
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "maximum number of deployments to show")
	historyCmd.Flags().StringVar(&flagHistoryPlatform, "platform", "", "only show deployments to this platform")
	historyCmd.Flags().StringVar(&flagHistoryProject, "project", "", "only show deployments whose path contains this")
	historyCmd.Flags().BoolVar(&flagHistoryJSON, "json", false, "print history as JSON")

	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	db, repo, err := openHistory()
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer func() { _ = database.Close(db) }()

	ctx := cmd.Context()
	deployments, err := repo.List(ctx, state.Filter{
		Platform:    flagHistoryPlatform,
		ProjectPath: flagHistoryProject,
		Limit:       flagHistoryLimit,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if flagHistoryJSON {
		data, err := json.MarshalIndent(deployments, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode history: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if len(deployments) == 0 {
		fmt.Fprintln(out, "No deployments recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tPROJECT\tPLATFORM\tTARGET\tSTATUS\tDURATION\tURL")
	for _, d := range deployments {
		target := "draft"
		if d.Prod {
			target = "production"
		}

		detail := d.URL
		if d.Status == state.StatusFailed {
			detail = truncate(d.Error, 48)
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			d.CreatedAt.Format("2006-01-02 15:04"),
			d.ProjectName,
			d.Platform,
			target,
			d.Status,
			(time.Duration(d.DurationMS) * time.Millisecond).Round(time.Second),
			detail,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	succeeded, err := repo.CountByStatus(ctx, state.StatusSucceeded)
	if err != nil {
		return err
	}
	failed, err := repo.CountByStatus(ctx, state.StatusFailed)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%s succeeded, %s failed overall\n", green(succeeded), red(failed))

	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	db, repo, err := openHistory()
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer func() { _ = database.Close(db) }()

	// Scripted runs must opt in with --yes; the interactive default is no
	confirmed := flagYes
	if !confirmed {
		confirmed, err = prompt.New(false).Confirm("Delete all recorded deployments?", false)
		if err != nil {
			return err
		}
	}
	if !confirmed {
		cmd.Println("Nothing deleted.")
		return nil
	}

	removed, err := repo.Clear(cmd.Context())
	if err != nil {
		return err
	}

	cmd.Printf("Deleted %d deployment record(s)\n", removed)
	return nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
