package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"limitless-sync/internal"
)

var historyLimit int

var (
	historyHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("62"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent sync runs",
	Long: `List the most recent sync runs recorded in the local history database.

The history is informational only; sync resumption is always derived from
the files already present in the vault.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		path, err := cfg.HistoryPath()
		if err != nil {
			return err
		}
		history, err := internal.OpenHistory(path)
		if err != nil {
			return fmt.Errorf("failed to open sync history: %w", err)
		}
		defer func() { _ = history.Close() }()

		runs, err := history.Recent(historyLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			internal.PrintInfo("No sync runs recorded yet")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, historyHeaderStyle.Render("STARTED")+"\t"+
			historyHeaderStyle.Render("KIND")+"\t"+
			historyHeaderStyle.Render("PROCESSED")+"\t"+
			historyHeaderStyle.Render("STATUS"))

		for _, run := range runs {
			status := okStyle.Render(run.Status)
			if run.Status != "ok" {
				status = failStyle.Render(run.Status)
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
				run.StartedAt.Format("2006-01-02 15:04:05"),
				run.Kind, run.Processed, status)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		for _, run := range runs {
			if run.Error != "" {
				internal.LogDebug("Run %s error: %s", run.ID, run.Error)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to show")
}
