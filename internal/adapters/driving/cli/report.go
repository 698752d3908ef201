package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/core/domain"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the latest run's stage summaries and broken URLs",
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	if reportStore == nil {
		return errors.New("report store not configured")
	}

	run, err := reportStore.LatestRun(cmd.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			cmd.Println("No runs recorded yet.")
			return nil
		}
		return fmt.Errorf("load report: %w", err)
	}

	cmd.Printf("Run %s started %s", run.ID, run.StartedAt.Format("2006-01-02 15:04:05"))
	if run.DryRun {
		cmd.Print(" (dry run)")
	}
	if run.FinishedAt == nil {
		cmd.Print(" - incomplete")
	}
	cmd.Println()

	for _, s := range run.Stages {
		cmd.Printf("  %-14s created=%d updated=%d deleted=%d skipped=%d failed=%d",
			s.Stage, s.Created, s.Updated, s.Deleted, s.Skipped, s.Failed)
		if s.Note != "" {
			cmd.Printf(" (%s)", s.Note)
		}
		cmd.Println()
	}

	if len(run.BrokenURLs) > 0 {
		cmd.Printf("Broken URLs (%d):\n", len(run.BrokenURLs))
		for _, b := range run.BrokenURLs {
			cmd.Printf("  row %d %s -> %d %s\n", b.AssetID, b.Name, b.StatusCode, b.URL)
		}
	}
	return nil
}
