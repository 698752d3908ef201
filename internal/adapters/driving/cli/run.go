package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/core/domain"
	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/core/ports/driven"
	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/core/services"
)

var (
	dryRunFlag        bool
	skipUnchangedFlag bool
	yesFlag           bool
)

var runCmd = &cobra.Command{
	Use:   "run [stage...]",
	Short: "Run reconciliation stages",
	Long: `Runs the named stages in pipeline order, or every stage when none is
given. State is saved after each stage, so an interrupted run resumes
where it stopped. Between stages, an interactive terminal is asked to
confirm; --yes (or a non-interactive stdin) proceeds without asking.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "report intended actions without mutating the catalog")
	runCmd.Flags().BoolVar(&skipUnchangedFlag, "skip-unchanged", false, "skip updates for assets with an unchanged content hash")
	runCmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "do not pause for confirmation between stages")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	if newPipeline == nil {
		return errors.New("pipeline not configured")
	}

	opts := services.Options{
		DryRun:        dryRunFlag,
		SkipUnchanged: skipUnchangedFlag,
		Out:           cmd.OutOrStdout(),
	}

	var confirm driven.Confirmer = driven.AutoConfirm{}
	if !yesFlag && term.IsTerminal(int(os.Stdin.Fd())) {
		confirm = &terminalConfirmer{in: cmd.InOrStdin(), out: cmd.OutOrStdout()}
	}

	pipeline := newPipeline(opts, confirm)
	if err := pipeline.Run(cmd.Context(), args); err != nil {
		if errors.Is(err, domain.ErrAborted) {
			cmd.Println("Run aborted.")
			return nil
		}
		return fmt.Errorf("run failed: %w", err)
	}

	if dryRunFlag {
		cmd.Println("Dry run complete; no catalog mutations were made.")
	} else {
		cmd.Println("Run complete.")
	}
	return nil
}
