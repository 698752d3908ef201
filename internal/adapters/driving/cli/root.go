// Package cli wires the cobra command tree. Commands stay thin: they
// parse flags, build a pipeline through the injected factory and
// delegate to the core.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/core/ports/driven"
	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/core/ports/driving"
	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/core/services"
	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/logger"
)

// version is stamped at build time.
var version = "dev"

// PipelineFactory builds a pipeline for one invocation, after flags
// are known.
type PipelineFactory func(opts services.Options, confirm driven.Confirmer) driving.Pipeline

// Injected by Execute.
var (
	newPipeline PipelineFactory
	reportStore driven.ReportStore
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "mediasync",
	Short: "Reconcile the media catalog against the image store",
	Long: `mediasync keeps the site's Strapi media library synchronised with the
Cloudinary account that holds the actual images. Folders and assets are
mirrored by reference (URL); binaries are never copied.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the CLI with its dependencies injected.
func Execute(factory PipelineFactory, reports driven.ReportStore) error {
	newPipeline = factory
	reportStore = reports
	return rootCmd.Execute()
}
