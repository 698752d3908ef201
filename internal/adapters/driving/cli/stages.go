package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/core/services"
)

var stagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "List pipeline stages in execution order",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if newPipeline == nil {
			return errors.New("pipeline not configured")
		}
		pipeline := newPipeline(services.Options{}, nil)
		for _, name := range pipeline.StageNames() {
			cmd.Println(name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stagesCmd)
}
