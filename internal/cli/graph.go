package cli

import (
	"github.com/spf13/cobra"

	"github.com/jal555/optiqa/internal/dashboard"
)

var graphInputFlag string

// graphCmd opens the interactive terminal view over collected data.
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Browse collected data as terminal graphs",
	Long: `Open an interactive view of the collected measurements: one lab and one
metric at a time, a sparkline per node.

Keyboard shortcuts:
  up/k, down/j     Previous / next lab
  left/h, right/l  Previous / next metric
  ?                Show help
  q / Ctrl+C       Quit

Examples:
  optiqa graph --input model.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		model, err := loadModel(graphInputFlag)
		if err != nil {
			return err
		}
		return dashboard.Run(model)
	},
}

func init() {
	graphCmd.Flags().StringVarP(&graphInputFlag, "input", "i", "model.json", "model file from 'optiqa collect --output'")

	rootCmd.AddCommand(graphCmd)
}
