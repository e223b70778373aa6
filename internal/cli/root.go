// Package cli wires the cobra command tree for the optiqa binary.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// configFlag is the --config persistent flag value.
var configFlag string

// rootCmd is the base command for the optiqa CLI.
var rootCmd = &cobra.Command{
	Use:   "optiqa",
	Short: "Collect and explore optical signal quality data",
	Long: `optiqa connects to a lab monitoring host over SSH, pulls the optical
signal quality snapshots it stores, and assembles them into a queryable
model of labs, nodes, and measurements.

Common workflows:
  optiqa init                      Create a .optiqa.yaml configuration
  optiqa collect -o model.json     Collect snapshots and save the model
  optiqa analyze -i model.json     Fit a quality regression on the data
  optiqa graph -i model.json       Browse the data as terminal graphs`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to config file (default: search for .optiqa.yaml)")
}

// Execute runs the root command. Errors are printed in their structured form
// and exit with status 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
