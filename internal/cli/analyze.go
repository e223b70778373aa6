package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jal555/optiqa/internal/analyze"
	"github.com/jal555/optiqa/internal/logger"
)

var (
	analyzeInputFlag     string
	analyzeThresholdFlag float64
)

// analyzeCmd fits a regression of qfactor against the other metrics.
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Fit a signal quality regression on collected data",
	Long: `Flatten a collected model into per-reading rows and fit an ordinary
least squares regression of qfactor against the other instantaneous
metrics. Only metrics that correlate with qfactor beyond the threshold
enter the fit; error is reported on a held-out split.

Examples:
  optiqa analyze --input model.json
  optiqa analyze -i model.json --threshold 0.5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return analyzeCommand()
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeInputFlag, "input", "i", "model.json", "model file from 'optiqa collect --output'")
	analyzeCmd.Flags().Float64Var(&analyzeThresholdFlag, "threshold", analyze.DefaultCorrelationThreshold, "minimum |correlation| for a metric to enter the fit")

	rootCmd.AddCommand(analyzeCmd)
}

func analyzeCommand() error {
	model, err := loadModel(analyzeInputFlag)
	if err != nil {
		return err
	}

	report, err := analyze.Run(model, analyze.Options{
		CorrelationThreshold: analyzeThresholdFlag,
		Log:                  logger.NewEnvLogger("[analyze]"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Readings: %d (%d train, %d test)\n\n", report.Rows, report.TrainRows, report.TestRows)

	fmt.Println("Correlation with qfactor:")
	names := make([]string, 0, len(report.Correlations))
	for name := range report.Correlations {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		marker := " "
		if _, ok := report.Coefficients[name]; ok {
			marker = "✓"
		}
		fmt.Printf("  %s %-22s %+.3f\n", marker, name, report.Correlations[name])
	}

	fmt.Println("\nFitted model:")
	fmt.Printf("  qfactor = %.4f\n", report.Intercept)
	for _, name := range report.Selected {
		fmt.Printf("          %+.4f × %s\n", report.Coefficients[name], name)
	}
	fmt.Printf("\nHeld-out MSE: %.6f\n", report.MSE)

	return nil
}
