package commands

import (
	"github.com/spf13/cobra"

	"github.com/ppiankov/lambdaspectre/internal/logging"
)

var (
	verbose bool
	version string
	commit  string
	date    string
)

var rootCmd = &cobra.Command{
	Use:   "lambdaspectre",
	Short: "lambdaspectre: serverless function cost analyzer",
	Long: `lambdaspectre reads a per-function cost export and reports where serverless
spend goes: top cost contributors, oversized memory, wasted provisioned
concurrency, low-value functions, forecast deviations and container candidates.

Findings carry an estimated monthly saving in USD where one can be modeled.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logging.Init(verbose)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with injected build info.
func Execute(v, c, d string) error {
	version = v
	commit = c
	date = d
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}
