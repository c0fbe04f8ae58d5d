package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rosamenta",
	Short: "Rosa Menta design-profile quiz",
	Long: `Rosa Menta: a seven-step interior design quiz that turns your answers
into a named style profile with a narrative and a generated mood board.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, which commands use for
// shutdown.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides ROSAMENTA_DB)")
	pf.String("config", "", "Path to config.yaml (default $XDG_CONFIG_HOME/rosamenta/config.yaml)")
	pf.String("export-dir", "", "Directory PDFs are saved to (default ~/Downloads)")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.BoolP("verbose", "v", false, "Log to stderr instead of the log file")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(leadsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}
