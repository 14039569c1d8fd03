package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Build-time variables set via -ldflags.
var (
	version = "dev"
	commit  = "none"
)

// Global flags.
var (
	serverURL string
	jsonOut   bool
)

var rootCmd = &cobra.Command{
	Use:   "sortctl",
	Short: "Control a running sortd server",
	Long: `sortctl talks to the sortd HTTP API: watched folders, rules and their
ordering, the execution log with its undo ledger, engine pause state and
settings.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sortctl %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("SORTD_SERVER", "http://localhost:8484"), "base URL of the sortd server")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print raw JSON responses")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
