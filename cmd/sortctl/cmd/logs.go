package cmd

import (
	"fmt"
	"net/url"
	"strings"

	"sortd/internal/domain/models"

	"github.com/spf13/cobra"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Inspect the execution log",
}

var logsLimit int

var logsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent log entries, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		var entries []models.LogEntry
		path := fmt.Sprintf("/api/logs?limit=%d", logsLimit)
		if err := call("GET", path, nil, &entries); err != nil {
			return err
		}
		if jsonOut {
			return nil
		}

		if len(entries) == 0 {
			fmt.Println("Log is empty.")
			return nil
		}
		for _, e := range entries {
			rule := "-"
			if e.RuleName != nil {
				rule = *e.RuleName
			}
			line := fmt.Sprintf("%s  %-7s %-18s %-20s %s",
				e.CreatedAt.Format("2006-01-02 15:04:05"), e.Status, e.ActionType, rule, e.FilePath)
			if e.ErrorMessage != nil {
				line += "  (" + *e.ErrorMessage + ")"
			}
			fmt.Println(line)
		}
		return nil
	},
}

var logsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all log entries and their undo records",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := call("DELETE", "/api/logs", nil, nil); err != nil {
			return err
		}
		if !jsonOut {
			fmt.Println("Log cleared.")
		}
		return nil
	},
}

var logsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the activity report",
	RunE: func(cmd *cobra.Command, args []string) error {
		var report models.ActivityReport
		if err := call("GET", "/api/logs/stats", nil, &report); err != nil {
			return err
		}
		if jsonOut {
			return nil
		}

		fmt.Printf("success %d  error %d  skipped %d  deleted %d\n",
			report.Stats.Success, report.Stats.Error, report.Stats.Skipped, report.Stats.Deleted)

		fmt.Println("\nactivity (oldest to newest):")
		for _, b := range report.Histogram {
			bar := strings.Repeat("#", b.Percent/5)
			fmt.Printf("  %s %4d %s\n", b.Start.Format("15:04"), b.Count, bar)
		}

		if len(report.Rules) > 0 {
			fmt.Println("\nrule health (trailing 24h):")
			for _, r := range report.Rules {
				fmt.Printf("  %-36s events %-5d errors %-5d last %s\n",
					r.RuleID, r.RecentEvents, r.RecentErrors, r.LastActivityAt.Format("2006-01-02 15:04"))
			}
		}
		return nil
	},
}

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "List and execute undo entries",
}

var undoListCmd = &cobra.Command{
	Use:   "list",
	Short: "List undoable actions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		var entries []models.UndoEntry
		if err := call("GET", "/api/undo?limit=50", nil, &entries); err != nil {
			return err
		}
		if jsonOut {
			return nil
		}

		if len(entries) == 0 {
			fmt.Println("Nothing to undo.")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%-36s %-18s %s -> %s\n", e.ID, e.ActionType, e.CurrentPath, e.OriginalPath)
		}
		return nil
	},
}

var undoExecCmd = &cobra.Command{
	Use:   "exec <id>",
	Short: "Restore a file to where it was before the action",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var reversal models.LogEntry
		if err := call("POST", "/api/undo/"+url.PathEscape(args[0]), nil, &reversal); err != nil {
			return err
		}
		if !jsonOut {
			fmt.Printf("Restored %s\n", reversal.FilePath)
		}
		return nil
	},
}

func init() {
	logsListCmd.Flags().IntVar(&logsLimit, "limit", 50, "number of entries to show")

	logsCmd.AddCommand(logsListCmd, logsClearCmd, logsStatsCmd)
	undoCmd.AddCommand(undoListCmd, undoExecCmd)
	rootCmd.AddCommand(logsCmd, undoCmd)
}
