package cmd

import (
	"fmt"

	"sortd/internal/domain/models"

	"github.com/spf13/cobra"
)

var engineCmd = &cobra.Command{
	Use:   "engine",
	Short: "Inspect and control the automation engine",
}

var engineStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the engine status",
	RunE: func(cmd *cobra.Command, args []string) error {
		var status models.EngineStatus
		if err := call("GET", "/api/engine/status", nil, &status); err != nil {
			return err
		}
		printStatus(status)
		return nil
	},
}

var enginePauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause the automation loop",
	RunE:  func(cmd *cobra.Command, args []string) error { return setPaused(true) },
}

var engineResumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume the automation loop",
	RunE:  func(cmd *cobra.Command, args []string) error { return setPaused(false) },
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the merged engine settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		var settings models.Settings
		if err := call("GET", "/api/settings", nil, &settings); err != nil {
			return err
		}
		if jsonOut {
			return nil
		}
		for key, value := range settings.Values {
			fmt.Printf("%s = %v\n", key, value)
		}
		return nil
	},
}

func setPaused(paused bool) error {
	var status models.EngineStatus
	if err := call("PUT", "/api/engine/paused", map[string]bool{"paused": paused}, &status); err != nil {
		return err
	}
	printStatus(status)
	return nil
}

func printStatus(status models.EngineStatus) {
	if jsonOut {
		return
	}
	state := "running"
	if status.Paused {
		state = "paused"
	}
	fmt.Printf("engine: %s\n", state)
	for name, count := range status.Counters {
		fmt.Printf("  %s: %d\n", name, count)
	}
}

func init() {
	engineCmd.AddCommand(engineStatusCmd, enginePauseCmd, engineResumeCmd)
	rootCmd.AddCommand(engineCmd, settingsCmd)
}
