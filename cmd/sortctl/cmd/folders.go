package cmd

import (
	"fmt"
	"net/url"

	"sortd/internal/domain/models"

	"github.com/spf13/cobra"
)

var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "Manage watched folders",
}

var foldersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all watched folders",
	RunE: func(cmd *cobra.Command, args []string) error {
		var folders []models.Folder
		if err := call("GET", "/api/folders", nil, &folders); err != nil {
			return err
		}
		if jsonOut {
			return nil
		}

		if len(folders) == 0 {
			fmt.Println("No watched folders.")
			return nil
		}
		fmt.Printf("%-36s %-20s %-7s %-5s %s\n", "ID", "NAME", "RULES", "DEPTH", "PATH")
		for _, f := range folders {
			state := ""
			if !f.Enabled {
				state = " (disabled)"
			}
			fmt.Printf("%-36s %-20s %-7d %-5d %s%s\n", f.ID, f.Name, f.RuleCount, f.ScanDepth, f.Path, state)
		}
		return nil
	},
}

var (
	addFolderName  string
	addFolderDepth int
)

var foldersAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Register a directory for watching",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := models.CreateFolderRequest{
			Path:      args[0],
			Name:      addFolderName,
			ScanDepth: &addFolderDepth,
		}
		var folder models.Folder
		if err := call("POST", "/api/folders", req, &folder); err != nil {
			return err
		}
		if !jsonOut {
			fmt.Printf("Added %s (%s)\n", folder.Name, folder.ID)
		}
		return nil
	},
}

var foldersRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Stop watching a folder and delete its rules",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := call("DELETE", "/api/folders/"+url.PathEscape(args[0]), nil, nil); err != nil {
			return err
		}
		if !jsonOut {
			fmt.Println("Removed.")
		}
		return nil
	},
}

var foldersToggleCmd = &cobra.Command{
	Use:   "toggle <id> <on|off>",
	Short: "Enable or disable a folder",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		enabled := args[1] == "on"
		body := map[string]bool{"enabled": enabled}
		if err := call("POST", "/api/folders/"+url.PathEscape(args[0])+"/toggle", body, nil); err != nil {
			return err
		}
		if !jsonOut {
			fmt.Printf("Folder %s: enabled=%v\n", args[0], enabled)
		}
		return nil
	},
}

func init() {
	foldersAddCmd.Flags().StringVar(&addFolderName, "name", "", "display name (defaults to the directory name)")
	foldersAddCmd.Flags().IntVar(&addFolderDepth, "depth", 0, "subfolder scan depth, -1 for unlimited")

	foldersCmd.AddCommand(foldersListCmd, foldersAddCmd, foldersRemoveCmd, foldersToggleCmd)
	rootCmd.AddCommand(foldersCmd)
}
