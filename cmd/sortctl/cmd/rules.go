package cmd

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"

	"sortd/internal/domain/models"

	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage a folder's rules",
}

var rulesListCmd = &cobra.Command{
	Use:   "list <folder-id>",
	Short: "List a folder's rules in evaluation order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var rules []models.Rule
		if err := call("GET", "/api/folders/"+url.PathEscape(args[0])+"/rules", nil, &rules); err != nil {
			return err
		}
		if jsonOut {
			return nil
		}

		if len(rules) == 0 {
			fmt.Println("No rules.")
			return nil
		}
		fmt.Printf("%-4s %-36s %-30s %-8s %s\n", "POS", "ID", "NAME", "ENABLED", "ACTIONS")
		for _, r := range rules {
			fmt.Printf("%-4d %-36s %-30s %-8v %d\n", r.Position, r.ID, r.Name, r.Enabled, len(r.Actions))
		}
		return nil
	},
}

var rulesToggleCmd = &cobra.Command{
	Use:   "toggle <id> <on|off>",
	Short: "Enable or disable a rule",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]bool{"enabled": args[1] == "on"}
		return call("POST", "/api/rules/"+url.PathEscape(args[0])+"/toggle", body, nil)
	},
}

var rulesDuplicateCmd = &cobra.Command{
	Use:   "duplicate <id>",
	Short: "Copy a rule to the end of its folder's list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var rule models.Rule
		if err := call("POST", "/api/rules/"+url.PathEscape(args[0])+"/duplicate", nil, &rule); err != nil {
			return err
		}
		if !jsonOut {
			fmt.Printf("Created %s at position %d\n", rule.ID, rule.Position)
		}
		return nil
	},
}

var rulesReorderCmd = &cobra.Command{
	Use:   "reorder <folder-id> <rule-id>...",
	Short: "Reassign rule positions from the given complete ordering",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := models.ReorderRequest{OrderedIDs: args[1:]}
		return call("PUT", "/api/folders/"+url.PathEscape(args[0])+"/rules/order", req, nil)
	},
}

var rulesDescribeCmd = &cobra.Command{
	Use:   "describe <id>",
	Short: "Render a rule's conditions as text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var desc struct {
			MatchType  string   `json:"match_type"`
			Conditions []string `json:"conditions"`
		}
		if err := call("GET", "/api/rules/"+url.PathEscape(args[0])+"/describe", nil, &desc); err != nil {
			return err
		}
		if jsonOut {
			return nil
		}

		fmt.Printf("match %s of:\n", desc.MatchType)
		for _, line := range desc.Conditions {
			fmt.Printf("  - %s\n", line)
		}
		return nil
	},
}

var rulesPreviewCmd = &cobra.Command{
	Use:   "preview <id>",
	Short: "List the files that would currently match a rule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var preview struct {
			Matches []string `json:"matches"`
		}
		if err := call("GET", "/api/rules/"+url.PathEscape(args[0])+"/preview", nil, &preview); err != nil {
			return err
		}
		if jsonOut {
			return nil
		}

		if len(preview.Matches) == 0 {
			fmt.Println("No matching files.")
			return nil
		}
		for _, path := range preview.Matches {
			fmt.Println(path)
		}
		return nil
	},
}

var rulesExportCmd = &cobra.Command{
	Use:   "export <folder-id>",
	Short: "Write a folder's rules to stdout as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var raw json.RawMessage
		if err := call("GET", "/api/folders/"+url.PathEscape(args[0])+"/rules/export", nil, &raw); err != nil {
			return err
		}
		if !jsonOut {
			fmt.Println(string(raw))
		}
		return nil
	},
}

var rulesImportCmd = &cobra.Command{
	Use:   "import <folder-id> <file>",
	Short: "Import rules from an exported JSON file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		payload, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}

		var imported []models.Rule
		if err := call("POST", "/api/folders/"+url.PathEscape(args[0])+"/rules/import", rawJSON(payload), &imported); err != nil {
			return err
		}
		if !jsonOut {
			fmt.Printf("Imported %d rule(s)\n", len(imported))
		}
		return nil
	},
}

// rawJSON passes pre-serialized JSON through the client unchanged.
type rawJSON []byte

func (r rawJSON) MarshalJSON() ([]byte, error) { return r, nil }

func init() {
	rulesCmd.AddCommand(
		rulesListCmd,
		rulesToggleCmd,
		rulesDuplicateCmd,
		rulesReorderCmd,
		rulesDescribeCmd,
		rulesPreviewCmd,
		rulesExportCmd,
		rulesImportCmd,
	)
	rootCmd.AddCommand(rulesCmd)
}
