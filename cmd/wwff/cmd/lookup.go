package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// lookupCmd represents the lookup command
var lookupCmd = &cobra.Command{
	Use:   "lookup <reference>...",
	Short: "Look up references in the directory",
	Long: `Look up one or more references and print each matching entry as JSON.

Example:
  wwff lookup -f wwff_directory.csv ONFF-0010 dlff-0001`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := loadDirectory(cmd)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		missing := 0
		for _, arg := range args {
			entry, ok := result.Directory.Lookup(arg)
			if !ok {
				fmt.Fprintf(os.Stderr, "%s: not found\n", arg)
				missing++
				continue
			}
			if err := enc.Encode(entry); err != nil {
				return err
			}
		}

		if missing > 0 {
			return fmt.Errorf("%d of %d references not found", missing, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}
