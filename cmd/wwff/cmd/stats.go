package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oherrala/wwff-directory/internal/domain"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print load statistics for a directory file",
	Long: `Load a directory CSV file and print how many rows were decoded,
how many were skipped, and the entry count per status.

Example:
  wwff stats -f wwff_directory.csv`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		result, err := loadDirectory(cmd)
		if err != nil {
			return err
		}

		byStatus := map[domain.Status]int{}
		for _, entry := range result.Directory.All() {
			byStatus[entry.Status]++
		}

		fmt.Printf("rows:    %d\n", result.Rows)
		fmt.Printf("skipped: %d\n", result.Skipped)
		fmt.Printf("entries: %d\n", result.Directory.Len())
		for _, status := range []domain.Status{
			domain.StatusActive,
			domain.StatusDeleted,
			domain.StatusNational,
			domain.StatusProposed,
		} {
			if n := byStatus[status]; n > 0 {
				fmt.Printf("  %-9s %d\n", status.String()+":", n)
			}
		}
		fmt.Printf("elapsed: %s\n", result.Elapsed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
