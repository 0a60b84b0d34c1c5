package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/oherrala/wwff-directory/internal/ingest"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wwff",
	Short: "Inspect a WWFF directory CSV dump",
	Long: `wwff loads a WWFF directory CSV file (as published at
https://wwff.co/wwff-data/wwff_directory.csv) and lets you look up
references or print load statistics. Malformed rows are skipped the same
way the service skips them.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("file", "f", "wwff_directory.csv", "Path to the directory CSV file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log skipped rows to stderr")
}

// loadDirectory builds a directory snapshot from the --file flag.
func loadDirectory(cmd *cobra.Command) (*ingest.Result, error) {
	path, _ := cmd.Flags().GetString("file")
	verbose, _ := cmd.Flags().GetBool("verbose")

	var logger *slog.Logger
	if verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	} else {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return ingest.NewBuilder(logger, nil).FromPath(path)
}
