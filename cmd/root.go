package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	outputFormat string
	outputFile   string
)

var rootCmd = &cobra.Command{
	Use:   "h5report",
	Short: "Generate markdown reports from HDF5 files",
	Long: `h5report walks the group hierarchy of an HDF5 file and renders it
as a markdown document: properties, attributes, bounded data previews,
and summary statistics for every dataset.

  h5report convert measurements.h5
  h5report convert measurements.h5 --max-rows 5 --strategy edges
  h5report diff before.h5 after.h5`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "markdown", "Output format: markdown, json")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "Write output to file (default: stdout)")
}
