package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dormorgenstern/h5report/internal/diff"
	"github.com/dormorgenstern/h5report/internal/hdf5file"
)

var diffCmd = &cobra.Command{
	Use:   "diff <a.h5> <b.h5>",
	Short: "Compare the structure of two HDF5 files",
	Long: `Diff compares groups, datasets, external links, and attributes
between two HDF5 files and reports what was added, removed, or
changed. Only metadata is compared; element data is never read.`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	a, err := hdf5file.Open(args[0])
	if err != nil {
		return err
	}
	defer a.Close()

	b, err := hdf5file.Open(args[1])
	if err != nil {
		return err
	}
	defer b.Close()

	report := diff.Compare(a.Root(), b.Root())

	out := cmd.OutOrStdout()
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("cannot create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	_, err = io.WriteString(out, report.Markdown())
	return err
}
