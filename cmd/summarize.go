package cmd

import (
	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-lifecycle/internal/store"
	"github.com/naka-gawa/github-lifecycle/internal/usecase"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarizes previously collected issue files",
	Long: `Loads the issue files written by collect and prints, per repository, the number of
issues, pull requests and squash merges, how many issues have a start and a finish
event, and the median and 90th percentile lead time in hours.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := newConfig(cmd)
		if err != nil {
			return err
		}
		format := v.GetString("format")
		if err := validateFormat(format); err != nil {
			return err
		}

		repos, err := store.Load(v.GetString("output"))
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), format, usecase.Summarize(repos))
	},
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
	summarizeCmd.Flags().StringP("output", "o", defaultOutput, "Directory the issue files were written to")
	summarizeCmd.Flags().String("format", formatJSON, "Output format: json or yaml")
}
