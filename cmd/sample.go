package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/naka-gawa/github-lifecycle/internal/domain"
	"github.com/naka-gawa/github-lifecycle/internal/gateway"
	"github.com/naka-gawa/github-lifecycle/internal/metrics"
	"github.com/naka-gawa/github-lifecycle/internal/progress"
	"github.com/naka-gawa/github-lifecycle/internal/store"
	"github.com/naka-gawa/github-lifecycle/internal/usecase"
)

// sampleOptions holds the validated settings of the sample command.
type sampleOptions struct {
	apiOptions
	Input        string
	Output       string
	Size         int
	Days         int
	Counter      string
	Format       string
	ShowProgress bool
	MetricsFile  string
}

func loadSampleOptions(v *viper.Viper) (sampleOptions, error) {
	api, err := loadAPIOptions(v)
	if err != nil {
		return sampleOptions{}, err
	}
	opts := sampleOptions{
		apiOptions:   api,
		Input:        v.GetString("input"),
		Output:       v.GetString("output"),
		Size:         v.GetInt("size"),
		Days:         v.GetInt("days"),
		Counter:      v.GetString("counter"),
		Format:       v.GetString("format"),
		ShowProgress: !v.GetBool("no-progress"),
		MetricsFile:  v.GetString("metrics-file"),
	}
	if opts.Size < 1 {
		return sampleOptions{}, &domain.ValidationError{Field: "size", Reason: "must be at least 1"}
	}
	if opts.Days < 1 {
		return sampleOptions{}, &domain.ValidationError{Field: "days", Reason: "must be at least 1"}
	}
	if err := validateFormat(opts.Format); err != nil {
		return sampleOptions{}, err
	}
	return opts, nil
}

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Selects a sample of moderately active repositories",
	Long: `Counts the commits of the last --days days of every repository in the input file,
drops repositories without commits and those at or above the 90th percentile, and
prints the --size most active of the rest. With --output the selected URLs are also
written in the input file format, ready for the collect command.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		v, err := newConfig(cmd)
		if err != nil {
			return err
		}
		logger := newLogger(v.GetBool("verbose"))
		opts, err := loadSampleOptions(v)
		if err != nil {
			return err
		}

		urls, err := store.ReadURLs(opts.Input)
		if err != nil {
			return err
		}

		githubGateway, err := opts.newGateway(logger)
		if err != nil {
			return err
		}
		counter, err := githubGateway.CommitCounter(opts.Counter)
		if err != nil {
			return err
		}
		recorder := metrics.New()
		activity := usecase.NewActivityCounter(counter, logger, recorder)
		sampler := usecase.NewSampler(activity, opts.Days, logger, progress.New(os.Stderr), recorder)

		rows, err := sampler.Sample(ctx, urls, opts.Size, opts.ShowProgress)
		if err != nil {
			return fmt.Errorf("failed to sample repositories: %w", err)
		}

		if opts.Output != "" {
			selected := make([]string, len(rows))
			for i, row := range rows {
				selected[i] = row.URL
			}
			if err := store.WriteURLs(opts.Output, selected); err != nil {
				return err
			}
		}
		if opts.MetricsFile != "" {
			if err := recorder.WriteTextfile(opts.MetricsFile); err != nil {
				return fmt.Errorf("failed to write metrics: %w", err)
			}
		}

		return writeOutput(cmd.OutOrStdout(), opts.Format, rows)
	},
}

func init() {
	rootCmd.AddCommand(sampleCmd)
	addSampleFlags(sampleCmd.Flags())
}

func addSampleFlags(fs *pflag.FlagSet) {
	fs.StringP("input", "i", defaultInput, "JSON file with the candidate repository URLs under \"values\"")
	fs.StringP("output", "o", "", "Write the selected URLs to this file in the input format")
	fs.IntP("size", "n", usecase.DefaultSampleSize, "Maximum number of repositories to select")
	fs.Int("days", usecase.DefaultActivityDays, "Trailing window, in days, for counting commits")
	fs.String("counter", gateway.CounterREST, "Commit counting backend: rest or graphql")
	fs.String("format", formatJSON, "Output format: json or yaml")
	fs.Bool("no-progress", false, "Do not show progress bars")
	fs.String("metrics-file", "", "Write Prometheus metrics to this textfile when done")
}
