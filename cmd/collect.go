package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/naka-gawa/github-lifecycle/internal/domain"
	"github.com/naka-gawa/github-lifecycle/internal/metrics"
	"github.com/naka-gawa/github-lifecycle/internal/progress"
	"github.com/naka-gawa/github-lifecycle/internal/store"
	"github.com/naka-gawa/github-lifecycle/internal/usecase"
)

const (
	defaultInput  = "in.json"
	defaultOutput = "out"
)

// collectOptions holds the validated settings of the collect command.
type collectOptions struct {
	apiOptions
	Input        string
	Output       string
	Window       usecase.Window
	Concurrency  int
	Strict       bool
	FinishSet    domain.FinishVariant
	ShowProgress bool
	MetricsFile  string
}

func loadCollectOptions(v *viper.Viper) (collectOptions, error) {
	api, err := loadAPIOptions(v)
	if err != nil {
		return collectOptions{}, err
	}
	finishSet, err := domain.ParseFinishVariant(v.GetString("finish-set"))
	if err != nil {
		return collectOptions{}, err
	}
	opts := collectOptions{
		apiOptions:   api,
		Input:        v.GetString("input"),
		Output:       v.GetString("output"),
		Window:       usecase.WindowDays(v.GetInt("created-days"), v.GetInt("closed-days")),
		Concurrency:  v.GetInt("concurrency"),
		Strict:       v.GetBool("strict"),
		FinishSet:    finishSet,
		ShowProgress: !v.GetBool("no-progress"),
		MetricsFile:  v.GetString("metrics-file"),
	}
	if err := opts.Window.Validate(); err != nil {
		return collectOptions{}, err
	}
	if opts.Concurrency < 1 {
		return collectOptions{}, &domain.ValidationError{Field: "concurrency", Reason: "must be at least 1"}
	}
	return opts, nil
}

// repositoryReport is the per-repository line of the collect summary.
type repositoryReport struct {
	URL      string   `json:"url"`
	Issues   int      `json:"issues"`
	Failures []string `json:"failures,omitempty"`
	Error    string   `json:"error,omitempty"`
}

func reportOf(results []domain.RepositoryStats) []repositoryReport {
	reports := make([]repositoryReport, 0, len(results))
	for _, repo := range results {
		report := repositoryReport{URL: repo.URL, Issues: len(repo.Issues)}
		for _, failure := range repo.Failures {
			report.Failures = append(report.Failures, failure.Error())
		}
		if repo.Err != nil {
			report.Error = repo.Err.Error()
		}
		reports = append(reports, report)
	}
	return reports
}

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Extracts issue lifecycles and writes one JSON file per issue",
	Long: `Extracts the start-of-work and end-of-work events of every issue and pull request
closed in the given window, for each repository listed in the input file, and writes
them to <output>/<owner>/<name>/issues/<number>.json. A summary is printed as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		v, err := newConfig(cmd)
		if err != nil {
			return err
		}
		logger := newLogger(v.GetBool("verbose"))
		opts, err := loadCollectOptions(v)
		if err != nil {
			return err
		}

		urls, err := store.ReadURLs(opts.Input)
		if err != nil {
			return err
		}

		// Inject dependencies and run the main business logic.
		githubGateway, err := opts.newGateway(logger)
		if err != nil {
			return err
		}
		recorder := metrics.New()
		extractor := usecase.NewExtractor(githubGateway, domain.NewClassifier(opts.FinishSet), logger,
			usecase.WithProgress(progress.New(os.Stderr)),
			usecase.WithRecorder(recorder),
			usecase.WithStrict(opts.Strict),
		)
		collector := usecase.NewCollector(extractor, opts.Concurrency, logger)

		results, collectErr := collector.Collect(ctx, urls, opts.Window, opts.ShowProgress)
		if results != nil {
			if err := store.Save(opts.Output, results); err != nil {
				return fmt.Errorf("failed to save results: %w", err)
			}
			logger.Printf("Saved %d repositories to %s", len(results), opts.Output)
		}
		if opts.MetricsFile != "" {
			if err := recorder.WriteTextfile(opts.MetricsFile); err != nil {
				return fmt.Errorf("failed to write metrics: %w", err)
			}
		}
		if collectErr != nil {
			return collectErr
		}

		return writeOutput(cmd.OutOrStdout(), formatJSON, reportOf(results))
	},
}

func init() {
	rootCmd.AddCommand(collectCmd)
	defaults := usecase.DefaultWindow()
	collectCmd.Flags().StringP("input", "i", defaultInput, "JSON file with the repository URLs under \"values\"")
	collectCmd.Flags().StringP("output", "o", defaultOutput, "Directory to write the issue files to")
	collectCmd.Flags().Int("created-days", int(defaults.Created.Hours()/24), "Only issues created in the last N days")
	collectCmd.Flags().Int("closed-days", int(defaults.Closed.Hours()/24), "Only issues closed in the last N days")
	collectCmd.Flags().Int("concurrency", 1, "Number of repositories extracted at once")
	collectCmd.Flags().Bool("strict", false, "Fail a whole repository when one of its issues fails")
	collectCmd.Flags().String("finish-set", string(domain.FinishEndOfWork), "End-of-work event set: end-of-work or legacy")
	collectCmd.Flags().Bool("no-progress", false, "Do not show progress bars")
	collectCmd.Flags().String("metrics-file", "", "Write Prometheus metrics to this textfile when done")
}
