package usecase

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/github-lifecycle/internal/domain"
	"github.com/naka-gawa/github-lifecycle/internal/gateway"
)

const (
	// DefaultActivityDays is the trailing window used to measure commit activity.
	DefaultActivityDays = 90
	// DefaultSampleSize is the number of repositories kept in an active sample.
	DefaultSampleSize = 40
	// outlierPercentile excludes hyperactive repositories from a sample.
	outlierPercentile = 90
)

// ActivityCounter counts recent commits, treating any failure as no activity.
type ActivityCounter struct {
	counter  gateway.CommitCounter
	logger   *log.Logger
	recorder Recorder
	now      func() time.Time
}

// NewActivityCounter creates an ActivityCounter. recorder may be nil.
func NewActivityCounter(counter gateway.CommitCounter, logger *log.Logger, recorder Recorder) *ActivityCounter {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &ActivityCounter{
		counter:  counter,
		logger:   logger,
		recorder: recorder,
		now:      time.Now,
	}
}

// CountRecentCommits returns the number of commits made to the repository at url in
// the last days days. Deleted, private or otherwise unreachable repositories count 0.
func (a *ActivityCounter) CountRecentCommits(ctx context.Context, url string, days int) int {
	ref, err := domain.ParseRepositoryURL(url)
	if err != nil {
		a.logger.Printf("Usecase: Counting %s as inactive: %v", url, err)
		a.recorder.CommitsCounted(url, 0, err)
		return 0
	}
	since := a.now().UTC().AddDate(0, 0, -days)
	count, err := a.counter.CountCommitsSince(ctx, ref, since)
	a.recorder.CommitsCounted(ref.String(), count, err)
	if err != nil {
		a.logger.Printf("Usecase: Counting %s as inactive: %v", url, err)
		return 0
	}
	return count
}

// Sampler selects a bounded set of moderately active repositories.
type Sampler struct {
	activity *ActivityCounter
	days     int
	logger   *log.Logger
	progress ProgressReporter
	recorder Recorder
}

// NewSampler creates a Sampler measuring activity over the last days days.
// progress and recorder may be nil.
func NewSampler(activity *ActivityCounter, days int, logger *log.Logger, progress ProgressReporter, recorder Recorder) *Sampler {
	if days < 1 {
		days = DefaultActivityDays
	}
	if progress == nil {
		progress = noopProgress{}
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &Sampler{
		activity: activity,
		days:     days,
		logger:   logger,
		progress: progress,
		recorder: recorder,
	}
}

// Sample counts the recent commits of every url, drops inactive repositories and
// those at or above the 90th percentile, and returns at most size of the remaining
// repositories, most active first.
func (s *Sampler) Sample(ctx context.Context, urls []string, size int, showProgress bool) ([]domain.SampleRow, error) {
	if size < 1 {
		return nil, &domain.ValidationError{Field: "sample size", Reason: fmt.Sprintf("%d is not positive", size)}
	}
	s.logger.Printf("Usecase: Counting commits of the last %d days for %d repositories...", s.days, len(urls))

	progress := s.progress
	if !showProgress {
		progress = noopProgress{}
	}
	tracker := progress.Start("commits", len(urls))
	rows := make([]domain.SampleRow, 0, len(urls))
	for _, url := range urls {
		if ctx.Err() != nil {
			tracker.Finish()
			return nil, ctx.Err()
		}
		rows = append(rows, domain.SampleRow{URL: url, Last90: s.activity.CountRecentCommits(ctx, url, s.days)})
		tracker.Increment()
	}
	tracker.Finish()

	active := rows[:0]
	for _, row := range rows {
		if row.Last90 != 0 {
			active = append(active, row)
		}
	}

	selected := make([]domain.SampleRow, 0, len(active))
	if len(active) > 0 {
		threshold, err := ActivityThreshold(active)
		if err != nil {
			return nil, fmt.Errorf("failed to compute activity threshold: %w", err)
		}
		s.logger.Printf("Usecase: Excluding repositories with %.1f or more commits.", threshold)
		for _, row := range active {
			if float64(row.Last90) < threshold {
				selected = append(selected, row)
			}
		}
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Last90 > selected[j].Last90
	})
	if len(selected) > size {
		selected = selected[:size]
	}

	s.recorder.SampleSelected(len(urls), len(selected))
	s.logger.Printf("Usecase: Selected %d of %d repositories.", len(selected), len(urls))
	return selected, nil
}

// ActivityThreshold returns the 90th percentile of the commit counts of rows.
func ActivityThreshold(rows []domain.SampleRow) (float64, error) {
	data := make(stats.Float64Data, len(rows))
	for i, row := range rows {
		data[i] = float64(row.Last90)
	}
	return stats.Percentile(data, outlierPercentile)
}
