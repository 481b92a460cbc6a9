package usecase

import "time"

// ProgressReporter starts progress trackers for long-running loops.
type ProgressReporter interface {
	Start(description string, total int) ProgressTracker
}

// ProgressTracker follows one loop started by a ProgressReporter.
type ProgressTracker interface {
	Increment()
	Finish()
}

// Recorder receives run statistics, e.g. for metrics.
type Recorder interface {
	IssueExtracted(repo string, isPull bool)
	IssueFailed(repo string)
	RepositoryExtracted(repo string, elapsed time.Duration, err error)
	CommitsCounted(repo string, count int, err error)
	SampleSelected(candidates, selected int)
}

type noopProgress struct{}

func (noopProgress) Start(string, int) ProgressTracker { return noopTracker{} }

type noopTracker struct{}

func (noopTracker) Increment() {}
func (noopTracker) Finish()    {}

type noopRecorder struct{}

func (noopRecorder) IssueExtracted(string, bool)                      {}
func (noopRecorder) IssueFailed(string)                               {}
func (noopRecorder) RepositoryExtracted(string, time.Duration, error) {}
func (noopRecorder) CommitsCounted(string, int, error)                {}
func (noopRecorder) SampleSelected(int, int)                          {}
