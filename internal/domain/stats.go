// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// Issue is the subset of a GitHub issue (or pull request) needed for extraction.
type Issue struct {
	Number      int
	State       string
	StateReason *string
	CreatedAt   time.Time
	ClosedAt    *time.Time
	IsPull      bool
}

// IssueStats holds the lifecycle timestamps extracted for a single issue.
// It is the record persisted for every issue.
type IssueStats struct {
	Number      int        `json:"number"`
	CreatedAt   time.Time  `json:"created_at"`
	ClosedAt    time.Time  `json:"closed_at"`
	StartEvent  *string    `json:"start_event"`
	StartedAt   *time.Time `json:"started_at"`
	StartID     *int64     `json:"start_id"`
	FinishEvent *string    `json:"finish_event"`
	FinishedAt  *time.Time `json:"finished_at"`
	FinishID    *int64     `json:"finish_id"`
	StateReason *string    `json:"state_reason"`
	IsPull      bool       `json:"is_pull"`
	IsSquash    bool       `json:"is_squash"`
}

// NewIssueStats combines an issue with its classified lifecycle.
func NewIssueStats(issue Issue, lc Lifecycle) IssueStats {
	stats := IssueStats{
		Number:      issue.Number,
		CreatedAt:   issue.CreatedAt,
		StateReason: issue.StateReason,
		IsPull:      issue.IsPull,
		IsSquash:    lc.IsSquash,
	}
	if issue.ClosedAt != nil {
		stats.ClosedAt = *issue.ClosedAt
	}
	if lc.Start != nil {
		stats.StartEvent, stats.StartedAt, stats.StartID = lc.Start.fields()
	}
	if lc.Finish != nil {
		stats.FinishEvent, stats.FinishedAt, stats.FinishID = lc.Finish.fields()
	}
	return stats
}

// LeadTime returns finished_at - started_at when both are known.
func (s IssueStats) LeadTime() (time.Duration, bool) {
	if s.StartedAt == nil || s.FinishedAt == nil {
		return 0, false
	}
	return s.FinishedAt.Sub(*s.StartedAt), true
}

// RepositoryStats holds the extracted issues of one repository.
// Issues is nil when the extraction failed for the whole repository.
type RepositoryStats struct {
	URL    string       `json:"url"`
	Issues []IssueStats `json:"issues"`

	// Failures lists the issues skipped because their classification failed.
	Failures []*IssueError `json:"-"`
	// Err is set when the repository as a whole could not be extracted.
	Err error `json:"-"`
}

// Failed reports whether the repository could not be extracted at all.
func (r RepositoryStats) Failed() bool {
	return r.Issues == nil
}

// SampleRow is one repository of an active sample.
type SampleRow struct {
	URL    string `json:"url" yaml:"url"`
	Last90 int    `json:"last90" yaml:"last90"`
}

// RepositorySummary aggregates the persisted issues of one repository.
type RepositorySummary struct {
	URL             string   `json:"url" yaml:"url"`
	Issues          int      `json:"issues" yaml:"issues"`
	Pulls           int      `json:"pulls" yaml:"pulls"`
	Squashes        int      `json:"squashes" yaml:"squashes"`
	WithStart       int      `json:"with_start" yaml:"with_start"`
	WithFinish      int      `json:"with_finish" yaml:"with_finish"`
	MedianLeadHours *float64 `json:"median_lead_hours" yaml:"median_lead_hours"`
	P90LeadHours    *float64 `json:"p90_lead_hours" yaml:"p90_lead_hours"`
}
