// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/naka-gawa/github-lifecycle/internal/domain"
	"github.com/naka-gawa/github-lifecycle/internal/gateway"
)

const day = 24 * time.Hour

// Window bounds how long ago an issue may have been created and closed.
type Window struct {
	Created time.Duration
	Closed  time.Duration
}

// DefaultWindow covers issues created in the last 1.5 years and closed in the last year.
func DefaultWindow() Window {
	return Window{Created: 547 * day, Closed: 365 * day}
}

// WindowDays builds a Window from day counts.
func WindowDays(created, closed int) Window {
	return Window{Created: time.Duration(created) * day, Closed: time.Duration(closed) * day}
}

// Validate checks that an issue closed within the window could also have been created within it.
func (w Window) Validate() error {
	if w.Closed <= 0 {
		return &domain.ValidationError{Field: "closed window", Reason: "must be positive"}
	}
	if w.Created < w.Closed {
		return &domain.ValidationError{
			Field:  "created window",
			Reason: fmt.Sprintf("%s must not be shorter than the closed window %s", w.Created, w.Closed),
		}
	}
	return nil
}

// Extractor is the use case for extracting the issue lifecycles of one repository.
type Extractor struct {
	fetcher    gateway.Fetcher
	classifier *domain.Classifier
	logger     *log.Logger
	progress   ProgressReporter
	recorder   Recorder
	strict     bool
	now        func() time.Time
}

// ExtractorOption customizes an Extractor.
type ExtractorOption func(*Extractor)

// WithProgress reports per-issue progress when extraction is asked to show it.
func WithProgress(p ProgressReporter) ExtractorOption {
	return func(e *Extractor) { e.progress = p }
}

// WithRecorder sends extraction statistics to r.
func WithRecorder(r Recorder) ExtractorOption {
	return func(e *Extractor) { e.recorder = r }
}

// WithStrict makes a single failed issue fail the whole repository.
func WithStrict(strict bool) ExtractorOption {
	return func(e *Extractor) { e.strict = strict }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ExtractorOption {
	return func(e *Extractor) { e.now = now }
}

// NewExtractor creates a new Extractor instance.
func NewExtractor(fetcher gateway.Fetcher, classifier *domain.Classifier, logger *log.Logger, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		fetcher:    fetcher,
		classifier: classifier,
		logger:     logger,
		progress:   noopProgress{},
		recorder:   noopRecorder{},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract collects the lifecycle of every issue of the repository at url that was
// created and closed within the window. Issues whose classification fails are
// listed in Failures unless the extractor is strict.
func (e *Extractor) Extract(ctx context.Context, url string, window Window, showProgress bool) (*domain.RepositoryStats, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}
	ref, err := domain.ParseRepositoryURL(url)
	if err != nil {
		return nil, &domain.RepositoryError{URL: url, Err: err}
	}

	started := time.Now()
	repoStats, err := e.extract(ctx, url, ref, window, showProgress)
	e.recorder.RepositoryExtracted(ref.String(), time.Since(started), err)
	return repoStats, err
}

func (e *Extractor) extract(ctx context.Context, url string, ref domain.RepositoryRef, window Window, showProgress bool) (*domain.RepositoryStats, error) {
	now := e.now().UTC()
	createdSince := now.Add(-window.Created)
	closedSince := now.Add(-window.Closed)

	e.logger.Printf("Usecase: Extracting statistics from %s...", url)
	if err := e.fetcher.GetRepository(ctx, ref); err != nil {
		return nil, &domain.RepositoryError{URL: url, Err: err}
	}
	issues, err := e.fetcher.ListClosedIssues(ctx, ref, createdSince)
	if err != nil {
		return nil, &domain.RepositoryError{URL: url, Err: err}
	}

	var selected []domain.Issue
	for _, issue := range issues {
		if inWindow(issue, createdSince, closedSince) {
			selected = append(selected, issue)
		}
	}
	e.logger.Printf("Usecase: %d of %d issues of %s are within the window.", len(selected), len(issues), ref)

	progress := e.progress
	if !showProgress {
		progress = noopProgress{}
	}
	tracker := progress.Start(ref.String(), len(selected))
	defer tracker.Finish()

	repoStats := &domain.RepositoryStats{URL: url, Issues: make([]domain.IssueStats, 0, len(selected))}
	for _, issue := range selected {
		issueStats, err := e.extractIssue(ctx, ref, issue)
		tracker.Increment()
		if err != nil {
			if ctx.Err() != nil {
				return nil, &domain.RepositoryError{URL: url, Err: ctx.Err()}
			}
			issueErr := &domain.IssueError{Repository: ref.String(), Number: issue.Number, Err: err}
			if e.strict {
				return nil, &domain.RepositoryError{URL: url, Err: issueErr}
			}
			e.logger.Printf("Usecase: Skipping %v", issueErr)
			e.recorder.IssueFailed(ref.String())
			repoStats.Failures = append(repoStats.Failures, issueErr)
			continue
		}
		e.recorder.IssueExtracted(ref.String(), issueStats.IsPull)
		repoStats.Issues = append(repoStats.Issues, issueStats)
	}

	e.logger.Printf("Usecase: Done with %s!", url)
	return repoStats, nil
}

func (e *Extractor) extractIssue(ctx context.Context, ref domain.RepositoryRef, issue domain.Issue) (domain.IssueStats, error) {
	var pr *domain.PullRequestInfo
	if issue.IsPull {
		var err error
		pr, err = e.fetcher.GetPullRequest(ctx, ref, issue.Number)
		if err != nil {
			return domain.IssueStats{}, err
		}
	}

	timeline, err := e.fetcher.ListTimeline(ctx, ref, issue.Number)
	if err != nil {
		return domain.IssueStats{}, err
	}

	lookup := func(ctx context.Context, sha string) (*domain.CommitInfo, error) {
		return e.fetcher.GetCommit(ctx, ref, sha)
	}
	lc, err := e.classifier.Classify(ctx, timeline, pr, lookup)
	if err != nil {
		return domain.IssueStats{}, err
	}
	return domain.NewIssueStats(issue, lc), nil
}

// inWindow reports whether a closed issue was created and closed within the window.
func inWindow(issue domain.Issue, createdSince, closedSince time.Time) bool {
	if issue.State != "closed" || issue.ClosedAt == nil {
		return false
	}
	return !issue.CreatedAt.Before(createdSince) && !issue.ClosedAt.Before(closedSince)
}
