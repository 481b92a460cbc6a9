package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidURL is returned when a repository URL has no owner/name path.
	ErrInvalidURL = errors.New("invalid repository url")
	// ErrMissingCommitSHA is returned when a committed event carries no commit reference.
	ErrMissingCommitSHA = errors.New("committed event has no commit sha")
)

// ValidationError reports a malformed configuration value.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IssueError wraps a failure to classify a single issue.
type IssueError struct {
	Repository string
	Number     int
	Err        error
}

func (e *IssueError) Error() string {
	return fmt.Sprintf("issue #%d of %s: %v", e.Number, e.Repository, e.Err)
}

func (e *IssueError) Unwrap() error {
	return e.Err
}

// RepositoryError wraps a failure to extract a whole repository.
type RepositoryError struct {
	URL string
	Err error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository %s: %v", e.URL, e.Err)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}
