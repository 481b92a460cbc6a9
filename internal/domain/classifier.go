package domain

import (
	"context"
	"fmt"
	"time"
)

var (
	// StartOfWorkEvents are the timeline events that mark work beginning on an issue.
	StartOfWorkEvents = NewEventSet(EventConnected, EventAssigned, EventCommitted)
	// EndOfWorkEvents are the timeline events that mark work ending on an issue.
	EndOfWorkEvents = NewEventSet(
		EventClosed,
		EventConvertToDraft,
		EventConvertedToDiscussion,
		EventDeployed,
		EventMarkedAsDuplicate,
		EventMerged,
	)
)

// FinishVariant selects the set scanned backwards for the end-of-work event.
type FinishVariant string

const (
	// FinishEndOfWork scans the end-of-work events other than "closed".
	FinishEndOfWork FinishVariant = "end-of-work"
	// FinishLegacy scans the start-of-work events, as older collectors did.
	FinishLegacy FinishVariant = "legacy"
)

// ParseFinishVariant validates a variant name. The empty string selects FinishEndOfWork.
func ParseFinishVariant(s string) (FinishVariant, error) {
	switch FinishVariant(s) {
	case "", FinishEndOfWork:
		return FinishEndOfWork, nil
	case FinishLegacy:
		return FinishLegacy, nil
	}
	return "", &ValidationError{Field: "finish-set", Reason: fmt.Sprintf("unknown variant %q", s)}
}

// Marker is one classified lifecycle point.
// ID is nil for points that do not come from a timeline event id.
type Marker struct {
	Event string
	At    time.Time
	ID    *int64
}

func (m *Marker) fields() (*string, *time.Time, *int64) {
	event, at := m.Event, m.At
	var id *int64
	if m.ID != nil {
		v := *m.ID
		id = &v
	}
	return &event, &at, id
}

// Lifecycle is the outcome of classifying an issue timeline.
type Lifecycle struct {
	Start    *Marker
	Finish   *Marker
	IsSquash bool
}

// CommitLookup resolves a commit of the issue's repository by SHA.
type CommitLookup func(ctx context.Context, sha string) (*CommitInfo, error)

// Classifier maps an issue timeline to a start-of-work and end-of-work pair.
type Classifier struct {
	startSet  EventSet
	finishSet EventSet
}

// NewClassifier creates a Classifier using the given end-of-work variant.
func NewClassifier(variant FinishVariant) *Classifier {
	finish := EndOfWorkEvents.Without(EventClosed)
	if variant == FinishLegacy {
		finish = StartOfWorkEvents.Without(EventClosed)
	}
	return &Classifier{
		startSet:  StartOfWorkEvents,
		finishSet: finish,
	}
}

// Classify derives the lifecycle of an issue from its timeline. pr is nil for plain issues.
// lookup is only called when the first start-of-work event is a commit.
func (c *Classifier) Classify(ctx context.Context, timeline []TimelineEvent, pr *PullRequestInfo, lookup CommitLookup) (Lifecycle, error) {
	var lc Lifecycle

	if pr != nil && pr.Commits > 0 && pr.FirstCommit != nil {
		if pr.Commits == 1 && pr.FirstCommit.Parents == 1 {
			lc.IsSquash = true
		} else {
			lc.Start = &Marker{Event: EventFirstCommit, At: pr.FirstCommit.AuthoredAt}
		}
	}

	if start := firstMatch(timeline, c.startSet); start != nil {
		if start.Event == EventCommitted {
			sha := start.CommitSHA()
			if sha == "" {
				return Lifecycle{}, ErrMissingCommitSHA
			}
			commit, err := lookup(ctx, sha)
			if err != nil {
				return Lifecycle{}, fmt.Errorf("failed to resolve commit %s: %w", sha, err)
			}
			// A commit already counted as the pull request's first commit must not move the start later.
			if lc.Start == nil || !commit.AuthoredAt.After(lc.Start.At) {
				lc.Start = &Marker{Event: EventCommitted, At: commit.AuthoredAt}
			}
		} else {
			lc.Start = markerOf(start)
		}
	}

	finish := lastMatch(timeline, c.finishSet)
	if finish == nil {
		finish = lastMatch(timeline, NewEventSet(EventClosed))
	}
	if finish != nil {
		lc.Finish = markerOf(finish)
	}

	return lc, nil
}

// markerOf leaves ID nil for events without one, such as committed events.
func markerOf(e *TimelineEvent) *Marker {
	m := &Marker{Event: e.Event, At: e.CreatedAt}
	if e.ID != 0 {
		id := e.ID
		m.ID = &id
	}
	return m
}

func firstMatch(timeline []TimelineEvent, set EventSet) *TimelineEvent {
	for i := range timeline {
		if set.Has(timeline[i].Event) {
			return &timeline[i]
		}
	}
	return nil
}

func lastMatch(timeline []TimelineEvent, set EventSet) *TimelineEvent {
	for i := len(timeline) - 1; i >= 0; i-- {
		if set.Has(timeline[i].Event) {
			return &timeline[i]
		}
	}
	return nil
}
