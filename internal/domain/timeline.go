package domain

import (
	"strings"
	"time"
)

// Timeline event types used by the lifecycle heuristic.
const (
	EventConnected             = "connected"
	EventAssigned              = "assigned"
	EventCommitted             = "committed"
	EventClosed                = "closed"
	EventConvertToDraft        = "convert_to_draft"
	EventConvertedToDiscussion = "converted_to_discussion"
	EventDeployed              = "deployed"
	EventMarkedAsDuplicate     = "marked_as_duplicate"
	EventMerged                = "merged"

	// EventFirstCommit tags the synthetic start taken from a pull request's first commit.
	EventFirstCommit = "<commit>"
)

// TimelineEvent mirrors one entry of an issue timeline as returned by GitHub.
type TimelineEvent struct {
	Event     string
	CreatedAt time.Time
	ID        int64
	URL       string
	SHA       string
}

// CommitSHA returns the commit referenced by a committed event: the last path
// segment of its URL, or the reported SHA when the URL is empty.
func (e TimelineEvent) CommitSHA() string {
	if e.URL != "" {
		u := strings.TrimRight(e.URL, "/")
		if i := strings.LastIndex(u, "/"); i >= 0 && i < len(u)-1 {
			return u[i+1:]
		}
	}
	return e.SHA
}

// CommitInfo holds the commit attributes the heuristic reads.
type CommitInfo struct {
	SHA        string
	AuthoredAt time.Time
	Parents    int
}

// PullRequestInfo describes the commits of a pull request.
type PullRequestInfo struct {
	Commits     int
	FirstCommit *CommitInfo
}

// EventSet is a set of timeline event types.
type EventSet map[string]struct{}

// NewEventSet builds a set from event types.
func NewEventSet(events ...string) EventSet {
	s := make(EventSet, len(events))
	for _, e := range events {
		s[e] = struct{}{}
	}
	return s
}

// Has reports whether event is in the set.
func (s EventSet) Has(event string) bool {
	_, ok := s[event]
	return ok
}

// Without returns a copy of s without the given events.
func (s EventSet) Without(events ...string) EventSet {
	out := make(EventSet, len(s))
	for e := range s {
		out[e] = struct{}{}
	}
	for _, e := range events {
		delete(out, e)
	}
	return out
}
