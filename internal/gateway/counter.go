package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"

	"github.com/naka-gawa/github-lifecycle/internal/domain"
)

// Commit counter backends.
const (
	CounterREST    = "rest"
	CounterGraphQL = "graphql"
)

// CommitCounter counts the commits made to a repository since a point in time.
type CommitCounter interface {
	CountCommitsSince(ctx context.Context, repo domain.RepositoryRef, since time.Time) (int, error)
}

// commitHistoryQuery counts the commits of the default branch.
type commitHistoryQuery struct {
	Repository struct {
		DefaultBranchRef struct {
			Target struct {
				Commit struct {
					History struct {
						TotalCount int
					} `graphql:"history(since: $since)"`
				} `graphql:"... on Commit"`
			}
		}
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// CommitCounter returns the counter for the named backend.
func (g *GitHubGateway) CommitCounter(backend string) (CommitCounter, error) {
	switch backend {
	case "", CounterREST:
		return restCounter{g}, nil
	case CounterGraphQL:
		return graphqlCounter{g}, nil
	}
	return nil, &domain.ValidationError{Field: "counter", Reason: fmt.Sprintf("unknown backend %q", backend)}
}

type restCounter struct{ g *GitHubGateway }

// CountCommitsSince requests one commit per page, so the page number of the
// last page equals the number of commits.
func (c restCounter) CountCommitsSince(ctx context.Context, repo domain.RepositoryRef, since time.Time) (int, error) {
	opts := &github.CommitsListOptions{
		Since:       since,
		ListOptions: github.ListOptions{PerPage: 1},
	}
	commits, resp, err := c.g.restClient.Repositories.ListCommits(ctx, repo.Owner, repo.Name, opts)
	if err != nil {
		return 0, fmt.Errorf("failed to list commits of %s: %w", repo, err)
	}
	if resp.LastPage > 0 {
		return resp.LastPage, nil
	}
	return len(commits), nil
}

type graphqlCounter struct{ g *GitHubGateway }

func (c graphqlCounter) CountCommitsSince(ctx context.Context, repo domain.RepositoryRef, since time.Time) (int, error) {
	variables := map[string]interface{}{
		"owner": githubv4.String(repo.Owner),
		"name":  githubv4.String(repo.Name),
		"since": githubv4.GitTimestamp{Time: since},
	}
	var q commitHistoryQuery
	if err := c.g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return 0, fmt.Errorf("failed to execute GraphQL query for commit history of %s: %w", repo, err)
	}
	return q.Repository.DefaultBranchRef.Target.Commit.History.TotalCount, nil
}
