// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/github-lifecycle/internal/domain"
)

const perPage = 100

// Fetcher defines the behavior of a gateway for fetching issue data from GitHub.
type Fetcher interface {
	GetRepository(ctx context.Context, repo domain.RepositoryRef) error
	ListClosedIssues(ctx context.Context, repo domain.RepositoryRef, since time.Time) ([]domain.Issue, error)
	ListTimeline(ctx context.Context, repo domain.RepositoryRef, number int) ([]domain.TimelineEvent, error)
	GetPullRequest(ctx context.Context, repo domain.RepositoryRef, number int) (*domain.PullRequestInfo, error)
	GetCommit(ctx context.Context, repo domain.RepositoryRef, sha string) (*domain.CommitInfo, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *log.Logger
}

// Option customizes a GitHubGateway.
type Option func(*gatewayOptions)

type gatewayOptions struct {
	apiURL     string
	graphqlURL string
}

// WithEnterpriseURLs points the gateway at a GitHub Enterprise Server.
// Empty values keep the github.com endpoints.
func WithEnterpriseURLs(apiURL, graphqlURL string) Option {
	return func(o *gatewayOptions) {
		o.apiURL = apiURL
		o.graphqlURL = graphqlURL
	}
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token string, logger *log.Logger, opts ...Option) (*GitHubGateway, error) {
	var o gatewayOptions
	for _, opt := range opts {
		opt(&o)
	}

	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}

	restClient := github.NewClient(httpClient)
	if o.apiURL != "" {
		restClient, err = restClient.WithEnterpriseURLs(o.apiURL, o.apiURL)
		if err != nil {
			return nil, fmt.Errorf("failed to configure enterprise url: %w", err)
		}
	}
	graphqlClient := githubv4.NewClient(httpClient)
	if o.graphqlURL != "" {
		graphqlClient = githubv4.NewEnterpriseClient(o.graphqlURL, httpClient)
	}

	return &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		logger:        logger,
	}, nil
}

// GetRepository checks that the repository exists and is readable.
func (g *GitHubGateway) GetRepository(ctx context.Context, repo domain.RepositoryRef) error {
	if _, _, err := g.restClient.Repositories.Get(ctx, repo.Owner, repo.Name); err != nil {
		return fmt.Errorf("failed to get repository %s: %w", repo, err)
	}
	return nil
}

// ListClosedIssues lists the closed issues and pull requests updated since the given time.
func (g *GitHubGateway) ListClosedIssues(ctx context.Context, repo domain.RepositoryRef, since time.Time) ([]domain.Issue, error) {
	opts := &github.IssueListByRepoOptions{
		State:       "closed",
		Since:       since,
		ListOptions: github.ListOptions{PerPage: perPage},
	}
	var issues []domain.Issue
	for {
		page, resp, err := g.restClient.Issues.ListByRepo(ctx, repo.Owner, repo.Name, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list issues of %s: %w", repo, err)
		}
		for _, issue := range page {
			issues = append(issues, toDomainIssue(issue))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Printf("  Fetching next page of issues for %s...", repo)
	}
	return issues, nil
}

// ListTimeline fetches the complete timeline of an issue, oldest first.
func (g *GitHubGateway) ListTimeline(ctx context.Context, repo domain.RepositoryRef, number int) ([]domain.TimelineEvent, error) {
	opts := &github.ListOptions{PerPage: perPage}
	var events []domain.TimelineEvent
	for {
		page, resp, err := g.restClient.Issues.ListIssueTimeline(ctx, repo.Owner, repo.Name, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list timeline of %s#%d: %w", repo, number, err)
		}
		for _, event := range page {
			events = append(events, toDomainEvent(event))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return events, nil
}

// GetPullRequest fetches the commit count and the first commit of a pull request.
func (g *GitHubGateway) GetPullRequest(ctx context.Context, repo domain.RepositoryRef, number int) (*domain.PullRequestInfo, error) {
	pr, _, err := g.restClient.PullRequests.Get(ctx, repo.Owner, repo.Name, number)
	if err != nil {
		return nil, fmt.Errorf("failed to get pull request %s#%d: %w", repo, number, err)
	}
	info := &domain.PullRequestInfo{Commits: pr.GetCommits()}
	if info.Commits == 0 {
		return info, nil
	}

	commits, _, err := g.restClient.PullRequests.ListCommits(ctx, repo.Owner, repo.Name, number, &github.ListOptions{PerPage: 1})
	if err != nil {
		return nil, fmt.Errorf("failed to list commits of pull request %s#%d: %w", repo, number, err)
	}
	if len(commits) > 0 {
		info.FirstCommit = toDomainCommit(commits[0])
	}
	return info, nil
}

// GetCommit fetches a single commit by SHA.
func (g *GitHubGateway) GetCommit(ctx context.Context, repo domain.RepositoryRef, sha string) (*domain.CommitInfo, error) {
	commit, _, err := g.restClient.Repositories.GetCommit(ctx, repo.Owner, repo.Name, sha, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit %s of %s: %w", sha, repo, err)
	}
	return toDomainCommit(commit), nil
}

// toDomainIssue translates a github.Issue to our domain.Issue.
func toDomainIssue(i *github.Issue) domain.Issue {
	issue := domain.Issue{
		Number:      i.GetNumber(),
		State:       i.GetState(),
		StateReason: i.StateReason,
		CreatedAt:   i.GetCreatedAt().Time,
		IsPull:      i.IsPullRequest(),
	}
	if i.ClosedAt != nil {
		closed := i.GetClosedAt().Time
		issue.ClosedAt = &closed
	}
	return issue
}

// toDomainEvent translates a github.Timeline entry. Committed events carry no
// created_at, so their author date is used instead.
func toDomainEvent(t *github.Timeline) domain.TimelineEvent {
	event := domain.TimelineEvent{
		Event:     t.GetEvent(),
		CreatedAt: t.GetCreatedAt().Time,
		ID:        t.GetID(),
		URL:       t.GetURL(),
		SHA:       t.GetSHA(),
	}
	if t.CreatedAt == nil && t.Author != nil {
		event.CreatedAt = t.GetAuthor().GetDate().Time
	}
	return event
}

// toDomainCommit translates a github.RepositoryCommit to our domain.CommitInfo.
func toDomainCommit(c *github.RepositoryCommit) *domain.CommitInfo {
	return &domain.CommitInfo{
		SHA:        c.GetSHA(),
		AuthoredAt: c.GetCommit().GetAuthor().GetDate().Time,
		Parents:    len(c.Parents),
	}
}
