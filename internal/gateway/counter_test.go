package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRESTCounter_CountCommitsSince(t *testing.T) {
	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name           string
		handlerFunc    func(w http.ResponseWriter, r *http.Request)
		expected       int
		expectError    bool
		expectedErrMsg string
	}{
		{
			name: "last page number is the commit count",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/repos/org/repo/commits", r.URL.Path)
				assert.Equal(t, "1", r.URL.Query().Get("per_page"))
				assert.Equal(t, "2024-01-01T00:00:00Z", r.URL.Query().Get("since"))
				w.Header().Set("Link", `<https://api.github.com/repositories/1/commits?per_page=1&page=2>; rel="next", <https://api.github.com/repositories/1/commits?per_page=1&page=37>; rel="last"`)
				fmt.Fprint(w, `[{"sha": "a"}]`)
			},
			expected: 37,
		},
		{
			name: "single page without pagination",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `[{"sha": "a"}]`)
			},
			expected: 1,
		},
		{
			name: "no commits",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `[]`)
			},
			expected: 0,
		},
		{
			name: "error case - repository not found",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				fmt.Fprint(w, `{"message": "Not Found"}`)
			},
			expectError:    true,
			expectedErrMsg: "failed to list commits of org/repo",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gateway, server := setupTestGateway(t, http.HandlerFunc(tc.handlerFunc))
			defer server.Close()
			counter, err := gateway.CommitCounter(CounterREST)
			require.NoError(t, err)

			count, err := counter.CountCommitsSince(context.Background(), testRepo, since)
			if tc.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErrMsg)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, count)
			}
		})
	}
}

func TestGraphQLCounter_CountCommitsSince(t *testing.T) {
	testCases := []struct {
		name           string
		responseBody   string
		expected       int
		expectError    bool
		expectedErrMsg string
	}{
		{
			name:         "happy path",
			responseBody: `{"data":{"repository":{"defaultBranchRef":{"target":{"history":{"totalCount":42}}}}}}`,
			expected:     42,
		},
		{
			name:           "error case",
			responseBody:   `{"errors":[{"message":"Could not resolve to a Repository"}]}`,
			expectError:    true,
			expectedErrMsg: "failed to execute GraphQL query for commit history of org/repo",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := func(w http.ResponseWriter, r *http.Request) {
				body, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				assert.Contains(t, string(body), "history(since: $since)")
				assert.Contains(t, string(body), `"owner":"org"`)

				w.WriteHeader(http.StatusOK)
				fmt.Fprint(w, tc.responseBody)
			}
			gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
			defer server.Close()
			counter, err := gateway.CommitCounter(CounterGraphQL)
			require.NoError(t, err)

			count, err := counter.CountCommitsSince(context.Background(), testRepo, time.Now().AddDate(0, 0, -90))
			if tc.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErrMsg)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, count)
			}
		})
	}
}

func TestGitHubGateway_CommitCounterUnknownBackend(t *testing.T) {
	gateway := &GitHubGateway{}

	_, err := gateway.CommitCounter("svn")

	assert.Error(t, err)
}
