package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	m := New()

	m.IssueExtracted("org/repo", false)
	m.IssueExtracted("org/repo", true)
	m.IssueExtracted("org/repo", true)
	m.IssueFailed("org/repo")
	m.RepositoryExtracted("org/repo", 2*time.Second, nil)
	m.RepositoryExtracted("org/gone", time.Second, errors.New("404"))
	m.CommitsCounted("org/repo", 12, nil)
	m.CommitsCounted("org/gone", 0, errors.New("404"))
	m.SampleSelected(10, 4)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.issuesExtracted.WithLabelValues("org/repo", "issue")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.issuesExtracted.WithLabelValues("org/repo", "pull")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.issuesFailed.WithLabelValues("org/repo")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.repositories.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.repositories.WithLabelValues("failed")))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.commitsCounted.WithLabelValues("org/repo")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.counterErrors))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.sampleCandidates))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.sampleSelected))
	assert.Equal(t, 2, testutil.CollectAndCount(m.repositories))
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := New()
	m.IssueExtracted("org/repo", false)
	path := filepath.Join(t.TempDir(), "lifecycle.prom")

	require.NoError(t, m.WriteTextfile(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `lifecycle_issues_extracted_total{kind="issue",repository="org/repo"} 1`)
	assert.Contains(t, string(b), "lifecycle_last_completed_timestamp_seconds")
}
