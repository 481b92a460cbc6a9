package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/github-lifecycle/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func sampleStats() []domain.RepositoryStats {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return []domain.RepositoryStats{
		{
			URL: "https://github.com/org/repo",
			Issues: []domain.IssueStats{
				{
					Number:      12,
					CreatedAt:   created,
					ClosedAt:    created.Add(48 * time.Hour),
					StartEvent:  ptr("assigned"),
					StartedAt:   ptr(created.Add(time.Hour)),
					StartID:     ptr(int64(1001)),
					FinishEvent: ptr("closed"),
					FinishedAt:  ptr(created.Add(48 * time.Hour)),
					FinishID:    ptr(int64(1002)),
					StateReason: ptr("completed"),
				},
				{
					Number:    3,
					CreatedAt: created,
					ClosedAt:  created.Add(time.Hour),
					IsPull:    true,
					IsSquash:  true,
				},
			},
		},
		{
			URL: "https://github.com/org/other",
			Err: errors.New("404 Not Found"),
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	saved := sampleStats()

	require.NoError(t, Save(dir, saved))
	loaded, err := Load(dir)
	require.NoError(t, err)

	byURL := map[string]domain.RepositoryStats{}
	for _, repo := range loaded {
		byURL[repo.URL] = repo
	}
	require.Len(t, byURL, 2)

	repo := byURL["https://github.com/org/repo"]
	require.Len(t, repo.Issues, 2)
	// Loaded issues are ordered by number.
	assert.Equal(t, saved[0].Issues[1], repo.Issues[0])
	assert.Equal(t, saved[0].Issues[0], repo.Issues[1])

	failed := byURL["https://github.com/org/other"]
	assert.Empty(t, failed.Issues)
}

func TestSave_Layout(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, Save(dir, sampleStats()))

	b, err := os.ReadFile(filepath.Join(dir, "org", "repo", "issues", "12.json"))
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.Equal(t, "2024-01-02T03:04:05Z", raw["created_at"])
	assert.Equal(t, "assigned", raw["start_event"])
	assert.Equal(t, float64(1001), raw["start_id"])

	b, err = os.ReadFile(filepath.Join(dir, "org", "repo", "issues", "3.json"))
	require.NoError(t, err)
	raw = nil
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.Contains(t, raw, "started_at")
	assert.Nil(t, raw["started_at"])
	assert.Equal(t, true, raw["is_squash"])

	info, err := os.Stat(filepath.Join(dir, "org", "other", "issues"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLoad_SkipsStrayFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Save(dir, sampleStats()))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("notes"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "org", "repo", "issues", ".DS_Store"), nil, 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "solo", "bare"), 0o755))

	loaded, err := Load(dir)

	require.NoError(t, err)
	require.Len(t, loaded, 3)
	for _, repo := range loaded {
		if repo.URL == "https://github.com/solo/bare" {
			assert.NotNil(t, repo.Issues)
			assert.Empty(t, repo.Issues)
		}
	}
}

func TestLoad_MissingDir(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent"))

	assert.Error(t, err)
}

func TestSave_InvalidURL(t *testing.T) {
	err := Save(t.TempDir(), []domain.RepositoryStats{{URL: "nowhere"}})

	assert.ErrorIs(t, err, domain.ErrInvalidURL)
}

func TestURLsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.json")
	urls := []string{"https://github.com/a/b", "https://github.com/c/d"}

	require.NoError(t, WriteURLs(path, urls))
	got, err := ReadURLs(path)

	require.NoError(t, err)
	assert.Equal(t, urls, got)

	require.NoError(t, os.WriteFile(path, []byte(`{"values": `), 0o644))
	_, err = ReadURLs(path)
	assert.Error(t, err)
}
