package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/github-lifecycle/internal/domain"
)

func TestCollector_Collect(t *testing.T) {
	missing := domain.RepositoryRef{Owner: "org", Name: "gone"}

	testCases := []struct {
		name        string
		concurrency int
	}{
		{name: "sequential", concurrency: 1},
		{name: "bounded pool", concurrency: 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fetcher := setupFetcher()
			fetcher.On("GetRepository", mock.Anything, missing).Return(errors.New("404 Not Found"))
			extractor := NewExtractor(fetcher, domain.NewClassifier(domain.FinishEndOfWork), discard, WithClock(clock))
			collector := NewCollector(extractor, tc.concurrency, discard)

			urls := []string{"https://github.com/org/gone", repoURL, "not a url"}
			results, err := collector.Collect(context.Background(), urls, window, false)

			require.NoError(t, err)
			require.Len(t, results, 3)

			assert.Equal(t, urls[0], results[0].URL)
			assert.True(t, results[0].Failed())
			assert.Error(t, results[0].Err)

			assert.Equal(t, repoURL, results[1].URL)
			assert.False(t, results[1].Failed())
			assert.NoError(t, results[1].Err)
			assert.Len(t, results[1].Issues, 2)

			assert.True(t, results[2].Failed())
			assert.ErrorIs(t, results[2].Err, domain.ErrInvalidURL)
		})
	}
}

func TestCollector_CollectValidatesWindow(t *testing.T) {
	fetcher := new(mockFetcher)
	collector := NewCollector(NewExtractor(fetcher, domain.NewClassifier(domain.FinishEndOfWork), discard), 1, discard)

	results, err := collector.Collect(context.Background(), []string{repoURL}, WindowDays(1, 2), false)

	assert.Nil(t, results)
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
	fetcher.AssertNotCalled(t, "GetRepository", mock.Anything, mock.Anything)
}

func TestCollector_CollectCancelled(t *testing.T) {
	fetcher := new(mockFetcher)
	collector := NewCollector(NewExtractor(fetcher, domain.NewClassifier(domain.FinishEndOfWork), discard), 1, discard)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := collector.Collect(ctx, []string{repoURL}, window, false)

	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 1)
	assert.True(t, results[0].Failed())
}
