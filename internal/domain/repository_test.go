package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRepositoryURL(t *testing.T) {
	testCases := []struct {
		name     string
		rawURL   string
		expected RepositoryRef
	}{
		{name: "canonical", rawURL: "https://github.com/org/repo", expected: RepositoryRef{Owner: "org", Name: "repo"}},
		{name: "trailing slash", rawURL: "https://github.com/org/repo/", expected: RepositoryRef{Owner: "org", Name: "repo"}},
		{name: "git suffix", rawURL: "https://github.com/org/repo.git", expected: RepositoryRef{Owner: "org", Name: "repo"}},
		{name: "api url", rawURL: "https://api.github.com/repos/org/repo", expected: RepositoryRef{Owner: "org", Name: "repo"}},
		{name: "double slash", rawURL: "https://github.com//org//repo", expected: RepositoryRef{Owner: "org", Name: "repo"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ref, err := ParseRepositoryURL(tc.rawURL)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, ref)
			assert.Equal(t, "https://github.com/org/repo", ref.URL())
		})
	}
}

func TestParseRepositoryURL_Invalid(t *testing.T) {
	for _, rawURL := range []string{"", "https://github.com/", "https://github.com/org", "://bad"} {
		_, err := ParseRepositoryURL(rawURL)
		assert.ErrorIs(t, err, ErrInvalidURL, rawURL)
	}
}
