package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// RepositoryRef identifies a repository by owner and name.
type RepositoryRef struct {
	Owner string
	Name  string
}

func (r RepositoryRef) String() string {
	return r.Owner + "/" + r.Name
}

// URL returns the canonical github.com URL of the repository.
func (r RepositoryRef) URL() string {
	return "https://github.com/" + r.String()
}

// ParseRepositoryURL takes owner and name from the last two path segments of rawURL.
func ParseRepositoryURL(rawURL string) (RepositoryRef, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return RepositoryRef{}, fmt.Errorf("%w %q: %v", ErrInvalidURL, rawURL, err)
	}
	var segments []string
	for _, s := range strings.Split(strings.Trim(u.Path, "/"), "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) < 2 {
		return RepositoryRef{}, fmt.Errorf("%w %q: expected .../owner/name", ErrInvalidURL, rawURL)
	}
	return RepositoryRef{
		Owner: segments[len(segments)-2],
		Name:  strings.TrimSuffix(segments[len(segments)-1], ".git"),
	}, nil
}
