// Package store persists extracted statistics as a tree of JSON files:
// <dir>/<owner>/<name>/issues/<number>.json.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/naka-gawa/github-lifecycle/internal/domain"
)

const issuesDir = "issues"

// Save writes one file per issue. The repository directories are created even
// for failed repositories, which get no issue files.
func Save(dir string, repos []domain.RepositoryStats) error {
	for _, repo := range repos {
		ref, err := domain.ParseRepositoryURL(repo.URL)
		if err != nil {
			return err
		}
		issuePath := filepath.Join(dir, ref.Owner, ref.Name, issuesDir)
		if err := os.MkdirAll(issuePath, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", issuePath, err)
		}
		for _, issue := range repo.Issues {
			if err := writeJSON(filepath.Join(issuePath, strconv.Itoa(issue.Number)+".json"), issue); err != nil {
				return err
			}
		}
	}
	return nil
}

// Load reads back every <owner>/<name> directory under dir, issues sorted by number.
func Load(dir string) ([]domain.RepositoryStats, error) {
	owners, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var repos []domain.RepositoryStats
	for _, owner := range owners {
		if !owner.IsDir() {
			continue
		}
		names, err := os.ReadDir(filepath.Join(dir, owner.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", owner.Name(), err)
		}
		for _, name := range names {
			if !name.IsDir() {
				continue
			}
			ref := domain.RepositoryRef{Owner: owner.Name(), Name: name.Name()}
			issues, err := loadIssues(filepath.Join(dir, ref.Owner, ref.Name, issuesDir))
			if err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", ref, err)
			}
			repos = append(repos, domain.RepositoryStats{URL: ref.URL(), Issues: issues})
		}
	}
	return repos, nil
}

func loadIssues(path string) ([]domain.IssueStats, error) {
	entries, err := os.ReadDir(path)
	if os.IsNotExist(err) {
		return []domain.IssueStats{}, nil
	}
	if err != nil {
		return nil, err
	}

	issues := make([]domain.IssueStats, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		b, err := os.ReadFile(filepath.Join(path, entry.Name()))
		if err != nil {
			return nil, err
		}
		var issue domain.IssueStats
		if err := json.Unmarshal(b, &issue); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", entry.Name(), err)
		}
		issues = append(issues, issue)
	}
	sort.Slice(issues, func(i, j int) bool {
		return issues[i].Number < issues[j].Number
	})
	return issues, nil
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
