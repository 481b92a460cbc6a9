package usecase

import (
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/github-lifecycle/internal/domain"
)

// Summarize aggregates persisted repository statistics, sorted by URL.
// Lead times are finished_at - started_at in hours, over issues having both.
func Summarize(repos []domain.RepositoryStats) []domain.RepositorySummary {
	summaries := make([]domain.RepositorySummary, 0, len(repos))
	for _, repo := range repos {
		summary := domain.RepositorySummary{URL: repo.URL, Issues: len(repo.Issues)}
		var leadHours stats.Float64Data
		for _, issue := range repo.Issues {
			if issue.IsPull {
				summary.Pulls++
			}
			if issue.IsSquash {
				summary.Squashes++
			}
			if issue.StartEvent != nil {
				summary.WithStart++
			}
			if issue.FinishEvent != nil {
				summary.WithFinish++
			}
			if lead, ok := issue.LeadTime(); ok {
				leadHours = append(leadHours, lead.Hours())
			}
		}
		if len(leadHours) > 0 {
			if median, err := leadHours.Median(); err == nil {
				summary.MedianLeadHours = &median
			}
			if p90, err := leadHours.Percentile(outlierPercentile); err == nil {
				summary.P90LeadHours = &p90
			}
		}
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].URL < summaries[j].URL
	})
	return summaries
}
