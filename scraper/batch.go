package scraper

import (
	"context"
	"time"

	"github.com/Zwin-ux/RedditScraper-sub000/enums"
)

// interSubredditDelay spaces out batch scrapes so consecutive subreddits do
// not hammer the same upstream.
const interSubredditDelay = 2 * time.Second

// BatchSummary aggregates statistics across one ScrapeMultiple run.
type BatchSummary struct {
	Results          []*Result            `json:"results"`
	TotalPosts       int                  `json:"total_posts"`
	ErrorCount       int                  `json:"error_count"`
	AvgDurationMs    int64                `json:"avg_duration_ms"`
	RateLimitedCount int                  `json:"rate_limited_count"`
	BySource         map[enums.Source]int `json:"by_source"`
}

// ScrapeMultiple runs the fallback chain for each subreddit in turn with a
// fixed delay between them, then aggregates summary statistics.
func (s *Selector) ScrapeMultiple(ctx context.Context, subreddits []string, base Options) BatchSummary {
	summary := BatchSummary{BySource: make(map[enums.Source]int)}

	var totalDuration int64
	for i, sub := range subreddits {
		if i > 0 {
			if err := sleepCtx(ctx, interSubredditDelay); err != nil {
				break
			}
		}

		opts := base
		opts.Subreddit = sub
		result := s.Scrape(ctx, opts)

		summary.Results = append(summary.Results, result)
		summary.TotalPosts += result.TotalFound
		summary.ErrorCount += len(result.Errors)
		totalDuration += result.DurationMs
		if result.RateLimited {
			summary.RateLimitedCount++
		}
		if result.Source != enums.SourceInvalid {
			summary.BySource[result.Source]++
		}
	}

	if len(summary.Results) > 0 {
		summary.AvgDurationMs = totalDuration / int64(len(summary.Results))
	}
	return summary
}
