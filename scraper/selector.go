package scraper

import (
	"context"
	"log/slog"
	"time"

	"github.com/Zwin-ux/RedditScraper-sub000/enums"
)

// DefaultSufficientCount is the post count a strategy must exceed for the
// chain to stop falling through.
const DefaultSufficientCount = 5

// Selector runs the fallback chain: strategies are tried strictly in priority
// order, stopping at the first one that delivers more than sufficientCount
// posts. Failures accumulate into the result's error list instead of aborting
// the chain; the caller always receives a structured Result, never a panic or
// an error return. Partial data beats no data.
type Selector struct {
	strategies []Strategy
	sufficient int
	logger     *slog.Logger
}

func NewSelector(logger *slog.Logger, strategies ...Strategy) *Selector {
	return &Selector{
		strategies: strategies,
		sufficient: DefaultSufficientCount,
		logger:     logger,
	}
}

// Scrape executes the chain for one subreddit.
func (s *Selector) Scrape(ctx context.Context, opts Options) *Result {
	opts = opts.WithDefaults()
	start := time.Now()

	result := &Result{
		Subreddit: opts.Subreddit,
		Posts:     []Post{},
		Errors:    []string{},
	}

	var best []Post
	var bestSource enums.Source

	// A chain without the official API counts as the official API having
	// failed, so the archive gate can still open in credential-less setups.
	officialFailed := true
	for _, strategy := range s.strategies {
		if strategy.Source() == enums.SourceRedditAPI {
			officialFailed = false
		}
	}

	for _, strategy := range s.strategies {
		if strategy.Source() == enums.SourceArcticShift {
			// Archive fallback is gated: opt-in, and only once the official
			// API has definitively failed.
			if !opts.UseArchive || !officialFailed {
				continue
			}
		}

		fetchCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
		posts, err := strategy.Fetch(fetchCtx, opts)
		cancel()

		if err != nil {
			if strategy.Source() == enums.SourceRedditAPI {
				officialFailed = true
			}
			if IsRateLimited(err) {
				result.RateLimited = true
			}
			result.Errors = append(result.Errors, string(strategy.Source())+": "+truncateError(err))
			metricAttempts.WithLabelValues(string(strategy.Source()), "error").Inc()
			s.logger.Warn("strategy failed",
				"strategy", strategy.Source(), "subreddit", opts.Subreddit, "error", truncateError(err))
			continue
		}

		posts = DedupePosts(posts)
		metricAttempts.WithLabelValues(string(strategy.Source()), "ok").Inc()
		s.logger.Debug("strategy returned",
			"strategy", strategy.Source(), "subreddit", opts.Subreddit, "posts", len(posts))

		if len(posts) > len(best) {
			best = posts
			bestSource = strategy.Source()
		}
		if len(posts) > s.sufficient {
			break
		}
		if strategy.Source() == enums.SourceRedditAPI && len(posts) == 0 {
			officialFailed = true
		}
	}

	result.Posts = ApplyFilters(best, opts)
	result.TotalFound = len(result.Posts)
	result.Source = bestSource
	result.DurationMs = time.Since(start).Milliseconds()
	result.CompletedAt = time.Now()
	metricDuration.Observe(time.Since(start).Seconds())

	s.logger.Info("scrape complete",
		"subreddit", opts.Subreddit,
		"source", result.Source,
		"posts", result.TotalFound,
		"errors", len(result.Errors),
		"rate_limited", result.RateLimited,
		"duration_ms", result.DurationMs)

	return result
}

// SetSufficientCount tunes the "good enough" threshold.
func (s *Selector) SetSufficientCount(n int) {
	s.sufficient = n
}
