package scraper

import (
	"context"

	"github.com/Zwin-ux/RedditScraper-sub000/enums"
)

// Strategy is one interchangeable acquisition method. Implementations differ
// only in transport and trust level; all of them return canonical Posts with
// sentinel authors already excluded.
type Strategy interface {
	Source() enums.Source
	// Fetch returns the posts it could acquire for opts.Subreddit. A zero-length
	// result with nil error means the strategy ran but extracted nothing.
	Fetch(ctx context.Context, opts Options) ([]Post, error)
}
