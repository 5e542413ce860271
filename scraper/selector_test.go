package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zwin-ux/RedditScraper-sub000/enums"
)

type fakeStrategy struct {
	source  enums.Source
	posts   []Post
	err     error
	fetches int
}

func (f *fakeStrategy) Source() enums.Source { return f.source }

func (f *fakeStrategy) Fetch(ctx context.Context, opts Options) ([]Post, error) {
	f.fetches++
	return f.posts, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func makePosts(n int, source enums.Source) []Post {
	posts := make([]Post, 0, n)
	for i := 0; i < n; i++ {
		posts = append(posts, Post{
			ID:     fmt.Sprintf("%s_%d", source, i),
			Title:  fmt.Sprintf("post %d", i),
			Author: fmt.Sprintf("user%d", i),
			Score:  10,
			Source: source,
		})
	}
	return posts
}

func TestSelector_FirstStrategySufficient(t *testing.T) {
	official := &fakeStrategy{source: enums.SourceRedditAPI, posts: makePosts(10, enums.SourceRedditAPI)}
	public := &fakeStrategy{source: enums.SourcePublicJSON, posts: makePosts(10, enums.SourcePublicJSON)}

	s := NewSelector(testLogger(), official, public)
	result := s.Scrape(context.Background(), Options{Subreddit: "datascience"})

	assert.Equal(t, enums.SourceRedditAPI, result.Source)
	assert.Equal(t, 10, result.TotalFound)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 1, official.fetches)
	assert.Equal(t, 0, public.fetches, "chain must stop once a strategy is sufficient")
}

func TestSelector_FallsThroughOnFailure(t *testing.T) {
	official := &fakeStrategy{
		source: enums.SourceRedditAPI,
		err:    &UpstreamError{Upstream: "reddit_api", Status: 403, Body: "Forbidden"},
	}
	public := &fakeStrategy{
		source: enums.SourcePublicJSON,
		err:    &UpstreamError{Upstream: "public_json", Status: 403, Body: "Blocked"},
	}
	archive := &fakeStrategy{source: enums.SourceArcticShift, posts: makePosts(3, enums.SourceArcticShift)}

	s := NewSelector(testLogger(), official, public, archive)
	result := s.Scrape(context.Background(), Options{Subreddit: "datascience", UseArchive: true})

	assert.Equal(t, enums.SourceArcticShift, result.Source)
	assert.Equal(t, 3, result.TotalFound)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "reddit_api")
	assert.Contains(t, result.Errors[1], "public_json")
}

func TestSelector_ArchiveSkippedWithoutOptIn(t *testing.T) {
	official := &fakeStrategy{source: enums.SourceRedditAPI, err: &UpstreamError{Upstream: "reddit_api", Status: 500}}
	archive := &fakeStrategy{source: enums.SourceArcticShift, posts: makePosts(10, enums.SourceArcticShift)}
	html := &fakeStrategy{source: enums.SourceHTMLScrape, posts: makePosts(8, enums.SourceHTMLScrape)}

	s := NewSelector(testLogger(), official, archive, html)
	result := s.Scrape(context.Background(), Options{Subreddit: "datascience", UseArchive: false})

	assert.Equal(t, 0, archive.fetches)
	assert.Equal(t, enums.SourceHTMLScrape, result.Source)
}

func TestSelector_ArchiveSkippedUntilOfficialFails(t *testing.T) {
	official := &fakeStrategy{source: enums.SourceRedditAPI, posts: makePosts(2, enums.SourceRedditAPI)}
	archive := &fakeStrategy{source: enums.SourceArcticShift, posts: makePosts(10, enums.SourceArcticShift)}
	html := &fakeStrategy{source: enums.SourceHTMLScrape, posts: makePosts(8, enums.SourceHTMLScrape)}

	// Official succeeded with a small result, so the archive stays gated and
	// the chain continues past it.
	s := NewSelector(testLogger(), official, archive, html)
	result := s.Scrape(context.Background(), Options{Subreddit: "datascience", UseArchive: true})

	assert.Equal(t, 0, archive.fetches)
	assert.Equal(t, enums.SourceHTMLScrape, result.Source)
	assert.Equal(t, 8, result.TotalFound)
}

func TestSelector_ArchiveReachableWithoutOfficialStrategy(t *testing.T) {
	// Credential-less deployments run a chain with no official API at all;
	// the archive gate must still open for them.
	public := &fakeStrategy{
		source: enums.SourcePublicJSON,
		err:    &UpstreamError{Upstream: "public_json", Status: 403, Body: "Blocked"},
	}
	archive := &fakeStrategy{source: enums.SourceArcticShift, posts: makePosts(10, enums.SourceArcticShift)}
	html := &fakeStrategy{
		source: enums.SourceHTMLScrape,
		err:    &UpstreamError{Upstream: "html_scrape", Status: 403, Body: "Blocked"},
	}

	s := NewSelector(testLogger(), public, archive, html)
	result := s.Scrape(context.Background(), Options{Subreddit: "datascience", UseArchive: true})

	assert.Equal(t, 1, archive.fetches)
	assert.Equal(t, enums.SourceArcticShift, result.Source)
	assert.Equal(t, 10, result.TotalFound)
	require.Len(t, result.Errors, 1)
}

func TestSelector_TotalFailure(t *testing.T) {
	official := &fakeStrategy{source: enums.SourceRedditAPI, err: &UpstreamError{Upstream: "reddit_api", Status: 500}}
	public := &fakeStrategy{source: enums.SourcePublicJSON, err: &UpstreamError{Upstream: "public_json", Status: 500}}

	s := NewSelector(testLogger(), official, public)
	result := s.Scrape(context.Background(), Options{Subreddit: "datascience"})

	require.NotNil(t, result)
	assert.Empty(t, result.Posts)
	assert.Equal(t, 0, result.TotalFound)
	assert.Len(t, result.Errors, 2)
}

func TestSelector_KeepsBestPartialResult(t *testing.T) {
	official := &fakeStrategy{source: enums.SourceRedditAPI, posts: makePosts(2, enums.SourceRedditAPI)}
	public := &fakeStrategy{source: enums.SourcePublicJSON, posts: makePosts(4, enums.SourcePublicJSON)}
	html := &fakeStrategy{source: enums.SourceHTMLScrape, posts: makePosts(3, enums.SourceHTMLScrape)}

	s := NewSelector(testLogger(), official, public, html)
	result := s.Scrape(context.Background(), Options{Subreddit: "datascience"})

	// Nobody exceeded the sufficiency threshold; the largest result wins.
	assert.Equal(t, enums.SourcePublicJSON, result.Source)
	assert.Equal(t, 4, result.TotalFound)
	assert.Equal(t, 1, html.fetches, "every strategy gets a chance when none is sufficient")
}

func TestSelector_RateLimitFlag(t *testing.T) {
	official := &fakeStrategy{
		source: enums.SourceRedditAPI,
		err:    &RateLimitError{Upstream: "reddit_api", RetryAfter: 60},
	}
	public := &fakeStrategy{source: enums.SourcePublicJSON, posts: makePosts(10, enums.SourcePublicJSON)}

	s := NewSelector(testLogger(), official, public)
	result := s.Scrape(context.Background(), Options{Subreddit: "datascience"})

	assert.True(t, result.RateLimited)
	assert.Equal(t, enums.SourcePublicJSON, result.Source)
}

func TestSelector_SufficiencyThreshold(t *testing.T) {
	official := &fakeStrategy{source: enums.SourceRedditAPI, posts: makePosts(3, enums.SourceRedditAPI)}
	public := &fakeStrategy{source: enums.SourcePublicJSON, posts: makePosts(6, enums.SourcePublicJSON)}

	s := NewSelector(testLogger(), official, public)
	s.SetSufficientCount(2)
	result := s.Scrape(context.Background(), Options{Subreddit: "datascience"})

	// Lower threshold stops the chain at the first strategy.
	assert.Equal(t, enums.SourceRedditAPI, result.Source)
	assert.Equal(t, 0, public.fetches)
}

func TestSelector_DedupesWithinStrategy(t *testing.T) {
	dup := makePosts(3, enums.SourcePublicJSON)
	dup = append(dup, dup[0])
	public := &fakeStrategy{source: enums.SourcePublicJSON, posts: dup}

	s := NewSelector(testLogger(), public)
	result := s.Scrape(context.Background(), Options{Subreddit: "datascience"})

	assert.Equal(t, 3, result.TotalFound)
}
