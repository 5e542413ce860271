package scraper

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zwin-ux/RedditScraper-sub000/enums"
)

type fakeEngine struct {
	mu      sync.Mutex
	scrapes int32
	results map[string]*Result
	block   chan struct{} // when set, Scrape waits on it
}

func (e *fakeEngine) Scrape(ctx context.Context, opts Options) *Result {
	atomic.AddInt32(&e.scrapes, 1)
	if e.block != nil {
		<-e.block
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if r, ok := e.results[opts.Subreddit]; ok {
		return r
	}
	return &Result{
		Subreddit:  opts.Subreddit,
		Posts:      makePosts(3, enums.SourceRedditAPI),
		TotalFound: 3,
		Source:     enums.SourceRedditAPI,
		Errors:     []string{},
	}
}

func (e *fakeEngine) count() int {
	return int(atomic.LoadInt32(&e.scrapes))
}

func startQueue(t *testing.T, engine Engine) *Queue {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	q := NewQueue(engine, testLogger())
	q.Start(ctx)
	return q
}

func TestQueue_ServesFromCache(t *testing.T) {
	engine := &fakeEngine{}
	q := startQueue(t, engine)

	ctx := context.Background()
	first, err := q.Enqueue(ctx, Options{Subreddit: "datascience"}, enums.PriorityMedium)
	require.NoError(t, err)
	require.Equal(t, 3, first.TotalFound)

	second, err := q.Enqueue(ctx, Options{Subreddit: "DataScience"}, enums.PriorityMedium)
	require.NoError(t, err)

	assert.Same(t, first, second, "subreddit keys are case-insensitive")
	assert.Equal(t, 1, engine.count())
}

func TestQueue_ExpiredCacheRefetches(t *testing.T) {
	engine := &fakeEngine{}
	q := startQueue(t, engine)
	q.SetTTL(time.Nanosecond)

	ctx := context.Background()
	_, err := q.Enqueue(ctx, Options{Subreddit: "datascience"}, enums.PriorityMedium)
	require.NoError(t, err)

	time.Sleep(time.Millisecond)
	_, err = q.Enqueue(ctx, Options{Subreddit: "datascience"}, enums.PriorityMedium)
	require.NoError(t, err)

	assert.Equal(t, 2, engine.count())
}

func TestQueue_InvalidateCache(t *testing.T) {
	engine := &fakeEngine{}
	q := startQueue(t, engine)

	ctx := context.Background()
	_, err := q.Enqueue(ctx, Options{Subreddit: "datascience"}, enums.PriorityMedium)
	require.NoError(t, err)

	q.InvalidateCache("DataScience")
	_, err = q.Enqueue(ctx, Options{Subreddit: "datascience"}, enums.PriorityMedium)
	require.NoError(t, err)

	assert.Equal(t, 2, engine.count())
}

func TestQueue_CoalescesConcurrentRequests(t *testing.T) {
	engine := &fakeEngine{block: make(chan struct{})}
	q := startQueue(t, engine)

	const callers = 8
	results := make(chan *Result, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := q.Enqueue(context.Background(), Options{Subreddit: "datascience"}, enums.PriorityMedium)
			assert.NoError(t, err)
			results <- r
		}()
	}

	// Give every caller time to attach to the pending job, then release.
	time.Sleep(200 * time.Millisecond)
	close(engine.block)
	wg.Wait()
	close(results)

	first := <-results
	for r := range results {
		assert.Same(t, first, r, "coalesced callers share one result")
	}
	assert.Equal(t, 1, engine.count())
}

func TestQueue_TotalFailureNotCached(t *testing.T) {
	engine := &fakeEngine{
		results: map[string]*Result{
			"datascience": {
				Subreddit: "datascience",
				Posts:     []Post{},
				Errors:    []string{"reddit_api: status 500"},
			},
		},
	}
	q := startQueue(t, engine)

	ctx := context.Background()
	result, err := q.Enqueue(ctx, Options{Subreddit: "datascience"}, enums.PriorityHigh)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoData)
	require.NotNil(t, result, "failed runs still return the diagnostic result")
	assert.Len(t, result.Errors, 1)

	_, err = q.Enqueue(ctx, Options{Subreddit: "datascience"}, enums.PriorityHigh)
	require.Error(t, err)
	assert.Equal(t, 2, engine.count(), "failures must not be cached")
}

func TestQueue_EmptySuccessIsCached(t *testing.T) {
	// Zero posts with zero errors means the subreddit is just quiet.
	engine := &fakeEngine{
		results: map[string]*Result{
			"ghosttown": {Subreddit: "ghosttown", Posts: []Post{}, Errors: []string{}},
		},
	}
	q := startQueue(t, engine)

	ctx := context.Background()
	_, err := q.Enqueue(ctx, Options{Subreddit: "ghosttown"}, enums.PriorityMedium)
	require.NoError(t, err)
	_, err = q.Enqueue(ctx, Options{Subreddit: "ghosttown"}, enums.PriorityMedium)
	require.NoError(t, err)

	assert.Equal(t, 1, engine.count())
}

func TestQueue_EnqueueHonorsContext(t *testing.T) {
	engine := &fakeEngine{block: make(chan struct{})}
	defer close(engine.block)
	q := startQueue(t, engine)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := q.Enqueue(ctx, Options{Subreddit: "datascience"}, enums.PriorityMedium)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPriorityRank(t *testing.T) {
	assert.Less(t, enums.PriorityHigh.Rank(), enums.PriorityMedium.Rank())
	assert.Less(t, enums.PriorityMedium.Rank(), enums.PriorityLow.Rank())
	assert.Equal(t, enums.PriorityLow.Rank(), enums.Priority("bogus").Rank())
}
