package scraper

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Zwin-ux/RedditScraper-sub000/enums"
	"github.com/pkg/errors"
)

// DefaultCacheTTL is how long a subreddit's result stays fresh.
const DefaultCacheTTL = 15 * time.Minute

// Engine is what the queue drives. *Selector satisfies it.
type Engine interface {
	Scrape(ctx context.Context, opts Options) *Result
}

type outcome struct {
	result *Result
	err    error
}

type job struct {
	subreddit string
	priority  enums.Priority
	createdAt time.Time
	opts      Options
	waiters   []chan outcome
}

type cacheEntry struct {
	result   *Result
	cachedAt time.Time
}

// Queue serializes acquisition jobs: exactly one job is in flight at a time,
// concurrent requests for the same subreddit coalesce onto one fetch, and
// fresh results are served from cache without enqueueing at all.
type Queue struct {
	engine Engine
	logger *slog.Logger
	ttl    time.Duration
	pause  *Throttle // spacing between consecutive job completions

	mu      sync.Mutex
	cache   map[string]cacheEntry
	pending map[string]*job
	waiting []*job
	wake    chan struct{}
}

func NewQueue(engine Engine, logger *slog.Logger) *Queue {
	return &Queue{
		engine:  engine,
		logger:  logger,
		ttl:     DefaultCacheTTL,
		pause:   NewThrottle(time.Second),
		cache:   make(map[string]cacheEntry),
		pending: make(map[string]*job),
		wake:    make(chan struct{}, 1),
	}
}

// Start runs the single worker until ctx is done.
func (q *Queue) Start(ctx context.Context) {
	go q.worker(ctx)
}

// Enqueue requests data for a subreddit. A fresh cached result returns
// immediately. Otherwise the caller either attaches to an already-pending job
// for the same subreddit or creates a new one at the position its priority
// dictates, then blocks until the job completes or ctx is done.
func (q *Queue) Enqueue(ctx context.Context, opts Options, priority enums.Priority) (*Result, error) {
	key := strings.ToLower(opts.Subreddit)

	q.mu.Lock()
	if entry, ok := q.cache[key]; ok && time.Since(entry.cachedAt) < q.ttl {
		q.mu.Unlock()
		metricCache.WithLabelValues("hit").Inc()
		return entry.result, nil
	}
	metricCache.WithLabelValues("miss").Inc()

	ch := make(chan outcome, 1)
	if j, ok := q.pending[key]; ok {
		j.waiters = append(j.waiters, ch)
		q.mu.Unlock()
	} else {
		j := &job{
			subreddit: key,
			priority:  priority,
			createdAt: time.Now(),
			opts:      opts,
			waiters:   []chan outcome{ch},
		}
		q.pending[key] = j
		q.insert(j)
		q.mu.Unlock()
		q.signal()
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case out := <-ch:
		return out.result, out.err
	}
}

// insert places the job after the last job of equal-or-higher priority.
// Callers hold q.mu.
func (q *Queue) insert(j *job) {
	pos := sort.Search(len(q.waiting), func(i int) bool {
		return q.waiting[i].priority.Rank() > j.priority.Rank()
	})
	q.waiting = append(q.waiting, nil)
	copy(q.waiting[pos+1:], q.waiting[pos:])
	q.waiting[pos] = j
}

func (q *Queue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *Queue) worker(ctx context.Context) {
	for {
		q.mu.Lock()
		var j *job
		if len(q.waiting) > 0 {
			j = q.waiting[0]
			q.waiting = q.waiting[1:]
		}
		q.mu.Unlock()

		if j == nil {
			select {
			case <-ctx.Done():
				return
			case <-q.wake:
				continue
			}
		}

		if err := q.pause.Wait(ctx); err != nil {
			q.deliver(j, nil, err)
			continue
		}

		result := q.engine.Scrape(ctx, j.opts)

		if len(result.Posts) == 0 && len(result.Errors) > 0 {
			// Total failure: reject all waiters and cache nothing, so the next
			// call retries acquisition instead of replaying a cached failure.
			err := errors.Wrap(ErrNoData, strings.Join(result.Errors, "; "))
			q.deliver(j, result, err)
			continue
		}

		q.mu.Lock()
		q.cache[j.subreddit] = cacheEntry{result: result, cachedAt: time.Now()}
		q.mu.Unlock()
		q.deliver(j, result, nil)
	}
}

// deliver resolves every coalesced waiter, in attach order, then destroys the
// job's pending entry.
func (q *Queue) deliver(j *job, result *Result, err error) {
	q.mu.Lock()
	delete(q.pending, j.subreddit)
	waiters := j.waiters
	j.waiters = nil
	q.mu.Unlock()

	for _, ch := range waiters {
		ch <- outcome{result: result, err: err}
	}

	q.logger.Debug("job delivered",
		"subreddit", j.subreddit,
		"priority", j.priority,
		"waiters", len(waiters),
		"queued_for_ms", time.Since(j.createdAt).Milliseconds(),
		"failed", err != nil)
}

// SetTTL overrides the cache freshness window.
func (q *Queue) SetTTL(ttl time.Duration) {
	q.mu.Lock()
	q.ttl = ttl
	q.mu.Unlock()
}

// InvalidateCache drops a subreddit's cached result.
func (q *Queue) InvalidateCache(subreddit string) {
	q.mu.Lock()
	delete(q.cache, strings.ToLower(subreddit))
	q.mu.Unlock()
}
