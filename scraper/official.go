package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Zwin-ux/RedditScraper-sub000/enums"
	"github.com/Zwin-ux/RedditScraper-sub000/models"
)

const defaultOAuthBaseURL = "https://oauth.reddit.com"

// OfficialAPI fetches subreddit listings from the authenticated Reddit API.
// Highest fidelity, quota-limited. On 429 it honors retry-after; on other
// transient failures it retries with linearly increasing backoff.
type OfficialAPI struct {
	auth       *Authenticator
	throttle   *Throttle
	httpClient *http.Client
	userAgent  string
	baseURL    string
}

func NewOfficialAPI(auth *Authenticator, userAgent string) *OfficialAPI {
	return &OfficialAPI{
		auth:       auth,
		throttle:   NewThrottle(time.Second),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		userAgent:  userAgent,
		baseURL:    defaultOAuthBaseURL,
	}
}

func (s *OfficialAPI) Source() enums.Source { return enums.SourceRedditAPI }

func (s *OfficialAPI) Fetch(ctx context.Context, opts Options) ([]Post, error) {
	// Structurally missing credentials fail fast so the selector moves on
	// without burning the retry budget.
	token, err := s.auth.Token(ctx)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/r/%s/%s.json?limit=%d&t=%s&raw_json=1",
		s.baseURL, opts.Subreddit, opts.Sort, opts.Limit, opts.Timeframe)

	var lastErr error
	for attempt := 1; attempt <= opts.MaxRetries; attempt++ {
		if err := s.throttle.Wait(ctx); err != nil {
			return nil, err
		}

		listing, err := s.get(ctx, url, token)
		if err == nil {
			return NormalizeListing(listing, enums.SourceRedditAPI), nil
		}
		lastErr = err

		var rl *RateLimitError
		if errors.As(err, &rl) {
			if attempt == opts.MaxRetries {
				break
			}
			if sleepErr := sleepCtx(ctx, rl.RetryAfter); sleepErr != nil {
				return nil, sleepErr
			}
			continue
		}

		if attempt < opts.MaxRetries {
			if sleepErr := sleepCtx(ctx, opts.RetryDelay*time.Duration(attempt)); sleepErr != nil {
				return nil, sleepErr
			}
		}
	}
	return nil, lastErr
}

func (s *OfficialAPI) get(ctx context.Context, url, token string) (*models.RedditListing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &UpstreamError{Upstream: "reddit_api", Body: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Upstream: "reddit_api", Body: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &RateLimitError{Upstream: "reddit_api", RetryAfter: retryAfter(resp)}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &UpstreamError{Upstream: "reddit_api", Status: resp.StatusCode, Body: string(body)}
	}

	var listing models.RedditListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, &UpstreamError{Upstream: "reddit_api", Body: "decode listing: " + err.Error()}
	}
	return &listing, nil
}

func retryAfter(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return 60 * time.Second
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
