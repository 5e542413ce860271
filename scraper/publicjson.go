package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Zwin-ux/RedditScraper-sub000/enums"
	"github.com/Zwin-ux/RedditScraper-sub000/models"
)

const defaultPublicBaseURL = "https://www.reddit.com"

// PublicJSON fetches the unauthenticated .json suffix of a subreddit listing.
// No quota, but aggressively blocked, so requests carry browser-like headers
// and optionally rotate through a proxy pool. It tries a small ordered list of
// endpoint variants and returns the first that yields at least one post; an
// HTTP failure or empty payload means "try the next variant", not a hard error.
type PublicJSON struct {
	httpClient *http.Client
	proxies    *ProxyPool
	throttle   *Throttle
	baseURL    string
}

func NewPublicJSON(proxies *ProxyPool) *PublicJSON {
	return &PublicJSON{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		proxies:    proxies,
		throttle:   NewThrottle(2 * time.Second),
		baseURL:    defaultPublicBaseURL,
	}
}

func (s *PublicJSON) Source() enums.Source { return enums.SourcePublicJSON }

func (s *PublicJSON) Fetch(ctx context.Context, opts Options) ([]Post, error) {
	variants := []string{
		fmt.Sprintf("%s/r/%s/%s.json?limit=%d&t=%s", s.baseURL, opts.Subreddit, opts.Sort, opts.Limit, opts.Timeframe),
		fmt.Sprintf("%s/r/%s/new.json?limit=%d", s.baseURL, opts.Subreddit, opts.Limit),
		fmt.Sprintf("%s/r/%s.json?limit=%d", s.baseURL, opts.Subreddit, opts.Limit),
	}

	var lastErr error
	for _, url := range variants {
		if err := s.throttle.Wait(ctx); err != nil {
			return nil, err
		}

		listing, err := s.get(ctx, url)
		if err != nil {
			lastErr = err
			continue
		}
		posts := NormalizeListing(listing, enums.SourcePublicJSON)
		if len(posts) > 0 {
			return posts, nil
		}
	}

	if lastErr != nil {
		return nil, lastErr
	}
	// Every variant answered but none carried posts.
	return nil, nil
}

func (s *PublicJSON) get(ctx context.Context, url string) (*models.RedditListing, error) {
	client := s.httpClient
	proxyHost := ""
	if s.proxies != nil {
		client, proxyHost = s.proxies.Next()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &UpstreamError{Upstream: "public_json", Body: err.Error()}
	}
	setBrowserHeaders(req)

	resp, err := client.Do(req)
	if err != nil {
		if s.proxies != nil {
			s.proxies.MarkFailure(proxyHost)
		}
		return nil, &UpstreamError{Upstream: "public_json", Body: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		if s.proxies != nil {
			s.proxies.MarkRateLimited(proxyHost)
		}
		return nil, &RateLimitError{Upstream: "public_json", RetryAfter: retryAfter(resp)}
	}
	if resp.StatusCode != http.StatusOK {
		if s.proxies != nil {
			s.proxies.MarkFailure(proxyHost)
		}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &UpstreamError{Upstream: "public_json", Status: resp.StatusCode, Body: string(body)}
	}

	var listing models.RedditListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, &UpstreamError{Upstream: "public_json", Body: "decode listing: " + err.Error()}
	}
	if s.proxies != nil {
		s.proxies.MarkSuccess(proxyHost)
	}
	return &listing, nil
}

// setBrowserHeaders makes the request look like a real browser to avoid blocks.
func setBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("DNT", "1")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
}
