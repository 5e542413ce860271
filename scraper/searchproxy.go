package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Zwin-ux/RedditScraper-sub000/enums"
	"github.com/Zwin-ux/RedditScraper-sub000/models"
)

const (
	defaultSerperURL  = "https://google.serper.dev/search"
	maxProxyUsernames = 12
)

// Ordered extractors: URL-path patterns first (highest precision), then
// textual attribution patterns from result snippets.
var usernameExtractors = []*regexp.Regexp{
	regexp.MustCompile(`reddit\.com/u(?:ser)?/([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`(?i)submitted by\s+(?:u/)?([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`(?i)posted by\s+(?:u/)?([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`(?i)\bby\s+u/([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`(?i)author:\s*(?:u/)?([A-Za-z0-9_-]+)`),
}

var upvotePattern = regexp.MustCompile(`(\d[\d,]*)\s*(?:upvotes|points|votes)`)

// SearchProxy recovers candidate creators by issuing web-search queries
// through the Serper API and regex-extracting usernames from unstructured
// snippets. Lowest fidelity: best-effort, never authoritative, used when
// direct access is unavailable.
type SearchProxy struct {
	apiKey     string
	httpClient *http.Client
	throttle   *Throttle
	endpoint   string
}

func NewSearchProxy(apiKey string) *SearchProxy {
	return &SearchProxy{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		throttle:   NewThrottle(time.Second),
		endpoint:   defaultSerperURL,
	}
}

func (s *SearchProxy) Source() enums.Source { return enums.SourceSearchProxy }

func (s *SearchProxy) Fetch(ctx context.Context, opts Options) ([]Post, error) {
	if s.apiKey == "" {
		return nil, &UpstreamError{Upstream: "search_proxy", Body: "SERPER_API_KEY not configured"}
	}

	queries := []string{
		fmt.Sprintf(`site:reddit.com/r/%s "u/"`, opts.Subreddit),
		fmt.Sprintf(`site:reddit.com "r/%s" "posted by"`, opts.Subreddit),
		fmt.Sprintf(`reddit r/%s top contributors`, opts.Subreddit),
	}

	posts := s.collect(ctx, queries, opts)
	if len(posts) == 0 {
		// Last-resort broader query before giving up.
		posts = s.collect(ctx, []string{fmt.Sprintf(`site:reddit.com %s`, opts.Subreddit)}, opts)
	}
	return posts, nil
}

func (s *SearchProxy) collect(ctx context.Context, queries []string, opts Options) []Post {
	seen := make(map[string]bool)
	var posts []Post

	for _, q := range queries {
		if len(posts) >= maxProxyUsernames {
			break
		}
		if err := s.throttle.Wait(ctx); err != nil {
			return posts
		}

		resp, err := s.search(ctx, q)
		if err != nil {
			// A failed query variant is not fatal for a heuristic strategy.
			continue
		}

		for _, organic := range resp.Organic {
			if len(posts) >= maxProxyUsernames {
				break
			}
			username := extractUsername(organic.Link + " " + organic.Snippet)
			if username == "" || seen[strings.ToLower(username)] {
				continue
			}
			if !validUsername(username, opts.Subreddit) {
				continue
			}
			seen[strings.ToLower(username)] = true

			posts = append(posts, Post{
				ID:        "serp_" + strings.ToLower(username),
				Title:     organic.Title,
				Author:    username,
				Subreddit: opts.Subreddit,
				Score:     extractUpvotes(organic.Snippet),
				URL:       organic.Link,
				Source:    enums.SourceSearchProxy,
			})
		}
	}
	return posts
}

func (s *SearchProxy) search(ctx context.Context, query string) (*models.SerperResponse, error) {
	payload, err := json.Marshal(models.SerperRequest{Query: query, Num: 20})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-KEY", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Upstream: "search_proxy", Body: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &RateLimitError{Upstream: "search_proxy", RetryAfter: retryAfter(resp)}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &UpstreamError{Upstream: "search_proxy", Status: resp.StatusCode, Body: string(body)}
	}

	var parsed models.SerperResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &UpstreamError{Upstream: "search_proxy", Body: "decode response: " + err.Error()}
	}
	return &parsed, nil
}

func extractUsername(text string) string {
	for _, re := range usernameExtractors {
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			return m[1]
		}
	}
	return ""
}

// validUsername applies the same validation every source gets: length bounds,
// sentinel exclusion, and never the subreddit's own name.
func validUsername(username, subreddit string) bool {
	if len(username) < 3 || len(username) > 20 {
		return false
	}
	if IsSentinelAuthor(username) {
		return false
	}
	if strings.EqualFold(username, subreddit) {
		return false
	}
	return true
}

func extractUpvotes(snippet string) int {
	m := upvotePattern.FindStringSubmatch(snippet)
	if len(m) < 2 {
		return 0
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return 0
	}
	return n
}
