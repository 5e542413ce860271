package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"time"

	"github.com/Zwin-ux/RedditScraper-sub000/enums"
	"github.com/Zwin-ux/RedditScraper-sub000/models"
)

const (
	defaultArchiveBaseURL = "https://arctic-shift.photon-reddit.com/api"
	archivePostFields     = "id,subreddit,author,title,selftext,score,num_comments,created_utc,url,over_18"
)

// Archive queries the arctic-shift historical submission archive. It is only
// attempted after the official API has failed, and only when opts.UseArchive
// is set; the selector enforces both conditions.
type Archive struct {
	httpClient *http.Client
	throttle   *Throttle
	baseURL    string
}

func NewArchive() *Archive {
	return &Archive{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		throttle:   NewThrottle(time.Second),
		baseURL:    defaultArchiveBaseURL,
	}
}

func (s *Archive) Source() enums.Source { return enums.SourceArcticShift }

func (s *Archive) Fetch(ctx context.Context, opts Options) ([]Post, error) {
	if err := s.throttle.Wait(ctx); err != nil {
		return nil, err
	}

	after := time.Now().Add(-timeframeWindow(opts.Timeframe)).UTC().Format(time.RFC3339)
	url := fmt.Sprintf("%s/posts/search?subreddit=%s&after=%s&min_score=%d&limit=%d&sort=desc&fields=%s",
		s.baseURL,
		neturl.QueryEscape(opts.Subreddit),
		neturl.QueryEscape(after),
		opts.MinScore,
		opts.Limit,
		archivePostFields,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &UpstreamError{Upstream: "arcticshift", Body: err.Error()}
	}
	req.Header.Set("User-Agent", "creator-discovery")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Upstream: "arcticshift", Body: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &RateLimitError{Upstream: "arcticshift", RetryAfter: retryAfter(resp)}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &UpstreamError{Upstream: "arcticshift", Status: resp.StatusCode, Body: string(body)}
	}

	var parsed models.ArcticShiftSearchResponse[models.ArcticShiftPost]
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &UpstreamError{Upstream: "arcticshift", Body: "decode response: " + err.Error()}
	}

	return NormalizeArchive(parsed.Data), nil
}

func timeframeWindow(timeframe string) time.Duration {
	switch timeframe {
	case "hour":
		return time.Hour
	case "day":
		return 24 * time.Hour
	case "week":
		return 7 * 24 * time.Hour
	case "month":
		return 30 * 24 * time.Hour
	case "year":
		return 365 * 24 * time.Hour
	default: // "all"
		return 10 * 365 * 24 * time.Hour
	}
}
