package scraper

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/Zwin-ux/RedditScraper-sub000/enums"
)

const defaultHTMLBaseURL = "https://old.reddit.com"

// HTMLScrape parses the rendered subreddit page as a last resort. old.reddit
// still ships server-rendered post containers; if the DOM walk yields zero
// posts, embedded <script> JSON blobs are scanned for a structured post array.
type HTMLScrape struct {
	httpClient *http.Client
	proxies    *ProxyPool
	throttle   *Throttle
	baseURL    string
}

func NewHTMLScrape(proxies *ProxyPool) *HTMLScrape {
	return &HTMLScrape{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		proxies:    proxies,
		throttle:   NewThrottle(3 * time.Second),
		baseURL:    defaultHTMLBaseURL,
	}
}

func (s *HTMLScrape) Source() enums.Source { return enums.SourceHTMLScrape }

func (s *HTMLScrape) Fetch(ctx context.Context, opts Options) ([]Post, error) {
	if err := s.throttle.Wait(ctx); err != nil {
		return nil, err
	}

	url := s.baseURL + "/r/" + opts.Subreddit + "/"
	if opts.Sort != SortHot {
		url += opts.Sort + "/"
	}

	client := s.httpClient
	proxyHost := ""
	if s.proxies != nil {
		client, proxyHost = s.proxies.Next()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &UpstreamError{Upstream: "html_scrape", Body: err.Error()}
	}
	setBrowserHeaders(req)

	resp, err := client.Do(req)
	if err != nil {
		if s.proxies != nil {
			s.proxies.MarkFailure(proxyHost)
		}
		return nil, &UpstreamError{Upstream: "html_scrape", Body: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		if s.proxies != nil {
			s.proxies.MarkRateLimited(proxyHost)
		}
		return nil, &RateLimitError{Upstream: "html_scrape", RetryAfter: retryAfter(resp)}
	}
	if resp.StatusCode != http.StatusOK {
		if s.proxies != nil {
			s.proxies.MarkFailure(proxyHost)
		}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &UpstreamError{Upstream: "html_scrape", Status: resp.StatusCode, Body: string(body)}
	}
	if s.proxies != nil {
		s.proxies.MarkSuccess(proxyHost)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Upstream: "html_scrape", Body: "parse html: " + err.Error()}
	}

	posts := parsePostContainers(doc, opts.Subreddit)
	if len(posts) == 0 {
		posts = parseEmbeddedJSON(doc, opts.Subreddit)
	}
	return posts, nil
}

// parsePostContainers walks old.reddit's .thing containers.
func parsePostContainers(doc *goquery.Document, subreddit string) []Post {
	var posts []Post
	doc.Find("div.thing[data-fullname]").Each(func(_ int, sel *goquery.Selection) {
		author := sel.AttrOr("data-author", sel.Find("a.author").First().Text())
		if IsSentinelAuthor(author) {
			return
		}

		fullname := sel.AttrOr("data-fullname", "")
		id := strings.TrimPrefix(fullname, "t3_")
		title := strings.TrimSpace(sel.Find("a.title").First().Text())
		if id == "" || title == "" {
			return
		}

		score := parseIntAttr(sel, "data-score")
		if score == 0 {
			score, _ = strconv.Atoi(strings.TrimSpace(sel.Find("div.score.unvoted").First().AttrOr("title", "")))
		}

		comments := parseIntAttr(sel, "data-comments-count")
		permalink := sel.AttrOr("data-permalink", "")
		url := sel.AttrOr("data-url", "")
		if url == "" {
			url = "https://reddit.com" + permalink
		}
		createdMs := int64(parseIntAttr(sel, "data-timestamp"))

		posts = append(posts, Post{
			ID:          id,
			Title:       title,
			Author:      author,
			Subreddit:   subreddit,
			Score:       score,
			NumComments: comments,
			CreatedUTC:  createdMs / 1000,
			URL:         url,
			Permalink:   permalink,
			Flair:       strings.TrimSpace(sel.Find("span.linkflairlabel").First().Text()),
			Domain:      sel.AttrOr("data-domain", ""),
			IsSelf:      sel.HasClass("self"),
			Over18:      sel.HasClass("over18"),
			Stickied:    sel.HasClass("stickied"),
			Source:      enums.SourceHTMLScrape,
		})
	})
	return posts
}

// parseEmbeddedJSON scans script tags for a serialized {"posts": [...]} array,
// the shape new Reddit embeds as initial state.
func parseEmbeddedJSON(doc *goquery.Document, subreddit string) []Post {
	var posts []Post
	doc.Find("script").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := sel.Text()
		start := strings.Index(text, `{"posts":`)
		if start == -1 {
			return true
		}
		blob := balancedJSON(text[start:])
		if blob == "" {
			return true
		}

		var parsed struct {
			Posts []struct {
				ID          string `json:"id"`
				Title       string `json:"title"`
				Author      string `json:"author"`
				Score       int    `json:"score"`
				NumComments int    `json:"num_comments"`
				Permalink   string `json:"permalink"`
				CreatedUTC  int64  `json:"created_utc"`
			} `json:"posts"`
		}
		if err := json.Unmarshal([]byte(blob), &parsed); err != nil {
			return true
		}

		for _, p := range parsed.Posts {
			if p.ID == "" || IsSentinelAuthor(p.Author) {
				continue
			}
			posts = append(posts, Post{
				ID:          strings.TrimPrefix(p.ID, "t3_"),
				Title:       p.Title,
				Author:      p.Author,
				Subreddit:   subreddit,
				Score:       p.Score,
				NumComments: p.NumComments,
				CreatedUTC:  p.CreatedUTC,
				URL:         "https://reddit.com" + p.Permalink,
				Permalink:   p.Permalink,
				Source:      enums.SourceHTMLScrape,
			})
		}
		return len(posts) == 0
	})
	return posts
}

// balancedJSON returns the prefix of s forming one balanced JSON object.
func balancedJSON(s string) string {
	depth := 0
	inString := false
	escaped := false
	for i, r := range s {
		if escaped {
			escaped = false
			continue
		}
		switch r {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return s[:i+1]
				}
			}
		}
	}
	return ""
}

func parseIntAttr(sel *goquery.Selection, attr string) int {
	n, _ := strconv.Atoi(sel.AttrOr(attr, ""))
	return n
}
