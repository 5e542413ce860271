package scraper

import (
	"strings"
	"time"

	"github.com/Zwin-ux/RedditScraper-sub000/enums"
)

// Post is the canonical, strategy-independent shape every acquisition path
// normalizes into. Source records which strategy produced it.
type Post struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Selftext    string       `json:"selftext,omitempty"`
	Author      string       `json:"author"`
	Subreddit   string       `json:"subreddit"`
	Score       int          `json:"score"`
	NumComments int          `json:"num_comments"`
	CreatedUTC  int64        `json:"created_utc"`
	URL         string       `json:"url"`
	Permalink   string       `json:"permalink"`
	Flair       string       `json:"flair_text,omitempty"`
	Domain      string       `json:"domain,omitempty"`
	IsSelf      bool         `json:"is_self"`
	Over18      bool         `json:"over_18"`
	Stickied    bool         `json:"stickied"`
	Locked      bool         `json:"locked"`
	Archived    bool         `json:"archived"`
	Awards      int          `json:"awards"`
	Source      enums.Source `json:"source"`
}

// Result is what a scraping run hands back to callers. Total failure is still
// a Result: empty posts plus one error entry per failed strategy.
type Result struct {
	Subreddit   string       `json:"subreddit"`
	Posts       []Post       `json:"posts"`
	TotalFound  int          `json:"total_found"`
	Source      enums.Source `json:"source"`
	Errors      []string     `json:"errors"`
	RateLimited bool         `json:"rate_limited"`
	DurationMs  int64        `json:"duration_ms"`
	CompletedAt time.Time    `json:"completed_at"`
}

var sentinelAuthors = map[string]bool{
	"[deleted]":     true,
	"[removed]":     true,
	"automoderator": true,
}

// IsSentinelAuthor reports whether a username is a placeholder or a known bot
// account that must never be treated as a real creator.
func IsSentinelAuthor(author string) bool {
	return author == "" || sentinelAuthors[strings.ToLower(author)]
}
