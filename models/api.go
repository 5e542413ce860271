package models

import "time"

type ScrapeRequest struct {
	Subreddit  string   `json:"subreddit"`
	Priority   string   `json:"priority,omitempty"`
	Limit      int      `json:"limit,omitempty"`
	Sort       string   `json:"sort,omitempty"`
	Timeframe  string   `json:"timeframe,omitempty"`
	Flairs     []string `json:"flairs,omitempty"`
	Keywords   []string `json:"keywords,omitempty"`
	MinScore   int      `json:"min_score,omitempty"`
	MaxAgeDays int      `json:"max_age_days,omitempty"`
}

type BatchScrapeRequest struct {
	Subreddits []string `json:"subreddits"`
	Limit      int      `json:"limit,omitempty"`
	Sort       string   `json:"sort,omitempty"`
	Timeframe  string   `json:"timeframe,omitempty"`
	Keywords   []string `json:"keywords,omitempty"`
	MinScore   int      `json:"min_score,omitempty"`
}

type Creator struct {
	Username        string     `json:"username"`
	Karma           int        `json:"karma"`
	EngagementScore int        `json:"engagementScore"`
	PostCount       int        `json:"postCount"`
	TotalScore      int        `json:"totalScore"`
	AvgScore        float64    `json:"avgScore"`
	Categories      []string   `json:"categories"`
	Tags            []string   `json:"tags"`
	Summary         string     `json:"summary,omitempty"`
	Confidence      float64    `json:"confidence"`
	LastScrapedAt   *time.Time `json:"lastScrapedAt,omitempty"`
}

type GetCreatorsResponse struct {
	Creators []Creator `json:"creators"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PerPage  int       `json:"perPage"`
}

type CreateSubredditRequest struct {
	Name     string `json:"name"`
	Priority string `json:"priority,omitempty"`
}

type SubredditModel struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Active   bool   `json:"active"`
	Priority string `json:"priority"`
}

type GetSubredditsResponse struct {
	Subreddits []SubredditModel `json:"subreddits"`
}

type StatsResponse struct {
	TotalCreators int            `json:"totalCreators"`
	TotalPosts    int            `json:"totalPosts"`
	AvgEngagement float64        `json:"avgEngagement"`
	AvgScore      float64        `json:"avgScore"`
	PostsBySource map[string]int `json:"postsBySource"`
}
