package data

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Creator struct {
	ID              uuid.UUID      `db:"id"`
	Username        string         `db:"username"`
	Karma           int            `db:"karma"`
	EngagementScore int            `db:"engagement_score"`
	PostCount       int            `db:"post_count"`
	TotalScore      int            `db:"total_score"`
	AvgScore        float64        `db:"avg_score"`
	Categories      pq.StringArray `db:"categories"`
	Tags            pq.StringArray `db:"tags"`
	Summary         string         `db:"summary"`
	Confidence      float64        `db:"confidence"`
	LastScrapedAt   sql.NullTime   `db:"last_scraped_at"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

type Post struct {
	ID          string    `db:"id"`
	Author      string    `db:"author"`
	Subreddit   string    `db:"subreddit"`
	Title       string    `db:"title"`
	Selftext    string    `db:"selftext"`
	Score       int       `db:"score"`
	NumComments int       `db:"num_comments"`
	CreatedUTC  int64     `db:"created_utc"`
	URL         string    `db:"url"`
	Permalink   string    `db:"permalink"`
	Flair       string    `db:"flair"`
	Domain      string    `db:"domain"`
	IsSelf      bool      `db:"is_self"`
	Over18      bool      `db:"over_18"`
	Source      string    `db:"source"`
	ScrapedAt   time.Time `db:"scraped_at"`
}

type Subreddit struct {
	ID        int       `db:"id"`
	Name      string    `db:"name"`
	Active    bool      `db:"active"`
	Priority  string    `db:"priority"`
	CreatedAt time.Time `db:"created_at"`
}

// DashboardStats is the aggregate the dashboard endpoint serves.
type DashboardStats struct {
	TotalCreators int     `db:"total_creators"`
	TotalPosts    int     `db:"total_posts"`
	AvgEngagement float64 `db:"avg_engagement"`
	AvgScore      float64 `db:"avg_score"`
}
