package scraper

import "time"

// Sort modes accepted by the listing endpoints.
const (
	SortHot    = "hot"
	SortNew    = "new"
	SortTop    = "top"
	SortRising = "rising"
)

// Options configures a single scraping run. Every strategy consumes the same
// struct; fields a strategy cannot honor are ignored by it.
type Options struct {
	Subreddit  string        `json:"subreddit"`
	Limit      int           `json:"limit"`
	Sort       string        `json:"sort"`
	Timeframe  string        `json:"timeframe"` // hour, day, week, month, year, all
	Flairs     []string      `json:"flairs,omitempty"`
	Keywords   []string      `json:"keywords,omitempty"`
	MinScore   int           `json:"min_score"`
	MaxAgeDays int           `json:"max_age_days"`
	MaxRetries int           `json:"max_retries"`
	RetryDelay time.Duration `json:"retry_delay"`
	UseArchive bool          `json:"use_archive"`
	Timeout    time.Duration `json:"timeout"`
}

// WithDefaults fills in zero-valued fields so strategies never have to guess.
func (o Options) WithDefaults() Options {
	if o.Limit <= 0 {
		o.Limit = 25
	}
	if o.Sort == "" {
		o.Sort = SortHot
	}
	if o.Timeframe == "" {
		o.Timeframe = "week"
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = 3
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = 2 * time.Second
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	return o
}
