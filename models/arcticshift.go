package models

type ArcticShiftSearchResponse[T any] struct {
	Data []T `json:"data"`
}

type ArcticShiftPost struct {
	ID          string `json:"id"`
	Subreddit   string `json:"subreddit"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Selftext    string `json:"selftext"`
	Score       int    `json:"score"`
	NumComments int    `json:"num_comments"`
	CreatedUTC  int64  `json:"created_utc"`
	URL         string `json:"url"`
	Over18      bool   `json:"over_18"`
}
