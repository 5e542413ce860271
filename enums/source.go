package enums

// Source identifies which acquisition strategy produced a post.
type Source string

const (
	SourceInvalid     Source = ""
	SourceRedditAPI   Source = "reddit_api"
	SourcePublicJSON  Source = "public_json"
	SourceArcticShift Source = "arcticshift"
	SourceSearchProxy Source = "search_proxy"
	SourceHTMLScrape  Source = "html_scrape"
)
