// Package export renders scraping results as JSON or flattened CSV.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/Zwin-ux/RedditScraper-sub000/scraper"
)

// csvHeader is the fixed column set of the flattened CSV format.
var csvHeader = []string{
	"id", "title", "url", "author", "upvotes", "score", "num_comments",
	"created_date", "subreddit", "permalink", "selftext", "is_self",
	"flair_text", "domain", "over_18", "source",
}

// WriteJSON serializes a Result directly.
func WriteJSON(w io.Writer, result *scraper.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// WriteCSV writes the flattened post rows. encoding/csv handles RFC 4180
// quoting, so embedded commas and doubled quotes round-trip.
func WriteCSV(w io.Writer, posts []scraper.Post) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, p := range posts {
		created := ""
		if p.CreatedUTC > 0 {
			created = time.Unix(p.CreatedUTC, 0).UTC().Format(time.RFC3339)
		}
		row := []string{
			p.ID,
			p.Title,
			p.URL,
			p.Author,
			strconv.Itoa(p.Score),
			strconv.Itoa(p.Score),
			strconv.Itoa(p.NumComments),
			created,
			p.Subreddit,
			p.Permalink,
			p.Selftext,
			strconv.FormatBool(p.IsSelf),
			p.Flair,
			p.Domain,
			strconv.FormatBool(p.Over18),
			string(p.Source),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
