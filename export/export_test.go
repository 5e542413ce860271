package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zwin-ux/RedditScraper-sub000/enums"
	"github.com/Zwin-ux/RedditScraper-sub000/scraper"
)

func TestWriteCSV_HeaderAndRows(t *testing.T) {
	posts := []scraper.Post{
		{
			ID:          "abc",
			Title:       "Plain title",
			Author:      "alice",
			Subreddit:   "datascience",
			Score:       42,
			NumComments: 7,
			CreatedUTC:  1700000000,
			Permalink:   "/r/datascience/comments/abc",
			IsSelf:      true,
			Source:      enums.SourceRedditAPI,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, posts))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	header := records[0]
	assert.Equal(t, "id", header[0])
	assert.Len(t, header, 16)

	row := records[1]
	assert.Equal(t, "abc", row[0])
	assert.Equal(t, "Plain title", row[1])
	assert.Equal(t, "42", row[4])
	assert.Equal(t, "2023-11-14T22:13:20Z", row[7])
	assert.Equal(t, "true", row[11])
	assert.Equal(t, "reddit_api", row[15])
}

func TestWriteCSV_QuotingRoundTrip(t *testing.T) {
	posts := []scraper.Post{
		{
			ID:       "q1",
			Title:    `Contains, commas, and "quotes"`,
			Selftext: "line one\nline two",
			Author:   "bob",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, posts))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, `Contains, commas, and "quotes"`, records[1][1])
	assert.Equal(t, "line one\nline two", records[1][10])
}

func TestWriteCSV_EmptyTimestamp(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []scraper.Post{{ID: "x", Title: "t", Author: "a"}}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "", records[1][7])
}

func TestWriteJSON(t *testing.T) {
	result := &scraper.Result{
		Subreddit:  "datascience",
		Posts:      []scraper.Post{{ID: "abc", Author: "alice"}},
		TotalFound: 1,
		Source:     enums.SourcePublicJSON,
		Errors:     []string{"reddit_api: status 403"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, result))

	var decoded scraper.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "datascience", decoded.Subreddit)
	assert.Equal(t, 1, decoded.TotalFound)
	assert.Equal(t, result.Errors, decoded.Errors)
	require.Len(t, decoded.Posts, 1)
	assert.Equal(t, "abc", decoded.Posts[0].ID)
}
