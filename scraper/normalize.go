package scraper

import (
	"sort"
	"time"

	"github.com/Zwin-ux/RedditScraper-sub000/enums"
	"github.com/Zwin-ux/RedditScraper-sub000/matchers"
	"github.com/Zwin-ux/RedditScraper-sub000/models"
)

// NormalizeListing maps a Reddit listing (authenticated or public JSON) into
// canonical Posts. Posts with sentinel authors are excluded here, not flagged.
func NormalizeListing(listing *models.RedditListing, source enums.Source) []Post {
	if listing == nil {
		return nil
	}
	posts := make([]Post, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		d := child.Data
		if IsSentinelAuthor(d.Author) {
			continue
		}
		posts = append(posts, Post{
			ID:          d.ID,
			Title:       d.Title,
			Selftext:    d.Selftext,
			Author:      d.Author,
			Subreddit:   d.Subreddit,
			Score:       d.Score,
			NumComments: d.NumComments,
			CreatedUTC:  int64(d.CreatedUTC),
			URL:         d.URL,
			Permalink:   d.Permalink,
			Flair:       d.LinkFlairText,
			Domain:      d.Domain,
			IsSelf:      d.IsSelf,
			Over18:      d.Over18,
			Stickied:    d.Stickied,
			Locked:      d.Locked,
			Archived:    d.Archived,
			Awards:      d.TotalAwards,
			Source:      source,
		})
	}
	return posts
}

// NormalizeArchive maps arctic-shift archive records into canonical Posts.
func NormalizeArchive(records []models.ArcticShiftPost) []Post {
	posts := make([]Post, 0, len(records))
	for _, r := range records {
		if r.ID == "" || IsSentinelAuthor(r.Author) {
			continue
		}
		permalink := "/r/" + r.Subreddit + "/comments/" + r.ID
		url := r.URL
		if url == "" {
			url = "https://reddit.com" + permalink
		}
		posts = append(posts, Post{
			ID:          r.ID,
			Title:       r.Title,
			Selftext:    r.Selftext,
			Author:      r.Author,
			Subreddit:   r.Subreddit,
			Score:       r.Score,
			NumComments: r.NumComments,
			CreatedUTC:  r.CreatedUTC,
			URL:         url,
			Permalink:   permalink,
			IsSelf:      r.URL == "",
			Over18:      r.Over18,
			Archived:    true,
			Source:      enums.SourceArcticShift,
		})
	}
	return posts
}

// ApplyFilters applies, in order: flair inclusion, keyword inclusion, minimum
// score and maximum age. Categories compose as AND; lists within a category
// compose as OR. The filtered posts are then re-sorted per opts.Sort and
// truncated to opts.Limit.
func ApplyFilters(posts []Post, opts Options) []Post {
	now := time.Now().Unix()
	filtered := make([]Post, 0, len(posts))
	for _, p := range posts {
		if len(opts.Flairs) > 0 && !matchers.MatchesAnyFlair(p.Flair, opts.Flairs) {
			continue
		}
		if len(opts.Keywords) > 0 && !matchers.MatchesAnyKeyword(p.Title+" "+p.Selftext, opts.Keywords) {
			continue
		}
		if p.Score < opts.MinScore {
			continue
		}
		if opts.MaxAgeDays > 0 && p.CreatedUTC > 0 {
			maxAge := int64(opts.MaxAgeDays) * 24 * 3600
			if now-p.CreatedUTC > maxAge {
				continue
			}
		}
		filtered = append(filtered, p)
	}

	switch opts.Sort {
	case SortNew:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].CreatedUTC > filtered[j].CreatedUTC
		})
	case SortTop:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Score > filtered[j].Score
		})
	}

	if opts.Limit > 0 && len(filtered) > opts.Limit {
		filtered = filtered[:opts.Limit]
	}
	return filtered
}

// DedupePosts drops posts whose ID was already seen, preserving order.
func DedupePosts(posts []Post) []Post {
	seen := make(map[string]bool, len(posts))
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if p.ID == "" || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out
}
