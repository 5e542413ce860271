package scraper

import (
	"sort"

	"github.com/Zwin-ux/RedditScraper-sub000/enums"
	"github.com/Zwin-ux/RedditScraper-sub000/matchers"
)

const (
	// rankPostWeight is the per-post bonus used when ranking creators by
	// totalScore + postCount*weight.
	rankPostWeight = 5
	// maxRankedCreators caps one ranking pass.
	maxRankedCreators = 20
)

// CreatorAggregate is the per-author rollup computed fresh from one scraping
// run's posts. It is not persisted directly; the storage layer maps it into
// the Creator entity.
type CreatorAggregate struct {
	Username   string           `json:"username"`
	Posts      []Post           `json:"posts"`
	PostCount  int              `json:"post_count"`
	TotalScore int              `json:"total_score"`
	AvgScore   float64          `json:"avg_score"`
	Categories []enums.Category `json:"categories"`
}

// AggregateCreators groups posts by author and computes per-author metrics.
// Sentinel authors were excluded at normalization; the check here is
// defense-in-depth.
func AggregateCreators(posts []Post) []CreatorAggregate {
	byAuthor := make(map[string]*CreatorAggregate)
	var order []string

	for _, p := range posts {
		if IsSentinelAuthor(p.Author) {
			continue
		}
		agg, ok := byAuthor[p.Author]
		if !ok {
			agg = &CreatorAggregate{Username: p.Author}
			byAuthor[p.Author] = agg
			order = append(order, p.Author)
		}
		agg.Posts = append(agg.Posts, p)
		agg.PostCount++
		agg.TotalScore += p.Score
	}

	out := make([]CreatorAggregate, 0, len(order))
	for _, username := range order {
		agg := byAuthor[username]
		agg.AvgScore = float64(agg.TotalScore) / float64(agg.PostCount)
		agg.Categories = aggregateCategories(agg.Posts)
		out = append(out, *agg)
	}
	return out
}

// RankCreators orders aggregates by totalScore + postCount*weight and keeps
// the top N.
func RankCreators(aggregates []CreatorAggregate) []CreatorAggregate {
	ranked := make([]CreatorAggregate, len(aggregates))
	copy(ranked, aggregates)

	sort.SliceStable(ranked, func(i, j int) bool {
		return rankValue(ranked[i]) > rankValue(ranked[j])
	})

	if len(ranked) > maxRankedCreators {
		ranked = ranked[:maxRankedCreators]
	}
	return ranked
}

func rankValue(a CreatorAggregate) int {
	return a.TotalScore + a.PostCount*rankPostWeight
}

// aggregateCategories unions the categories inferred from each post. A post
// may contribute multiple categories.
func aggregateCategories(posts []Post) []enums.Category {
	seen := make(map[enums.Category]bool)
	var cats []enums.Category
	for _, p := range posts {
		for _, c := range matchers.InferCategories(p.Title + " " + p.Selftext) {
			if !seen[c] {
				seen[c] = true
				cats = append(cats, c)
			}
		}
	}
	return cats
}
