package scraper

import "math"

// EngagementInput carries the raw signals feeding the engagement score.
type EngagementInput struct {
	Karma             float64
	AvgUpvotesPerPost float64
	TotalAwards       float64
	AvgCommentUpvotes float64
	PostCount         float64
}

// EngagementScore converts raw metrics into a bounded 0-100 score. The
// additive-with-caps shape is deliberate: monotonic in every input, and no
// single signal can dominate past its cap.
func EngagementScore(in EngagementInput) int {
	karmaScore := math.Min(in.Karma/1000, 30)
	avgUpvoteScore := math.Min(in.AvgUpvotesPerPost/10, 25)
	awardScore := math.Min(in.TotalAwards*2, 20)
	commentScore := math.Min(in.AvgCommentUpvotes/5, 15)
	activityScore := math.Min(in.PostCount/5, 10)

	total := karmaScore + avgUpvoteScore + awardScore + commentScore + activityScore
	return int(math.Round(math.Min(total, 100)))
}

// EngagementFromAggregate derives the score inputs available from a single
// run's posts. Karma is taken from the caller when a profile fetch supplied
// it; zero otherwise.
func EngagementFromAggregate(agg CreatorAggregate, karma float64) int {
	var awards, commentUpvotes float64
	for _, p := range agg.Posts {
		awards += float64(p.Awards)
		commentUpvotes += float64(p.NumComments)
	}
	avgComments := 0.0
	if agg.PostCount > 0 {
		avgComments = commentUpvotes / float64(agg.PostCount)
	}
	return EngagementScore(EngagementInput{
		Karma:             karma,
		AvgUpvotesPerPost: agg.AvgScore,
		TotalAwards:       awards,
		AvgCommentUpvotes: avgComments,
		PostCount:         float64(agg.PostCount),
	})
}
