package matchers

import (
	"strings"

	"github.com/Zwin-ux/RedditScraper-sub000/enums"
)

// categoryKeywords maps each topical category to the tokens that imply it.
// Tokens two or three characters long are matched as whole words only.
var categoryKeywords = map[enums.Category][]string{
	enums.CategoryCareer:          {"career", "job"},
	enums.CategoryProgramming:     {"python", "coding", "programming"},
	enums.CategoryMachineLearning: {"machine learning", "ml", "ai"},
	enums.CategoryDataAnalysis:    {"data", "analysis", "analytics"},
	enums.CategoryResearch:        {"research", "paper"},
}

// InferCategories returns the set of categories implied by a post's title and
// body. A post may contribute multiple categories; a post matching none falls
// back to Discussion.
func InferCategories(text string) []enums.Category {
	lower := strings.ToLower(text)
	var found []enums.Category
	for _, cat := range []enums.Category{
		enums.CategoryCareer,
		enums.CategoryProgramming,
		enums.CategoryMachineLearning,
		enums.CategoryDataAnalysis,
		enums.CategoryResearch,
	} {
		for _, kw := range categoryKeywords[cat] {
			if matchesToken(lower, kw) {
				found = append(found, cat)
				break
			}
		}
	}
	if len(found) == 0 {
		return []enums.Category{enums.CategoryDiscussion}
	}
	return found
}

func matchesToken(lower, keyword string) bool {
	if len(keyword) <= 3 {
		return MatchesWholeWord(lower, keyword)
	}
	return strings.Contains(lower, keyword)
}
