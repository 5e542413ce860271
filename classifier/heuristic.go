package classifier

import (
	"strings"

	"github.com/pemistahl/lingua-go"

	"github.com/Zwin-ux/RedditScraper-sub000/enums"
	"github.com/Zwin-ux/RedditScraper-sub000/matchers"
	"github.com/Zwin-ux/RedditScraper-sub000/scraper"
)

// lowConfidence marks results that came from keyword matching instead of the
// model, or from content the language detector could not place in English.
const (
	lowConfidence       = 0.3
	heuristicConfidence = 0.5
)

// heuristicAnalyzer is the local substitute used whenever the LLM is
// unavailable: category keywords for tags, language detection to down-rank
// non-English content the noisier strategies drag in.
type heuristicAnalyzer struct {
	detector lingua.LanguageDetector
}

func newHeuristicAnalyzer() *heuristicAnalyzer {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(lingua.English, lingua.Spanish, lingua.German, lingua.French, lingua.Portuguese).
		Build()
	return &heuristicAnalyzer{detector: detector}
}

func (h *heuristicAnalyzer) analyzeContent(posts []scraper.Post) ContentAnalysis {
	tagSet := make(map[string]bool)
	var combined strings.Builder
	for _, p := range posts {
		for _, cat := range matchers.InferCategories(p.Title + " " + p.Selftext) {
			tagSet[tagFor(string(cat))] = true
		}
		combined.WriteString(p.Title)
		combined.WriteString(" ")
	}

	tags := make([]string, 0, len(tagSet))
	for t := range tagSet {
		tags = append(tags, t)
	}

	confidence := heuristicConfidence
	if !h.isEnglish(combined.String()) {
		confidence = lowConfidence
	}

	return ContentAnalysis{
		Tags:       tags,
		Summary:    "",
		Confidence: confidence,
	}
}

func (h *heuristicAnalyzer) analyzeRelevance(title, body string) RelevanceAnalysis {
	text := title + " " + body
	cats := matchers.InferCategories(text)

	relevant := false
	var keywords []string
	for _, cat := range cats {
		if cat != enums.CategoryDiscussion {
			relevant = true
			keywords = append(keywords, tagFor(string(cat)))
		}
	}

	confidence := heuristicConfidence
	if !h.isEnglish(text) {
		confidence = lowConfidence
	}

	return RelevanceAnalysis{
		IsRelevant: relevant,
		Category:   string(cats[0]),
		Keywords:   keywords,
		Confidence: confidence,
	}
}

func (h *heuristicAnalyzer) isEnglish(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return true
	}
	lang, ok := h.detector.DetectLanguageOf(text)
	return !ok || lang == lingua.English
}

func tagFor(category string) string {
	return strings.ReplaceAll(strings.ToLower(category), " ", "-")
}
