package classifier

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zwin-ux/RedditScraper-sub000/scraper"
)

func testClient(t *testing.T) *Client {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient(context.Background(), "", logger)
}

func TestCleanJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, cleanJSON(`{"a":1}`))
	assert.Equal(t, `{"a":1}`, cleanJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, cleanJSON("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, cleanJSON("  {\"a\":1}  "))
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, clamp01(-0.5))
	assert.Equal(t, 1.0, clamp01(1.5))
	assert.Equal(t, 0.7, clamp01(0.7))
}

func TestFirstN(t *testing.T) {
	assert.Equal(t, "abc", firstN("abc", 10))
	assert.Equal(t, "abc", firstN("abcdef", 3))
}

func TestAnalyzeContent_HeuristicFallback(t *testing.T) {
	c := testClient(t)

	posts := []scraper.Post{
		{Title: "My machine learning pipeline", Selftext: "Training models with python"},
		{Title: "Research paper review", Selftext: "Interesting statistical methods"},
	}

	analysis := c.AnalyzeContent(context.Background(), posts)
	assert.Contains(t, analysis.Tags, "machine-learning")
	assert.Contains(t, analysis.Tags, "programming")
	assert.Contains(t, analysis.Tags, "research")
	assert.Equal(t, heuristicConfidence, analysis.Confidence)
}

func TestAnalyzeContent_NonEnglishLowConfidence(t *testing.T) {
	c := testClient(t)

	posts := []scraper.Post{
		{Title: "Hola, busco recomendaciones de cursos de estadistica en espanol por favor"},
	}

	analysis := c.AnalyzeContent(context.Background(), posts)
	assert.Equal(t, lowConfidence, analysis.Confidence)
}

func TestAnalyzeRelevance_Heuristic(t *testing.T) {
	c := testClient(t)

	relevant := c.AnalyzeRelevance(context.Background(), "Machine learning question", "How do I tune hyperparameters in python?")
	assert.True(t, relevant.IsRelevant)
	assert.NotEmpty(t, relevant.Keywords)

	offtopic := c.AnalyzeRelevance(context.Background(), "Favorite pizza toppings", "Just curious what everyone likes")
	assert.False(t, offtopic.IsRelevant)
	assert.Equal(t, "Discussion", offtopic.Category)
}

func TestModelBudgets(t *testing.T) {
	c := testClient(t)
	cfg := modelConfig{Name: "test-model", RPM: 2, RPD: 100}

	require.True(t, c.canUseModel(cfg))
	c.recordUsage(cfg)
	require.True(t, c.canUseModel(cfg))
	c.recordUsage(cfg)
	assert.False(t, c.canUseModel(cfg), "per-minute budget spent")
}

func TestTagFor(t *testing.T) {
	assert.Equal(t, "machine-learning", tagFor("Machine Learning"))
	assert.Equal(t, "career", tagFor("Career"))
}
