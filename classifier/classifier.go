// Package classifier tags creators and posts with topical labels using a
// Gemini model, falling back to a local heuristic when the model is
// unavailable. Classifier failures are absorbed into a low-confidence default
// and never surface as fatal errors.
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/Zwin-ux/RedditScraper-sub000/scraper"
)

// maxSamplePosts bounds how much content one analysis call ships to the LLM.
const maxSamplePosts = 10

// ContentAnalysis is the result of classifying a creator's recent posts.
type ContentAnalysis struct {
	Tags       []string `json:"tags"`
	Summary    string   `json:"summary"`
	Confidence float64  `json:"confidence"`
}

// RelevanceAnalysis judges whether a single post belongs in the AI/ML/data
// space at all.
type RelevanceAnalysis struct {
	IsRelevant bool     `json:"is_relevant"`
	Category   string   `json:"category"`
	Keywords   []string `json:"keywords"`
	Confidence float64  `json:"confidence"`
}

type modelConfig struct {
	Name string
	RPM  int
	RPD  int
}

// Client wraps the Gemini API with a model fallback list and per-model
// request budgets. A nil genai client (no API key) degrades to the heuristic
// analyzer.
type Client struct {
	genai     *genai.Client
	models    []modelConfig
	heuristic *heuristicAnalyzer
	logger    *slog.Logger

	mu           sync.Mutex
	dailyCount   map[string]int
	minuteCount  map[string]int
	lastResetDay time.Time
	lastResetMin time.Time
}

func NewClient(ctx context.Context, apiKey string, logger *slog.Logger) *Client {
	c := &Client{
		models: []modelConfig{
			{Name: "gemini-2.5-flash", RPM: 10, RPD: 250},
			{Name: "gemini-2.5-flash-lite", RPM: 15, RPD: 1000},
		},
		heuristic:    newHeuristicAnalyzer(),
		logger:       logger,
		dailyCount:   make(map[string]int),
		minuteCount:  make(map[string]int),
		lastResetDay: time.Now(),
		lastResetMin: time.Now(),
	}

	if apiKey == "" {
		logger.Info("GEMINI_API_KEY not configured, classifier runs heuristics only")
		return c
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		logger.Warn("gemini client init failed, falling back to heuristics", "error", err)
		return c
	}
	c.genai = client
	return c
}

// AnalyzeContent classifies a bounded sample of a creator's posts.
func (c *Client) AnalyzeContent(ctx context.Context, posts []scraper.Post) ContentAnalysis {
	sample := posts
	if len(sample) > maxSamplePosts {
		sample = sample[:maxSamplePosts]
	}

	if c.genai == nil {
		return c.heuristic.analyzeContent(sample)
	}

	var sb strings.Builder
	for i, p := range sample {
		fmt.Fprintf(&sb, "%d. title: %s\n   body: %s\n", i+1, p.Title, firstN(p.Selftext, 500))
	}

	prompt := fmt.Sprintf(`You are classifying a Reddit creator's recent posts in AI/ML/data-science communities.

Posts:
%s

Respond with JSON only: {"tags": ["..."], "summary": "one sentence", "confidence": 0.0-1.0}
Tags come from: machine-learning, data-science, programming, career, research, llm, statistics, visualization, discussion.`, sb.String())

	raw, err := c.generate(ctx, prompt)
	if err != nil {
		c.logger.Warn("content analysis unavailable, using heuristic", "error", err)
		return c.heuristic.analyzeContent(sample)
	}

	var analysis ContentAnalysis
	if err := json.Unmarshal([]byte(cleanJSON(raw)), &analysis); err != nil {
		c.logger.Warn("content analysis response unparseable, using heuristic", "error", err)
		return c.heuristic.analyzeContent(sample)
	}
	analysis.Confidence = clamp01(analysis.Confidence)
	return analysis
}

// AnalyzeRelevance judges one post's topical fit.
func (c *Client) AnalyzeRelevance(ctx context.Context, title, body string) RelevanceAnalysis {
	if c.genai == nil {
		return c.heuristic.analyzeRelevance(title, body)
	}

	prompt := fmt.Sprintf(`Is this Reddit post relevant to AI, machine learning, or data science?

Title: %s
Body: %s

Respond with JSON only: {"is_relevant": true/false, "category": "...", "keywords": ["..."], "confidence": 0.0-1.0}`,
		title, firstN(body, 1000))

	raw, err := c.generate(ctx, prompt)
	if err != nil {
		c.logger.Warn("relevance analysis unavailable, using heuristic", "error", err)
		return c.heuristic.analyzeRelevance(title, body)
	}

	var analysis RelevanceAnalysis
	if err := json.Unmarshal([]byte(cleanJSON(raw)), &analysis); err != nil {
		c.logger.Warn("relevance response unparseable, using heuristic", "error", err)
		return c.heuristic.analyzeRelevance(title, body)
	}
	analysis.Confidence = clamp01(analysis.Confidence)
	return analysis
}

// generate walks the model fallback list, skipping models whose per-minute or
// per-day budget is spent.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for _, cfg := range c.models {
		if !c.canUseModel(cfg) {
			continue
		}

		result, err := c.genai.Models.GenerateContent(ctx, cfg.Name, genai.Text(prompt), nil)
		if err != nil {
			errStr := strings.ToLower(err.Error())
			if strings.Contains(errStr, "429") || strings.Contains(errStr, "rate limit") ||
				strings.Contains(errStr, "exhausted") || strings.Contains(errStr, "not found") {
				lastErr = err
				continue
			}
			return "", err
		}

		if result != nil && len(result.Candidates) > 0 && len(result.Candidates[0].Content.Parts) > 0 {
			c.recordUsage(cfg)
			return result.Candidates[0].Content.Parts[0].Text, nil
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("all model budgets exhausted")
	}
	return "", lastErr
}

func (c *Client) canUseModel(cfg modelConfig) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	if now.YearDay() != c.lastResetDay.YearDay() {
		c.dailyCount = make(map[string]int)
		c.lastResetDay = now
	}
	if now.Sub(c.lastResetMin) >= time.Minute {
		c.minuteCount = make(map[string]int)
		c.lastResetMin = now
	}
	return c.dailyCount[cfg.Name] < cfg.RPD && c.minuteCount[cfg.Name] < cfg.RPM
}

func (c *Client) recordUsage(cfg modelConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dailyCount[cfg.Name]++
	c.minuteCount[cfg.Name]++
}

func cleanJSON(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}

func firstN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
