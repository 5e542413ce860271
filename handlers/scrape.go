package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Zwin-ux/RedditScraper-sub000/classifier"
	"github.com/Zwin-ux/RedditScraper-sub000/data"
	"github.com/Zwin-ux/RedditScraper-sub000/data/repos"
	"github.com/Zwin-ux/RedditScraper-sub000/enums"
	"github.com/Zwin-ux/RedditScraper-sub000/models"
	"github.com/Zwin-ux/RedditScraper-sub000/scraper"
)

var subNameRegex = regexp.MustCompile(`^[A-Za-z0-9_]{3,21}$`)

type ScrapeHandler struct {
	logger      *slog.Logger
	queue       *scraper.Queue
	selector    *scraper.Selector
	creatorRepo *repos.CreatorRepo
	postRepo    *repos.PostRepo
	classifier  *classifier.Client
	useArchive  bool
}

func NewScrapeHandler(
	logger *slog.Logger,
	queue *scraper.Queue,
	selector *scraper.Selector,
	creatorRepo *repos.CreatorRepo,
	postRepo *repos.PostRepo,
	classifierClient *classifier.Client,
	useArchive bool,
) *ScrapeHandler {
	return &ScrapeHandler{
		logger:      logger,
		queue:       queue,
		selector:    selector,
		creatorRepo: creatorRepo,
		postRepo:    postRepo,
		classifier:  classifierClient,
		useArchive:  useArchive,
	}
}

// Scrape runs one subreddit through the queue, persists what came back, and
// returns the structured result. A run where every strategy failed is still a
// 200 with an empty post list and the error breakdown; only a persistence
// fault is a 500.
func (h *ScrapeHandler) Scrape(w http.ResponseWriter, r *http.Request) Result {
	var req models.ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return BadRequest("Invalid request.")
	}
	if !subNameRegex.MatchString(req.Subreddit) {
		return BadRequest("Invalid subreddit name.")
	}

	opts := h.optionsFrom(req)
	priority := enums.Priority(req.Priority)
	if priority != enums.PriorityHigh && priority != enums.PriorityLow {
		priority = enums.PriorityMedium
	}

	result, err := h.queue.Enqueue(r.Context(), opts, priority)
	if err != nil {
		if result != nil {
			// All strategies failed: no data, not a malfunction.
			return Ok(result)
		}
		return InternalError(err, "scrape: ")
	}

	if err := h.persist(r.Context(), result); err != nil {
		return InternalError(err, "persist scrape result: ")
	}
	return Ok(result)
}

// ScrapeBatch runs the chain for several subreddits with a fixed delay
// between them and returns the aggregate summary.
func (h *ScrapeHandler) ScrapeBatch(w http.ResponseWriter, r *http.Request) Result {
	var req models.BatchScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return BadRequest("Invalid request.")
	}
	if len(req.Subreddits) == 0 {
		return BadRequest("At least one subreddit is required.")
	}
	for _, sub := range req.Subreddits {
		if !subNameRegex.MatchString(sub) {
			return BadRequest("Invalid subreddit name: " + sub)
		}
	}

	base := scraper.Options{
		Limit:      req.Limit,
		Sort:       req.Sort,
		Timeframe:  req.Timeframe,
		Keywords:   req.Keywords,
		MinScore:   req.MinScore,
		UseArchive: h.useArchive,
	}

	summary := h.selector.ScrapeMultiple(r.Context(), req.Subreddits, base)
	for _, result := range summary.Results {
		if err := h.persist(r.Context(), result); err != nil {
			h.logger.Error("persist batch result", "subreddit", result.Subreddit, "error", err)
		}
	}
	return Ok(summary)
}

func (h *ScrapeHandler) optionsFrom(req models.ScrapeRequest) scraper.Options {
	return scraper.Options{
		Subreddit:  req.Subreddit,
		Limit:      req.Limit,
		Sort:       req.Sort,
		Timeframe:  req.Timeframe,
		Flairs:     req.Flairs,
		Keywords:   req.Keywords,
		MinScore:   req.MinScore,
		MaxAgeDays: req.MaxAgeDays,
		UseArchive: h.useArchive,
	}
}

// persist stores the run's posts, then aggregates, scores, classifies and
// upserts the creators they belong to.
func (h *ScrapeHandler) persist(ctx context.Context, result *scraper.Result) error {
	if result == nil || len(result.Posts) == 0 {
		return nil
	}

	records := make([]data.Post, 0, len(result.Posts))
	for _, p := range result.Posts {
		records = append(records, data.Post{
			ID:          p.ID,
			Author:      p.Author,
			Subreddit:   p.Subreddit,
			Title:       p.Title,
			Selftext:    p.Selftext,
			Score:       p.Score,
			NumComments: p.NumComments,
			CreatedUTC:  p.CreatedUTC,
			URL:         p.URL,
			Permalink:   p.Permalink,
			Flair:       p.Flair,
			Domain:      p.Domain,
			IsSelf:      p.IsSelf,
			Over18:      p.Over18,
			Source:      string(p.Source),
		})
	}
	if err := h.postRepo.CreatePosts(records); err != nil {
		return err
	}

	ranked := scraper.RankCreators(scraper.AggregateCreators(result.Posts))
	now := time.Now()

	for _, agg := range ranked {
		analysis := h.classifier.AnalyzeContent(ctx, agg.Posts)

		categories := make(pq.StringArray, 0, len(agg.Categories))
		for _, c := range agg.Categories {
			categories = append(categories, string(c))
		}

		creator := data.Creator{
			ID:              uuid.New(),
			Username:        agg.Username,
			EngagementScore: scraper.EngagementFromAggregate(agg, 0),
			PostCount:       agg.PostCount,
			TotalScore:      agg.TotalScore,
			AvgScore:        agg.AvgScore,
			Categories:      categories,
			Tags:            pq.StringArray(analysis.Tags),
			Summary:         analysis.Summary,
			Confidence:      analysis.Confidence,
		}
		creator.LastScrapedAt.Time = now
		creator.LastScrapedAt.Valid = true

		if err := h.creatorRepo.Upsert(creator); err != nil {
			return err
		}
	}
	return nil
}
