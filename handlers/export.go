package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Zwin-ux/RedditScraper-sub000/data"
	"github.com/Zwin-ux/RedditScraper-sub000/data/repos"
	"github.com/Zwin-ux/RedditScraper-sub000/enums"
	"github.com/Zwin-ux/RedditScraper-sub000/export"
	"github.com/Zwin-ux/RedditScraper-sub000/scraper"
)

const defaultExportLimit = 500

// ExportHandler streams stored posts in the download formats. It writes
// directly to the response because CSV and file downloads do not fit the
// JSON envelope the other handlers use.
type ExportHandler struct {
	logger   *slog.Logger
	postRepo *repos.PostRepo
}

func NewExportHandler(logger *slog.Logger, postRepo *repos.PostRepo) *ExportHandler {
	return &ExportHandler{logger, postRepo}
}

func (h *ExportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	posts, ok := h.load(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="posts.csv"`)
	if err := export.WriteCSV(w, posts); err != nil {
		h.logger.Error("write csv export", "error", err)
	}
}

func (h *ExportHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	posts, ok := h.load(w, r)
	if !ok {
		return
	}

	result := &scraper.Result{
		Subreddit:   r.URL.Query().Get("subreddit"),
		Posts:       posts,
		TotalFound:  len(posts),
		CompletedAt: time.Now(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="posts.json"`)
	if err := export.WriteJSON(w, result); err != nil {
		h.logger.Error("write json export", "error", err)
	}
}

func (h *ExportHandler) load(w http.ResponseWriter, r *http.Request) ([]scraper.Post, bool) {
	subreddit := r.URL.Query().Get("subreddit")
	if !subNameRegex.MatchString(subreddit) {
		http.Error(w, "Invalid subreddit name.", http.StatusBadRequest)
		return nil, false
	}

	limit := queryInt(r, "limit", defaultExportLimit)
	if limit < 1 || limit > 5000 {
		limit = defaultExportLimit
	}

	records, err := h.postRepo.ListBySubreddit(subreddit, limit)
	if err != nil {
		h.logger.Error("load posts for export", "subreddit", subreddit, "error", err)
		http.Error(w, "Export failed.", http.StatusInternalServerError)
		return nil, false
	}

	posts := make([]scraper.Post, 0, len(records))
	for _, rec := range records {
		posts = append(posts, toScraperPost(rec))
	}
	return posts, true
}

func toScraperPost(rec data.Post) scraper.Post {
	return scraper.Post{
		ID:          rec.ID,
		Title:       rec.Title,
		Selftext:    rec.Selftext,
		Author:      rec.Author,
		Subreddit:   rec.Subreddit,
		Score:       rec.Score,
		NumComments: rec.NumComments,
		CreatedUTC:  rec.CreatedUTC,
		URL:         rec.URL,
		Permalink:   rec.Permalink,
		Flair:       rec.Flair,
		Domain:      rec.Domain,
		IsSelf:      rec.IsSelf,
		Over18:      rec.Over18,
		Source:      enums.Source(rec.Source),
	}
}
