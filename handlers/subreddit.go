package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Zwin-ux/RedditScraper-sub000/data"
	"github.com/Zwin-ux/RedditScraper-sub000/data/repos"
	"github.com/Zwin-ux/RedditScraper-sub000/enums"
	"github.com/Zwin-ux/RedditScraper-sub000/models"
)

type SubredditHandler struct {
	repo *repos.SubredditRepo
}

func NewSubredditHandler(repo *repos.SubredditRepo) *SubredditHandler {
	return &SubredditHandler{repo}
}

func (h *SubredditHandler) GetSubreddits(w http.ResponseWriter, r *http.Request) Result {
	subs, err := h.repo.List()
	if err != nil {
		return InternalError(err, "get subreddits: ")
	}

	resp := models.GetSubredditsResponse{
		Subreddits: make([]models.SubredditModel, 0, len(subs)),
	}
	for _, s := range subs {
		resp.Subreddits = append(resp.Subreddits, models.SubredditModel{
			ID:       s.ID,
			Name:     s.Name,
			Active:   s.Active,
			Priority: s.Priority,
		})
	}
	return Ok(resp)
}

func (h *SubredditHandler) CreateSubreddit(w http.ResponseWriter, r *http.Request) Result {
	var req models.CreateSubredditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return BadRequest("Invalid request.")
	}
	if !subNameRegex.MatchString(req.Name) {
		return BadRequest("Invalid subreddit name.")
	}

	priority := enums.Priority(req.Priority)
	if priority != enums.PriorityHigh && priority != enums.PriorityLow {
		priority = enums.PriorityMedium
	}

	id, err := h.repo.Create(data.Subreddit{
		Name:     req.Name,
		Active:   true,
		Priority: string(priority),
	})
	if err != nil {
		return InternalError(err, "create subreddit: ")
	}
	return Created(id)
}

func (h *SubredditHandler) DeleteSubreddit(w http.ResponseWriter, r *http.Request) Result {
	name := r.PathValue("name")
	if name == "" {
		return BadRequest("Subreddit name is required.")
	}

	if err := h.repo.Delete(name); err != nil {
		return InternalError(err, "delete subreddit: ")
	}
	return Ok(nil)
}
