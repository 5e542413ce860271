package handlers

import (
	"net/http"

	"github.com/Zwin-ux/RedditScraper-sub000/data/repos"
	"github.com/Zwin-ux/RedditScraper-sub000/models"
)

type StatsHandler struct {
	creatorRepo *repos.CreatorRepo
	postRepo    *repos.PostRepo
}

func NewStatsHandler(creatorRepo *repos.CreatorRepo, postRepo *repos.PostRepo) *StatsHandler {
	return &StatsHandler{creatorRepo, postRepo}
}

func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) Result {
	stats, err := h.creatorRepo.Stats()
	if err != nil {
		return InternalError(err, "get stats: ")
	}

	bySource, err := h.postRepo.CountBySource()
	if err != nil {
		return InternalError(err, "count posts by source: ")
	}

	return Ok(models.StatsResponse{
		TotalCreators: stats.TotalCreators,
		TotalPosts:    stats.TotalPosts,
		AvgEngagement: stats.AvgEngagement,
		AvgScore:      stats.AvgScore,
		PostsBySource: bySource,
	})
}
