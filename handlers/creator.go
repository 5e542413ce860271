package handlers

import (
	"net/http"
	"strconv"

	"github.com/Zwin-ux/RedditScraper-sub000/data"
	"github.com/Zwin-ux/RedditScraper-sub000/models"
)

const defaultPerPage = 50

// CreatorStore is the slice of the creator repo this handler reads from.
type CreatorStore interface {
	List(limit, offset int) ([]data.Creator, error)
	GetByUsername(username string) (*data.Creator, error)
	Count() (int, error)
}

type CreatorHandler struct {
	repo CreatorStore
}

func NewCreatorHandler(repo CreatorStore) *CreatorHandler {
	return &CreatorHandler{repo}
}

func (h *CreatorHandler) GetCreators(w http.ResponseWriter, r *http.Request) Result {
	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	perPage := queryInt(r, "per_page", defaultPerPage)
	if perPage < 1 || perPage > 200 {
		perPage = defaultPerPage
	}

	creators, err := h.repo.List(perPage, (page-1)*perPage)
	if err != nil {
		return InternalError(err, "get creators: ")
	}

	total, err := h.repo.Count()
	if err != nil {
		return InternalError(err, "count creators: ")
	}

	resp := models.GetCreatorsResponse{
		Creators: make([]models.Creator, 0, len(creators)),
		Total:    total,
		Page:     page,
		PerPage:  perPage,
	}
	for _, c := range creators {
		resp.Creators = append(resp.Creators, toCreatorModel(c))
	}
	return Ok(resp)
}

func (h *CreatorHandler) GetCreator(w http.ResponseWriter, r *http.Request) Result {
	username := r.PathValue("username")
	if username == "" {
		return BadRequest("Username is required.")
	}

	creator, err := h.repo.GetByUsername(username)
	if err != nil {
		return InternalError(err, "get creator: ")
	}
	if creator == nil {
		return NotFound("Creator not found.")
	}
	return Ok(toCreatorModel(*creator))
}

func toCreatorModel(c data.Creator) models.Creator {
	m := models.Creator{
		Username:        c.Username,
		Karma:           c.Karma,
		EngagementScore: c.EngagementScore,
		PostCount:       c.PostCount,
		TotalScore:      c.TotalScore,
		AvgScore:        c.AvgScore,
		Categories:      c.Categories,
		Tags:            c.Tags,
		Summary:         c.Summary,
		Confidence:      c.Confidence,
	}
	if c.LastScrapedAt.Valid {
		t := c.LastScrapedAt.Time
		m.LastScrapedAt = &t
	}
	return m
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
