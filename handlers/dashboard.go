package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/Zwin-ux/RedditScraper-sub000/data/repos"
)

const dashboardCreatorLimit = 20

// DashboardHandler renders the creator leaderboard as a self-contained HTML
// page. Charts render straight to the response, same deal as the exports.
type DashboardHandler struct {
	logger      *slog.Logger
	creatorRepo *repos.CreatorRepo
}

func NewDashboardHandler(logger *slog.Logger, creatorRepo *repos.CreatorRepo) *DashboardHandler {
	return &DashboardHandler{logger, creatorRepo}
}

func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	creators, err := h.creatorRepo.List(dashboardCreatorLimit, 0)
	if err != nil {
		h.logger.Error("load creators for dashboard", "error", err)
		http.Error(w, "Dashboard unavailable.", http.StatusInternalServerError)
		return
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Top Creators by Engagement"}),
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: 45}}),
	)

	var barX []string
	var barY []opts.BarData
	for _, c := range creators {
		barX = append(barX, c.Username)
		barY = append(barY, opts.BarData{Value: c.EngagementScore})
	}
	bar.SetXAxis(barX).AddSeries("Engagement", barY)

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Category Breakdown"}),
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
	)

	categoryCounts := make(map[string]int)
	for _, c := range creators {
		for _, cat := range c.Categories {
			categoryCounts[cat]++
		}
	}

	var pieItems []opts.PieData
	for name, count := range categoryCounts {
		pieItems = append(pieItems, opts.PieData{Name: name, Value: count})
	}
	pie.AddSeries("Creators", pieItems)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := bar.Render(w); err != nil {
		h.logger.Error("render dashboard bar chart", "error", err)
		return
	}
	if err := pie.Render(w); err != nil {
		h.logger.Error("render dashboard pie chart", "error", err)
	}
}
