package repos

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Zwin-ux/RedditScraper-sub000/data"
)

type CreatorRepo struct {
	db *sqlx.DB
}

func NewCreatorRepo(db *sqlx.DB) *CreatorRepo {
	return &CreatorRepo{db}
}

// Upsert inserts a creator or, when the username exists, refreshes the
// metrics computed by the latest scraping run.
func (r *CreatorRepo) Upsert(creator data.Creator) error {
	query := `
		INSERT INTO creators
			(id, username, karma, engagement_score, post_count, total_score, avg_score,
			 categories, tags, summary, confidence, last_scraped_at)
		VALUES
			(:id, :username, :karma, :engagement_score, :post_count, :total_score, :avg_score,
			 :categories, :tags, :summary, :confidence, :last_scraped_at)
		ON CONFLICT (username) DO UPDATE SET
			karma = EXCLUDED.karma,
			engagement_score = EXCLUDED.engagement_score,
			post_count = EXCLUDED.post_count,
			total_score = EXCLUDED.total_score,
			avg_score = EXCLUDED.avg_score,
			categories = EXCLUDED.categories,
			tags = EXCLUDED.tags,
			summary = EXCLUDED.summary,
			confidence = EXCLUDED.confidence,
			last_scraped_at = EXCLUDED.last_scraped_at,
			updated_at = now()`

	_, err := r.db.NamedExec(query, creator)
	if err != nil {
		return fmt.Errorf("upsert creator: %w", err)
	}
	return nil
}

func (r *CreatorRepo) GetByUsername(username string) (*data.Creator, error) {
	var creator data.Creator
	query := "SELECT * FROM creators WHERE LOWER(username) = LOWER($1)"

	err := r.db.Get(&creator, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get creator by username: %w", err)
	}
	return &creator, nil
}

func (r *CreatorRepo) List(limit, offset int) ([]data.Creator, error) {
	var creators []data.Creator
	query := `
		SELECT * FROM creators
		ORDER BY engagement_score DESC, total_score DESC
		LIMIT $1 OFFSET $2`

	err := r.db.Select(&creators, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list creators: %w", err)
	}
	return creators, nil
}

func (r *CreatorRepo) Count() (int, error) {
	var count int
	err := r.db.Get(&count, "SELECT COUNT(*) FROM creators")
	if err != nil {
		return 0, fmt.Errorf("count creators: %w", err)
	}
	return count, nil
}

func (r *CreatorRepo) Stats() (data.DashboardStats, error) {
	var stats data.DashboardStats
	query := `
		SELECT
			(SELECT COUNT(*) FROM creators)                       AS total_creators,
			(SELECT COUNT(*) FROM posts)                          AS total_posts,
			COALESCE((SELECT AVG(engagement_score) FROM creators), 0) AS avg_engagement,
			COALESCE((SELECT AVG(avg_score) FROM creators), 0)        AS avg_score`

	err := r.db.Get(&stats, query)
	if err != nil {
		return stats, fmt.Errorf("dashboard stats: %w", err)
	}
	return stats, nil
}
