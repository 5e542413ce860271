package repos

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Zwin-ux/RedditScraper-sub000/data"
)

type PostRepo struct {
	db *sqlx.DB
}

func NewPostRepo(db *sqlx.DB) *PostRepo {
	return &PostRepo{db}
}

// CreatePosts bulk-inserts a run's posts, skipping ones already stored.
func (r *PostRepo) CreatePosts(posts []data.Post) error {
	if len(posts) == 0 {
		return nil
	}

	query := `
		INSERT INTO posts
			(id, author, subreddit, title, selftext, score, num_comments, created_utc,
			 url, permalink, flair, domain, is_self, over_18, source, scraped_at)
		VALUES
			(:id, :author, :subreddit, :title, :selftext, :score, :num_comments, :created_utc,
			 :url, :permalink, :flair, :domain, :is_self, :over_18, :source, now())
		ON CONFLICT (id) DO NOTHING`

	_, err := r.db.NamedExec(query, posts)
	if err != nil {
		return fmt.Errorf("create posts: %w", err)
	}
	return nil
}

func (r *PostRepo) ListBySubreddit(subreddit string, limit int) ([]data.Post, error) {
	var posts []data.Post
	query := `
		SELECT * FROM posts
		WHERE LOWER(subreddit) = LOWER($1)
		ORDER BY score DESC
		LIMIT $2`

	err := r.db.Select(&posts, query, subreddit, limit)
	if err != nil {
		return nil, fmt.Errorf("list posts by subreddit: %w", err)
	}
	return posts, nil
}

// CountBySource reports how many stored posts each acquisition strategy
// contributed.
func (r *PostRepo) CountBySource() (map[string]int, error) {
	rows, err := r.db.Queryx("SELECT source, COUNT(*) AS n FROM posts GROUP BY source")
	if err != nil {
		return nil, fmt.Errorf("count posts by source: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var source string
		var n int
		if err := rows.Scan(&source, &n); err != nil {
			return nil, fmt.Errorf("scan source count: %w", err)
		}
		counts[source] = n
	}
	return counts, rows.Err()
}
