package repos

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Zwin-ux/RedditScraper-sub000/data"
)

type SubredditRepo struct {
	db *sqlx.DB
}

func NewSubredditRepo(db *sqlx.DB) *SubredditRepo {
	return &SubredditRepo{db}
}

func (r *SubredditRepo) Create(sub data.Subreddit) (int, error) {
	query := `
		INSERT INTO subreddits (name, active, priority)
		VALUES (:name, :active, :priority)
		ON CONFLICT (name) DO NOTHING
		RETURNING id`

	rows, err := r.db.NamedQuery(query, sub)
	if err != nil {
		return 0, fmt.Errorf("create subreddit: %w", err)
	}
	defer rows.Close()

	var id int
	if rows.Next() {
		if err := rows.Scan(&id); err != nil {
			return 0, fmt.Errorf("scan returned id: %w", err)
		}
		return id, nil
	}

	err = r.db.Get(&id, "SELECT id FROM subreddits WHERE name = $1", sub.Name)
	if err != nil {
		return 0, fmt.Errorf("get existing subreddit id: %w", err)
	}
	return id, nil
}

func (r *SubredditRepo) List() ([]data.Subreddit, error) {
	var subs []data.Subreddit
	query := "SELECT * FROM subreddits ORDER BY created_at DESC"

	err := r.db.Select(&subs, query)
	if err != nil {
		return nil, fmt.Errorf("list subreddits: %w", err)
	}
	return subs, nil
}

func (r *SubredditRepo) ListActive() ([]data.Subreddit, error) {
	var subs []data.Subreddit
	query := "SELECT * FROM subreddits WHERE active = true ORDER BY created_at DESC"

	err := r.db.Select(&subs, query)
	if err != nil {
		return nil, fmt.Errorf("list active subreddits: %w", err)
	}
	return subs, nil
}

func (r *SubredditRepo) Delete(name string) error {
	_, err := r.db.Exec("DELETE FROM subreddits WHERE LOWER(name) = LOWER($1)", name)
	if err != nil {
		return fmt.Errorf("delete subreddit: %w", err)
	}
	return nil
}
