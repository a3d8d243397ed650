package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/AnthoniusHendriyanto/social-core/internal/event"
	"github.com/AnthoniusHendriyanto/social-core/internal/outbox"
	"github.com/AnthoniusHendriyanto/social-core/internal/post/domain"
)

type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Repository struct {
	db DB
}

func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// Create stores the post and its post_created event intent in one
// transaction.
func (r *Repository) Create(ctx context.Context, post *domain.Post) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin post transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO posts (id, user_id, caption, media_url, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, post.ID, post.UserID, post.Caption, post.MediaURL, post.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}

	err = outbox.Insert(ctx, tx, event.TopicPostCreated, event.PostCreated{
		UserID:   post.UserID,
		Caption:  post.Caption,
		MediaURL: post.MediaURL,
		PostID:   post.ID,
	})
	if err != nil {
		return fmt.Errorf("failed to record post_created event: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *Repository) ByUser(ctx context.Context, userID string) ([]domain.Post, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, caption, media_url, created_at
		FROM posts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}

	return scanPosts(rows)
}

// ByUsers returns every post owned by any of the given users, newest first.
func (r *Repository) ByUsers(ctx context.Context, userIDs []string) ([]domain.Post, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, caption, media_url, created_at
		FROM posts
		WHERE user_id = ANY($1)
		ORDER BY created_at DESC
	`, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query feed posts: %w", err)
	}

	return scanPosts(rows)
}

func scanPosts(rows pgx.Rows) ([]domain.Post, error) {
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Caption, &p.MediaURL, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}

	return posts, rows.Err()
}
