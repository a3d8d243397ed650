package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	apperr "github.com/AnthoniusHendriyanto/social-core/internal/errors"
	"github.com/AnthoniusHendriyanto/social-core/internal/event"
	"github.com/AnthoniusHendriyanto/social-core/internal/outbox"
	"github.com/AnthoniusHendriyanto/social-core/internal/user/domain"
)

const uniqueViolation = "23505"

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

func (r *Repository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, user.ID, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt)

	if isUniqueViolation(err) {
		return apperr.ErrEmailAlreadyInUse
	}

	return err
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, email, password_hash, created_at, updated_at
		FROM users
		WHERE email = $1
		LIMIT 1;
	`
	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, email, password_hash, created_at, updated_at
		FROM users
		WHERE id = $1
		LIMIT 1;
	`
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *Repository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// InsertFollow writes the edge and the user_followed event intent in one
// transaction. The unique (follower_id, following_id) key is the
// serialization point for concurrent duplicate follows.
func (r *Repository) InsertFollow(ctx context.Context, followerID, followingID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin follow transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO user_followers (follower_id, following_id, created_at)
		VALUES ($1, $2, now())
	`, followerID, followingID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.ErrAlreadyFollowing
		}
		return fmt.Errorf("failed to insert follow edge: %w", err)
	}

	err = outbox.Insert(ctx, tx, event.TopicUserFollowed, event.UserFollowed{
		FollowerID: followerID,
		FollowedID: followingID,
	})
	if err != nil {
		return fmt.Errorf("failed to record user_followed event: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *Repository) DeleteFollow(ctx context.Context, followerID, followingID string) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM user_followers
		WHERE follower_id = $1 AND following_id = $2
	`, followerID, followingID)
	if err != nil {
		return fmt.Errorf("failed to delete follow edge: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFollowing
	}

	return nil
}

func (r *Repository) Following(ctx context.Context, userID string) ([]domain.UserSummary, error) {
	query := `
		SELECT u.id, u.email, u.created_at, u.updated_at
		FROM user_followers f
		JOIN users u ON u.id = f.following_id
		WHERE f.follower_id = $1
	`
	return r.querySummaries(ctx, query, userID)
}

func (r *Repository) Followers(ctx context.Context, userID string) ([]domain.UserSummary, error) {
	query := `
		SELECT u.id, u.email, u.created_at, u.updated_at
		FROM user_followers f
		JOIN users u ON u.id = f.follower_id
		WHERE f.following_id = $1
	`
	return r.querySummaries(ctx, query, userID)
}

func (r *Repository) querySummaries(ctx context.Context, query, userID string) ([]domain.UserSummary, error) {
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query follow list: %w", err)
	}
	defer rows.Close()

	summaries := []domain.UserSummary{}
	for rows.Next() {
		var s domain.UserSummary
		if err := rows.Scan(&s.ID, &s.Email, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan follow list row: %w", err)
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

func (r *Repository) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	return r.queryIDs(ctx, `
		SELECT following_id FROM user_followers WHERE follower_id = $1
	`, userID)
}

func (r *Repository) FollowerIDs(ctx context.Context, userID string) ([]string, error) {
	return r.queryIDs(ctx, `
		SELECT follower_id FROM user_followers WHERE following_id = $1
	`, userID)
}

func (r *Repository) queryIDs(ctx context.Context, query, userID string) ([]string, error) {
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query follow ids: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan follow id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
