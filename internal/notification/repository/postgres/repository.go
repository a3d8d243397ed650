package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/AnthoniusHendriyanto/social-core/internal/notification/domain"
)

type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository struct {
	db DB
}

func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

const insertQuery = `
	INSERT INTO notifications (id, user_id, type, message, data, read, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

func (r *Repository) Create(ctx context.Context, n *domain.Notification) error {
	data, err := json.Marshal(n.Data)
	if err != nil {
		return fmt.Errorf("failed to encode notification data: %w", err)
	}

	_, err = r.db.Exec(ctx, insertQuery,
		n.ID, n.UserID, n.Type, n.Message, data, n.Read, n.CreatedAt, n.UpdatedAt)

	return err
}

func (r *Repository) CreateMany(ctx context.Context, ns []domain.Notification) error {
	for i := range ns {
		if err := r.Create(ctx, &ns[i]); err != nil {
			return fmt.Errorf("failed to store notification for user %s: %w", ns[i].UserID, err)
		}
	}

	return nil
}

func (r *Repository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, type, message, data, read, created_at, updated_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	notifications := []domain.Notification{}
	for rows.Next() {
		var n domain.Notification
		var data []byte
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &data,
			&n.Read, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		if err := json.Unmarshal(data, &n.Data); err != nil {
			return nil, fmt.Errorf("failed to decode notification data: %w", err)
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

func (r *Repository) MarkRead(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE notifications SET read = TRUE, updated_at = now() WHERE id = $1
	`, id)
	return err
}

func (r *Repository) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE notifications SET read = TRUE, updated_at = now()
		WHERE user_id = $1 AND read = FALSE
	`, userID)
	return err
}
