package outbox

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Execer is satisfied by pgxpool.Pool and pgx.Tx, so an event intent can be
// inserted inside the same transaction as the mutation it describes.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type Row struct {
	ID      string
	Topic   string
	Payload []byte
}

// Insert records an event intent. Call it with the transaction that carries
// the mutation the event describes.
func Insert(ctx context.Context, q Execer, topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal outbox payload: %w", err)
	}

	_, err = q.Exec(ctx, `
		INSERT INTO outbox (id, topic, payload, created_at)
		VALUES ($1, $2, $3, now())
	`, uuid.NewString(), topic, body)

	return err
}

type Repository struct {
	db DB
}

func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Pending(ctx context.Context, limit int) ([]Row, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, topic, payload
		FROM outbox
		WHERE sent_at IS NULL
		ORDER BY created_at
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending outbox rows: %w", err)
	}
	defer rows.Close()

	var pending []Row
	for rows.Next() {
		var row Row
		if err := rows.Scan(&row.ID, &row.Topic, &row.Payload); err != nil {
			return nil, fmt.Errorf("failed to scan outbox row: %w", err)
		}
		pending = append(pending, row)
	}

	return pending, rows.Err()
}

func (r *Repository) MarkSent(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `UPDATE outbox SET sent_at = now() WHERE id = $1`, id)
	return err
}
