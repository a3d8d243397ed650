package domain

//go:generate mockgen -destination=../../mocks/mock_notification_repository.go -package=mocks github.com/AnthoniusHendriyanto/social-core/internal/notification/domain Repository

import "context"

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	CreateMany(ctx context.Context, ns []Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) error
}
