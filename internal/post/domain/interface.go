package domain

//go:generate mockgen -destination=../../mocks/mock_post_repository.go -package=mocks github.com/AnthoniusHendriyanto/social-core/internal/post/domain Repository

import "context"

type Repository interface {
	Create(ctx context.Context, post *Post) error
	ByUser(ctx context.Context, userID string) ([]Post, error)
	ByUsers(ctx context.Context, userIDs []string) ([]Post, error)
}
