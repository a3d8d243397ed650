package service

//go:generate mockgen -destination=../../mocks/mock_graph.go -package=mocks github.com/AnthoniusHendriyanto/social-core/internal/post/service Graph

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AnthoniusHendriyanto/social-core/internal/post/domain"
)

// Graph is the slice of the graph service feed assembly needs.
type Graph interface {
	FollowingIDs(ctx context.Context, userID string) ([]string, error)
}

type PostService struct {
	repo  domain.Repository
	graph Graph
}

func NewPostService(repo domain.Repository, graph Graph) *PostService {
	return &PostService{repo: repo, graph: graph}
}

func (s *PostService) Create(ctx context.Context, userID, caption, mediaURL string) (*domain.Post, error) {
	post := &domain.Post{
		ID:        uuid.NewString(),
		UserID:    userID,
		Caption:   caption,
		MediaURL:  mediaURL,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

func (s *PostService) PostsForUser(ctx context.Context, userID string) ([]domain.Post, error) {
	return s.repo.ByUser(ctx, userID)
}

// Feed is the authoritative feed computation: the user's own posts plus
// those of everyone they follow, newest first. The cache layer sits in front
// of this, never beside it. Dependency failures propagate unchanged.
func (s *PostService) Feed(ctx context.Context, userID string) ([]domain.Post, error) {
	followingIDs, err := s.graph.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	targets := append([]string{userID}, followingIDs...)

	return s.repo.ByUsers(ctx, targets)
}
