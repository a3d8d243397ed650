package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperr "github.com/AnthoniusHendriyanto/social-core/internal/errors"
	"github.com/AnthoniusHendriyanto/social-core/internal/user/domain"
)

// GraphService owns the users table and the directed follow graph.
type GraphService struct {
	repo domain.Repository
}

func NewGraphService(repo domain.Repository) *GraphService {
	return &GraphService{repo: repo}
}

// CreateUser registers a new identity. The email uniqueness constraint
// surfaces as ErrEmailAlreadyInUse.
func (s *GraphService) CreateUser(ctx context.Context, email, passwordHash string) (*domain.User, error) {
	now := time.Now()

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *GraphService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *GraphService) Follow(ctx context.Context, followerID, followingID string) error {
	if followerID == followingID {
		return apperr.ErrSelfFollow
	}

	follower, err := s.repo.GetByID(ctx, followerID)
	if err != nil {
		return err
	}
	following, err := s.repo.GetByID(ctx, followingID)
	if err != nil {
		return err
	}
	if follower == nil || following == nil {
		return apperr.ErrUserNotFound
	}

	// The edge insert and the user_followed event intent commit together;
	// delivery to the bus happens asynchronously via the outbox relay.
	return s.repo.InsertFollow(ctx, followerID, followingID)
}

func (s *GraphService) Unfollow(ctx context.Context, followerID, followingID string) error {
	return s.repo.DeleteFollow(ctx, followerID, followingID)
}

func (s *GraphService) GetFollowing(ctx context.Context, userID string) ([]domain.UserSummary, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.Following(ctx, userID)
}

func (s *GraphService) GetFollowers(ctx context.Context, userID string) ([]domain.UserSummary, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.Followers(ctx, userID)
}

// FollowingIDs feeds the feed assembly. Unknown users are an error here,
// matching GetFollowing.
func (s *GraphService) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.FollowingIDs(ctx, userID)
}

// FollowerIDs feeds notification fan-out. A user with no followers yields an
// empty set, never an error.
func (s *GraphService) FollowerIDs(ctx context.Context, userID string) ([]string, error) {
	return s.repo.FollowerIDs(ctx, userID)
}

func (s *GraphService) requireUser(ctx context.Context, userID string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to look up user %s: %w", userID, err)
	}
	if user == nil {
		return apperr.ErrUserNotFound
	}
	return nil
}
