package service

//go:generate mockgen -destination=../../mocks/mock_follower_source.go -package=mocks github.com/AnthoniusHendriyanto/social-core/internal/notification/service FollowerSource

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/AnthoniusHendriyanto/social-core/internal/event"
	"github.com/AnthoniusHendriyanto/social-core/internal/notification/domain"
)

const (
	captionPreviewLimit = 50
	listLimit           = 50
)

// FollowerSource is the slice of the graph service fan-out needs.
type FollowerSource interface {
	FollowerIDs(ctx context.Context, userID string) ([]string, error)
}

type NotificationService struct {
	repo      domain.Repository
	followers FollowerSource
}

func NewNotificationService(repo domain.Repository, followers FollowerSource) *NotificationService {
	return &NotificationService{repo: repo, followers: followers}
}

// HandlePostCreated fans one post_created event out to every follower of the
// author. Store failures are logged and absorbed; the event is handled
// regardless.
func (s *NotificationService) HandlePostCreated(ctx context.Context, payload []byte) error {
	ev, err := event.DecodePostCreated(payload)
	if err != nil {
		return err
	}

	followerIDs, err := s.followers.FollowerIDs(ctx, ev.UserID)
	if err != nil {
		log.Printf("warn: failed to fetch followers of %s: %v", ev.UserID, err)
		return nil
	}

	if len(followerIDs) == 0 {
		return nil
	}

	now := time.Now()
	message := fmt.Sprintf("@%s just posted: %s", ev.UserID, previewCaption(ev.Caption))

	notifications := make([]domain.Notification, 0, len(followerIDs))
	for _, followerID := range followerIDs {
		notifications = append(notifications, domain.Notification{
			ID:      uuid.NewString(),
			UserID:  followerID,
			Type:    domain.TypePostCreated,
			Message: message,
			Data: map[string]string{
				"postId":   ev.PostID,
				"authorId": ev.UserID,
				"caption":  ev.Caption,
				"mediaUrl": ev.MediaURL,
			},
			Read:      false,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if err := s.repo.CreateMany(ctx, notifications); err != nil {
		log.Printf("warn: failed to store post_created notifications: %v", err)
	}

	return nil
}

// HandleUserFollowed stores exactly one follow notification for the followed
// user.
func (s *NotificationService) HandleUserFollowed(ctx context.Context, payload []byte) error {
	ev, err := event.DecodeUserFollowed(payload)
	if err != nil {
		return err
	}

	now := time.Now()
	notification := &domain.Notification{
		ID:      uuid.NewString(),
		UserID:  ev.FollowedID,
		Type:    domain.TypeFollow,
		Message: fmt.Sprintf("@%s started following you", ev.FollowerID),
		Data: map[string]string{
			"followerId": ev.FollowerID,
		},
		Read:      false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		log.Printf("warn: failed to store follow notification: %v", err)
	}

	return nil
}

func (s *NotificationService) ListForUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	return s.repo.ListByUser(ctx, userID, listLimit)
}

func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	return s.repo.MarkRead(ctx, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllRead(ctx, userID)
}

// previewCaption truncates at 50 runes with an ellipsis marker.
func previewCaption(caption string) string {
	runes := []rune(caption)
	if len(runes) <= captionPreviewLimit {
		return caption
	}
	return string(runes[:captionPreviewLimit]) + "..."
}
