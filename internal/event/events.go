package event

import (
	"encoding/json"
	"fmt"

	apperr "github.com/AnthoniusHendriyanto/social-core/internal/errors"
)

const (
	TopicPostCreated  = "events:post_created"
	TopicUserFollowed = "events:user_followed"
	DeadLetterStream  = "events:dead-letter"
)

type PostCreated struct {
	UserID   string `json:"userId"`
	Caption  string `json:"caption"`
	MediaURL string `json:"mediaUrl"`
	PostID   string `json:"postId"`
}

func (e PostCreated) Validate() error {
	if e.UserID == "" || e.PostID == "" {
		return fmt.Errorf("%w: post_created requires userId and postId", apperr.ErrInvalidPayload)
	}
	return nil
}

type UserFollowed struct {
	FollowerID string `json:"followerId"`
	FollowedID string `json:"followedId"`
}

func (e UserFollowed) Validate() error {
	if e.FollowerID == "" || e.FollowedID == "" {
		return fmt.Errorf("%w: user_followed requires followerId and followedId", apperr.ErrInvalidPayload)
	}
	return nil
}

// DecodePostCreated parses and validates a post_created payload.
func DecodePostCreated(payload []byte) (PostCreated, error) {
	var e PostCreated
	if err := json.Unmarshal(payload, &e); err != nil {
		return PostCreated{}, fmt.Errorf("%w: %v", apperr.ErrInvalidPayload, err)
	}
	return e, e.Validate()
}

// DecodeUserFollowed parses and validates a user_followed payload.
func DecodeUserFollowed(payload []byte) (UserFollowed, error) {
	var e UserFollowed
	if err := json.Unmarshal(payload, &e); err != nil {
		return UserFollowed{}, fmt.Errorf("%w: %v", apperr.ErrInvalidPayload, err)
	}
	return e, e.Validate()
}
