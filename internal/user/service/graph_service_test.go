package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/AnthoniusHendriyanto/social-core/internal/errors"
	"github.com/AnthoniusHendriyanto/social-core/internal/mocks"
	"github.com/AnthoniusHendriyanto/social-core/internal/user/domain"
	"github.com/AnthoniusHendriyanto/social-core/internal/user/service"
)

func newGraphService(t *testing.T) (*service.GraphService, *mocks.MockUserRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := mocks.NewMockUserRepository(ctrl)

	return service.NewGraphService(repo), repo
}

func TestGraphService_CreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, repo := newGraphService(t)

		var created *domain.User
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u *domain.User) error {
				created = u
				return nil
			})

		user, err := svc.CreateUser(ctx, "a@x.com", "hash")
		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, "a@x.com", user.Email)
		assert.Equal(t, created, user)
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc, repo := newGraphService(t)

		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(apperr.ErrEmailAlreadyInUse)

		_, err := svc.CreateUser(ctx, "a@x.com", "hash")
		assert.ErrorIs(t, err, apperr.ErrEmailAlreadyInUse)
	})
}

func TestGraphService_Follow(t *testing.T) {
	ctx := context.Background()
	userA := &domain.User{ID: "a"}
	userB := &domain.User{ID: "b"}

	t.Run("self follow rejected for any identity", func(t *testing.T) {
		svc, _ := newGraphService(t)

		assert.ErrorIs(t, svc.Follow(ctx, "a", "a"), apperr.ErrSelfFollow)
		assert.ErrorIs(t, svc.Follow(ctx, "", ""), apperr.ErrSelfFollow)
	})

	t.Run("follower not found", func(t *testing.T) {
		svc, repo := newGraphService(t)

		repo.EXPECT().GetByID(gomock.Any(), "a").Return(nil, nil)
		repo.EXPECT().GetByID(gomock.Any(), "b").Return(userB, nil)

		assert.ErrorIs(t, svc.Follow(ctx, "a", "b"), apperr.ErrUserNotFound)
	})

	t.Run("following not found", func(t *testing.T) {
		svc, repo := newGraphService(t)

		repo.EXPECT().GetByID(gomock.Any(), "a").Return(userA, nil)
		repo.EXPECT().GetByID(gomock.Any(), "b").Return(nil, nil)

		assert.ErrorIs(t, svc.Follow(ctx, "a", "b"), apperr.ErrUserNotFound)
	})

	t.Run("duplicate edge", func(t *testing.T) {
		svc, repo := newGraphService(t)

		repo.EXPECT().GetByID(gomock.Any(), "a").Return(userA, nil)
		repo.EXPECT().GetByID(gomock.Any(), "b").Return(userB, nil)
		repo.EXPECT().InsertFollow(gomock.Any(), "a", "b").Return(apperr.ErrAlreadyFollowing)

		assert.ErrorIs(t, svc.Follow(ctx, "a", "b"), apperr.ErrAlreadyFollowing)
	})

	t.Run("success", func(t *testing.T) {
		svc, repo := newGraphService(t)

		repo.EXPECT().GetByID(gomock.Any(), "a").Return(userA, nil)
		repo.EXPECT().GetByID(gomock.Any(), "b").Return(userB, nil)
		repo.EXPECT().InsertFollow(gomock.Any(), "a", "b").Return(nil)

		assert.NoError(t, svc.Follow(ctx, "a", "b"))
	})
}

func TestGraphService_Unfollow(t *testing.T) {
	ctx := context.Background()

	t.Run("no edge", func(t *testing.T) {
		svc, repo := newGraphService(t)

		repo.EXPECT().DeleteFollow(gomock.Any(), "a", "b").Return(apperr.ErrNotFollowing)

		assert.ErrorIs(t, svc.Unfollow(ctx, "a", "b"), apperr.ErrNotFollowing)
	})

	t.Run("success", func(t *testing.T) {
		svc, repo := newGraphService(t)

		repo.EXPECT().DeleteFollow(gomock.Any(), "a", "b").Return(nil)

		assert.NoError(t, svc.Unfollow(ctx, "a", "b"))
	})
}

func TestGraphService_Listings(t *testing.T) {
	ctx := context.Background()
	userA := &domain.User{ID: "a"}
	summaries := []domain.UserSummary{
		{ID: "b", Email: "b@x.com", CreatedAt: time.Now(), UpdatedAt: time.Now()},
	}

	t.Run("following of unknown user", func(t *testing.T) {
		svc, repo := newGraphService(t)

		repo.EXPECT().GetByID(gomock.Any(), "ghost").Return(nil, nil)

		_, err := svc.GetFollowing(ctx, "ghost")
		assert.ErrorIs(t, err, apperr.ErrUserNotFound)
	})

	t.Run("following", func(t *testing.T) {
		svc, repo := newGraphService(t)

		repo.EXPECT().GetByID(gomock.Any(), "a").Return(userA, nil)
		repo.EXPECT().Following(gomock.Any(), "a").Return(summaries, nil)

		list, err := svc.GetFollowing(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, summaries, list)
	})

	t.Run("followers", func(t *testing.T) {
		svc, repo := newGraphService(t)

		repo.EXPECT().GetByID(gomock.Any(), "a").Return(userA, nil)
		repo.EXPECT().Followers(gomock.Any(), "a").Return(summaries, nil)

		list, err := svc.GetFollowers(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, summaries, list)
	})

	t.Run("follower ids of user with no followers", func(t *testing.T) {
		svc, repo := newGraphService(t)

		// No existence check here: an empty set is a valid answer.
		repo.EXPECT().FollowerIDs(gomock.Any(), "a").Return([]string{}, nil)

		ids, err := svc.FollowerIDs(ctx, "a")
		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}
