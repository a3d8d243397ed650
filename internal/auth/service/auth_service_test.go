package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/AnthoniusHendriyanto/social-core/internal/auth/dto"
	"github.com/AnthoniusHendriyanto/social-core/internal/auth/service"
	apperr "github.com/AnthoniusHendriyanto/social-core/internal/errors"
	"github.com/AnthoniusHendriyanto/social-core/internal/mocks"
	userdomain "github.com/AnthoniusHendriyanto/social-core/internal/user/domain"
)

const refreshTTL = 7 * 24 * time.Hour

func newService(t *testing.T) (*service.AuthService, *mocks.MockUserDirectory, *mocks.MockSessionStore, *mocks.MockTokenGenerator) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	users := mocks.NewMockUserDirectory(ctrl)
	sessions := mocks.NewMockSessionStore(ctrl)
	tokens := mocks.NewMockTokenGenerator(ctrl)

	return service.NewAuthService(users, sessions, tokens), users, sessions, tokens
}

func claimsFor(userID, email string) *service.JWTCustomClaims {
	return &service.JWTCustomClaims{
		Email:            email,
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID},
	}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success writes exactly one session record", func(t *testing.T) {
		svc, users, sessions, tokens := newService(t)
		user := &userdomain.User{ID: "user-1", Email: "a@x.com"}

		users.EXPECT().CreateUser(gomock.Any(), "a@x.com", gomock.Any()).Return(user, nil)
		tokens.EXPECT().Generate("user-1", "a@x.com").Return("access-1", "refresh-1", nil)
		tokens.EXPECT().GetRefreshTokenExpiry().Return(refreshTTL)
		sessions.EXPECT().Put(gomock.Any(), "user-1", "refresh-1", refreshTTL).Return(nil)

		out, err := svc.Register(ctx, dto.RegisterInput{Email: "a@x.com", Password: "password"})
		require.NoError(t, err)
		assert.Equal(t, "user-1", out.User.ID)
		assert.Equal(t, "access-1", out.Tokens.AccessToken)
		assert.Equal(t, "refresh-1", out.Tokens.RefreshToken)
	})

	t.Run("duplicate email propagates conflict", func(t *testing.T) {
		svc, users, _, _ := newService(t)

		users.EXPECT().CreateUser(gomock.Any(), "a@x.com", gomock.Any()).
			Return(nil, apperr.ErrEmailAlreadyInUse)

		_, err := svc.Register(ctx, dto.RegisterInput{Email: "a@x.com", Password: "password"})
		assert.ErrorIs(t, err, apperr.ErrEmailAlreadyInUse)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hashed, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	require.NoError(t, err)

	t.Run("success overwrites session record", func(t *testing.T) {
		svc, users, sessions, tokens := newService(t)
		user := &userdomain.User{ID: "user-1", Email: "a@x.com", PasswordHash: string(hashed)}

		users.EXPECT().GetByEmail(gomock.Any(), "a@x.com").Return(user, nil)
		tokens.EXPECT().Generate("user-1", "a@x.com").Return("access-1", "refresh-1", nil)
		tokens.EXPECT().GetRefreshTokenExpiry().Return(refreshTTL)
		sessions.EXPECT().Put(gomock.Any(), "user-1", "refresh-1", refreshTTL).Return(nil)

		pair, err := svc.Login(ctx, dto.LoginInput{Email: "a@x.com", Password: "correct-password"})
		require.NoError(t, err)
		assert.Equal(t, "refresh-1", pair.RefreshToken)
	})

	t.Run("unknown email and wrong password are identical", func(t *testing.T) {
		svc, users, _, _ := newService(t)
		user := &userdomain.User{ID: "user-1", Email: "a@x.com", PasswordHash: string(hashed)}

		users.EXPECT().GetByEmail(gomock.Any(), "missing@x.com").Return(nil, nil)
		_, errUnknown := svc.Login(ctx, dto.LoginInput{Email: "missing@x.com", Password: "whatever"})

		users.EXPECT().GetByEmail(gomock.Any(), "a@x.com").Return(user, nil)
		_, errWrongPassword := svc.Login(ctx, dto.LoginInput{Email: "a@x.com", Password: "wrong"})

		assert.ErrorIs(t, errUnknown, apperr.ErrInvalidCredentials)
		assert.ErrorIs(t, errWrongPassword, apperr.ErrInvalidCredentials)
		assert.Equal(t, errUnknown.Error(), errWrongPassword.Error())
	})

	t.Run("store failure propagates", func(t *testing.T) {
		svc, users, _, _ := newService(t)

		users.EXPECT().GetByEmail(gomock.Any(), "a@x.com").Return(nil, errors.New("db down"))

		_, err := svc.Login(ctx, dto.LoginInput{Email: "a@x.com", Password: "correct-password"})
		assert.Error(t, err)
		assert.NotErrorIs(t, err, apperr.ErrInvalidCredentials)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("rotates and invalidates the previous token", func(t *testing.T) {
		svc, _, sessions, tokens := newService(t)

		tokens.EXPECT().VerifyRefreshToken("refresh-1").Return(claimsFor("user-1", "a@x.com"), nil)
		sessions.EXPECT().Get(gomock.Any(), "user-1").Return("refresh-1", nil)
		tokens.EXPECT().Generate("user-1", "a@x.com").Return("access-2", "refresh-2", nil)
		tokens.EXPECT().GetRefreshTokenExpiry().Return(refreshTTL)
		sessions.EXPECT().Replace(gomock.Any(), "user-1", "refresh-1", "refresh-2", refreshTTL).Return(true, nil)

		pair, err := svc.Refresh(ctx, dto.RefreshInput{RefreshToken: "refresh-1"})
		require.NoError(t, err)
		assert.Equal(t, "refresh-2", pair.RefreshToken)

		// Replaying the superseded token now fails: the record holds refresh-2.
		tokens.EXPECT().VerifyRefreshToken("refresh-1").Return(claimsFor("user-1", "a@x.com"), nil)
		sessions.EXPECT().Get(gomock.Any(), "user-1").Return("refresh-2", nil)

		_, err = svc.Refresh(ctx, dto.RefreshInput{RefreshToken: "refresh-1"})
		assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
	})

	t.Run("no session record", func(t *testing.T) {
		svc, _, sessions, tokens := newService(t)

		tokens.EXPECT().VerifyRefreshToken("refresh-1").Return(claimsFor("user-1", "a@x.com"), nil)
		sessions.EXPECT().Get(gomock.Any(), "user-1").Return("", nil)

		_, err := svc.Refresh(ctx, dto.RefreshInput{RefreshToken: "refresh-1"})
		assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
	})

	t.Run("well-formed token that does not match stored record", func(t *testing.T) {
		svc, _, sessions, tokens := newService(t)

		tokens.EXPECT().VerifyRefreshToken("stolen").Return(claimsFor("user-1", "a@x.com"), nil)
		sessions.EXPECT().Get(gomock.Any(), "user-1").Return("refresh-1", nil)

		_, err := svc.Refresh(ctx, dto.RefreshInput{RefreshToken: "stolen"})
		assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
	})

	t.Run("invalid signature", func(t *testing.T) {
		svc, _, _, tokens := newService(t)

		tokens.EXPECT().VerifyRefreshToken("garbage").Return(nil, errors.New("bad signature"))

		_, err := svc.Refresh(ctx, dto.RefreshInput{RefreshToken: "garbage"})
		assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
	})

	t.Run("concurrent rotation loses the swap", func(t *testing.T) {
		svc, _, sessions, tokens := newService(t)

		tokens.EXPECT().VerifyRefreshToken("refresh-1").Return(claimsFor("user-1", "a@x.com"), nil)
		sessions.EXPECT().Get(gomock.Any(), "user-1").Return("refresh-1", nil)
		tokens.EXPECT().Generate("user-1", "a@x.com").Return("access-2", "refresh-2", nil)
		tokens.EXPECT().GetRefreshTokenExpiry().Return(refreshTTL)
		// Another refresh replaced the record between Get and Replace.
		sessions.EXPECT().Replace(gomock.Any(), "user-1", "refresh-1", "refresh-2", refreshTTL).Return(false, nil)

		_, err := svc.Refresh(ctx, dto.RefreshInput{RefreshToken: "refresh-1"})
		assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes the session record", func(t *testing.T) {
		svc, _, sessions, _ := newService(t)

		sessions.EXPECT().Delete(gomock.Any(), "user-1").Return(nil)

		assert.NoError(t, svc.Logout(ctx, "user-1"))
	})

	t.Run("idempotent when no record exists", func(t *testing.T) {
		svc, _, sessions, _ := newService(t)

		// The store reports success for absent keys.
		sessions.EXPECT().Delete(gomock.Any(), "user-1").Return(nil).Times(2)

		assert.NoError(t, svc.Logout(ctx, "user-1"))
		assert.NoError(t, svc.Logout(ctx, "user-1"))
	})
}
