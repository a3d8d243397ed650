package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnthoniusHendriyanto/social-core/internal/auth/dto"
	"github.com/AnthoniusHendriyanto/social-core/internal/auth/handler"
	"github.com/AnthoniusHendriyanto/social-core/internal/auth/service"
	apperr "github.com/AnthoniusHendriyanto/social-core/internal/errors"
	"github.com/AnthoniusHendriyanto/social-core/internal/middleware"
	"github.com/AnthoniusHendriyanto/social-core/internal/mocks"
	userdomain "github.com/AnthoniusHendriyanto/social-core/internal/user/domain"
)

type authFixture struct {
	app      *fiber.App
	users    *mocks.MockUserDirectory
	sessions *mocks.MockSessionStore
	tokens   *mocks.MockTokenGenerator
}

func newAuthApp(t *testing.T) *authFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	users := mocks.NewMockUserDirectory(ctrl)
	sessions := mocks.NewMockSessionStore(ctrl)
	tokens := mocks.NewMockTokenGenerator(ctrl)

	authService := service.NewAuthService(users, sessions, tokens)

	app := fiber.New()
	handler.RegisterRoutes(app, handler.NewAuthHandler(authService), middleware.RequireAuth(tokens))

	return &authFixture{app: app, users: users, sessions: sessions, tokens: tokens}
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestRegisterHandler(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		fx := newAuthApp(t)

		now := time.Now()
		fx.users.EXPECT().CreateUser(gomock.Any(), "new@example.com", gomock.Any()).
			Return(&userdomain.User{ID: "user-1", Email: "new@example.com", CreatedAt: now, UpdatedAt: now}, nil)
		fx.tokens.EXPECT().Generate("user-1", "new@example.com").Return("access-1", "refresh-1", nil)
		fx.tokens.EXPECT().GetRefreshTokenExpiry().Return(time.Hour)
		fx.sessions.EXPECT().Put(gomock.Any(), "user-1", "refresh-1", time.Hour).Return(nil)

		resp, err := fx.app.Test(jsonRequest(t, http.MethodPost, "/api/v1/register",
			dto.RegisterInput{Email: "new@example.com", Password: "secret"}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

		var out dto.RegisterOutput
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, "user-1", out.User.ID)
		assert.Equal(t, "access-1", out.Tokens.AccessToken)
		assert.Equal(t, "refresh-1", out.Tokens.RefreshToken)
	})

	t.Run("missing fields", func(t *testing.T) {
		fx := newAuthApp(t)

		resp, err := fx.app.Test(jsonRequest(t, http.MethodPost, "/api/v1/register",
			dto.RegisterInput{Email: "new@example.com"}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("duplicate email", func(t *testing.T) {
		fx := newAuthApp(t)

		fx.users.EXPECT().CreateUser(gomock.Any(), "taken@example.com", gomock.Any()).
			Return(nil, apperr.ErrEmailAlreadyInUse)

		resp, err := fx.app.Test(jsonRequest(t, http.MethodPost, "/api/v1/register",
			dto.RegisterInput{Email: "taken@example.com", Password: "secret"}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	})
}

func TestLoginHandler(t *testing.T) {
	t.Run("unknown email and wrong password return identical responses", func(t *testing.T) {
		fx := newAuthApp(t)

		hash := "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy" // bcrypt of another password
		fx.users.EXPECT().GetByEmail(gomock.Any(), "ghost@example.com").Return(nil, nil)
		fx.users.EXPECT().GetByEmail(gomock.Any(), "real@example.com").
			Return(&userdomain.User{ID: "user-1", Email: "real@example.com", PasswordHash: hash}, nil)

		unknown, err := fx.app.Test(jsonRequest(t, http.MethodPost, "/api/v1/login",
			dto.LoginInput{Email: "ghost@example.com", Password: "whatever"}))
		require.NoError(t, err)
		wrongPassword, err := fx.app.Test(jsonRequest(t, http.MethodPost, "/api/v1/login",
			dto.LoginInput{Email: "real@example.com", Password: "not-the-password"}))
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusUnauthorized, unknown.StatusCode)
		assert.Equal(t, fiber.StatusUnauthorized, wrongPassword.StatusCode)
		assert.Equal(t, readBody(t, unknown), readBody(t, wrongPassword))
	})
}

func TestRefreshHandler(t *testing.T) {
	t.Run("rotates the pair", func(t *testing.T) {
		fx := newAuthApp(t)

		claims := &service.JWTCustomClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
			Email:            "user@example.com",
		}
		fx.tokens.EXPECT().VerifyRefreshToken("refresh-1").Return(claims, nil)
		fx.sessions.EXPECT().Get(gomock.Any(), "user-1").Return("refresh-1", nil)
		fx.tokens.EXPECT().Generate("user-1", "user@example.com").Return("access-2", "refresh-2", nil)
		fx.tokens.EXPECT().GetRefreshTokenExpiry().Return(time.Hour)
		fx.sessions.EXPECT().Replace(gomock.Any(), "user-1", "refresh-1", "refresh-2", time.Hour).Return(true, nil)

		resp, err := fx.app.Test(jsonRequest(t, http.MethodPost, "/api/v1/refresh",
			dto.RefreshInput{RefreshToken: "refresh-1"}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var pair dto.TokenPair
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&pair))
		assert.Equal(t, "access-2", pair.AccessToken)
		assert.Equal(t, "refresh-2", pair.RefreshToken)
	})

	t.Run("missing token", func(t *testing.T) {
		fx := newAuthApp(t)

		resp, err := fx.app.Test(jsonRequest(t, http.MethodPost, "/api/v1/refresh", dto.RefreshInput{}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("superseded token", func(t *testing.T) {
		fx := newAuthApp(t)

		claims := &service.JWTCustomClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
			Email:            "user@example.com",
		}
		fx.tokens.EXPECT().VerifyRefreshToken("refresh-old").Return(claims, nil)
		fx.sessions.EXPECT().Get(gomock.Any(), "user-1").Return("refresh-current", nil)

		resp, err := fx.app.Test(jsonRequest(t, http.MethodPost, "/api/v1/refresh",
			dto.RefreshInput{RefreshToken: "refresh-old"}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestLogoutHandler(t *testing.T) {
	t.Run("deletes the session of the token subject", func(t *testing.T) {
		fx := newAuthApp(t)

		claims := &service.JWTCustomClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
			Email:            "user@example.com",
		}
		fx.tokens.EXPECT().VerifyAccessToken("access-1").Return(claims, nil)
		fx.sessions.EXPECT().Delete(gomock.Any(), "user-1").Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/session", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer access-1")

		resp, err := fx.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("rejects missing token", func(t *testing.T) {
		fx := newAuthApp(t)

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/session", nil)

		resp, err := fx.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}
