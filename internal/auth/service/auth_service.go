package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/AnthoniusHendriyanto/social-core/internal/auth/domain"
	"github.com/AnthoniusHendriyanto/social-core/internal/auth/dto"
	"github.com/AnthoniusHendriyanto/social-core/internal/auth/session"
	apperr "github.com/AnthoniusHendriyanto/social-core/internal/errors"
)

// AuthService owns the session-record lifecycle: one refresh token per user,
// overwritten on login/register, swapped on refresh, deleted on logout.
type AuthService struct {
	users    domain.UserDirectory
	sessions session.Store
	tokens   TokenGenerator
}

func NewAuthService(users domain.UserDirectory, sessions session.Store, tokens TokenGenerator) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
	}
}

func (s *AuthService) Register(ctx context.Context, input dto.RegisterInput) (*dto.RegisterOutput, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, input.Email, string(hashedPassword))
	if err != nil {
		return nil, err
	}

	pair, err := s.issueAndStore(ctx, user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &dto.RegisterOutput{
		User: dto.UserOutput{
			ID:        user.ID,
			Email:     user.Email,
			CreatedAt: user.CreatedAt,
			UpdatedAt: user.UpdatedAt,
		},
		Tokens: *pair,
	}, nil
}

func (s *AuthService) Login(ctx context.Context, input dto.LoginInput) (*dto.TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}

	// Unknown email and wrong password are indistinguishable on purpose.
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return nil, apperr.ErrInvalidCredentials
	}

	return s.issueAndStore(ctx, user.ID, user.Email)
}

// Refresh rotates the pair. The presented token must exactly match the
// stored record, and the swap is conditional on that record being unchanged,
// so a superseded or stolen token can never be replayed.
func (s *AuthService) Refresh(ctx context.Context, input dto.RefreshInput) (*dto.TokenPair, error) {
	claims, err := s.tokens.VerifyRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, apperr.ErrInvalidCredentials
	}

	stored, err := s.sessions.Get(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("failed to read session record: %w", err)
	}
	if stored == "" || stored != input.RefreshToken {
		return nil, apperr.ErrInvalidCredentials
	}

	accessToken, refreshToken, err := s.tokens.Generate(claims.Subject, claims.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate new tokens: %w", err)
	}

	swapped, err := s.sessions.Replace(ctx, claims.Subject, input.RefreshToken,
		refreshToken, s.tokens.GetRefreshTokenExpiry())
	if err != nil {
		return nil, fmt.Errorf("failed to rotate session record: %w", err)
	}
	if !swapped {
		// A concurrent refresh won the swap; this token is no longer current.
		return nil, apperr.ErrInvalidCredentials
	}

	return &dto.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Logout deletes the session record. Deleting an absent record is fine.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.sessions.Delete(ctx, userID)
}

func (s *AuthService) issueAndStore(ctx context.Context, userID, email string) (*dto.TokenPair, error) {
	accessToken, refreshToken, err := s.tokens.Generate(userID, email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	// Entry into the active state overwrites whatever record existed,
	// invalidating any previously issued refresh token.
	if err := s.sessions.Put(ctx, userID, refreshToken, s.tokens.GetRefreshTokenExpiry()); err != nil {
		return nil, fmt.Errorf("failed to store session record: %w", err)
	}

	return &dto.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
