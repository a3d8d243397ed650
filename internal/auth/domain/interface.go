package domain

//go:generate mockgen -destination=../../mocks/mock_user_directory.go -package=mocks github.com/AnthoniusHendriyanto/social-core/internal/auth/domain UserDirectory

import (
	"context"

	userdomain "github.com/AnthoniusHendriyanto/social-core/internal/user/domain"
)

// UserDirectory is the slice of the graph service the token service needs:
// identity creation and lookup. Email uniqueness is enforced there.
type UserDirectory interface {
	CreateUser(ctx context.Context, email, passwordHash string) (*userdomain.User, error)
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
}
