package ports

import (
	"context"

	"github.com/webcore/auth-system/internal/core/domain"
)

// AuthService orchestrates registration, login, sessions, and password reset.
//
// Login folds both "no such email" and "wrong password" into a plain false so
// callers cannot enumerate accounts; the returned error is reserved for store
// failures. ResolveSession returns (nil, nil) when the token is empty or does
// not resolve. DestroySession is idempotent and treats a missing user as
// already logged out.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (bool, error)
	CreateSession(ctx context.Context, email string) (string, error)
	ResolveSession(ctx context.Context, token string) (*domain.User, error)
	DestroySession(ctx context.Context, userID int64) error
	IssueResetToken(ctx context.Context, email string) (string, error)
	UpdatePassword(ctx context.Context, resetToken, newPassword string) error
}
