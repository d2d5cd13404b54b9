package ports

import (
	"context"

	"github.com/webcore/auth-system/internal/core/domain"
)

// FieldChanges maps user column names to their new values for a partial
// update. A nil value clears the column.
type FieldChanges map[string]any

// UserRepository defines the interface for user persistence. Every FindBy*
// method returns domain.ErrUserNotFound on a miss and domain.ErrStoreCorrupted
// when more than one row matches a column that should be unique.
type UserRepository interface {
	Add(ctx context.Context, email, hashedPassword string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindBySessionToken(ctx context.Context, token string) (*domain.User, error)
	FindByResetToken(ctx context.Context, token string) (*domain.User, error)
	Update(ctx context.Context, id int64, changes FieldChanges) error
}
