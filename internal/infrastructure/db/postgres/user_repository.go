package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/webcore/auth-system/internal/core/domain"
	"github.com/webcore/auth-system/internal/core/ports"
)

const userColumns = "id, email, hashed_password, session_token, reset_token, created_at, updated_at"

// updatableColumns whitelists the fields Update may touch.
var updatableColumns = map[string]struct{}{
	"email":           {},
	"hashed_password": {},
	"session_token":   {},
	"reset_token":     {},
}

// UserRepository implements ports.UserRepository on the users table.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Add(ctx context.Context, email, hashedPassword string) (*domain.User, error) {
	query := `INSERT INTO users (email, hashed_password)
	          VALUES ($1, $2)
	          RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email, hashedPassword))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, domain.ErrDuplicateEntry
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findBy(ctx, "id", id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findBy(ctx, "email", email)
}

func (r *UserRepository) FindBySessionToken(ctx context.Context, token string) (*domain.User, error) {
	return r.findBy(ctx, "session_token", token)
}

func (r *UserRepository) FindByResetToken(ctx context.Context, token string) (*domain.User, error) {
	return r.findBy(ctx, "reset_token", token)
}

// findBy returns the single row whose column equals value. Zero rows map to
// ErrUserNotFound; two rows on a column that should be unique mean the store
// is corrupted, not something to resolve silently.
func (r *UserRepository) findBy(ctx context.Context, column string, value any) (*domain.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE %s = $1 LIMIT 2", userColumns, column)

	rows, err := r.db.QueryContext(ctx, query, value)
	if err != nil {
		return nil, fmt.Errorf("find user by %s: %w", column, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("find user by %s: %w", column, err)
		}
		return nil, domain.ErrUserNotFound
	}

	user, err := scanUser(rows)
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}

	if rows.Next() {
		return nil, domain.ErrStoreCorrupted
	}
	return user, rows.Err()
}

// Update applies a partial update to one user. A nil change value writes SQL
// NULL to the column.
func (r *UserRepository) Update(ctx context.Context, id int64, changes ports.FieldChanges) error {
	if len(changes) == 0 {
		return nil
	}

	assignments := make([]string, 0, len(changes)+1)
	args := make([]any, 0, len(changes)+1)
	for field, value := range changes {
		if _, ok := updatableColumns[field]; !ok {
			return fmt.Errorf("unknown user field %q", field)
		}
		args = append(args, value)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", field, len(args)))
	}
	assignments = append(assignments, "updated_at = now()")

	args = append(args, id)
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d",
		strings.Join(assignments, ", "), len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if affected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u            domain.User
		sessionToken sql.NullString
		resetToken   sql.NullString
	)
	err := row.Scan(&u.ID, &u.Email, &u.HashedPassword, &sessionToken, &resetToken, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if sessionToken.Valid {
		u.SessionToken = &sessionToken.String
	}
	if resetToken.Valid {
		u.ResetToken = &resetToken.String
	}
	return &u, nil
}
