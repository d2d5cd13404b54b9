package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/webcore/auth-system/internal/core/domain"
	"github.com/webcore/auth-system/internal/core/ports"
)

type authService struct {
	repo       ports.UserRepository
	hasher     ports.PasswordHasher
	sessions   ports.SessionCache
	sessionTTL time.Duration
	log        zerolog.Logger
}

// NewAuthService returns an AuthService implementation.
func NewAuthService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	sessions ports.SessionCache,
	sessionTTL time.Duration,
	log zerolog.Logger,
) ports.AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &authService{
		repo:       repo,
		hasher:     hasher,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		log:        log,
	}
}

// Register creates a new account. The email pre-check and the insert are not
// atomic; when a concurrent registration slips between them, the store's
// unique index rejects the insert and the duplicate is reported the same way
// a pre-check hit would be.
func (s *authService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return nil, domain.ErrAlreadyRegistered
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.Add(ctx, email, hash)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEntry) {
			return nil, domain.ErrAlreadyRegistered
		}
		return nil, err
	}

	s.log.Info().Str("email", user.Email).Int64("user_id", user.ID).Msg("user registered")
	return user, nil
}

// Login reports whether the credentials are valid. An unknown email and a
// wrong password both come back as a plain false.
func (s *authService) Login(ctx context.Context, email, password string) (bool, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}

	if !s.hasher.Verify(user.HashedPassword, password) {
		return false, nil
	}

	return true, nil
}

// CreateSession issues a fresh opaque session token for the user with the
// given email, overwriting any previous one.
func (s *authService) CreateSession(ctx context.Context, email string) (string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrUnknownUser
		}
		return "", err
	}

	token := uuid.NewString()
	if err := s.repo.Update(ctx, user.ID, ports.FieldChanges{"session_token": token}); err != nil {
		return "", err
	}

	if s.sessions != nil {
		if err := s.sessions.Put(ctx, token, user.ID, s.sessionTTL); err != nil {
			s.log.Warn().Err(err).Msg("session cache put failed, continuing on store lookups")
		}
	}

	return token, nil
}

// ResolveSession returns the user holding the session token, or (nil, nil)
// when the token is empty, unknown, or stale.
func (s *authService) ResolveSession(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, nil
	}

	if s.sessions != nil {
		userID, ok, err := s.sessions.Get(ctx, token)
		if err != nil {
			s.log.Warn().Err(err).Msg("session cache get failed, falling back to store")
		} else if ok {
			user, err := s.repo.FindByID(ctx, userID)
			if err == nil && user.SessionToken != nil && *user.SessionToken == token {
				return user, nil
			}
			// Stale cache entry: the row was removed or the token rotated.
			_ = s.sessions.Delete(ctx, token)
			if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
				return nil, err
			}
			return nil, nil
		}
	}

	user, err := s.repo.FindBySessionToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if s.sessions != nil {
		if err := s.sessions.Put(ctx, token, user.ID, s.sessionTTL); err != nil {
			s.log.Warn().Err(err).Msg("session cache backfill failed")
		}
	}
	return user, nil
}

// DestroySession clears the user's session token. A missing user counts as
// already logged out.
func (s *authService) DestroySession(ctx context.Context, userID int64) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return err
	}

	if s.sessions != nil && user.SessionToken != nil {
		if err := s.sessions.Delete(ctx, *user.SessionToken); err != nil {
			s.log.Warn().Err(err).Msg("session cache delete failed")
		}
	}

	if err := s.repo.Update(ctx, userID, ports.FieldChanges{"session_token": nil}); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return err
	}

	return nil
}

// IssueResetToken generates a fresh password-reset token for the user,
// unconditionally overwriting any pending one.
func (s *authService) IssueResetToken(ctx context.Context, email string) (string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrUnknownUser
		}
		return "", err
	}

	token := uuid.NewString()
	if err := s.repo.Update(ctx, user.ID, ports.FieldChanges{"reset_token": token}); err != nil {
		return "", err
	}

	s.log.Info().Str("email", user.Email).Msg("reset token issued")
	return token, nil
}

// UpdatePassword rehashes the credential of whichever user holds the reset
// token. The token is cleared in the same update so it cannot be replayed.
func (s *authService) UpdatePassword(ctx context.Context, resetToken, newPassword string) error {
	if resetToken == "" {
		return domain.ErrInvalidToken
	}

	user, err := s.repo.FindByResetToken(ctx, resetToken)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidToken
		}
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.Update(ctx, user.ID, ports.FieldChanges{
		"hashed_password": hash,
		"reset_token":     nil,
	}); err != nil {
		return err
	}

	s.log.Info().Str("email", user.Email).Msg("password updated")
	return nil
}
