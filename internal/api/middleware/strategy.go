package middleware

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/webcore/auth-system/internal/core/domain"
	"github.com/webcore/auth-system/internal/core/ports"
	"github.com/webcore/auth-system/internal/core/service"
)

// IdentityResolver resolves the requesting user from credentials carried by
// the request, or nil when the request holds no valid identity. Implementations
// fail closed: malformed credentials resolve to nil, never to an error.
type IdentityResolver interface {
	ResolveIdentity(c echo.Context) (*domain.User, error)
}

const basicPrefix = "Basic "

// ExtractBasicCredentials parses an Authorization header value of the form
// "Basic <base64 of email:password>". It reports ok=false on a missing or
// wrong scheme, invalid base64, or a payload without exactly one colon.
func ExtractBasicCredentials(header string) (email, password string, ok bool) {
	if !strings.HasPrefix(header, basicPrefix) {
		return "", "", false
	}

	decoded, err := base64.StdEncoding.DecodeString(header[len(basicPrefix):])
	if err != nil {
		return "", "", false
	}

	payload := string(decoded)
	if strings.Count(payload, ":") != 1 {
		return "", "", false
	}

	email, password, _ = strings.Cut(payload, ":")
	return email, password, true
}

// BasicStrategy authenticates via the Authorization: Basic header, verifying
// the extracted credentials against the user store.
type BasicStrategy struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
}

func NewBasicStrategy(repo ports.UserRepository, hasher ports.PasswordHasher) *BasicStrategy {
	return &BasicStrategy{repo: repo, hasher: hasher}
}

func (s *BasicStrategy) ResolveIdentity(c echo.Context) (*domain.User, error) {
	email, password, ok := ExtractBasicCredentials(c.Request().Header.Get("Authorization"))
	if !ok {
		return nil, nil
	}

	user, err := s.repo.FindByEmail(c.Request().Context(), email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if !s.hasher.Verify(user.HashedPassword, password) {
		return nil, nil
	}
	return user, nil
}

// SessionStrategy authenticates via the session cookie.
type SessionStrategy struct {
	auth       ports.AuthService
	cookieName string
}

func NewSessionStrategy(auth ports.AuthService, cookieName string) *SessionStrategy {
	return &SessionStrategy{auth: auth, cookieName: cookieName}
}

func (s *SessionStrategy) ResolveIdentity(c echo.Context) (*domain.User, error) {
	cookie, err := c.Cookie(s.cookieName)
	if err != nil {
		return nil, nil
	}
	return s.auth.ResolveSession(c.Request().Context(), cookie.Value)
}

// BearerStrategy authenticates via an Authorization: Bearer access token.
type BearerStrategy struct {
	repo   ports.UserRepository
	secret []byte
}

func NewBearerStrategy(repo ports.UserRepository, secret []byte) *BearerStrategy {
	return &BearerStrategy{repo: repo, secret: secret}
}

func (s *BearerStrategy) ResolveIdentity(c echo.Context) (*domain.User, error) {
	parts := strings.SplitN(c.Request().Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, nil
	}

	userID, err := service.ParseAccessToken(parts[1], s.secret)
	if err != nil {
		return nil, nil
	}

	user, err := s.repo.FindByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}
