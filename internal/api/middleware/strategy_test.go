package middleware

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/webcore/auth-system/internal/core/domain"
	"github.com/webcore/auth-system/internal/core/ports"
	"github.com/webcore/auth-system/internal/core/service"
)

type stubRepo struct {
	byEmail map[string]*domain.User
	byID    map[int64]*domain.User
}

func (r *stubRepo) Add(context.Context, string, string) (*domain.User, error) {
	return nil, domain.ErrDuplicateEntry
}

func (r *stubRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	if u, ok := r.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := r.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubRepo) FindBySessionToken(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (r *stubRepo) FindByResetToken(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (r *stubRepo) Update(context.Context, int64, ports.FieldChanges) error {
	return nil
}

func newTestContext(t *testing.T, header, cookie string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "_my_session_id", Value: cookie})
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func TestExtractBasicCredentials(t *testing.T) {
	valid := "Basic " + base64.StdEncoding.EncodeToString([]byte("a@b.com:pw"))

	email, password, ok := ExtractBasicCredentials(valid)
	if !ok || email != "a@b.com" || password != "pw" {
		t.Fatalf("unexpected result: %q %q %v", email, password, ok)
	}

	bad := []string{
		"",
		"Bearer abc",
		"Basic !!!not-base64!!!",
		"Basic " + base64.StdEncoding.EncodeToString([]byte("no-colon")),
		"Basic " + base64.StdEncoding.EncodeToString([]byte("two:colons:here")),
		"basic " + base64.StdEncoding.EncodeToString([]byte("a@b.com:pw")), // scheme is case-sensitive
	}
	for _, header := range bad {
		if _, _, ok := ExtractBasicCredentials(header); ok {
			t.Fatalf("expected extraction to fail for %q", header)
		}
	}
}

func TestBasicStrategy(t *testing.T) {
	hasher := service.NewBcryptHasher()
	hash, err := hasher.Hash("pw")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo := &stubRepo{byEmail: map[string]*domain.User{
		"a@b.com": {ID: 1, Email: "a@b.com", HashedPassword: hash},
	}}
	strategy := NewBasicStrategy(repo, hasher)

	header := "Basic " + base64.StdEncoding.EncodeToString([]byte("a@b.com:pw"))
	user, err := strategy.ResolveIdentity(newTestContext(t, header, ""))
	if err != nil || user == nil || user.ID != 1 {
		t.Fatalf("expected user 1, got %+v err=%v", user, err)
	}

	header = "Basic " + base64.StdEncoding.EncodeToString([]byte("a@b.com:wrong"))
	user, err = strategy.ResolveIdentity(newTestContext(t, header, ""))
	if err != nil || user != nil {
		t.Fatalf("wrong password must resolve to nil, got %+v err=%v", user, err)
	}

	header = "Basic " + base64.StdEncoding.EncodeToString([]byte("ghost@b.com:pw"))
	user, err = strategy.ResolveIdentity(newTestContext(t, header, ""))
	if err != nil || user != nil {
		t.Fatalf("unknown email must resolve to nil, got %+v err=%v", user, err)
	}

	user, err = strategy.ResolveIdentity(newTestContext(t, "", ""))
	if err != nil || user != nil {
		t.Fatalf("missing header must resolve to nil, got %+v err=%v", user, err)
	}
}

type stubAuthService struct {
	resolveFn func(ctx context.Context, token string) (*domain.User, error)
}

func (s *stubAuthService) Register(context.Context, string, string) (*domain.User, error) {
	return nil, nil
}
func (s *stubAuthService) Login(context.Context, string, string) (bool, error) { return false, nil }
func (s *stubAuthService) CreateSession(context.Context, string) (string, error) {
	return "", nil
}
func (s *stubAuthService) ResolveSession(ctx context.Context, token string) (*domain.User, error) {
	return s.resolveFn(ctx, token)
}
func (s *stubAuthService) DestroySession(context.Context, int64) error { return nil }
func (s *stubAuthService) IssueResetToken(context.Context, string) (string, error) {
	return "", nil
}
func (s *stubAuthService) UpdatePassword(context.Context, string, string) error { return nil }

func TestSessionStrategy(t *testing.T) {
	auth := &stubAuthService{
		resolveFn: func(_ context.Context, token string) (*domain.User, error) {
			if token == "good-token" {
				return &domain.User{ID: 9, Email: "s@x.com"}, nil
			}
			return nil, nil
		},
	}
	strategy := NewSessionStrategy(auth, "_my_session_id")

	user, err := strategy.ResolveIdentity(newTestContext(t, "", "good-token"))
	if err != nil || user == nil || user.ID != 9 {
		t.Fatalf("expected user 9, got %+v err=%v", user, err)
	}

	user, err = strategy.ResolveIdentity(newTestContext(t, "", "bad-token"))
	if err != nil || user != nil {
		t.Fatalf("unknown token must resolve to nil, got %+v err=%v", user, err)
	}

	user, err = strategy.ResolveIdentity(newTestContext(t, "", ""))
	if err != nil || user != nil {
		t.Fatalf("missing cookie must resolve to nil, got %+v err=%v", user, err)
	}
}

func TestBearerStrategy(t *testing.T) {
	secret := []byte("secret")
	repo := &stubRepo{byID: map[int64]*domain.User{5: {ID: 5, Email: "b@x.com"}}}
	strategy := NewBearerStrategy(repo, secret)

	token, err := service.IssueAccessToken(5, secret, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	user, err := strategy.ResolveIdentity(newTestContext(t, "Bearer "+token, ""))
	if err != nil || user == nil || user.ID != 5 {
		t.Fatalf("expected user 5, got %+v err=%v", user, err)
	}

	user, err = strategy.ResolveIdentity(newTestContext(t, "Bearer garbage", ""))
	if err != nil || user != nil {
		t.Fatalf("invalid token must resolve to nil, got %+v err=%v", user, err)
	}

	user, err = strategy.ResolveIdentity(newTestContext(t, "Token "+token, ""))
	if err != nil || user != nil {
		t.Fatalf("wrong scheme must resolve to nil, got %+v err=%v", user, err)
	}
}
