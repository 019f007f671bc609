package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/rolegate/auth-api/internal/auth"
	"github.com/rolegate/auth-api/internal/core/domain"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		copy.ID = "id-" + user.Username
	}
	r.users[copy.Username] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) ListAll(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		c := *u
		c.PasswordHash = ""
		out = append(out, c)
	}
	return out, nil
}

type stubThrottle struct {
	blocked  bool
	failures int
	resets   int
}

func (t *stubThrottle) TooMany(_ context.Context, _ string) (bool, error) { return t.blocked, nil }
func (t *stubThrottle) RecordFailure(_ context.Context, _ string) error {
	t.failures++
	return nil
}
func (t *stubThrottle) Reset(_ context.Context, _ string) error {
	t.resets++
	return nil
}

func newTestService(repo *stubUserRepo, throttle *stubThrottle) *AuthService {
	return NewAuthService(repo, auth.NewIssuer("secret", time.Hour), throttle, zerolog.Nop())
}

func TestAuthService_Register_Success(t *testing.T) {
	svc := newTestService(newStubUserRepo(), &stubThrottle{})

	user, err := svc.Register(context.Background(), "alice", "secret1", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.PasswordHash == "secret1" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Fatalf("unexpected role: %s", user.Role)
	}
}

func TestAuthService_Register_DefaultsRole(t *testing.T) {
	svc := newTestService(newStubUserRepo(), &stubThrottle{})

	user, err := svc.Register(context.Background(), "bob", "pass", "")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected default role User, got %s", user.Role)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newTestService(newStubUserRepo(), &stubThrottle{})

	cases := []struct {
		name               string
		username, password string
		role               string
	}{
		{"empty username", "", "pass", ""},
		{"empty password", "bob", "", ""},
		{"unknown role", "bob", "pass", "Superuser"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), tc.username, tc.password, tc.role); err != domain.ErrValidation {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestAuthService_Register_RejectsPreHashedPassword(t *testing.T) {
	svc := newTestService(newStubUserRepo(), &stubThrottle{})

	hash, err := bcrypt.GenerateFromPassword([]byte("pass"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob", string(hash), ""); err != domain.ErrValidation {
		t.Fatalf("expected ErrValidation for already-hashed password, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := newTestService(newStubUserRepo(), &stubThrottle{})

	if _, err := svc.Register(context.Background(), "bob", "pass", domain.RoleUser); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob", "pass2", domain.RoleAdmin); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	throttle := &stubThrottle{}
	svc := newTestService(newStubUserRepo(), throttle)

	if _, err := svc.Register(context.Background(), "carol", "s3cret", domain.RoleAdmin); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "carol", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if user == nil || user.Role != domain.RoleAdmin {
		t.Fatalf("unexpected user: %+v", user)
	}
	if throttle.resets != 1 {
		t.Fatalf("expected throttle reset on success, got %d", throttle.resets)
	}

	claims, err := auth.NewIssuer("secret", time.Hour).Verify(token)
	if err != nil {
		t.Fatalf("issued token failed verification: %v", err)
	}
	if claims.Role != domain.RoleAdmin {
		t.Fatalf("expected role %s in claims, got %s", domain.RoleAdmin, claims.Role)
	}
	if claims.Subject != user.ID {
		t.Fatalf("expected subject %s, got %s", user.ID, claims.Subject)
	}
}

func TestAuthService_Login_FailuresIndistinguishable(t *testing.T) {
	throttle := &stubThrottle{}
	svc := newTestService(newStubUserRepo(), throttle)

	if _, err := svc.Register(context.Background(), "dave", "goodpass", domain.RoleUser); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _, wrongPass := svc.Login(context.Background(), "dave", "badpass")
	_, _, noUser := svc.Login(context.Background(), "ghost", "whatever")

	if wrongPass != domain.ErrInvalidCredentials {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPass)
	}
	if noUser != domain.ErrInvalidCredentials {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", noUser)
	}
	if wrongPass != noUser {
		t.Fatalf("expected identical failures, got %v vs %v", wrongPass, noUser)
	}
	if throttle.failures != 2 {
		t.Fatalf("expected both failures recorded, got %d", throttle.failures)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo, &stubThrottle{blocked: true})

	if _, err := svc.Register(context.Background(), "eve", "pass", domain.RoleUser); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "eve", "pass"); err != domain.ErrTooManyAttempts {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}
