package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/rolegate/auth-api/internal/core/domain"
	"github.com/rolegate/auth-api/internal/core/ports"
	"github.com/rolegate/auth-api/internal/security"
)

// comparisonHash is a throwaway bcrypt hash compared against when a login
// names an unknown user, so that path costs the same as a wrong password.
var comparisonHash, _ = security.HashPassword("login-timing-equalizer")

// AuthService implements registration and login.
type AuthService struct {
	repo     ports.UserRepository
	tokens   ports.TokenIssuer
	throttle ports.LoginThrottle
	logger   zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenIssuer, throttle ports.LoginThrottle, logger zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, throttle: throttle, logger: logger}
}

// Register hashes the password and persists a new user. An empty role
// defaults to "User"; an unknown role is a validation error. Username
// uniqueness is enforced by the repository, not here, so concurrent
// registrations race safely.
func (s *AuthService) Register(ctx context.Context, username, password, role string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrValidation
	}
	if role == "" {
		role = domain.DefaultRole
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrValidation
	}
	if security.Hashed(password) {
		// An already-hashed value reaching the registration path means a
		// caller is replaying a stored credential; hashing it again would
		// lock the account out permanently.
		return nil, domain.ErrValidation
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", created.Username).Str("role", created.Role).Msg("user registered")
	return created, nil
}

// Login verifies credentials and issues a token carrying the user's id and
// role. An unknown username and a wrong password both return
// domain.ErrInvalidCredentials with no distinguishing signal.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	if blocked, err := s.throttle.TooMany(ctx, username); err != nil {
		// Throttle backend down: fail open, a login outage is worse than
		// a brute-force window.
		s.logger.Warn().Err(err).Msg("login throttle unavailable")
	} else if blocked {
		return "", nil, domain.ErrTooManyAttempts
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Burn a bcrypt comparison so the unknown-user path is not
			// observably faster than the wrong-password path.
			_ = security.CheckPassword(comparisonHash, password)
			s.recordFailure(ctx, username)
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if security.CheckPassword(user.PasswordHash, password) != nil {
		s.recordFailure(ctx, username)
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}

	if err := s.throttle.Reset(ctx, username); err != nil {
		s.logger.Warn().Err(err).Msg("login throttle reset failed")
	}

	s.logger.Info().Str("username", user.Username).Str("role", user.Role).Msg("user logged in")
	return token, user, nil
}

func (s *AuthService) recordFailure(ctx context.Context, username string) {
	if err := s.throttle.RecordFailure(ctx, username); err != nil {
		s.logger.Warn().Err(err).Msg("login throttle record failed")
	}
}
