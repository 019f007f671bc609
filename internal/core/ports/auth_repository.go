package ports

import (
	"context"

	"github.com/rolegate/auth-api/internal/core/domain"
)

// UserRepository defines the interface for user credential persistence.
// Create must be atomic with respect to the username uniqueness guarantee:
// two concurrent Creates for the same username yield exactly one success
// and one domain.ErrUserExists.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	ListAll(ctx context.Context) ([]domain.User, error)
}
