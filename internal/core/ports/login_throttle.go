package ports

import "context"

// LoginThrottle tracks failed login attempts per username so repeated
// password guessing can be slowed down. Implementations decide the window.
type LoginThrottle interface {
	TooMany(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}
