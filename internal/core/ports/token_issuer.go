package ports

import "github.com/rolegate/auth-api/internal/auth"

// TokenIssuer creates and verifies the bearer tokens handed out at login.
type TokenIssuer interface {
	Issue(userID, role string) (string, error)
	Verify(token string) (*auth.Claims, error)
}
