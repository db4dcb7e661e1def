package interfaces

import "context"

// Principal - аутентифицированный пользователь admin API.
type Principal struct {
	UserID   string
	Username string
	Email    string
	TenantID string
	Roles    []string
}

// AuthPort проверяет bearer токены.
type AuthPort interface {
	ValidateToken(ctx context.Context, token string) (*Principal, error)

	HasRole(principal *Principal, role string) bool

	HasAnyRole(principal *Principal, roles ...string) bool
}
