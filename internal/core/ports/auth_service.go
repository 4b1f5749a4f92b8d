package ports

import (
	"context"

	"github.com/evolution-of-todo/todo-system/internal/core/domain"
)

// AuthResult is returned by a successful signup or signin.
type AuthResult struct {
	User  *domain.User
	Token string
}

// AuthService covers account creation and credential exchange.
type AuthService interface {
	Signup(ctx context.Context, email, password string) (*AuthResult, error)
	Signin(ctx context.Context, email, password string) (*AuthResult, error)
}

// IdentityResolver maps a bearer token to the principal it was issued for.
// Every rejection is reported as domain.ErrUnauthenticated.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (domain.Principal, error)
}
