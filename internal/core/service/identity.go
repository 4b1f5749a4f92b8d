package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/evolution-of-todo/todo-system/internal/core/domain"
	"github.com/evolution-of-todo/todo-system/internal/core/ports"
)

// TokenValidator abstracts TokenService.Validate.
type TokenValidator interface {
	Validate(token string) (*TokenPayload, error)
}

// IdentityResolver turns a bearer token into the principal it names.
type IdentityResolver struct {
	tokens TokenValidator
	users  ports.UserRepository
	log    zerolog.Logger
}

// NewIdentityResolver returns an IdentityResolver.
func NewIdentityResolver(tokens TokenValidator, users ports.UserRepository, log zerolog.Logger) *IdentityResolver {
	return &IdentityResolver{tokens: tokens, users: users, log: log}
}

// Resolve validates token and loads its subject. Missing tokens, invalid
// tokens and unknown subjects all return domain.ErrUnauthenticated; the
// distinguishing reason is only logged.
func (r *IdentityResolver) Resolve(ctx context.Context, token string) (domain.Principal, error) {
	if token == "" {
		r.log.Debug().Msg("auth rejected: missing token")
		return domain.Principal{}, domain.ErrUnauthenticated
	}

	payload, err := r.tokens.Validate(token)
	if err != nil {
		r.log.Debug().Err(err).Msg("auth rejected: token validation failed")
		return domain.Principal{}, domain.ErrUnauthenticated
	}

	user, err := r.users.FindByID(ctx, payload.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			r.log.Debug().Int64("user_id", payload.UserID).Msg("auth rejected: subject no longer exists")
			return domain.Principal{}, domain.ErrUnauthenticated
		}
		return domain.Principal{}, err
	}

	return user.Principal(), nil
}
