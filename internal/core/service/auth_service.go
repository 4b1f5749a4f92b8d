package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/evolution-of-todo/todo-system/internal/core/domain"
	"github.com/evolution-of-todo/todo-system/internal/core/ports"
)

// TokenIssuer abstracts TokenService.Issue.
type TokenIssuer interface {
	Issue(userID int64, email string) (string, error)
}

// AuthService implements signup and signin.
type AuthService struct {
	repo   ports.UserRepository
	hasher *PasswordHasher
	tokens TokenIssuer
	log    zerolog.Logger
	now    func() time.Time

	// dummyHash is compared against when the email is unknown so that both
	// signin failures cost one bcrypt comparison.
	dummyHash string
}

func NewAuthService(repo ports.UserRepository, hasher *PasswordHasher, tokens TokenIssuer, log zerolog.Logger) (*AuthService, error) {
	dummy, err := hasher.Hash("dummy-password-for-timing")
	if err != nil {
		return nil, err
	}
	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		log:       log,
		now:       time.Now,
		dummyHash: dummy,
	}, nil
}

func (s *AuthService) Signup(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	if email == "" || password == "" {
		return nil, domain.NewValidationError("email and password are required")
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(created.ID, created.Email)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", created.ID).Msg("user signed up")
	return &ports.AuthResult{User: created, Token: token}, nil
}

func (s *AuthService) Signin(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		s.hasher.Verify(password, s.dummyHash)
		return nil, domain.ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	now := s.now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLoginAt = &now

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", user.ID).Msg("user signed in")
	return &ports.AuthResult{User: user, Token: token}, nil
}
