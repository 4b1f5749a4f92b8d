package ports

import (
	"context"
	"time"

	"github.com/evolution-of-todo/todo-system/internal/core/domain"
)

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	// Create stores user and returns it with its allocated ID.
	// Returns domain.ErrDuplicateEmail when the email is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
}
