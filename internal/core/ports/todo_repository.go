package ports

import (
	"context"

	"github.com/evolution-of-todo/todo-system/internal/core/domain"
)

// TodoFilter carries the query parameters for listing todos.
type TodoFilter struct {
	UserID    int64 // always set by the service layer
	Completed *bool // optional exact match
}

// TodoRepository defines persistence operations for todos.
type TodoRepository interface {
	// Create allocates the next ID, stores todo and sets todo.ID.
	Create(ctx context.Context, todo *domain.Todo) error
	// FindByID returns domain.ErrTodoNotFound when no todo has that ID,
	// regardless of owner.
	FindByID(ctx context.Context, id int64) (*domain.Todo, error)
	// List returns the matching todos newest first.
	List(ctx context.Context, filter TodoFilter) ([]*domain.Todo, error)
	Update(ctx context.Context, todo *domain.Todo) error
	Delete(ctx context.Context, id int64) error
}

// ActivityRepository persists the todo activity trail.
type ActivityRepository interface {
	Insert(ctx context.Context, activity *domain.TodoActivity) error
}
