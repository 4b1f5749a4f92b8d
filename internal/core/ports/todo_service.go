package ports

import (
	"context"

	"github.com/evolution-of-todo/todo-system/internal/core/domain"
)

// CreateTodoInput carries the data needed to create a todo.
type CreateTodoInput struct {
	Description    string
	IdempotencyKey string
}

// CreateTodoResult is returned by CreateTodo.
type CreateTodoResult struct {
	Todo *domain.Todo
	// AlreadyExisted is true when the Idempotency-Key matched an earlier create.
	AlreadyExisted bool
}

// UpdateTodoInput is a partial update; nil fields are left untouched.
type UpdateTodoInput struct {
	Description *string
	Completed   *bool
}

// ListTodosInput carries the list filters.
type ListTodosInput struct {
	Completed *bool
}

// TodoService defines the todo use cases. Every call is scoped to the
// principal it receives.
type TodoService interface {
	CreateTodo(ctx context.Context, p domain.Principal, in CreateTodoInput) (*CreateTodoResult, error)
	ListTodos(ctx context.Context, p domain.Principal, in ListTodosInput) ([]*domain.Todo, error)
	GetTodo(ctx context.Context, p domain.Principal, id int64) (*domain.Todo, error)
	UpdateTodo(ctx context.Context, p domain.Principal, id int64, in UpdateTodoInput) (*domain.Todo, error)
	ToggleTodo(ctx context.Context, p domain.Principal, id int64) (*domain.Todo, error)
	DeleteTodo(ctx context.Context, p domain.Principal, id int64) error
}

// IdempotencyStore remembers which todo a create request produced.
type IdempotencyStore interface {
	// Lookup returns the todo ID stored for key, with found=false on a miss.
	Lookup(ctx context.Context, userID int64, key string) (todoID int64, found bool, err error)
	Remember(ctx context.Context, userID int64, key string, todoID int64) error
}

// ActivityRecorder accepts activity entries for asynchronous persistence.
type ActivityRecorder interface {
	Record(activity domain.TodoActivity)
}
