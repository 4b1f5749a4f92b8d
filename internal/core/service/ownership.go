package service

import (
	"context"

	"github.com/evolution-of-todo/todo-system/internal/core/domain"
	"github.com/evolution-of-todo/todo-system/internal/core/ports"
)

// authorize fails with domain.ErrForbidden unless p owns todo.
func authorize(todo *domain.Todo, p domain.Principal) error {
	if !todo.OwnedBy(p) {
		return domain.ErrForbidden
	}
	return nil
}

// loadOwned fetches a todo and applies the ownership check. Existence is
// confirmed first, so a missing todo reports not found, never forbidden.
func loadOwned(ctx context.Context, repo ports.TodoRepository, p domain.Principal, id int64) (*domain.Todo, error) {
	if id <= 0 {
		return nil, domain.ErrTodoNotFound
	}
	todo, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(todo, p); err != nil {
		return nil, err
	}
	return todo, nil
}
