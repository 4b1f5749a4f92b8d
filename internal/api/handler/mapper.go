package handler

import (
	"github.com/evolution-of-todo/todo-system/internal/core/domain"
	"github.com/evolution-of-todo/todo-system/internal/core/ports"
)

// --- Domain → Response ---

func toAuthResponse(r *ports.AuthResult) authResponse {
	return authResponse{
		UserID: r.User.ID,
		Email:  r.User.Email,
		Token:  r.Token,
	}
}

func toTodoResponse(t *domain.Todo) todoResponse {
	return todoResponse{
		ID:          t.ID,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toTodoListResponse(todos []*domain.Todo) todoListResponse {
	items := make([]todoResponse, 0, len(todos))
	for _, t := range todos {
		items = append(items, toTodoResponse(t))
	}
	return todoListResponse{Todos: items, Total: len(items)}
}

// --- Request → Service input ---

func toUpdateInput(req updateTodoRequest) ports.UpdateTodoInput {
	return ports.UpdateTodoInput{
		Description: req.Description,
		Completed:   req.Completed,
	}
}
