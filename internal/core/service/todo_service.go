package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/evolution-of-todo/todo-system/internal/core/domain"
	"github.com/evolution-of-todo/todo-system/internal/core/ports"
)

type TodoService struct {
	repo     ports.TodoRepository
	idem     ports.IdempotencyStore
	activity ports.ActivityRecorder
	logger   zerolog.Logger
	now      func() time.Time
}

// NewTodoService returns a TodoService. idem may be nil, in which case
// Idempotency-Key values are ignored.
func NewTodoService(repo ports.TodoRepository, idem ports.IdempotencyStore, activity ports.ActivityRecorder, logger zerolog.Logger) *TodoService {
	return &TodoService{
		repo:     repo,
		idem:     idem,
		activity: activity,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateTodo creates a todo owned by p. If an idempotency key is provided and
// already seen for p, the earlier todo is returned without side effects.
func (s *TodoService) CreateTodo(ctx context.Context, p domain.Principal, in ports.CreateTodoInput) (*ports.CreateTodoResult, error) {
	description, err := domain.NormalizeText("description", in.Description, domain.MaxTodoDescription)
	if err != nil {
		return nil, err
	}

	if existing := s.replay(ctx, p, in.IdempotencyKey); existing != nil {
		return &ports.CreateTodoResult{Todo: existing, AlreadyExisted: true}, nil
	}

	todo := &domain.Todo{
		UserID:      p.UserID,
		Description: description,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.Create(ctx, todo); err != nil {
		s.logger.Error().Err(err).Int64("user_id", p.UserID).Msg("failed to create todo")
		return nil, err
	}

	if in.IdempotencyKey != "" && s.idem != nil {
		if err := s.idem.Remember(ctx, p.UserID, in.IdempotencyKey, todo.ID); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("failed to store idempotency key")
		}
	}

	s.record(todo, domain.ActivityCreated)
	s.logger.Info().Int64("todo_id", todo.ID).Int64("user_id", p.UserID).Msg("todo created")
	return &ports.CreateTodoResult{Todo: todo}, nil
}

// replay returns the todo an earlier request with key produced, or nil.
// Store failures are logged and treated as a miss.
func (s *TodoService) replay(ctx context.Context, p domain.Principal, key string) *domain.Todo {
	if key == "" || s.idem == nil {
		return nil
	}
	todoID, found, err := s.idem.Lookup(ctx, p.UserID, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed, creating anyway")
		return nil
	}
	if !found {
		return nil
	}
	existing, err := loadOwned(ctx, s.repo, p, todoID)
	if err != nil {
		// The earlier todo was deleted since; treat the key as fresh.
		if !errors.Is(err, domain.ErrTodoNotFound) {
			s.logger.Warn().Err(err).Int64("todo_id", todoID).Msg("idempotent replay failed, creating anyway")
		}
		return nil
	}
	s.logger.Info().Str("idempotency_key", key).Int64("todo_id", existing.ID).Msg("idempotent replay")
	return existing
}

// ListTodos returns p's todos, newest first.
func (s *TodoService) ListTodos(ctx context.Context, p domain.Principal, in ports.ListTodosInput) ([]*domain.Todo, error) {
	return s.repo.List(ctx, ports.TodoFilter{UserID: p.UserID, Completed: in.Completed})
}

func (s *TodoService) GetTodo(ctx context.Context, p domain.Principal, id int64) (*domain.Todo, error) {
	return loadOwned(ctx, s.repo, p, id)
}

// UpdateTodo applies the provided fields and stamps updated_at.
func (s *TodoService) UpdateTodo(ctx context.Context, p domain.Principal, id int64, in ports.UpdateTodoInput) (*domain.Todo, error) {
	var description string
	if in.Description != nil {
		d, err := domain.NormalizeText("description", *in.Description, domain.MaxTodoDescription)
		if err != nil {
			return nil, err
		}
		description = d
	}

	todo, err := loadOwned(ctx, s.repo, p, id)
	if err != nil {
		return nil, err
	}

	if in.Description != nil {
		todo.Description = description
	}
	if in.Completed != nil {
		todo.Completed = *in.Completed
	}
	todo.Touch(s.now())

	if err := s.repo.Update(ctx, todo); err != nil {
		return nil, err
	}

	s.record(todo, domain.ActivityUpdated)
	return todo, nil
}

// ToggleTodo flips the completion flag.
func (s *TodoService) ToggleTodo(ctx context.Context, p domain.Principal, id int64) (*domain.Todo, error) {
	todo, err := loadOwned(ctx, s.repo, p, id)
	if err != nil {
		return nil, err
	}

	todo.Completed = !todo.Completed
	todo.Touch(s.now())

	if err := s.repo.Update(ctx, todo); err != nil {
		return nil, err
	}

	s.record(todo, domain.ActivityToggled)
	return todo, nil
}

func (s *TodoService) DeleteTodo(ctx context.Context, p domain.Principal, id int64) error {
	todo, err := loadOwned(ctx, s.repo, p, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, todo.ID); err != nil {
		return err
	}

	s.record(todo, domain.ActivityDeleted)
	s.logger.Info().Int64("todo_id", todo.ID).Int64("user_id", p.UserID).Msg("todo deleted")
	return nil
}

func (s *TodoService) record(todo *domain.Todo, action domain.ActivityAction) {
	if s.activity == nil {
		return
	}
	s.activity.Record(domain.TodoActivity{
		UserID:    todo.UserID,
		TodoID:    todo.ID,
		Action:    action,
		Completed: todo.Completed,
		At:        s.now().UTC(),
	})
}
