package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/evolution-of-todo/todo-system/internal/core/domain"
	"github.com/evolution-of-todo/todo-system/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users     map[int64]*domain.User
	nextID    int64
	lastLogin map[int64]time.Time
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User), nextID: 1, lastLogin: make(map[int64]time.Time)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrDuplicateEmail
		}
	}
	stored := cloneUser(user)
	stored.ID = r.nextID
	r.nextID++
	r.users[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdateLastLogin(_ context.Context, id int64, at time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LastLoginAt = &at
	r.lastLogin[id] = at
	return nil
}

type stubTodoRepo struct {
	todos     map[int64]*domain.Todo
	nextID    int64
	updateErr error
}

func newStubTodoRepo() *stubTodoRepo {
	return &stubTodoRepo{todos: make(map[int64]*domain.Todo), nextID: 1}
}

func cloneTodo(t *domain.Todo) *domain.Todo {
	clone := *t
	if t.UpdatedAt != nil {
		ts := *t.UpdatedAt
		clone.UpdatedAt = &ts
	}
	return &clone
}

func (r *stubTodoRepo) Create(_ context.Context, todo *domain.Todo) error {
	todo.ID = r.nextID
	r.nextID++
	r.todos[todo.ID] = cloneTodo(todo)
	return nil
}

func (r *stubTodoRepo) FindByID(_ context.Context, id int64) (*domain.Todo, error) {
	t, ok := r.todos[id]
	if !ok {
		return nil, domain.ErrTodoNotFound
	}
	return cloneTodo(t), nil
}

func (r *stubTodoRepo) List(_ context.Context, f ports.TodoFilter) ([]*domain.Todo, error) {
	var out []*domain.Todo
	for _, t := range r.todos {
		if t.UserID != f.UserID {
			continue
		}
		if f.Completed != nil && t.Completed != *f.Completed {
			continue
		}
		out = append(out, cloneTodo(t))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *stubTodoRepo) Update(_ context.Context, todo *domain.Todo) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.todos[todo.ID]; !ok {
		return domain.ErrTodoNotFound
	}
	r.todos[todo.ID] = cloneTodo(todo)
	return nil
}

func (r *stubTodoRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.todos[id]; !ok {
		return domain.ErrTodoNotFound
	}
	delete(r.todos, id)
	return nil
}

type stubIdempotency struct {
	keys      map[string]int64
	lookupErr error
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{keys: make(map[string]int64)}
}

func idemKey(userID int64, key string) string {
	return fmt.Sprintf("%d/%s", userID, key)
}

func (s *stubIdempotency) Lookup(_ context.Context, userID int64, key string) (int64, bool, error) {
	if s.lookupErr != nil {
		return 0, false, s.lookupErr
	}
	id, ok := s.keys[idemKey(userID, key)]
	return id, ok, nil
}

func (s *stubIdempotency) Remember(_ context.Context, userID int64, key string, todoID int64) error {
	s.keys[idemKey(userID, key)] = todoID
	return nil
}

type recordingActivity struct {
	events []domain.TodoActivity
}

func (r *recordingActivity) Record(a domain.TodoActivity) {
	r.events = append(r.events, a)
}

// steppingClock returns a clock that advances by one second per call.
func steppingClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}
