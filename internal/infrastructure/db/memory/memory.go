// Package memory provides process-local implementations of the repository
// ports. They back the "memory" storage driver used for development and the
// end-to-end tests; data is lost when the process exits.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/evolution-of-todo/todo-system/internal/core/domain"
	"github.com/evolution-of-todo/todo-system/internal/core/ports"
)

// Store groups the repositories of one in-memory database. Users created
// through it own their todos: deleting a user drops them too.
type Store struct {
	Users    *UserRepository
	Todos    *TodoRepository
	Activity *ActivityRepository
}

func NewStore() *Store {
	todos := NewTodoRepository()
	users := NewUserRepository()
	users.todos = todos
	return &Store{Users: users, Todos: todos, Activity: NewActivityRepository()}
}

// UserRepository keeps users in a map keyed by ID.
type UserRepository struct {
	mu     sync.RWMutex
	users  map[int64]*domain.User
	emails map[string]int64
	lastID int64
	todos  *TodoRepository
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[int64]*domain.User), emails: make(map[string]int64)}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.emails[user.Email]; taken {
		return nil, domain.ErrDuplicateEmail
	}
	r.lastID++
	stored := copyUser(user)
	stored.ID = r.lastID
	r.users[stored.ID] = stored
	r.emails[stored.Email] = stored.ID
	return copyUser(stored), nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.emails[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return copyUser(r.users[id]), nil
}

func (r *UserRepository) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return copyUser(u), nil
}

func (r *UserRepository) UpdateLastLogin(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	at = at.UTC()
	u.LastLoginAt = &at
	return nil
}

// Delete removes a user. When the repository belongs to a Store, every todo
// the user owns goes with them.
func (r *UserRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(r.emails, u.Email)
	delete(r.users, id)
	if r.todos != nil {
		r.todos.deleteByUser(id)
	}
	return nil
}

// TodoRepository is an arena of todos: a monotonic counter plus a map from
// ID to record. Deleting never lowers the counter.
type TodoRepository struct {
	mu     sync.RWMutex
	todos  map[int64]*domain.Todo
	lastID int64
}

func NewTodoRepository() *TodoRepository {
	return &TodoRepository{todos: make(map[int64]*domain.Todo)}
}

func (r *TodoRepository) Create(_ context.Context, todo *domain.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	todo.ID = r.lastID
	r.todos[todo.ID] = copyTodo(todo)
	return nil
}

func (r *TodoRepository) FindByID(_ context.Context, id int64) (*domain.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.todos[id]
	if !ok {
		return nil, domain.ErrTodoNotFound
	}
	return copyTodo(t), nil
}

func (r *TodoRepository) List(_ context.Context, f ports.TodoFilter) ([]*domain.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Todo, 0)
	for _, t := range r.todos {
		if t.UserID != f.UserID {
			continue
		}
		if f.Completed != nil && t.Completed != *f.Completed {
			continue
		}
		out = append(out, copyTodo(t))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *TodoRepository) Update(_ context.Context, todo *domain.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.todos[todo.ID]
	if !ok || existing.UserID != todo.UserID {
		return domain.ErrTodoNotFound
	}
	r.todos[todo.ID] = copyTodo(todo)
	return nil
}

func (r *TodoRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.todos[id]; !ok {
		return domain.ErrTodoNotFound
	}
	delete(r.todos, id)
	return nil
}

func (r *TodoRepository) deleteByUser(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, t := range r.todos {
		if t.UserID == userID {
			delete(r.todos, id)
		}
	}
}

// ActivityRepository collects the activity trail in memory.
type ActivityRepository struct {
	mu      sync.Mutex
	entries []domain.TodoActivity
}

func NewActivityRepository() *ActivityRepository {
	return &ActivityRepository{}
}

func (r *ActivityRepository) Insert(_ context.Context, a *domain.TodoActivity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *a)
	return nil
}

// Entries returns a copy of the recorded trail in insertion order.
func (r *ActivityRepository) Entries() []domain.TodoActivity {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.TodoActivity, len(r.entries))
	copy(out, r.entries)
	return out
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	if u.LastLoginAt != nil {
		ts := *u.LastLoginAt
		c.LastLoginAt = &ts
	}
	return &c
}

func copyTodo(t *domain.Todo) *domain.Todo {
	c := *t
	if t.UpdatedAt != nil {
		ts := *t.UpdatedAt
		c.UpdatedAt = &ts
	}
	return &c
}
