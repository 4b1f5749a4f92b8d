package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MaxTodoDescription is the description limit for web todos.
	MaxTodoDescription = 500
	// MaxTaskContent is the content limit for CLI tasks.
	MaxTaskContent = 1000
)

// Todo is a task owned by a single user of the web API.
type Todo struct {
	ID          int64      `json:"id" bson:"_id"`
	UserID      int64      `json:"user_id" bson:"user_id"`
	Description string     `json:"description" bson:"description"`
	Completed   bool       `json:"completed" bson:"completed"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at" bson:"updated_at,omitempty"`
}

// OwnedBy reports whether p owns the todo.
func (t *Todo) OwnedBy(p Principal) bool {
	return t.UserID == p.UserID
}

// Touch records a mutation at ts.
func (t *Todo) Touch(ts time.Time) {
	ts = ts.UTC()
	t.UpdatedAt = &ts
}

// Task is a single-tenant todo item kept in memory by the console app.
type Task struct {
	ID        int
	Content   string
	Completed bool
}

// NormalizeText trims s and checks that the result holds between 1 and max
// characters. field names the value in the returned ValidationError.
func NormalizeText(field, s string, max int) (string, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", NewValidationError(field + " cannot be empty")
	}
	if utf8.RuneCountInString(trimmed) > max {
		return "", NewValidationError(fmt.Sprintf("%s must be %d characters or fewer", field, max))
	}
	return trimmed, nil
}
