package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/evolution-of-todo/todo-system/internal/api/middleware"
	"github.com/evolution-of-todo/todo-system/internal/core/domain"
	"github.com/evolution-of-todo/todo-system/internal/core/ports"
)

type stubTodoService struct {
	createFn func(ctx context.Context, p domain.Principal, in ports.CreateTodoInput) (*ports.CreateTodoResult, error)
	listFn   func(ctx context.Context, p domain.Principal, in ports.ListTodosInput) ([]*domain.Todo, error)
	getFn    func(ctx context.Context, p domain.Principal, id int64) (*domain.Todo, error)
	updateFn func(ctx context.Context, p domain.Principal, id int64, in ports.UpdateTodoInput) (*domain.Todo, error)
	toggleFn func(ctx context.Context, p domain.Principal, id int64) (*domain.Todo, error)
	deleteFn func(ctx context.Context, p domain.Principal, id int64) error
}

func (s *stubTodoService) CreateTodo(ctx context.Context, p domain.Principal, in ports.CreateTodoInput) (*ports.CreateTodoResult, error) {
	return s.createFn(ctx, p, in)
}

func (s *stubTodoService) ListTodos(ctx context.Context, p domain.Principal, in ports.ListTodosInput) ([]*domain.Todo, error) {
	return s.listFn(ctx, p, in)
}

func (s *stubTodoService) GetTodo(ctx context.Context, p domain.Principal, id int64) (*domain.Todo, error) {
	return s.getFn(ctx, p, id)
}

func (s *stubTodoService) UpdateTodo(ctx context.Context, p domain.Principal, id int64, in ports.UpdateTodoInput) (*domain.Todo, error) {
	return s.updateFn(ctx, p, id, in)
}

func (s *stubTodoService) ToggleTodo(ctx context.Context, p domain.Principal, id int64) (*domain.Todo, error) {
	return s.toggleFn(ctx, p, id)
}

func (s *stubTodoService) DeleteTodo(ctx context.Context, p domain.Principal, id int64) error {
	return s.deleteFn(ctx, p, id)
}

var alice = domain.Principal{UserID: 1, Email: "alice@example.com"}

func authedContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	c, rec := jsonContext(e, method, target, body)
	c.Set(middleware.PrincipalKey, alice)
	return c, rec
}

func TestTodoHandler_Create(t *testing.T) {
	e := newEcho()
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	stub := &stubTodoService{
		createFn: func(ctx context.Context, p domain.Principal, in ports.CreateTodoInput) (*ports.CreateTodoResult, error) {
			if p != alice {
				t.Fatalf("unexpected principal: %+v", p)
			}
			if in.Description != "Buy milk" || in.IdempotencyKey != "k1" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.CreateTodoResult{Todo: &domain.Todo{ID: 1, UserID: 1, Description: "Buy milk", CreatedAt: created}}, nil
		},
	}

	c, rec := authedContext(e, http.MethodPost, "/todos", `{"description":"Buy milk"}`)
	c.Request().Header.Set("Idempotency-Key", "k1")
	if err := NewTodoHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != float64(1) || resp["completed"] != false || resp["description"] != "Buy milk" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if v, ok := resp["updated_at"]; !ok || v != nil {
		t.Fatalf("expected updated_at null, got %v", v)
	}
	if _, ok := resp["user_id"]; ok {
		t.Fatalf("owner id should not be exposed: %+v", resp)
	}
	if rec.Header().Get(HeaderIdempotentReplayed) != "" {
		t.Fatalf("fresh create must not be marked replayed")
	}
}

func TestTodoHandler_Create_Replayed(t *testing.T) {
	e := newEcho()
	stub := &stubTodoService{
		createFn: func(ctx context.Context, p domain.Principal, in ports.CreateTodoInput) (*ports.CreateTodoResult, error) {
			return &ports.CreateTodoResult{Todo: &domain.Todo{ID: 9, Description: "x"}, AlreadyExisted: true}, nil
		},
	}

	c, rec := authedContext(e, http.MethodPost, "/todos", `{"description":"x"}`)
	if err := NewTodoHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get(HeaderIdempotentReplayed) != "true" {
		t.Fatalf("expected replay header")
	}
}

func TestTodoHandler_Create_MissingDescription(t *testing.T) {
	e := newEcho()
	stub := &stubTodoService{
		createFn: func(ctx context.Context, p domain.Principal, in ports.CreateTodoInput) (*ports.CreateTodoResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}

	c, _ := authedContext(e, http.MethodPost, "/todos", `{}`)
	err := NewTodoHandler(stub).Create(c)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTodoHandler_Create_Unauthenticated(t *testing.T) {
	e := newEcho()
	c, _ := jsonContext(e, http.MethodPost, "/todos", `{"description":"x"}`)
	err := NewTodoHandler(&stubTodoService{}).Create(c)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestTodoHandler_List_Filter(t *testing.T) {
	cases := []struct {
		query string
		want  *bool
	}{
		{"", nil},
		{"?completed=true", boolPtr(true)},
		{"?completed=false", boolPtr(false)},
		{"?completed=yes", boolPtr(true)},
		{"?completed=on", boolPtr(true)},
		{"?completed=1", boolPtr(true)},
		{"?completed=OFF", boolPtr(false)},
		{"?completed=no", boolPtr(false)},
		{"?completed=0", boolPtr(false)},
	}

	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			e := newEcho()
			stub := &stubTodoService{
				listFn: func(ctx context.Context, p domain.Principal, in ports.ListTodosInput) ([]*domain.Todo, error) {
					switch {
					case tc.want == nil && in.Completed != nil:
						t.Fatalf("expected no filter, got %v", *in.Completed)
					case tc.want != nil && (in.Completed == nil || *in.Completed != *tc.want):
						t.Fatalf("expected filter %v, got %v", *tc.want, in.Completed)
					}
					return []*domain.Todo{{ID: 2}, {ID: 1}}, nil
				},
			}

			c, rec := authedContext(e, http.MethodGet, "/todos"+tc.query, "")
			if err := NewTodoHandler(stub).List(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}

			var resp todoListResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Total != 2 || len(resp.Todos) != 2 || resp.Todos[0].ID != 2 {
				t.Fatalf("unexpected payload: %+v", resp)
			}
		})
	}
}

func TestTodoHandler_List_EmptyIsArray(t *testing.T) {
	e := newEcho()
	stub := &stubTodoService{
		listFn: func(ctx context.Context, p domain.Principal, in ports.ListTodosInput) ([]*domain.Todo, error) {
			return nil, nil
		},
	}

	c, rec := authedContext(e, http.MethodGet, "/todos", "")
	if err := NewTodoHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := rec.Body.String(); got != "{\"todos\":[],\"total\":0}\n" {
		t.Fatalf("unexpected body: %q", got)
	}
}

func TestTodoHandler_List_BadFilter(t *testing.T) {
	e := newEcho()
	c, _ := authedContext(e, http.MethodGet, "/todos?completed=maybe", "")
	err := NewTodoHandler(&stubTodoService{}).List(c)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTodoHandler_PathID(t *testing.T) {
	for _, raw := range []string{"abc", "0", "-3", "1.5", ""} {
		t.Run(raw, func(t *testing.T) {
			e := newEcho()
			stub := &stubTodoService{
				toggleFn: func(ctx context.Context, p domain.Principal, id int64) (*domain.Todo, error) {
					t.Fatalf("should not be called")
					return nil, nil
				},
			}
			c, _ := authedContext(e, http.MethodPost, "/", "")
			c.SetParamNames("id")
			c.SetParamValues(raw)

			err := NewTodoHandler(stub).Toggle(c)
			if !errors.Is(err, domain.ErrTodoNotFound) {
				t.Fatalf("expected ErrTodoNotFound, got %v", err)
			}
		})
	}
}

func TestTodoHandler_Toggle(t *testing.T) {
	e := newEcho()
	stub := &stubTodoService{
		toggleFn: func(ctx context.Context, p domain.Principal, id int64) (*domain.Todo, error) {
			if id != 5 {
				t.Fatalf("unexpected id %d", id)
			}
			return &domain.Todo{ID: 5, Completed: true}, nil
		},
	}

	c, rec := authedContext(e, http.MethodPost, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("5")
	if err := NewTodoHandler(stub).Toggle(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := rec.Body.String(); got != "{\"id\":5,\"completed\":true}\n" {
		t.Fatalf("unexpected body: %q", got)
	}
}

func TestTodoHandler_Update(t *testing.T) {
	e := newEcho()
	now := time.Now().UTC()
	stub := &stubTodoService{
		updateFn: func(ctx context.Context, p domain.Principal, id int64, in ports.UpdateTodoInput) (*domain.Todo, error) {
			if in.Description != nil {
				t.Fatalf("description should be absent")
			}
			if in.Completed == nil || !*in.Completed {
				t.Fatalf("expected completed=true")
			}
			return &domain.Todo{ID: id, Completed: true, UpdatedAt: &now}, nil
		},
	}

	c, rec := authedContext(e, http.MethodPut, "/", `{"completed":true}`)
	c.SetParamNames("id")
	c.SetParamValues("3")
	if err := NewTodoHandler(stub).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestTodoHandler_ServiceErrorsPassThrough(t *testing.T) {
	e := newEcho()
	stub := &stubTodoService{
		getFn: func(ctx context.Context, p domain.Principal, id int64) (*domain.Todo, error) {
			return nil, domain.ErrForbidden
		},
		deleteFn: func(ctx context.Context, p domain.Principal, id int64) error {
			return domain.ErrTodoNotFound
		},
	}
	h := NewTodoHandler(stub)

	c, _ := authedContext(e, http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.Get(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	c, _ = authedContext(e, http.MethodDelete, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.Delete(c); !errors.Is(err, domain.ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound, got %v", err)
	}
}

func TestTodoHandler_Delete(t *testing.T) {
	e := newEcho()
	stub := &stubTodoService{
		deleteFn: func(ctx context.Context, p domain.Principal, id int64) error { return nil },
	}

	c, rec := authedContext(e, http.MethodDelete, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("2")
	if err := NewTodoHandler(stub).Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func boolPtr(b bool) *bool { return &b }
