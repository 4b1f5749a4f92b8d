package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/evolution-of-todo/todo-system/internal/api/metrics"
	"github.com/evolution-of-todo/todo-system/internal/core/domain"
	"github.com/evolution-of-todo/todo-system/internal/core/ports"
)

// HeaderIdempotentReplayed marks a create response that returned an existing todo.
const HeaderIdempotentReplayed = "Idempotent-Replayed"

// TodoHandler handles HTTP requests for the authenticated user's todos.
type TodoHandler struct {
	service ports.TodoService
}

func NewTodoHandler(service ports.TodoService) *TodoHandler {
	return &TodoHandler{service: service}
}

// List handles GET /todos.
//
// @Summary      List the caller's todos, newest first
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        completed  query     bool  false  "Filter by completion status"
// @Success      200        {object}  todoListResponse
// @Failure      401        {object}  errorResponse
// @Failure      422        {object}  errorResponse
// @Router       /todos [get]
func (h *TodoHandler) List(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var in ports.ListTodosInput
	if raw := c.QueryParam("completed"); raw != "" {
		completed, ok := parseQueryBool(raw)
		if !ok {
			return domain.NewValidationError("completed must be a boolean")
		}
		in.Completed = &completed
	}

	todos, err := h.service.ListTodos(c.Request().Context(), p, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTodoListResponse(todos))
}

// Create handles POST /todos.
//
// @Summary      Create a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string             false  "Replays the todo created earlier with the same key"
// @Param        body             body      createTodoRequest  true   "Description (1-500 characters)"
// @Success      201              {object}  todoResponse
// @Success      200              {object}  todoResponse  "Replayed from Idempotency-Key"
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /todos [post]
func (h *TodoHandler) Create(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req createTodoRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.service.CreateTodo(c.Request().Context(), p, ports.CreateTodoInput{
		Description:    req.Description,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return err
	}

	if result.AlreadyExisted {
		metrics.IdempotentReplaysTotal.Inc()
		c.Response().Header().Set(HeaderIdempotentReplayed, "true")
		return c.JSON(http.StatusOK, toTodoResponse(result.Todo))
	}
	metrics.TodoOperationsTotal.WithLabelValues(string(domain.ActivityCreated)).Inc()
	return c.JSON(http.StatusCreated, toTodoResponse(result.Todo))
}

// Get handles GET /todos/:id.
//
// @Summary      Get one todo
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Todo ID"
// @Success      200  {object}  todoResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /todos/{id} [get]
func (h *TodoHandler) Get(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	todo, err := h.service.GetTodo(c.Request().Context(), p, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTodoResponse(todo))
}

// Update handles PUT /todos/:id.
//
// @Summary      Update description and/or completion
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "Todo ID"
// @Param        body  body      updateTodoRequest  true  "Fields to change"
// @Success      200   {object}  todoResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /todos/{id} [put]
func (h *TodoHandler) Update(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateTodoRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	todo, err := h.service.UpdateTodo(c.Request().Context(), p, id, toUpdateInput(req))
	if err != nil {
		return err
	}
	metrics.TodoOperationsTotal.WithLabelValues(string(domain.ActivityUpdated)).Inc()
	return c.JSON(http.StatusOK, toTodoResponse(todo))
}

// Toggle handles POST /todos/:id/toggle.
//
// @Summary      Flip the completion status
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Todo ID"
// @Success      200  {object}  toggleResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /todos/{id}/toggle [post]
func (h *TodoHandler) Toggle(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	todo, err := h.service.ToggleTodo(c.Request().Context(), p, id)
	if err != nil {
		return err
	}
	metrics.TodoOperationsTotal.WithLabelValues(string(domain.ActivityToggled)).Inc()
	return c.JSON(http.StatusOK, toggleResponse{ID: todo.ID, Completed: todo.Completed})
}

// Delete handles DELETE /todos/:id.
//
// @Summary      Delete a todo
// @Tags         todos
// @Security     BearerAuth
// @Param        id   path  int  true  "Todo ID"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /todos/{id} [delete]
func (h *TodoHandler) Delete(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteTodo(c.Request().Context(), p, id); err != nil {
		return err
	}
	metrics.TodoOperationsTotal.WithLabelValues(string(domain.ActivityDeleted)).Inc()
	return c.NoContent(http.StatusNoContent)
}

// parseQueryBool accepts the usual spellings of a boolean query value,
// case-insensitively.
func parseQueryBool(raw string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "t", "1", "yes", "y", "on":
		return true, true
	case "false", "f", "0", "no", "n", "off":
		return false, true
	}
	return false, false
}
