package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/evolution-of-todo/todo-system/internal/api/middleware"
	"github.com/evolution-of-todo/todo-system/internal/core/domain"
)

// ctxPrincipal returns the principal injected by the Auth middleware. A route
// mounted without the middleware gets the same 401 as a bad token.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	return p, nil
}

// pathID parses the :id parameter. Anything that is not a positive integer
// cannot name a todo and is reported as not found.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrTodoNotFound
	}
	return id, nil
}
