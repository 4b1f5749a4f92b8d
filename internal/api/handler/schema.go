package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type signupRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=100"`
}

type signinRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

// --- Todos ---

// Description length is checked after trimming by the service.
type createTodoRequest struct {
	Description string `json:"description" validate:"required"`
}

type updateTodoRequest struct {
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

type todoResponse struct {
	ID          int64      `json:"id"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

type todoListResponse struct {
	Todos []todoResponse `json:"todos"`
	Total int            `json:"total"`
}

type toggleResponse struct {
	ID        int64 `json:"id"`
	Completed bool  `json:"completed"`
}
