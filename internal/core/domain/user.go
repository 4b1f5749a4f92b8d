package domain

import "time"

// MaxEmailLength bounds the stored email address.
const MaxEmailLength = 255

// User models an account able to sign in to the web API.
type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// Principal is the authenticated identity bound to a request. It is passed
// explicitly into every todo operation.
type Principal struct {
	UserID int64
	Email  string
}

// Principal returns the request identity for u.
func (u *User) Principal() Principal {
	return Principal{UserID: u.ID, Email: u.Email}
}
