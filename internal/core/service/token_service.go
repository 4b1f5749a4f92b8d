package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/evolution-of-todo/todo-system/internal/core/domain"
)

// TokenConfig holds the immutable token settings.
type TokenConfig struct {
	Secret []byte
	TTL    time.Duration
}

// TokenPayload is the decoded content of a valid token.
type TokenPayload struct {
	Subject   string
	UserID    int64
	Email     string
	ExpiresAt time.Time
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// TokenService issues and validates HS256 bearer tokens.
type TokenService struct {
	cfg TokenConfig
	now func() time.Time
}

// NewTokenService returns a TokenService. A non-positive TTL falls back to
// seven days.
func NewTokenService(cfg TokenConfig) *TokenService {
	if cfg.TTL <= 0 {
		cfg.TTL = 7 * 24 * time.Hour
	}
	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)
	cfg.Secret = secret
	return &TokenService{cfg: cfg, now: time.Now}
}

// Issue returns a signed token for the given subject.
func (s *TokenService) Issue(userID int64, email string) (string, error) {
	now := s.now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TTL)),
		},
		Email: email,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.Secret)
}

// Validate checks the signature and expiry of token. Every failure wraps
// domain.ErrInvalidToken; the wrapped cause is only meant for logs.
func (s *TokenService) Validate(token string) (*TokenPayload, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.cfg.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, fmt.Errorf("%w: bad subject %q", domain.ErrInvalidToken, claims.Subject)
	}

	return &TokenPayload{
		Subject:   claims.Subject,
		UserID:    userID,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
