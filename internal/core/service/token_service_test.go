package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/evolution-of-todo/todo-system/internal/core/domain"
)

func newTestTokenService() *TokenService {
	return NewTokenService(TokenConfig{Secret: []byte("test-secret"), TTL: time.Hour})
}

func TestTokenService_IssueValidateRoundTrip(t *testing.T) {
	svc := newTestTokenService()

	cases := []struct {
		id    int64
		email string
	}{
		{1, "a@x.com"},
		{42, "someone@example.org"},
		{9007199254740993, "big@example.com"},
	}
	for _, tc := range cases {
		token, err := svc.Issue(tc.id, tc.email)
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		payload, err := svc.Validate(token)
		if err != nil {
			t.Fatalf("validate: %v", err)
		}
		if payload.UserID != tc.id || payload.Email != tc.email {
			t.Fatalf("unexpected payload: %+v", payload)
		}
	}
}

func TestTokenService_SubjectIsStringID(t *testing.T) {
	svc := newTestTokenService()
	token, _ := svc.Issue(17, "a@x.com")

	payload, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if payload.Subject != "17" {
		t.Fatalf("expected sub \"17\", got %q", payload.Subject)
	}
}

func TestTokenService_ExpiresAfterTTL(t *testing.T) {
	svc := newTestTokenService()
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.Issue(1, "a@x.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	svc.now = func() time.Time { return issuedAt.Add(59 * time.Minute) }
	payload, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("token should still be valid: %v", err)
	}
	if !payload.ExpiresAt.Equal(issuedAt.Add(time.Hour)) {
		t.Fatalf("unexpected expiry %v", payload.ExpiresAt)
	}

	svc.now = func() time.Time { return issuedAt.Add(61 * time.Minute) }
	if _, err := svc.Validate(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokenService_DefaultTTLIsSevenDays(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: []byte("s")})
	if svc.cfg.TTL != 7*24*time.Hour {
		t.Fatalf("expected 7 days, got %v", svc.cfg.TTL)
	}
}

func TestTokenService_TamperedTokenFails(t *testing.T) {
	svc := newTestTokenService()
	token, _ := svc.Issue(5, "a@x.com")

	signed := token[:strings.LastIndex(token, ".")]
	for i := 0; i < len(signed); i++ {
		if signed[i] == '.' {
			continue
		}
		replacement := byte('A')
		if signed[i] == 'A' {
			replacement = 'B'
		}
		tampered := token[:i] + string(replacement) + token[i+1:]
		if _, err := svc.Validate(tampered); !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("byte %d flipped: expected ErrInvalidToken, got %v", i, err)
		}
	}
}

func TestTokenService_TamperedSignatureFails(t *testing.T) {
	svc := newTestTokenService()
	token, _ := svc.Issue(5, "a@x.com")

	dot := strings.LastIndex(token, ".")
	replacement := byte('A')
	if token[dot+1] == 'A' {
		replacement = 'B'
	}
	tampered := token[:dot+1] + string(replacement) + token[dot+2:]
	if _, err := svc.Validate(tampered); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenService_RejectsWrongSecret(t *testing.T) {
	other := NewTokenService(TokenConfig{Secret: []byte("other-secret"), TTL: time.Hour})
	token, _ := other.Issue(1, "a@x.com")

	if _, err := newTestTokenService().Validate(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenService_RejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.MapClaims{"sub": "1", "email": "a@x.com", "exp": time.Now().Add(time.Hour).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := newTestTokenService().Validate(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for HS512, got %v", err)
	}

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := newTestTokenService().Validate(unsigned); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for alg none, got %v", err)
	}
}

func TestTokenService_RejectsMissingExpiry(t *testing.T) {
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1"}).SignedString([]byte("test-secret"))
	if _, err := newTestTokenService().Validate(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenService_RejectsBadSubject(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()
	for _, sub := range []string{"", "abc", "0", "-3"} {
		token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub, "exp": exp}).SignedString([]byte("test-secret"))
		if _, err := newTestTokenService().Validate(token); !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("sub %q: expected ErrInvalidToken, got %v", sub, err)
		}
	}
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	for _, token := range []string{"", "not-a-token", "a.b.c", "...."} {
		if _, err := newTestTokenService().Validate(token); !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("%q: expected ErrInvalidToken, got %v", token, err)
		}
	}
}
