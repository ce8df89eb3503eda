package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/walletreg/accounts-api/internal/core/domain"
)

func TestIssuer_IssueAndParse(t *testing.T) {
	iss := NewIssuer("secret", "accounts-api", time.Hour)

	signed, err := iss.Issue("0xABC", "alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := iss.Parse(signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "0xABC" {
		t.Fatalf("expected subject 0xABC, got %q", claims.Subject)
	}
	if claims.User != "alice" {
		t.Fatalf("expected user alice, got %q", claims.User)
	}
	if claims.Issuer != "accounts-api" {
		t.Fatalf("expected issuer accounts-api, got %q", claims.Issuer)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Fatalf("expected 1h lifetime, got %s", got)
	}
}

func TestIssuer_EmptySecret(t *testing.T) {
	iss := NewIssuer("", "accounts-api", time.Hour)
	if _, err := iss.Issue("0xABC", "alice"); !errors.Is(err, domain.ErrTokenSigning) {
		t.Fatalf("expected ErrTokenSigning, got %v", err)
	}
}

func TestIssuer_RejectsWrongSecret(t *testing.T) {
	signed, err := NewIssuer("secret", "accounts-api", time.Hour).Issue("0xABC", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewIssuer("other", "accounts-api", time.Hour).Parse(signed); !errors.Is(err, domain.ErrAuth) {
		t.Fatalf("expected ErrAuth, got %v", err)
	}
}

func TestIssuer_RejectsExpired(t *testing.T) {
	iss := NewIssuer("secret", "accounts-api", time.Minute)
	iss.now = func() time.Time { return time.Now().Add(-time.Hour) }
	signed, err := iss.Issue("0xABC", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	iss.now = time.Now
	if _, err := iss.Parse(signed); !errors.Is(err, domain.ErrAuth) {
		t.Fatalf("expected ErrAuth for expired token, got %v", err)
	}
}

func TestIssuer_RejectsOtherAlgorithms(t *testing.T) {
	tkn := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "0xABC", Issuer: "accounts-api"},
	})
	signed, err := tkn.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewIssuer("secret", "accounts-api", time.Hour).Parse(signed); !errors.Is(err, domain.ErrAuth) {
		t.Fatalf("expected ErrAuth, got %v", err)
	}
}
