package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalizeAddress(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"checksums lower-case hex", "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"},
		{"checksums upper-case hex", "0x5AAEB6053F3E94C9B9A09F33669435E7EF1BEAED", "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"},
		{"trims whitespace", "  0xABC \n", "0xABC"},
		{"keeps short values verbatim", "0xABC", "0xABC"},
		{"keeps prefixless hex verbatim", "5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", "5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeAddress(tc.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestNormalizeAddress_Empty(t *testing.T) {
	for _, in := range []string{"", "   ", "\t"} {
		_, err := NormalizeAddress(in)
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation for %q, got %v", in, err)
		}
		var ve *ValidationError
		if !errors.As(err, &ve) || ve.Field != "address" {
			t.Fatalf("expected address ValidationError, got %v", err)
		}
	}
}

func TestAuthErrorsWrapErrAuth(t *testing.T) {
	if !errors.Is(ErrSignatureMismatch, ErrAuth) {
		t.Fatal("ErrSignatureMismatch must wrap ErrAuth")
	}
	if !errors.Is(ErrNonceNotFound, ErrAuth) {
		t.Fatal("ErrNonceNotFound must wrap ErrAuth")
	}
	if errors.Is(ErrTokenSigning, ErrAuth) {
		t.Fatal("ErrTokenSigning is a server error and must not look like a caller auth failure")
	}
}

func TestChallengeMessage(t *testing.T) {
	msg := ChallengeMessage("accounts-api", "0xabc", "n-1")
	for _, part := range []string{"Sign in to accounts-api", "address: 0xabc", "nonce: n-1"} {
		if !strings.Contains(msg, part) {
			t.Fatalf("message %q missing %q", msg, part)
		}
	}
}
