package ports

import (
	"context"
	"time"

	"github.com/walletreg/accounts-api/internal/core/domain"
)

// RegisterInput is the DTO passed from the transport layer to AccountService.
// User and SignedData are either both empty (plain registration) or both set
// (signed registration, which also issues a token).
type RegisterInput struct {
	Address    string
	User       string
	SignedData string
	RequestID  string
}

// Signed reports whether the caller attempted a signed registration.
func (in RegisterInput) Signed() bool {
	return in.User != "" || in.SignedData != ""
}

// RegisterResult is returned by Register.
type RegisterResult struct {
	ID      string
	Address string
	// Created is false when a signed request matched an existing account.
	Created bool
	// Token is only set for signed registrations.
	Token string
}

// AccountSummary is the list view of an account.
type AccountSummary struct {
	ID      string
	Address string
}

// NonceResult carries the challenge a wallet must sign.
type NonceResult struct {
	Address   string
	Nonce     string
	Message   string
	ExpiresAt time.Time
}

// AccountService defines use-case operations for accounts.
type AccountService interface {
	Register(ctx context.Context, input RegisterInput) (*RegisterResult, error)
	ListAccounts(ctx context.Context) ([]AccountSummary, error)
	GetAccount(ctx context.Context, address string) (*domain.Account, error)
	IssueNonce(ctx context.Context, address string) (*NonceResult, error)
}
