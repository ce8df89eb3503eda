package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/walletreg/accounts-api/internal/core/domain"
	"github.com/walletreg/accounts-api/internal/core/ports"
	"github.com/walletreg/accounts-api/internal/pkg/metrics"
)

const defaultNonceTTL = 5 * time.Minute

// NonceStore abstracts the single-use challenge store (Redis).
type NonceStore interface {
	Put(ctx context.Context, address, nonce string, ttl time.Duration) error
	// Consume returns and deletes the nonce for address, or domain.ErrNonceNotFound.
	Consume(ctx context.Context, address string) (string, error)
}

// Deps groups the collaborators of AccountService.
type Deps struct {
	Repo     ports.AccountRepository
	Nonces   NonceStore
	Verifier ports.SignatureVerifier
	Tokens   ports.TokenIssuer
	Audit    ports.AuditRecorder
}

// Options tunes AccountService behaviour.
type Options struct {
	// AppName is embedded in the challenge message.
	AppName  string
	NonceTTL time.Duration
}

type AccountService struct {
	repo     ports.AccountRepository
	nonces   NonceStore
	verifier ports.SignatureVerifier
	tokens   ports.TokenIssuer
	audit    ports.AuditRecorder
	appName  string
	nonceTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

func NewAccountService(deps Deps, opts Options, logger zerolog.Logger) *AccountService {
	if opts.NonceTTL <= 0 {
		opts.NonceTTL = defaultNonceTTL
	}
	if opts.AppName == "" {
		opts.AppName = "accounts-api"
	}
	audit := deps.Audit
	if audit == nil {
		audit = discardAudit{}
	}
	return &AccountService{
		repo:     deps.Repo,
		nonces:   deps.Nonces,
		verifier: deps.Verifier,
		tokens:   deps.Tokens,
		audit:    audit,
		appName:  opts.AppName,
		nonceTTL: opts.NonceTTL,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Register stores the address unless it is already registered.
//
// A plain request for a known address fails with domain.ErrAccountExists. A
// signed request proves ownership first, then reuses the stored record if
// there is one and always returns a token.
func (s *AccountService) Register(ctx context.Context, in ports.RegisterInput) (*ports.RegisterResult, error) {
	address, err := s.validate(in)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		return nil, err
	}

	signed := in.Signed()
	var proof *domain.SignatureProof
	if signed {
		proof, err = s.verify(ctx, address, in.SignedData)
		if err != nil {
			if errors.Is(err, domain.ErrAuth) {
				metrics.RegistrationsTotal.WithLabelValues(metrics.ResultDenied).Inc()
			} else {
				metrics.RegistrationsTotal.WithLabelValues(metrics.ResultError).Inc()
			}
			return nil, err
		}
	}

	account := &domain.Account{
		Address:        address,
		User:           in.User,
		SignatureProof: proof,
		CreatedAt:      s.now(),
	}

	stored, created, err := s.repo.InsertIfAbsent(ctx, account)
	if errors.Is(err, domain.ErrAccountExists) && signed {
		// Lost an insert race against a concurrent registration.
		stored, err = s.repo.FindByAddress(ctx, address)
	}
	if err != nil {
		if errors.Is(err, domain.ErrAccountExists) {
			return nil, s.conflict(in, address)
		}
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultError).Inc()
		s.logger.Error().Err(err).Str("address", address).Msg("failed to store account")
		return nil, fmt.Errorf("register account: %w", err)
	}

	if !created && !signed {
		return nil, s.conflict(in, address)
	}

	result := &ports.RegisterResult{
		ID:      stored.ID,
		Address: stored.Address,
		Created: created,
	}

	if signed {
		user := stored.User
		if user == "" {
			user = in.User
		}
		token, err := s.tokens.Issue(stored.Address, user)
		if err != nil {
			metrics.RegistrationsTotal.WithLabelValues(metrics.ResultError).Inc()
			s.logger.Error().Err(err).Str("address", address).Msg("failed to issue token")
			return nil, fmt.Errorf("issue token: %w", err)
		}
		result.Token = token
		metrics.TokensIssuedTotal.Inc()
	}

	kind := domain.AuditCreated
	outcome := metrics.ResultCreated
	if !created {
		kind = domain.AuditSignedIn
		outcome = metrics.ResultSignedIn
	}
	metrics.RegistrationsTotal.WithLabelValues(outcome).Inc()
	s.record(in, address, kind)

	s.logger.Info().
		Str("address", stored.Address).
		Str("id", stored.ID).
		Bool("created", created).
		Bool("signed", signed).
		Msg("account registered")

	return result, nil
}

// ListAccounts returns every registered account in datastore order.
func (s *AccountService) ListAccounts(ctx context.Context) ([]ports.AccountSummary, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list accounts")
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	out := make([]ports.AccountSummary, len(accounts))
	for i, a := range accounts {
		out[i] = ports.AccountSummary{ID: a.ID, Address: a.Address}
	}
	return out, nil
}

// GetAccount returns the account registered for address.
func (s *AccountService) GetAccount(ctx context.Context, address string) (*domain.Account, error) {
	normalized, err := domain.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByAddress(ctx, normalized)
}

// IssueNonce creates a single-use challenge for a signed registration of address.
func (s *AccountService) IssueNonce(ctx context.Context, address string) (*ports.NonceResult, error) {
	normalized, err := domain.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}
	if !domain.IsHexAddress(normalized) {
		return nil, &domain.ValidationError{Field: "address", Reason: "must be a 0x-prefixed wallet address"}
	}

	nonce := uuid.NewString()
	if err := s.nonces.Put(ctx, normalized, nonce, s.nonceTTL); err != nil {
		s.logger.Error().Err(err).Str("address", normalized).Msg("failed to store nonce")
		return nil, fmt.Errorf("issue nonce: %w", err)
	}
	metrics.NoncesIssuedTotal.Inc()

	return &ports.NonceResult{
		Address:   normalized,
		Nonce:     nonce,
		Message:   domain.ChallengeMessage(s.appName, normalized, nonce),
		ExpiresAt: s.now().Add(s.nonceTTL),
	}, nil
}

func (s *AccountService) validate(in ports.RegisterInput) (string, error) {
	address, err := domain.NormalizeAddress(in.Address)
	if err != nil {
		return "", err
	}
	if !in.Signed() {
		return address, nil
	}
	if in.User == "" {
		return "", &domain.ValidationError{Field: "user", Reason: "is required"}
	}
	if in.SignedData == "" {
		return "", &domain.ValidationError{Field: "signedData", Reason: "is required"}
	}
	if !domain.IsHexAddress(address) {
		return "", &domain.ValidationError{Field: "address", Reason: "must be a 0x-prefixed wallet address"}
	}
	return address, nil
}

// verify consumes the outstanding nonce for address and checks that signature
// was produced by address over the matching challenge. A failed attempt burns
// the nonce.
func (s *AccountService) verify(ctx context.Context, address, signature string) (*domain.SignatureProof, error) {
	nonce, err := s.nonces.Consume(ctx, address)
	if err != nil {
		if errors.Is(err, domain.ErrNonceNotFound) {
			metrics.SignatureVerificationsTotal.WithLabelValues("nonce_missing").Inc()
			return nil, err
		}
		s.logger.Error().Err(err).Str("address", address).Msg("failed to consume nonce")
		return nil, fmt.Errorf("consume nonce: %w", err)
	}

	message := domain.ChallengeMessage(s.appName, address, nonce)
	signer, err := s.verifier.RecoverAddress(message, signature)
	if err != nil {
		metrics.SignatureVerificationsTotal.WithLabelValues("malformed").Inc()
		return nil, fmt.Errorf("%w: %w", domain.ErrAuth, err)
	}
	if signer != address {
		metrics.SignatureVerificationsTotal.WithLabelValues("mismatch").Inc()
		s.logger.Warn().Str("address", address).Str("signer", signer).Msg("signature mismatch")
		return nil, domain.ErrSignatureMismatch
	}
	metrics.SignatureVerificationsTotal.WithLabelValues("valid").Inc()

	return &domain.SignatureProof{
		Signer:     signer,
		Message:    message,
		Signature:  signature,
		VerifiedAt: s.now(),
	}, nil
}

func (s *AccountService) conflict(in ports.RegisterInput, address string) error {
	metrics.RegistrationsTotal.WithLabelValues(metrics.ResultConflict).Inc()
	s.record(in, address, domain.AuditConflict)
	s.logger.Debug().Str("address", address).Msg("account already exists")
	return domain.ErrAccountExists
}

func (s *AccountService) record(in ports.RegisterInput, address string, kind domain.AuditKind) {
	s.audit.Record(domain.AuditEvent{
		Address:    address,
		Kind:       kind,
		User:       in.User,
		RequestID:  in.RequestID,
		OccurredAt: s.now(),
	})
}

type discardAudit struct{}

func (discardAudit) Record(domain.AuditEvent) {}
