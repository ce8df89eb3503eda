// Package token issues and parses the HS256 bearer tokens handed to wallets
// after a signed registration.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/walletreg/accounts-api/internal/core/domain"
)

const defaultTTL = 24 * time.Hour

// Claims binds a token to a wallet address (the subject) and an optional user.
type Claims struct {
	User string `json:"user,omitempty"`
	jwt.RegisteredClaims
}

// Issuer signs and validates tokens with a shared secret.
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer creates an Issuer. An empty secret is accepted so the service can
// start; Issue then fails with domain.ErrTokenSigning.
func NewIssuer(secret, issuer string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Issuer{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue returns a signed token for address.
func (i *Issuer) Issue(address, user string) (string, error) {
	if len(i.secret) == 0 {
		return "", domain.ErrTokenSigning
	}

	now := i.now()
	claims := Claims{
		User: user,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   address,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTokenSigning, err)
	}
	return signed, nil
}

// Parse validates tokenString and returns its claims. Any failure is reported
// as domain.ErrAuth.
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	if len(i.secret) == 0 {
		return nil, domain.ErrTokenSigning
	}

	claims := &Claims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}

	tkn, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAuth, err)
	}
	if !tkn.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("%w: invalid token", domain.ErrAuth)
	}
	return claims, nil
}
