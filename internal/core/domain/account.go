package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// SignatureProof records how ownership of an address was proven at registration.
type SignatureProof struct {
	Signer     string    `json:"signer"`
	Message    string    `json:"message"`
	Signature  string    `json:"signature"`
	VerifiedAt time.Time `json:"verified_at"`
}

// Account is a registered wallet address. It is created once and never updated.
type Account struct {
	ID             string          `json:"_id"`
	Address        string          `json:"address"`
	User           string          `json:"user,omitempty"`
	SignatureProof *SignatureProof `json:"signatureProof,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// NormalizeAddress trims the raw address and rewrites hex wallet addresses to
// their EIP-55 checksum form, so case variants of one wallet map to one key.
// Any other non-empty value is returned verbatim.
func NormalizeAddress(raw string) (string, error) {
	addr := strings.TrimSpace(raw)
	if addr == "" {
		return "", &ValidationError{Field: "address", Reason: "is required"}
	}
	if IsHexAddress(addr) {
		return common.HexToAddress(addr).Hex(), nil
	}
	return addr, nil
}

// IsHexAddress reports whether addr is a 0x-prefixed 20-byte hex address.
func IsHexAddress(addr string) bool {
	return common.IsHexAddress(addr) && (strings.HasPrefix(addr, "0x") || strings.HasPrefix(addr, "0X"))
}

// ChallengeMessage is the exact text a wallet signs to prove it owns address.
func ChallengeMessage(appName, address, nonce string) string {
	return fmt.Sprintf("Sign in to %s\naddress: %s\nnonce: %s", appName, address, nonce)
}
