// Package ethereum recovers wallet addresses from EIP-191 personal_sign
// signatures.
package ethereum

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/sha3"
)

var ErrMalformedSignature = errors.New("malformed signature")

// Verifier implements ports.SignatureVerifier for Ethereum wallets.
type Verifier struct{}

func NewVerifier() *Verifier {
	return &Verifier{}
}

// RecoverAddress returns the EIP-55 address whose key signed message with
// personal_sign. Both 27/28 and 0/1 recovery ids are accepted.
func (v *Verifier) RecoverAddress(message, signature string) (string, error) {
	sig, err := decodeSignature(signature)
	if err != nil {
		return "", err
	}

	pub, err := crypto.SigToPub(TextHash([]byte(message)), sig)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedSignature, err)
	}
	return crypto.PubkeyToAddress(*pub).Hex(), nil
}

// TextHash computes keccak256("\x19Ethereum Signed Message:\n" + len(msg) + msg).
func TextHash(msg []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	_, _ = fmt.Fprintf(h, "\x19Ethereum Signed Message:\n%d", len(msg))
	_, _ = h.Write(msg)
	return h.Sum(nil)
}

func decodeSignature(signature string) ([]byte, error) {
	s := strings.TrimSpace(signature)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	sig, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSignature, err)
	}
	if len(sig) != crypto.SignatureLength {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrMalformedSignature, crypto.SignatureLength, len(sig))
	}

	// Wallets emit v as 27/28; SigToPub expects 0/1.
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}
	if sig[crypto.RecoveryIDOffset] > 1 {
		return nil, fmt.Errorf("%w: invalid recovery id", ErrMalformedSignature)
	}
	return sig, nil
}
