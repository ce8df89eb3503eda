package ports

import "github.com/walletreg/accounts-api/internal/core/domain"

// SignatureVerifier recovers the address that produced a personal_sign signature.
type SignatureVerifier interface {
	RecoverAddress(message, signature string) (string, error)
}

// TokenIssuer issues bearer tokens bound to a wallet address.
type TokenIssuer interface {
	Issue(address, user string) (string, error)
}

// AuditRecorder accepts audit events for asynchronous persistence.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}
