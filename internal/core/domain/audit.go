package domain

import "time"

// AuditKind classifies the outcome of a registration attempt.
type AuditKind string

const (
	AuditCreated  AuditKind = "created"
	AuditConflict AuditKind = "conflict"
	AuditSignedIn AuditKind = "signed_in"
)

// AuditEvent is an append-only record of a registration attempt.
type AuditEvent struct {
	Address    string
	Kind       AuditKind
	User       string
	RequestID  string
	OccurredAt time.Time
}
