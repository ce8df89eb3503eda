package ports

import (
	"context"

	"github.com/walletreg/accounts-api/internal/core/domain"
)

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	// InsertIfAbsent atomically stores account unless its address is already
	// registered. It returns the stored record and whether this call created it.
	InsertIfAbsent(ctx context.Context, account *domain.Account) (*domain.Account, bool, error)
	FindByAddress(ctx context.Context, address string) (*domain.Account, error)
	// List returns every account projected to its ID and address, in the
	// datastore's natural order.
	List(ctx context.Context) ([]*domain.Account, error)
	Count(ctx context.Context) (int64, error)
}

// AuditRepository persists registration audit events.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuditEvent) error
}
