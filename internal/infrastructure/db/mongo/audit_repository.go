package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/walletreg/accounts-api/internal/core/domain"
)

const collectionAccountEvents = "account_events"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	col     *mongo.Collection
	timeout time.Duration
}

func NewAuditRepository(db *mongo.Database, timeout time.Duration) *AuditRepository {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &AuditRepository{col: db.Collection(collectionAccountEvents), timeout: timeout}
}

// InsertEvent appends an event to the account_events audit collection.
func (r *AuditRepository) InsertEvent(ctx context.Context, event *domain.AuditEvent) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	defer observe("insert_event", time.Now())

	doc := bson.M{
		"address":     event.Address,
		"kind":        string(event.Kind),
		"occurred_at": event.OccurredAt.UTC(),
	}
	if event.User != "" {
		doc["user"] = event.User
	}
	if event.RequestID != "" {
		doc["request_id"] = event.RequestID
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("%w: insert audit event: %w", domain.ErrStorage, err)
	}
	return nil
}
