package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/walletreg/accounts-api/internal/core/domain"
	"github.com/walletreg/accounts-api/internal/pkg/metrics"
)

const (
	DefaultAccountsCollection = "accounts"
	addressIndexName          = "address_unique"
)

// AccountRepository implements ports.AccountRepository using MongoDB.
type AccountRepository struct {
	col     *mongo.Collection
	timeout time.Duration
	newID   func() primitive.ObjectID
}

// NewAccountRepository binds the repository to collection in db. An empty
// collection name selects DefaultAccountsCollection.
func NewAccountRepository(db *mongo.Database, collection string, timeout time.Duration) *AccountRepository {
	if collection == "" {
		collection = DefaultAccountsCollection
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &AccountRepository{
		col:     db.Collection(collection),
		timeout: timeout,
		newID:   primitive.NewObjectID,
	}
}

type mongoSignatureProof struct {
	Signer     string    `bson:"signer"`
	Message    string    `bson:"message"`
	Signature  string    `bson:"signature"`
	VerifiedAt time.Time `bson:"verified_at"`
}

type mongoAccount struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty"`
	Address        string               `bson:"address"`
	User           string               `bson:"user,omitempty"`
	SignatureProof *mongoSignatureProof `bson:"signatureProof,omitempty"`
	CreatedAt      time.Time            `bson:"created_at,omitempty"`
}

// InsertIfAbsent upserts with $setOnInsert so that the existence check and the
// write are one atomic operation. The unique index on address turns a lost
// race into a duplicate-key error, reported as domain.ErrAccountExists.
func (r *AccountRepository) InsertIfAbsent(ctx context.Context, account *domain.Account) (*domain.Account, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	defer observe("insert_if_absent", time.Now())

	doc := toDocument(account)
	doc.ID = r.newID()

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var stored mongoAccount
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"address": account.Address},
		bson.M{"$setOnInsert": doc},
		opts,
	).Decode(&stored)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, false, domain.ErrAccountExists
		}
		return nil, false, fmt.Errorf("%w: upsert account: %w", domain.ErrStorage, err)
	}

	return stored.toDomain(), stored.ID == doc.ID, nil
}

// FindByAddress retrieves an account by its normalised address.
func (r *AccountRepository) FindByAddress(ctx context.Context, address string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	defer observe("find_by_address", time.Now())

	var doc mongoAccount
	if err := r.col.FindOne(ctx, bson.M{"address": address}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("%w: find account: %w", domain.ErrStorage, err)
	}
	return doc.toDomain(), nil
}

// List returns every account projected to _id and address.
func (r *AccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	defer observe("list", time.Now())

	opts := options.Find().SetProjection(bson.D{{Key: "_id", Value: 1}, {Key: "address", Value: 1}})
	cur, err := r.col.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: find accounts: %w", domain.ErrStorage, err)
	}
	defer cur.Close(ctx)

	var docs []mongoAccount
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: decode accounts: %w", domain.ErrStorage, err)
	}

	out := make([]*domain.Account, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, nil
}

// Count returns the collection size from metadata; it is cheap but may lag
// behind in-flight writes.
func (r *AccountRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	defer observe("count", time.Now())

	n, err := r.col.EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: count accounts: %w", domain.ErrStorage, err)
	}
	return n, nil
}

// EnsureIndexes creates the unique address index backing InsertIfAbsent.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "address", Value: 1}},
		Options: options.Index().SetUnique(true).SetName(addressIndexName),
	})
	if err != nil {
		return fmt.Errorf("create address index: %w", err)
	}
	return nil
}

func toDocument(a *domain.Account) mongoAccount {
	doc := mongoAccount{
		Address:   a.Address,
		User:      a.User,
		CreatedAt: a.CreatedAt.UTC(),
	}
	if p := a.SignatureProof; p != nil {
		doc.SignatureProof = &mongoSignatureProof{
			Signer:     p.Signer,
			Message:    p.Message,
			Signature:  p.Signature,
			VerifiedAt: p.VerifiedAt.UTC(),
		}
	}
	return doc
}

func (d mongoAccount) toDomain() *domain.Account {
	a := &domain.Account{
		ID:        d.ID.Hex(),
		Address:   d.Address,
		User:      d.User,
		CreatedAt: d.CreatedAt,
	}
	if p := d.SignatureProof; p != nil {
		a.SignatureProof = &domain.SignatureProof{
			Signer:     p.Signer,
			Message:    p.Message,
			Signature:  p.Signature,
			VerifiedAt: p.VerifiedAt,
		}
	}
	return a
}

func observe(operation string, start time.Time) {
	metrics.StorageOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
