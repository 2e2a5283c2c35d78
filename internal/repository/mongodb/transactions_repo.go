// Package mongodb stores transactions and accounts in MongoDB collections.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/baharkarakas/finflow-backend/internal/db"
	"github.com/baharkarakas/finflow-backend/internal/models"
	"github.com/baharkarakas/finflow-backend/internal/query"
	"github.com/baharkarakas/finflow-backend/internal/repository"
)

const (
	TransactionsCollection = "transactions"
	AccountsCollection     = "accounts"
	UsersCollection        = "users"
)

// collection is the subset of *mongo.Collection the repositories use.
type collection interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
}

// collectionFunc resolves a collection on demand so the connection is opened
// on first use rather than at construction.
type collectionFunc func(ctx context.Context) (collection, error)

func fromHandle(h *db.Handle[*mongo.Database], name string) collectionFunc {
	return func(ctx context.Context) (collection, error) {
		d, err := h.Get(ctx)
		if err != nil {
			return nil, err
		}
		return d.Collection(name), nil
	}
}

type transactionsRepo struct {
	coll collectionFunc
	now  func() time.Time
}

func (r *transactionsRepo) Query(ctx context.Context, c query.Criteria, w repository.Window) ([]models.Transaction, error) {
	coll, err := r.coll(ctx)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(sortNewestFirst)
	if w.Skip > 0 {
		opts.SetSkip(int64(w.Skip))
	}
	if w.Limit > 0 {
		opts.SetLimit(int64(w.Limit))
	}
	cur, err := coll.Find(ctx, buildFilter(c), opts)
	if err != nil {
		return nil, fmt.Errorf("find transactions: %w", err)
	}
	defer cur.Close(ctx)

	var docs []transactionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}
	out := make([]models.Transaction, 0, len(docs))
	for _, d := range docs {
		tx, err := d.model()
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, nil
}

func (r *transactionsRepo) Count(ctx context.Context, c query.Criteria) (int, error) {
	coll, err := r.coll(ctx)
	if err != nil {
		return 0, err
	}
	n, err := coll.CountDocuments(ctx, buildFilter(c))
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return int(n), nil
}

func (r *transactionsRepo) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	coll, err := r.coll(ctx)
	if err != nil {
		return nil, err
	}
	var d transactionDoc
	if err := coll.FindOne(ctx, bson.M{"id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find transaction %s: %w", id, err)
	}
	tx, err := d.model()
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *transactionsRepo) Create(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return models.Transaction{}, err
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	now := r.now().UTC()
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = now
	}
	if tx.UpdatedAt.IsZero() {
		tx.UpdatedAt = tx.CreatedAt
	}
	d, err := toTransactionDoc(tx)
	if err != nil {
		return models.Transaction{}, err
	}
	coll, err := r.coll(ctx)
	if err != nil {
		return models.Transaction{}, err
	}
	if _, err := coll.InsertOne(ctx, d); err != nil {
		return models.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	return tx, nil
}

func (r *transactionsRepo) UpdateStatus(ctx context.Context, id string, status models.TransactionStatus) error {
	coll, err := r.coll(ctx)
	if err != nil {
		return err
	}
	res, err := coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"status": string(status), "updatedAt": r.now().UTC()}})
	if err != nil {
		return fmt.Errorf("update transaction %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.Transactions = (*transactionsRepo)(nil)
