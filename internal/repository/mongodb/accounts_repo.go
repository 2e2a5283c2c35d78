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

	"github.com/baharkarakas/finflow-backend/internal/models"
	"github.com/baharkarakas/finflow-backend/internal/repository"
)

type accountsRepo struct {
	coll collectionFunc
	now  func() time.Time
}

func (r *accountsRepo) ListByUser(ctx context.Context, userID string) ([]models.Account, error) {
	coll, err := r.coll(ctx)
	if err != nil {
		return nil, err
	}
	cur, err := coll.Find(ctx, bson.M{"userId": userID}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find accounts: %w", err)
	}
	defer cur.Close(ctx)

	var docs []accountDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}
	out := make([]models.Account, 0, len(docs))
	for _, d := range docs {
		a, err := d.model()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *accountsRepo) GetByID(ctx context.Context, id string) (*models.Account, error) {
	coll, err := r.coll(ctx)
	if err != nil {
		return nil, err
	}
	var d accountDoc
	if err := coll.FindOne(ctx, bson.M{"id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find account %s: %w", id, err)
	}
	a, err := d.model()
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *accountsRepo) Create(ctx context.Context, a models.Account) (models.Account, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	d, err := toAccountDoc(a)
	if err != nil {
		return models.Account{}, err
	}
	coll, err := r.coll(ctx)
	if err != nil {
		return models.Account{}, err
	}
	if _, err := coll.InsertOne(ctx, d); err != nil {
		return models.Account{}, fmt.Errorf("insert account: %w", err)
	}
	return a, nil
}

func (r *accountsRepo) Update(ctx context.Context, id string, u models.AccountUpdate) (*models.Account, error) {
	set, err := accountSet(u, r.now().UTC())
	if err != nil {
		return nil, err
	}
	coll, err := r.coll(ctx)
	if err != nil {
		return nil, err
	}
	res, err := coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("update account %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// accountSet builds the $set document for the fields present in u.
func accountSet(u models.AccountUpdate, now time.Time) (bson.M, error) {
	set := bson.M{"updatedAt": now}
	if u.AccountType != nil {
		set["accountType"] = string(*u.AccountType)
	}
	if u.Balance != nil {
		v, err := toDecimal128(*u.Balance)
		if err != nil {
			return nil, err
		}
		set["balance"] = v
	}
	if u.Currency != nil {
		set["currency"] = *u.Currency
	}
	if u.Status != nil {
		set["status"] = string(*u.Status)
	}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.IsDefault != nil {
		set["isDefault"] = *u.IsDefault
	}
	if u.InterestRate != nil {
		v, err := toDecimal128(*u.InterestRate)
		if err != nil {
			return nil, err
		}
		set["interestRate"] = v
	}
	if u.MinimumBalance != nil {
		v, err := toDecimal128(*u.MinimumBalance)
		if err != nil {
			return nil, err
		}
		set["minimumBalance"] = v
	}
	return set, nil
}

var _ repository.Accounts = (*accountsRepo)(nil)
