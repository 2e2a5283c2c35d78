package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/baharkarakas/finflow-backend/internal/models"
	"github.com/baharkarakas/finflow-backend/internal/repository"
)

type addressDoc struct {
	Street  string `bson:"street,omitempty"`
	City    string `bson:"city,omitempty"`
	State   string `bson:"state,omitempty"`
	ZipCode string `bson:"zipCode,omitempty"`
	Country string `bson:"country,omitempty"`
}

type userDoc struct {
	ID         string      `bson:"id"`
	Name       string      `bson:"name"`
	Email      string      `bson:"email"`
	Role       string      `bson:"role"`
	ProfileURL string      `bson:"profileUrl,omitempty"`
	Phone      string      `bson:"phone,omitempty"`
	Address    *addressDoc `bson:"address,omitempty"`
	CreatedAt  time.Time   `bson:"createdAt"`
	UpdatedAt  time.Time   `bson:"updatedAt"`
}

func toAddressDoc(a *models.Address) *addressDoc {
	if a == nil {
		return nil
	}
	d := addressDoc(*a)
	return &d
}

func toUserDoc(u models.User) userDoc {
	return userDoc{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       string(u.Role),
		ProfileURL: u.ProfileURL,
		Phone:      u.Phone,
		Address:    toAddressDoc(u.Address),
		CreatedAt:  u.CreatedAt.UTC(),
		UpdatedAt:  u.UpdatedAt.UTC(),
	}
}

func (d userDoc) model() models.User {
	u := models.User{
		ID:         d.ID,
		Name:       d.Name,
		Email:      d.Email,
		Role:       models.UserRole(d.Role),
		ProfileURL: d.ProfileURL,
		Phone:      d.Phone,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
	if d.Address != nil {
		a := models.Address(*d.Address)
		u.Address = &a
	}
	return u
}

type usersRepo struct {
	coll collectionFunc
	now  func() time.Time
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": models.NormalizeEmail(email)})
}

func (r *usersRepo) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	coll, err := r.coll(ctx)
	if err != nil {
		return nil, err
	}
	var d userDoc
	if err := coll.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	u := d.model()
	return &u, nil
}

func (r *usersRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	if err := u.Validate(); err != nil {
		return models.User{}, err
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = r.now().UTC()
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}
	if taken, err := r.GetByEmail(ctx, u.Email); err != nil {
		return models.User{}, err
	} else if taken != nil {
		return models.User{}, fmt.Errorf("email %s already registered", u.Email)
	}
	coll, err := r.coll(ctx)
	if err != nil {
		return models.User{}, err
	}
	if _, err := coll.InsertOne(ctx, toUserDoc(u)); err != nil {
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (r *usersRepo) Update(ctx context.Context, id string, u models.UserUpdate) (*models.User, error) {
	set := userSet(u, r.now().UTC())
	if email, ok := set["email"].(string); ok {
		owner, err := r.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if owner != nil && owner.ID != id {
			return nil, fmt.Errorf("email %s already registered", email)
		}
	}
	coll, err := r.coll(ctx)
	if err != nil {
		return nil, err
	}
	res, err := coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// userSet builds the $set document for the fields present in u.
func userSet(u models.UserUpdate, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if u.Name != nil {
		set["name"] = strings.TrimSpace(*u.Name)
	}
	if u.Email != nil {
		set["email"] = models.NormalizeEmail(*u.Email)
	}
	if u.ProfileURL != nil {
		set["profileUrl"] = *u.ProfileURL
	}
	if u.Phone != nil {
		set["phone"] = *u.Phone
	}
	if u.Address != nil {
		set["address"] = toAddressDoc(u.Address)
	}
	return set
}

var _ repository.Users = (*usersRepo)(nil)
