package dynamo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/baharkarakas/finflow-backend/internal/models"
	"github.com/baharkarakas/finflow-backend/internal/repository"
)

type addressItem struct {
	Street  string `dynamodbav:"street,omitempty"`
	City    string `dynamodbav:"city,omitempty"`
	State   string `dynamodbav:"state,omitempty"`
	ZipCode string `dynamodbav:"zipCode,omitempty"`
	Country string `dynamodbav:"country,omitempty"`
}

type userItem struct {
	ID         string       `dynamodbav:"id"`
	Name       string       `dynamodbav:"name"`
	Email      string       `dynamodbav:"email"`
	Role       string       `dynamodbav:"role"`
	ProfileURL string       `dynamodbav:"profileUrl,omitempty"`
	Phone      string       `dynamodbav:"phone,omitempty"`
	Address    *addressItem `dynamodbav:"address,omitempty"`
	CreatedAt  string       `dynamodbav:"createdAt"`
	UpdatedAt  string       `dynamodbav:"updatedAt"`
}

func toUserItem(u models.User) userItem {
	it := userItem{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       string(u.Role),
		ProfileURL: u.ProfileURL,
		Phone:      u.Phone,
		CreatedAt:  formatTime(u.CreatedAt),
		UpdatedAt:  formatTime(u.UpdatedAt),
	}
	if u.Address != nil {
		a := addressItem(*u.Address)
		it.Address = &a
	}
	return it
}

func (it userItem) model() (models.User, error) {
	u := models.User{
		ID:         it.ID,
		Name:       it.Name,
		Email:      it.Email,
		Role:       models.UserRole(it.Role),
		ProfileURL: it.ProfileURL,
		Phone:      it.Phone,
	}
	if it.Address != nil {
		a := models.Address(*it.Address)
		u.Address = &a
	}
	var err error
	if u.CreatedAt, err = parseTime(it.CreatedAt); err != nil {
		return models.User{}, fmt.Errorf("user %s createdAt: %w", it.ID, err)
	}
	if u.UpdatedAt, err = parseTime(it.UpdatedAt); err != nil {
		return models.User{}, fmt.Errorf("user %s updatedAt: %w", it.ID, err)
	}
	return u, nil
}

type usersRepo struct {
	client clientFunc
	table  string
	now    func() time.Time
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	api, err := r.client(ctx)
	if err != nil {
		return nil, err
	}
	out, err := api.GetItem(ctx, &dynamodb.GetItemInput{TableName: aws.String(r.table), Key: idKey(id)})
	if err != nil {
		return nil, fmt.Errorf("GetItem operation failed: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	return decodeUser(out.Item)
}

// GetByEmail scans; the table is keyed by id only.
func (r *usersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	api, err := r.client(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := scanAll(ctx, api, &dynamodb.ScanInput{
		TableName:        aws.String(r.table),
		FilterExpression: aws.String("email = :email"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":email": &types.AttributeValueMemberS{Value: models.NormalizeEmail(email)},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	return decodeUser(raw[0])
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
	item, err := attributevalue.MarshalMap(toUserItem(u))
	if err != nil {
		return models.User{}, fmt.Errorf("failed to marshal user: %w", err)
	}
	api, err := r.client(ctx)
	if err != nil {
		return models.User{}, err
	}
	_, err = api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return models.User{}, fmt.Errorf("PutItem operation failed: %w", err)
	}
	return u, nil
}

func (r *usersRepo) Update(ctx context.Context, id string, u models.UserUpdate) (*models.User, error) {
	if u.Email != nil {
		owner, err := r.GetByEmail(ctx, *u.Email)
		if err != nil {
			return nil, err
		}
		if owner != nil && owner.ID != id {
			return nil, fmt.Errorf("email %s already registered", models.NormalizeEmail(*u.Email))
		}
	}
	expr, names, values, err := buildUserUpdate(u, r.now())
	if err != nil {
		return nil, err
	}
	api, err := r.client(ctx)
	if err != nil {
		return nil, err
	}
	out, err := api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.table),
		Key:                       idKey(id),
		ConditionExpression:       aws.String("attribute_exists(id)"),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if isConditionFailed(err) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("UpdateItem operation failed: %w", err)
	}
	return decodeUser(out.Attributes)
}

// buildUserUpdate renders a SET expression; "name" is a reserved word, so
// every attribute goes through a #name placeholder.
func buildUserUpdate(u models.UserUpdate, now time.Time) (string, map[string]string, map[string]types.AttributeValue, error) {
	var parts []string
	names := map[string]string{}
	values := map[string]types.AttributeValue{}
	set := func(attr string, v types.AttributeValue) {
		names["#"+attr] = attr
		values[":"+attr] = v
		parts = append(parts, "#"+attr+" = :"+attr)
	}
	s := func(v string) types.AttributeValue { return &types.AttributeValueMemberS{Value: v} }

	if u.Name != nil {
		set("name", s(strings.TrimSpace(*u.Name)))
	}
	if u.Email != nil {
		set("email", s(models.NormalizeEmail(*u.Email)))
	}
	if u.ProfileURL != nil {
		set("profileUrl", s(*u.ProfileURL))
	}
	if u.Phone != nil {
		set("phone", s(*u.Phone))
	}
	if u.Address != nil {
		av, err := attributevalue.Marshal(addressItem(*u.Address))
		if err != nil {
			return "", nil, nil, fmt.Errorf("failed to marshal address: %w", err)
		}
		set("address", av)
	}
	set("updatedAt", s(formatTime(now)))
	return "SET " + strings.Join(parts, ", "), names, values, nil
}

func decodeUser(item map[string]types.AttributeValue) (*models.User, error) {
	var it userItem
	if err := attributevalue.UnmarshalMap(item, &it); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	u, err := it.model()
	if err != nil {
		return nil, err
	}
	return &u, nil
}

var _ repository.Users = (*usersRepo)(nil)
