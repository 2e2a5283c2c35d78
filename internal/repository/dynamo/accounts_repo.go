package dynamo

import (
	"context"
	"fmt"
	"sort"
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

type accountsRepo struct {
	client clientFunc
	table  string
	now    func() time.Time
}

func (r *accountsRepo) ListByUser(ctx context.Context, userID string) ([]models.Account, error) {
	api, err := r.client(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := scanAll(ctx, api, &dynamodb.ScanInput{
		TableName:        aws.String(r.table),
		FilterExpression: aws.String("userId = :userId"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":userId": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, err
	}
	var items []accountItem
	if err := attributevalue.UnmarshalListOfMaps(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal accounts: %w", err)
	}
	out := make([]models.Account, 0, len(items))
	for _, it := range items {
		a, err := it.model()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *accountsRepo) GetByID(ctx context.Context, id string) (*models.Account, error) {
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
	return decodeAccount(out.Item)
}

func (r *accountsRepo) Create(ctx context.Context, a models.Account) (models.Account, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	item, err := attributevalue.MarshalMap(toAccountItem(a))
	if err != nil {
		return models.Account{}, fmt.Errorf("failed to marshal account: %w", err)
	}
	api, err := r.client(ctx)
	if err != nil {
		return models.Account{}, err
	}
	_, err = api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return models.Account{}, fmt.Errorf("PutItem operation failed: %w", err)
	}
	return a, nil
}

func (r *accountsRepo) Update(ctx context.Context, id string, u models.AccountUpdate) (*models.Account, error) {
	api, err := r.client(ctx)
	if err != nil {
		return nil, err
	}
	expr, names, values := buildAccountUpdate(u, r.now())
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
	return decodeAccount(out.Attributes)
}

// buildAccountUpdate renders a SET expression. Every attribute goes through a
// #name placeholder since "name" and "status" are reserved words.
func buildAccountUpdate(u models.AccountUpdate, now time.Time) (string, map[string]string, map[string]types.AttributeValue) {
	var parts []string
	names := map[string]string{}
	values := map[string]types.AttributeValue{}
	set := func(attr string, v types.AttributeValue) {
		names["#"+attr] = attr
		values[":"+attr] = v
		parts = append(parts, "#"+attr+" = :"+attr)
	}
	s := func(v string) types.AttributeValue { return &types.AttributeValueMemberS{Value: v} }

	if u.AccountType != nil {
		set("accountType", s(string(*u.AccountType)))
	}
	if u.Balance != nil {
		set("balance", s(u.Balance.String()))
	}
	if u.Currency != nil {
		set("currency", s(*u.Currency))
	}
	if u.Status != nil {
		set("status", s(string(*u.Status)))
	}
	if u.Name != nil {
		set("name", s(*u.Name))
	}
	if u.IsDefault != nil {
		set("isDefault", &types.AttributeValueMemberBOOL{Value: *u.IsDefault})
	}
	if u.InterestRate != nil {
		set("interestRate", s(u.InterestRate.String()))
	}
	if u.MinimumBalance != nil {
		set("minimumBalance", s(u.MinimumBalance.String()))
	}
	set("updatedAt", s(formatTime(now)))
	return "SET " + strings.Join(parts, ", "), names, values
}

func decodeAccount(item map[string]types.AttributeValue) (*models.Account, error) {
	var it accountItem
	if err := attributevalue.UnmarshalMap(item, &it); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}
	a, err := it.model()
	if err != nil {
		return nil, err
	}
	return &a, nil
}

var _ repository.Accounts = (*accountsRepo)(nil)
