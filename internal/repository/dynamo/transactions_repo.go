// Package dynamo stores transactions and accounts in DynamoDB tables keyed by id.
// Filters are pushed down as Scan filter expressions; ordering and paging
// happen client side because a Scan has no sort order.
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/baharkarakas/finflow-backend/internal/models"
	"github.com/baharkarakas/finflow-backend/internal/query"
	"github.com/baharkarakas/finflow-backend/internal/repository"
)

// API is the subset of *dynamodb.Client the repositories call.
type API interface {
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

type clientFunc func(ctx context.Context) (API, error)

type transactionsRepo struct {
	client clientFunc
	table  string
	now    func() time.Time
}

// scanAll follows LastEvaluatedKey until the table is exhausted.
func scanAll(ctx context.Context, api API, in *dynamodb.ScanInput) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	for {
		out, err := api.Scan(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("Scan operation failed: %w", err)
		}
		items = append(items, out.Items...)
		if len(out.LastEvaluatedKey) == 0 {
			return items, nil
		}
		in.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

func (r *transactionsRepo) scanInput(c query.Criteria) *dynamodb.ScanInput {
	f := buildFilter(c)
	in := &dynamodb.ScanInput{TableName: aws.String(r.table)}
	if f.Expr != "" {
		in.FilterExpression = aws.String(f.Expr)
		in.ExpressionAttributeNames = f.Names
		in.ExpressionAttributeValues = f.Values
	}
	return in
}

func (r *transactionsRepo) Query(ctx context.Context, c query.Criteria, w repository.Window) ([]models.Transaction, error) {
	api, err := r.client(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := scanAll(ctx, api, r.scanInput(c))
	if err != nil {
		return nil, err
	}
	var items []transactionItem
	if err := attributevalue.UnmarshalListOfMaps(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transactions: %w", err)
	}
	txs := make([]models.Transaction, 0, len(items))
	for _, it := range items {
		tx, err := it.model()
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	// Scan order is arbitrary; creation time then id stand in for insertion order.
	sort.SliceStable(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date) {
			return txs[i].Date.After(txs[j].Date)
		}
		if !txs[i].CreatedAt.Equal(txs[j].CreatedAt) {
			return txs[i].CreatedAt.Before(txs[j].CreatedAt)
		}
		return txs[i].ID < txs[j].ID
	})
	return query.Window(txs, w.Skip, w.Limit), nil
}

func (r *transactionsRepo) Count(ctx context.Context, c query.Criteria) (int, error) {
	api, err := r.client(ctx)
	if err != nil {
		return 0, err
	}
	in := r.scanInput(c)
	in.Select = types.SelectCount
	n := 0
	for {
		out, err := api.Scan(ctx, in)
		if err != nil {
			return 0, fmt.Errorf("Scan operation failed: %w", err)
		}
		n += int(out.Count)
		if len(out.LastEvaluatedKey) == 0 {
			return n, nil
		}
		in.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

func (r *transactionsRepo) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	api, err := r.client(ctx)
	if err != nil {
		return nil, err
	}
	out, err := api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       idKey(id),
	})
	if err != nil {
		return nil, fmt.Errorf("GetItem operation failed: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var it transactionItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transaction: %w", err)
	}
	tx, err := it.model()
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
	item, err := attributevalue.MarshalMap(toTransactionItem(tx))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("failed to marshal transaction: %w", err)
	}
	api, err := r.client(ctx)
	if err != nil {
		return models.Transaction{}, err
	}
	_, err = api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return models.Transaction{}, fmt.Errorf("PutItem operation failed: %w", err)
	}
	return tx, nil
}

func (r *transactionsRepo) UpdateStatus(ctx context.Context, id string, status models.TransactionStatus) error {
	api, err := r.client(ctx)
	if err != nil {
		return err
	}
	_, err = api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                aws.String(r.table),
		Key:                      idKey(id),
		ConditionExpression:      aws.String("attribute_exists(id)"),
		UpdateExpression:         aws.String("SET #status = :status, updatedAt = :updatedAt"),
		ExpressionAttributeNames: map[string]string{"#status": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status":    &types.AttributeValueMemberS{Value: string(status)},
			":updatedAt": &types.AttributeValueMemberS{Value: formatTime(r.now())},
		},
	})
	if isConditionFailed(err) {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("UpdateItem operation failed: %w", err)
	}
	return nil
}

func idKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: id}}
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

var _ repository.Transactions = (*transactionsRepo)(nil)
