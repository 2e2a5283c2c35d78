package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/baharkarakas/finflow-backend/internal/db"
	"github.com/baharkarakas/finflow-backend/internal/repository"
)

type Tables struct {
	Transactions string
	Accounts     string
	Users        string
}

type pinger struct {
	client clientFunc
	table  string
}

func (p pinger) Ping(ctx context.Context) error {
	api, err := p.client(ctx)
	if err != nil {
		return err
	}
	if _, err := api.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(p.table)}); err != nil {
		return fmt.Errorf("error checking table: %w", err)
	}
	return nil
}

func NewRepositories(h *db.Handle[*dynamodb.Client], t Tables) repository.Set {
	client := func(ctx context.Context) (API, error) { return h.Get(ctx) }
	return newSet(client, t)
}

func newSet(client clientFunc, t Tables) repository.Set {
	return repository.Set{
		Transactions: &transactionsRepo{client: client, table: t.Transactions, now: time.Now},
		Accounts:     &accountsRepo{client: client, table: t.Accounts, now: time.Now},
		Users:        &usersRepo{client: client, table: t.Users, now: time.Now},
		Health:       pinger{client: client, table: t.Transactions},
	}
}
