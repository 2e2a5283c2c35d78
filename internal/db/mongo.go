package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	mongoConnectTimeout = 10 * time.Second
	mongoSocketTimeout  = 45 * time.Second
)

// OpenMongo connects, selects dbName and pings it before returning.
func OpenMongo(ctx context.Context, uri, dbName string) (*mongo.Database, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1)).
		SetConnectTimeout(mongoConnectTimeout).
		SetSocketTimeout(mongoSocketTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()
	database := client.Database(dbName)
	if err := database.RunCommand(pingCtx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return database, nil
}

func NewMongo(uri, dbName string) *Handle[*mongo.Database] {
	return NewHandle(func(ctx context.Context) (*mongo.Database, error) {
		return OpenMongo(ctx, uri, dbName)
	}, func(d *mongo.Database) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = d.Client().Disconnect(ctx)
	})
}
