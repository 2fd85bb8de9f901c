package infra

import (
	"context"
	"fmt"

	"github.com/umalmyha/customers-crud/internal/config"
	"github.com/umalmyha/customers-crud/internal/repository"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Mongodb connects to mongo, verifies connection and prepares customers indexes
func Mongodb(ctx context.Context, cfg config.MongoCfg) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI()))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo - %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("didn't get response from mongo after sending ping request - %w", err)
	}

	db := client.Database(cfg.Database)
	if err := repository.CreateMongoCustomerIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}

	return client, db, nil
}
