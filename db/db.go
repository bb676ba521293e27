package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Connect открывает соединение с Mongo и проверяет его пингом с таймаутом.
func Connect(uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetMaxPoolSize(25))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		if discErr := client.Disconnect(context.Background()); discErr != nil {
			fmt.Printf("failed to disconnect mongo client after ping error: %v\n", discErr)
		}
		return nil, fmt.Errorf("failed to ping mongo within %v: %w", timeout, err)
	}

	return client, nil
}
