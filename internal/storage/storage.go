// Package storage opens the token store selected in configuration.
package storage

import (
	"context"
	"fmt"

	"github.com/nkiryanov/reqtoken/internal/apperrors"
	"github.com/nkiryanov/reqtoken/internal/db"
	"github.com/nkiryanov/reqtoken/internal/logger"
	"github.com/nkiryanov/reqtoken/internal/repository"
	"github.com/nkiryanov/reqtoken/internal/repository/badgerdb"
	"github.com/nkiryanov/reqtoken/internal/repository/dynamo"
	"github.com/nkiryanov/reqtoken/internal/repository/postgres"
)

const (
	BackendPostgres = "postgres"
	BackendDynamoDB = "dynamodb"
	BackendBadger   = "badger"
)

// Backends lists supported backend names
var Backends = []string{BackendPostgres, BackendDynamoDB, BackendBadger}

type Config struct {
	Backend string
	Table   string

	// postgres
	DatabaseDSN string

	// badger
	BadgerDir string

	// dynamodb
	AWSRegion          string
	DynamoEndpoint     string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
}

// Open token storage
// Caller owns the storage and has to Close it
func Open(ctx context.Context, cfg Config, l logger.Logger) (repository.Storage, error) {
	l = l.With("store", cfg.Backend)

	switch cfg.Backend {
	case BackendPostgres:
		pool, err := db.ConnectAndMigrate(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
		}
		l.Info("token store opened")
		return postgres.NewStorage(pool), nil

	case BackendDynamoDB:
		s, err := dynamo.Open(ctx, dynamo.Config{
			Table:           cfg.Table,
			Region:          cfg.AWSRegion,
			Endpoint:        cfg.DynamoEndpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
		if err != nil {
			return nil, err
		}
		l.Info("token store opened", "table", cfg.Table, "region", cfg.AWSRegion)
		return s, nil

	case BackendBadger:
		s, err := badgerdb.Open(badgerdb.Config{Dir: cfg.BadgerDir, Table: cfg.Table}, l)
		if err != nil {
			return nil, err
		}
		l.Info("token store opened", "dir", cfg.BadgerDir, "in_memory", cfg.BadgerDir == "")
		return s, nil

	default:
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownStore, cfg.Backend)
	}
}
