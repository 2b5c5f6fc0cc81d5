package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/nkiryanov/reqtoken/internal/config"
	"github.com/nkiryanov/reqtoken/internal/lambdafn"
	"github.com/nkiryanov/reqtoken/internal/logger"
	"github.com/nkiryanov/reqtoken/internal/service/authorizer"
	"github.com/nkiryanov/reqtoken/internal/storage"
)

func main() {
	ctx := context.Background()

	// Lambda is configured with environment only
	c := config.NewConfig()
	c.LoadEnv(os.Getenv)
	if c.StoreBackend == storage.BackendPostgres && c.DatabaseDSN == "" {
		c.StoreBackend = storage.BackendDynamoDB
	}

	l, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		slog.Error("can't initialize logger", "error", err.Error())
		os.Exit(1)
	}

	if err := c.Validate(); err != nil {
		l.Error("invalid config", "error", err.Error())
		os.Exit(1)
	}

	store, err := storage.Open(ctx, c.StorageConfig(), l)
	if err != nil {
		l.Error("can't open token store", "error", err.Error())
		os.Exit(1)
	}
	defer store.Close() // nolint:errcheck

	s, err := authorizer.NewService(store, l, nil)
	if err != nil {
		l.Error("can't initialize authorizer", "error", err.Error())
		os.Exit(1)
	}

	lambda.Start(lambdafn.NewAuthorizer(s).Handle)
}
