// Package config collects process settings from defaults, '.env' file, environment and flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/nkiryanov/reqtoken/internal/apperrors"
	"github.com/nkiryanov/reqtoken/internal/logger"
	"github.com/nkiryanov/reqtoken/internal/storage"
)

const (
	defaultListenAddr   = "localhost:8000"
	defaultLoggingLevel = logger.LevelInfo
	defaultEnvironment  = logger.EnvProduction
	defaultStoreBackend = storage.BackendPostgres
	defaultTableName    = "AuthO"
	defaultAWSRegion    = "us-east-1"
)

type Config struct {
	// Default logging level
	LogLevel string

	// Address on which the HTTP server will be run
	ListenAddr string

	// Environment (dev, prod)
	Environment string

	// Token store backend: postgres, dynamodb or badger
	StoreBackend string

	// Table (dynamodb) or key prefix (badger) for token records
	TableName string

	// Database to connect to
	DatabaseDSN string

	// Badger directory. Empty means in-memory store
	BadgerDir string

	AWSRegion string

	// Custom DynamoDB endpoint, e.g. DynamoDB Local
	DynamoEndpoint string

	// Static AWS credentials. Default credential chain is used when empty
	AWSAccessKeyID     string
	AWSSecretAccessKey string
}

func NewConfig() *Config {
	return &Config{
		LogLevel:     defaultLoggingLevel,
		ListenAddr:   defaultListenAddr,
		Environment:  defaultEnvironment,
		StoreBackend: defaultStoreBackend,
		TableName:    defaultTableName,
		AWSRegion:    defaultAWSRegion,
	}
}

// Load variable from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		c.LoadEnv(func(key string) string {
			return envMap[key]
		})
		return nil
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) {
		return func(value string) {
			if value != "" {
				*o = value
			}
		}
	}

	envMap := map[string]func(string){
		"RUN_ADDRESS":           setString(&c.ListenAddr),
		"LOG_LEVEL":             setString(&c.LogLevel),
		"ENVIRONMENT":           setString(&c.Environment),
		"STORE_BACKEND":         setString(&c.StoreBackend),
		"TABLE_NAME":            setString(&c.TableName),
		"DATABASE_URI":          setString(&c.DatabaseDSN),
		"BADGER_DIR":            setString(&c.BadgerDir),
		"AWS_REGION":            setString(&c.AWSRegion),
		"DYNAMODB_ENDPOINT":     setString(&c.DynamoEndpoint),
		"AWS_ACCESS_KEY_ID":     setString(&c.AWSAccessKeyID),
		"AWS_SECRET_ACCESS_KEY": setString(&c.AWSSecretAccessKey),
	}

	for key, parseFn := range envMap {
		parseFn(getenv(key))
	}
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("reqtoken", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (dev, prod)")
	fs.StringVarP(&c.StoreBackend, "store", "b", c.StoreBackend, "Token store backend (postgres, dynamodb, badger)")
	fs.StringVarP(&c.TableName, "table", "t", c.TableName, "Token table name")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string")
	fs.StringVar(&c.BadgerDir, "badger-dir", c.BadgerDir, "Badger directory (in-memory if empty)")
	fs.StringVar(&c.AWSRegion, "aws-region", c.AWSRegion, "AWS region")
	fs.StringVar(&c.DynamoEndpoint, "dynamodb-endpoint", c.DynamoEndpoint, "Custom DynamoDB endpoint")

	return fs.Parse(args)
}

// Validate store settings
func (c *Config) Validate() error {
	if !slices.Contains(storage.Backends, c.StoreBackend) {
		return fmt.Errorf("%w: %q", apperrors.ErrUnknownStore, c.StoreBackend)
	}

	switch c.StoreBackend {
	case storage.BackendPostgres:
		if c.DatabaseDSN == "" {
			return errors.New("database connection string is required for postgres store")
		}
	case storage.BackendDynamoDB, storage.BackendBadger:
		if c.TableName == "" {
			return errors.New("table name must not be empty")
		}
	}

	return nil
}

func (c *Config) StorageConfig() storage.Config {
	return storage.Config{
		Backend:            c.StoreBackend,
		Table:              c.TableName,
		DatabaseDSN:        c.DatabaseDSN,
		BadgerDir:          c.BadgerDir,
		AWSRegion:          c.AWSRegion,
		DynamoEndpoint:     c.DynamoEndpoint,
		AWSAccessKeyID:     c.AWSAccessKeyID,
		AWSSecretAccessKey: c.AWSSecretAccessKey,
	}
}
