// Package dynamo keeps token records in a DynamoDB table.
//
// The table is keyed by the "ReqId" string attribute and carries "User" and
// "RequestTime" (ISO-8601) attributes. Table provisioning is out of scope.
package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/nkiryanov/reqtoken/internal/apperrors"
	"github.com/nkiryanov/reqtoken/internal/models"
)

// Swapped in tests
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig
	newDynamoClient      = func(cfg aws.Config, optFns ...func(*dynamodb.Options)) API {
		return dynamodb.NewFromConfig(cfg, optFns...)
	}
)

// Subset of the DynamoDB client the storage needs
type API interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

type Config struct {
	Table  string
	Region string

	// Custom endpoint, e.g. DynamoDB Local. Empty means AWS default resolution
	Endpoint string

	// Static credentials. When empty the default AWS credential chain is used
	AccessKeyID     string
	SecretAccessKey string
}

type item struct {
	ReqID       string `dynamodbav:"ReqId"`
	User        string `dynamodbav:"User"`
	RequestTime string `dynamodbav:"RequestTime"`
}

type Storage struct {
	client API
	table  string
}

func New(client API, table string) *Storage {
	return &Storage{client: client, table: table}
}

// Open builds DynamoDB client from config
func Open(ctx context.Context, cfg Config) (*Storage, error) {
	if cfg.Table == "" {
		return nil, errors.New("dynamodb: table must not be empty")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("dynamodb: load aws config: %w", err)
	}

	client := newDynamoClient(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return New(client, cfg.Table), nil
}

// Save token record
// Conditional put keeps existing records untouched
func (s *Storage) Save(ctx context.Context, token models.TokenRecord) error {
	av, err := attributevalue.MarshalMap(item{
		ReqID:       token.ReqID,
		User:        token.User,
		RequestTime: token.RequestTimeString(),
	})
	if err != nil {
		return fmt.Errorf("dynamodb: encode token: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(ReqId)"),
	})

	var conditionErr *types.ConditionalCheckFailedException
	switch {
	case err == nil:
		return nil
	case errors.As(err, &conditionErr):
		return fmt.Errorf("repo error: %w", apperrors.ErrTokenExists)
	default:
		return fmt.Errorf("dynamodb error: %w", err)
	}
}

func (s *Storage) Get(ctx context.Context, reqID string) (models.TokenRecord, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"ReqId": &types.AttributeValueMemberS{Value: reqID},
		},
		// Token is usually validated right after it was issued
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return models.TokenRecord{}, fmt.Errorf("dynamodb error: %w", err)
	}
	if len(out.Item) == 0 {
		return models.TokenRecord{}, fmt.Errorf("repo error: %w", apperrors.ErrTokenNotFound)
	}

	var stored item
	if err := attributevalue.UnmarshalMap(out.Item, &stored); err != nil {
		return models.TokenRecord{}, fmt.Errorf("dynamodb: decode token: %w", err)
	}

	requestTime, err := models.ParseRequestTime(stored.RequestTime)
	if err != nil {
		return models.TokenRecord{}, fmt.Errorf("dynamodb: decode request time: %w", err)
	}

	return models.TokenRecord{
		ReqID:       stored.ReqID,
		User:        stored.User,
		RequestTime: requestTime,
	}, nil
}

// Nothing to release: the SDK client has no persistent connection to close
func (s *Storage) Close() error {
	return nil
}
