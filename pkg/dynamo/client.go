package dynamo

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// API is the subset of the DynamoDB client the store uses
type API interface {
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// Store keeps tracked stocks and alerts in two DynamoDB tables.
// The stocks table is keyed by name; the alerts table by name (hash) and
// targetprice (range).
type Store struct {
	client      API
	stocksTable string
	alertsTable string
}

// New wraps an existing DynamoDB client
func New(client API, stocksTable, alertsTable string) *Store {
	return &Store{client: client, stocksTable: stocksTable, alertsTable: alertsTable}
}

// Initialize sets up the DynamoDB client from the default AWS config chain,
// optionally pinned to a region
func Initialize(ctx context.Context, region, stocksTable, alertsTable string) (*Store, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return New(dynamodb.NewFromConfig(cfg), stocksTable, alertsTable), nil
}
