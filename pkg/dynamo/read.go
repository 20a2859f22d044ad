package dynamo

import (
	"context"
	"fmt"

	"github.com/andrew-pixel/Stock-Alerts/pkg/types"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamotypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

type stockItem struct {
	Name      string                `dynamodbav:"name"`
	LastPrice attributevalue.Number `dynamodbav:"lastprice"`
}

type alertItem struct {
	Name        string                `dynamodbav:"name"`
	TargetPrice attributevalue.Number `dynamodbav:"targetprice"`
	Direction   int                   `dynamodbav:"direction"`
}

// ListStocks retrieves all tracked stocks
func (s *Store) ListStocks(ctx context.Context) ([]types.TrackedStock, error) {
	items, err := s.scanAll(ctx, s.stocksTable)
	if err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}

	var records []stockItem
	if err := attributevalue.UnmarshalListOfMaps(items, &records); err != nil {
		return nil, fmt.Errorf("list stocks: %w: %v", types.ErrMalformedData, err)
	}

	stocks := make([]types.TrackedStock, 0, len(records))
	for _, r := range records {
		price, err := decimal.NewFromString(string(r.LastPrice))
		if err != nil {
			return nil, fmt.Errorf("list stocks: %w: lastprice of %s: %v", types.ErrMalformedData, r.Name, err)
		}
		stocks = append(stocks, types.TrackedStock{Name: r.Name, LastPrice: price})
	}
	return stocks, nil
}

// ListAlerts retrieves all pending alerts
func (s *Store) ListAlerts(ctx context.Context) ([]types.PriceAlert, error) {
	items, err := s.scanAll(ctx, s.alertsTable)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}

	var records []alertItem
	if err := attributevalue.UnmarshalListOfMaps(items, &records); err != nil {
		return nil, fmt.Errorf("list alerts: %w: %v", types.ErrMalformedData, err)
	}

	alerts := make([]types.PriceAlert, 0, len(records))
	for _, r := range records {
		target, err := decimal.NewFromString(string(r.TargetPrice))
		if err != nil {
			return nil, fmt.Errorf("list alerts: %w: targetprice of %s: %v", types.ErrMalformedData, r.Name, err)
		}
		direction := types.Below
		if r.Direction == int(types.Above) {
			direction = types.Above
		}
		alerts = append(alerts, types.PriceAlert{Name: r.Name, TargetPrice: target, Direction: direction})
	}
	return alerts, nil
}

func (s *Store) scanAll(ctx context.Context, table string) ([]map[string]dynamotypes.AttributeValue, error) {
	var items []map[string]dynamotypes.AttributeValue
	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName: aws.String(table),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: scan %s: %v", types.ErrDataUnavailable, table, err)
		}
		items = append(items, page.Items...)
	}
	return items, nil
}
