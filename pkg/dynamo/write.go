package dynamo

import (
	"context"
	"fmt"

	"github.com/andrew-pixel/Stock-Alerts/pkg/types"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamotypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

// UpdateStockPrice sets lastprice on an existing stock, rounded to cents
func (s *Store) UpdateStockPrice(ctx context.Context, name string, price decimal.Decimal) error {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.stocksTable),
		Key: map[string]dynamotypes.AttributeValue{
			"name": &dynamotypes.AttributeValueMemberS{Value: name},
		},
		// "name" is a reserved word
		ConditionExpression:      aws.String("attribute_exists(#n)"),
		UpdateExpression:         aws.String("SET lastprice = :p"),
		ExpressionAttributeNames: map[string]string{"#n": "name"},
		ExpressionAttributeValues: map[string]dynamotypes.AttributeValue{
			":p": &dynamotypes.AttributeValueMemberN{Value: types.RoundPrice(price).StringFixed(2)},
		},
	})
	if err != nil {
		return fmt.Errorf("update stock %s: %w", name, err)
	}
	return nil
}

// DeleteAlert removes the alert stored under name and target price
func (s *Store) DeleteAlert(ctx context.Context, name string, targetPrice decimal.Decimal) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.alertsTable),
		Key: map[string]dynamotypes.AttributeValue{
			"name":        &dynamotypes.AttributeValueMemberS{Value: name},
			"targetprice": &dynamotypes.AttributeValueMemberN{Value: targetPrice.String()},
		},
	})
	if err != nil {
		return fmt.Errorf("delete alert %s@%s: %w", name, targetPrice, err)
	}
	return nil
}
