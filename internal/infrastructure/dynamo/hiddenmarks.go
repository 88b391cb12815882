package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shop-notify/internal/domain"
)

// HiddenMarkRepo provides typed DynamoDB operations for the hidden_marks
// table. Same composite-key upsert shape as ReadMarkRepo.
type HiddenMarkRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewHiddenMarkRepo(client *dynamodb.Client, tableName string) *HiddenMarkRepo {
	return &HiddenMarkRepo{client: client, tableName: tableName}
}

func (r *HiddenMarkRepo) Put(ctx context.Context, m *domain.HiddenMark) error {
	item, err := attributevalue.MarshalMap(m)
	if err != nil {
		return fmt.Errorf("marshal hidden mark: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *HiddenMarkRepo) ListByUser(ctx context.Context, userID string) ([]domain.HiddenMark, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, err
	}
	var marks []domain.HiddenMark
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &marks); err != nil {
		return nil, err
	}
	return marks, nil
}
