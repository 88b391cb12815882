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

// ReadMarkRepo provides typed DynamoDB operations for the read_marks table.
// The composite key (user_id, notification_id) makes Put a natural
// idempotent upsert: re-marking a notification read is a no-op.
type ReadMarkRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewReadMarkRepo(client *dynamodb.Client, tableName string) *ReadMarkRepo {
	return &ReadMarkRepo{client: client, tableName: tableName}
}

func (r *ReadMarkRepo) Put(ctx context.Context, m *domain.ReadMark) error {
	item, err := attributevalue.MarshalMap(m)
	if err != nil {
		return fmt.Errorf("marshal read mark: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *ReadMarkRepo) ListByUser(ctx context.Context, userID string) ([]domain.ReadMark, error) {
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
	var marks []domain.ReadMark
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &marks); err != nil {
		return nil, err
	}
	return marks, nil
}
