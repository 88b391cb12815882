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

// WishlistRepo provides typed DynamoDB operations for the wishlists table.
// Partition key product_id with sort key user_id serves follower fan-out;
// the user_id GSI serves the per-user product set the feed needs.
type WishlistRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewWishlistRepo(client *dynamodb.Client, tableName string) *WishlistRepo {
	return &WishlistRepo{client: client, tableName: tableName}
}

func (r *WishlistRepo) Put(ctx context.Context, e *domain.WishlistEntry) error {
	item, err := attributevalue.MarshalMap(e)
	if err != nil {
		return fmt.Errorf("marshal wishlist entry: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *WishlistRepo) Delete(ctx context.Context, productID, userID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("product_id", productID, "user_id", userID),
	})
	return err
}

// FollowersOf returns the user IDs following the given product.
func (r *WishlistRepo) FollowersOf(ctx context.Context, productID string) ([]string, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("product_id = :pid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pid": &types.AttributeValueMemberS{Value: productID},
		},
	})
	if err != nil {
		return nil, err
	}
	var entries []domain.WishlistEntry
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &entries); err != nil {
		return nil, err
	}
	userIDs := make([]string, 0, len(entries))
	for _, e := range entries {
		userIDs = append(userIDs, e.UserID)
	}
	return userIDs, nil
}

// ProductsOf returns the product IDs the given user follows, via the
// user_id GSI.
func (r *WishlistRepo) ProductsOf(ctx context.Context, userID string) ([]string, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("user_id-index"),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, err
	}
	var entries []domain.WishlistEntry
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &entries); err != nil {
		return nil, err
	}
	productIDs := make([]string, 0, len(entries))
	for _, e := range entries {
		productIDs = append(productIDs, e.ProductID)
	}
	return productIDs, nil
}
