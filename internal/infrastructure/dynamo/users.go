package dynamo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/shop-notify/internal/domain"
)

// UserRepo reads the users table owned by the identity service. This
// service only needs existence/role lookups for referential checks.
type UserRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewUserRepo(client *dynamodb.Client, tableName string) *UserRepo {
	return &UserRepo{client: client, tableName: tableName}
}

func (r *UserRepo) Get(ctx context.Context, userID string) (*domain.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("user_id", userID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	var u domain.User
	if err := attributevalue.UnmarshalMap(out.Item, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Put exists for local seeding against LocalStack; production writes go
// through the identity service.
func (r *UserRepo) Put(ctx context.Context, u *domain.User) error {
	item, err := attributevalue.MarshalMap(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// SeedDevUsers writes a demo admin and a demo user so personal
// notifications and the admin routes work against a fresh LocalStack
// table. Puts are upserts, so repeated startups are harmless.
func (r *UserRepo) SeedDevUsers(ctx context.Context) {
	now := time.Now()
	seeds := []domain.User{
		{UserID: "admin-1", Username: "admin", Email: "admin@example.com", Role: domain.RoleAdmin, Enable: 1, CreatedAt: now},
		{UserID: "user-1", Username: "demo", Email: "demo@example.com", Role: domain.RoleUser, Enable: 1, CreatedAt: now},
	}
	for i := range seeds {
		if err := r.Put(ctx, &seeds[i]); err != nil {
			slog.Warn("could not seed user", "user_id", seeds[i].UserID, "err", err)
		}
	}
}
