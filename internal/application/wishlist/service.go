package wishlist

import (
	"context"
	"fmt"
	"time"

	"github.com/shop-notify/internal/domain"
)

type Service interface {
	Follow(ctx context.Context, userID, productID string) error
	Unfollow(ctx context.Context, userID, productID string) error
	ProductsOf(ctx context.Context, userID string) ([]string, error)
}

type wishlistStore interface {
	Put(ctx context.Context, e *domain.WishlistEntry) error
	Delete(ctx context.Context, productID, userID string) error
	ProductsOf(ctx context.Context, userID string) ([]string, error)
}

type productStore interface {
	Get(ctx context.Context, productID string) (*domain.Product, error)
}

type service struct {
	repo     wishlistStore
	products productStore
}

func NewService(repo wishlistStore, products productStore) Service {
	return &service{repo: repo, products: products}
}

// Follow is an idempotent upsert on the (product, user) key.
func (s *service) Follow(ctx context.Context, userID, productID string) error {
	if _, err := s.products.Get(ctx, productID); err != nil {
		return fmt.Errorf("product %s: %w", productID, err)
	}
	return s.repo.Put(ctx, &domain.WishlistEntry{
		ProductID: productID,
		UserID:    userID,
		CreatedAt: time.Now(),
	})
}

func (s *service) Unfollow(ctx context.Context, userID, productID string) error {
	return s.repo.Delete(ctx, productID, userID)
}

func (s *service) ProductsOf(ctx context.Context, userID string) ([]string, error) {
	return s.repo.ProductsOf(ctx, userID)
}
