package wishlist

import (
	"context"
	"testing"

	"github.com/shop-notify/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockWishlistStore struct{ mock.Mock }

func (m *mockWishlistStore) Put(ctx context.Context, e *domain.WishlistEntry) error {
	return m.Called(ctx, e).Error(0)
}
func (m *mockWishlistStore) Delete(ctx context.Context, productID, userID string) error {
	return m.Called(ctx, productID, userID).Error(0)
}
func (m *mockWishlistStore) ProductsOf(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]string), args.Error(1)
}

type mockProductStore struct{ mock.Mock }

func (m *mockProductStore) Get(ctx context.Context, productID string) (*domain.Product, error) {
	args := m.Called(ctx, productID)
	if p, _ := args.Get(0).(*domain.Product); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestFollow_PersistsEntry(t *testing.T) {
	repo := &mockWishlistStore{}
	products := &mockProductStore{}
	svc := NewService(repo, products)

	products.On("Get", mock.Anything, "p1").Return(&domain.Product{ProductID: "p1"}, nil)
	repo.On("Put", mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, svc.Follow(context.Background(), "u1", "p1"))

	require.Len(t, repo.Calls, 1)
	entry := repo.Calls[0].Arguments.Get(1).(*domain.WishlistEntry)
	assert.Equal(t, "p1", entry.ProductID)
	assert.Equal(t, "u1", entry.UserID)
	assert.False(t, entry.CreatedAt.IsZero())
}

func TestFollow_UnknownProduct(t *testing.T) {
	repo := &mockWishlistStore{}
	products := &mockProductStore{}
	svc := NewService(repo, products)

	products.On("Get", mock.Anything, "missing").Return(nil, domain.ErrNotFound)

	err := svc.Follow(context.Background(), "u1", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	repo.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestUnfollow_DeletesEntry(t *testing.T) {
	repo := &mockWishlistStore{}
	svc := NewService(repo, &mockProductStore{})

	repo.On("Delete", mock.Anything, "p1", "u1").Return(nil)

	require.NoError(t, svc.Unfollow(context.Background(), "u1", "p1"))
	repo.AssertCalled(t, "Delete", mock.Anything, "p1", "u1")
}

func TestProductsOf(t *testing.T) {
	repo := &mockWishlistStore{}
	svc := NewService(repo, &mockProductStore{})

	repo.On("ProductsOf", mock.Anything, "u1").Return([]string{"p1", "p2"}, nil)

	products, err := svc.ProductsOf(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, products)
}
