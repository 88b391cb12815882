package product

import (
	"context"
	"errors"
	"testing"

	"github.com/shop-notify/internal/domain"
	"github.com/shop-notify/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProductStore struct{ mock.Mock }

func (m *mockProductStore) Get(ctx context.Context, productID string) (*domain.Product, error) {
	args := m.Called(ctx, productID)
	if p, _ := args.Get(0).(*domain.Product); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockProductStore) Put(ctx context.Context, p *domain.Product) error {
	return m.Called(ctx, p).Error(0)
}
func (m *mockProductStore) Update(ctx context.Context, productID string, updates map[string]interface{}) error {
	return m.Called(ctx, productID, updates).Error(0)
}

type mockEventPublisher struct{ mock.Mock }

func (m *mockEventPublisher) Publish(ev events.Event) bool {
	return m.Called(ev).Bool(0)
}

func TestCreate_AssignsIDAndPersists(t *testing.T) {
	repo := &mockProductStore{}
	bus := &mockEventPublisher{}
	svc := NewService(repo, bus)

	repo.On("Put", mock.Anything, mock.Anything).Return(nil)

	p, err := svc.Create(context.Background(), domain.ProductInput{Name: "Keyboard", Price: 79.9, Stock: 10})

	require.NoError(t, err)
	assert.NotEmpty(t, p.ProductID)
	assert.Equal(t, "Keyboard", p.Name)
	// Creation is not a stock change: no event.
	bus.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestUpdateStock_PublishesAfterWrite(t *testing.T) {
	repo := &mockProductStore{}
	bus := &mockEventPublisher{}
	svc := NewService(repo, bus)

	repo.On("Get", mock.Anything, "p1").Return(&domain.Product{ProductID: "p1", Name: "Keyboard", Stock: 0}, nil)
	repo.On("Update", mock.Anything, "p1", mock.Anything).Return(nil)
	bus.On("Publish", mock.Anything).Return(true)

	p, err := svc.UpdateStock(context.Background(), "p1", 5)

	require.NoError(t, err)
	assert.Equal(t, 5, p.Stock)

	require.Len(t, bus.Calls, 1)
	ev := bus.Calls[0].Arguments.Get(0).(events.ProductStockChanged)
	assert.Equal(t, "p1", ev.ProductID)
	assert.Equal(t, 0, events.IntValue(ev.OldStock))
	assert.Equal(t, 5, events.IntValue(ev.NewStock))
}

func TestUpdateStock_WriteFailureSuppressesEvent(t *testing.T) {
	repo := &mockProductStore{}
	bus := &mockEventPublisher{}
	svc := NewService(repo, bus)

	repo.On("Get", mock.Anything, "p1").Return(&domain.Product{ProductID: "p1", Stock: 0}, nil)
	repo.On("Update", mock.Anything, "p1", mock.Anything).Return(errors.New("dynamo down"))

	_, err := svc.UpdateStock(context.Background(), "p1", 5)

	require.Error(t, err)
	bus.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestUpdateStock_UnknownProduct(t *testing.T) {
	repo := &mockProductStore{}
	bus := &mockEventPublisher{}
	svc := NewService(repo, bus)

	repo.On("Get", mock.Anything, "missing").Return(nil, domain.ErrNotFound)

	_, err := svc.UpdateStock(context.Background(), "missing", 5)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateDiscount_PublishesOldAndNew(t *testing.T) {
	repo := &mockProductStore{}
	bus := &mockEventPublisher{}
	svc := NewService(repo, bus)

	repo.On("Get", mock.Anything, "p1").Return(&domain.Product{ProductID: "p1", Name: "Keyboard", DiscountPercent: 5}, nil)
	repo.On("Update", mock.Anything, "p1", mock.Anything).Return(nil)
	bus.On("Publish", mock.Anything).Return(true)

	p, err := svc.UpdateDiscount(context.Background(), "p1", 20)

	require.NoError(t, err)
	assert.Equal(t, 20.0, p.DiscountPercent)

	require.Len(t, bus.Calls, 1)
	ev := bus.Calls[0].Arguments.Get(0).(events.ProductDiscountChanged)
	assert.Equal(t, 5.0, events.FloatValue(ev.OldDiscount))
	assert.Equal(t, 20.0, events.FloatValue(ev.NewDiscount))
}
