// Package product is the thin catalog edge this service exposes so stock
// and discount changes have an in-process origin. Events are published
// only after the write succeeds, mirroring the after-commit contract the
// notification bridge relies on.
package product

import (
	"context"
	"fmt"
	"time"

	"github.com/shop-notify/internal/domain"
	"github.com/shop-notify/internal/events"
	"github.com/shop-notify/internal/pkg/id"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldStock           = "stock"
	fieldDiscountPercent = "discount_percent"
	fieldUpdatedAt       = "updated_at"
)

type Service interface {
	Create(ctx context.Context, input domain.ProductInput) (*domain.Product, error)
	Get(ctx context.Context, productID string) (*domain.Product, error)
	UpdateStock(ctx context.Context, productID string, newStock int) (*domain.Product, error)
	UpdateDiscount(ctx context.Context, productID string, newDiscount float64) (*domain.Product, error)
}

type productStore interface {
	Get(ctx context.Context, productID string) (*domain.Product, error)
	Put(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, productID string, updates map[string]interface{}) error
}

type eventPublisher interface {
	Publish(ev events.Event) bool
}

type service struct {
	repo productStore
	bus  eventPublisher
}

func NewService(repo productStore, bus eventPublisher) Service {
	return &service{repo: repo, bus: bus}
}

func (s *service) Create(ctx context.Context, input domain.ProductInput) (*domain.Product, error) {
	now := time.Now()
	p := &domain.Product{
		ProductID:       id.New(),
		Name:            input.Name,
		Price:           input.Price,
		Stock:           input.Stock,
		DiscountPercent: input.DiscountPercent,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Put(ctx, p); err != nil {
		return nil, fmt.Errorf("persist product: %w", err)
	}
	return p, nil
}

func (s *service) Get(ctx context.Context, productID string) (*domain.Product, error) {
	return s.repo.Get(ctx, productID)
}

func (s *service) UpdateStock(ctx context.Context, productID string, newStock int) (*domain.Product, error) {
	p, err := s.repo.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	oldStock := p.Stock

	if err := s.repo.Update(ctx, productID, map[string]interface{}{fieldStock: newStock, fieldUpdatedAt: time.Now()}); err != nil {
		return nil, fmt.Errorf("update stock for %s: %w", productID, err)
	}
	p.Stock = newStock

	s.bus.Publish(events.ProductStockChanged{
		ProductID:   p.ProductID,
		ProductName: p.Name,
		OldStock:    &oldStock,
		NewStock:    &newStock,
	})
	return p, nil
}

func (s *service) UpdateDiscount(ctx context.Context, productID string, newDiscount float64) (*domain.Product, error) {
	p, err := s.repo.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	oldDiscount := p.DiscountPercent

	if err := s.repo.Update(ctx, productID, map[string]interface{}{fieldDiscountPercent: newDiscount, fieldUpdatedAt: time.Now()}); err != nil {
		return nil, fmt.Errorf("update discount for %s: %w", productID, err)
	}
	p.DiscountPercent = newDiscount

	s.bus.Publish(events.ProductDiscountChanged{
		ProductID:   p.ProductID,
		ProductName: p.Name,
		OldDiscount: &oldDiscount,
		NewDiscount: &newDiscount,
	})
	return p, nil
}
