// Package feed computes the personalized notification feed: shared
// published records filtered by an eligibility predicate (publish window,
// expiry, hidden overlay) and a kind-specific audience predicate, with
// read/hidden flags derived per request.
package feed

import (
	"context"
	"time"

	"github.com/shop-notify/internal/domain"
)

type Service interface {
	// Feed returns one page of the user's feed, newest created first, plus
	// the total number of visible notifications.
	Feed(ctx context.Context, userID string, page, perPage int) ([]domain.FeedItem, int, error)
}

type publishedStore interface {
	// ListPublished returns published notifications ordered createdAt desc.
	ListPublished(ctx context.Context) ([]domain.Notification, error)
}

type readMarkStore interface {
	ListByUser(ctx context.Context, userID string) ([]domain.ReadMark, error)
}

type hiddenMarkStore interface {
	ListByUser(ctx context.Context, userID string) ([]domain.HiddenMark, error)
}

type wishlistStore interface {
	ProductsOf(ctx context.Context, userID string) ([]string, error)
}

type ServiceDeps struct {
	NotificationRepo publishedStore
	ReadMarkRepo     readMarkStore
	HiddenMarkRepo   hiddenMarkStore
	WishlistRepo     wishlistStore

	Now func() time.Time
}

type service struct {
	repo      publishedStore
	readMarks readMarkStore
	hidden    hiddenMarkStore
	wishlists wishlistStore
	now       func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:      deps.NotificationRepo,
		readMarks: deps.ReadMarkRepo,
		hidden:    deps.HiddenMarkRepo,
		wishlists: deps.WishlistRepo,
		now:       now,
	}
}

func (s *service) Feed(ctx context.Context, userID string, page, perPage int) ([]domain.FeedItem, int, error) {
	published, err := s.repo.ListPublished(ctx)
	if err != nil {
		return nil, 0, err
	}

	readSet, err := s.readSet(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	hiddenSet, err := s.hiddenSet(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	wishlist, err := s.wishlistSet(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	now := s.now()
	visible := make([]domain.FeedItem, 0, len(published))
	for i := range published {
		n := &published[i]
		if !n.Due(now) || n.Expired(now) {
			continue
		}
		if _, isHidden := hiddenSet[n.NotificationID]; isHidden {
			continue
		}
		if !n.VisibleTo(userID, wishlist) {
			continue
		}
		_, read := readSet[n.NotificationID]
		visible = append(visible, domain.FeedItem{Notification: *n, Read: read})
	}

	total := len(visible)
	return paginate(visible, page, perPage), total, nil
}

func (s *service) readSet(ctx context.Context, userID string) (map[string]struct{}, error) {
	marks, err := s.readMarks.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(marks))
	for _, m := range marks {
		set[m.NotificationID] = struct{}{}
	}
	return set, nil
}

func (s *service) hiddenSet(ctx context.Context, userID string) (map[string]struct{}, error) {
	marks, err := s.hidden.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(marks))
	for _, m := range marks {
		set[m.NotificationID] = struct{}{}
	}
	return set, nil
}

func (s *service) wishlistSet(ctx context.Context, userID string) (map[string]struct{}, error) {
	productIDs, err := s.wishlists.ProductsOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(productIDs))
	for _, pid := range productIDs {
		set[pid] = struct{}{}
	}
	return set, nil
}

func paginate(items []domain.FeedItem, page, perPage int) []domain.FeedItem {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 50
	}
	start := (page - 1) * perPage
	if start >= len(items) {
		return []domain.FeedItem{}
	}
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
