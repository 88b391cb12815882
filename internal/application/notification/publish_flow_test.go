package notification

import (
	"context"
	"testing"
	"time"

	"github.com/shop-notify/internal/application/feed"
	"github.com/shop-notify/internal/domain"
	"github.com/shop-notify/internal/realtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Stubs backing the publish flow test: the notification store keeps records
// in memory so the feed sees what create persisted.

type memNotificationStore struct {
	mockNotificationStore
	saved []domain.Notification
}

func (m *memNotificationStore) Put(ctx context.Context, n *domain.Notification) error {
	m.saved = append(m.saved, *n)
	return nil
}

func (m *memNotificationStore) ListPublished(ctx context.Context) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, n := range m.saved {
		if n.Status == domain.StatusPublished {
			out = append(out, n)
		}
	}
	return out, nil
}

type emptyOverlays struct{}

func (emptyOverlays) ListByUser(ctx context.Context, userID string) ([]domain.ReadMark, error) {
	return nil, nil
}

type emptyHidden struct{}

func (emptyHidden) ListByUser(ctx context.Context, userID string) ([]domain.HiddenMark, error) {
	return nil, nil
}

type emptyWishlist struct{}

func (emptyWishlist) ProductsOf(ctx context.Context, userID string) ([]string, error) {
	return nil, nil
}

func (emptyWishlist) FollowersOf(ctx context.Context, productID string) ([]string, error) {
	return nil, nil
}

// TestPublishFlow_LivePushAndFeed drives the full publish path: creating an
// immediately-due personal notification pushes exactly one item to the
// target's open stream, and the same record shows up unread in their feed.
func TestPublishFlow_LivePushAndFeed(t *testing.T) {
	store := &memNotificationStore{}
	users := &mockUserStore{}
	users.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1"}, nil)

	registry := realtime.NewRegistry(emptyWishlist{}, nil, 4, 0)
	defer registry.Close()

	svc := NewService(ServiceDeps{
		NotificationRepo: store,
		ReadMarkRepo:     &mockReadMarkStore{},
		HiddenMarkRepo:   &mockHiddenMarkStore{},
		UserRepo:         users,
		ProductRepo:      &mockProductStore{},
		Dispatcher:       registry,
		Now:              func() time.Time { return fixedNow },
	})

	stream := registry.Subscribe("u1")
	defer registry.Unsubscribe(stream)

	created, err := svc.Create(context.Background(), personalSpec("u1"))
	require.NoError(t, err)
	require.Equal(t, domain.StatusPublished, created.Status)

	select {
	case item := <-stream.C():
		assert.Equal(t, created.NotificationID, item.NotificationID)
		assert.False(t, item.Read)
	case <-time.After(2 * time.Second):
		t.Fatal("no live push received")
	}
	select {
	case item := <-stream.C():
		t.Fatalf("unexpected second push: %s", item.NotificationID)
	default:
	}

	feedSvc := feed.NewService(feed.ServiceDeps{
		NotificationRepo: store,
		ReadMarkRepo:     emptyOverlays{},
		HiddenMarkRepo:   emptyHidden{},
		WishlistRepo:     emptyWishlist{},
		Now:              func() time.Time { return fixedNow },
	})
	items, total, err := feedSvc.Feed(context.Background(), "u1", 1, 50)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, created.NotificationID, items[0].NotificationID)
	assert.False(t, items[0].Read)
}
