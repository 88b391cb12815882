package publisher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shop-notify/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockSweepStore struct{ mock.Mock }

func (m *mockSweepStore) ListPendingDue(ctx context.Context, now time.Time) ([]domain.Notification, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]domain.Notification), args.Error(1)
}
func (m *mockSweepStore) PromoteToPublished(ctx context.Context, notificationID string) (bool, error) {
	args := m.Called(ctx, notificationID)
	return args.Bool(0), args.Error(1)
}

type mockDispatcher struct{ mock.Mock }

func (m *mockDispatcher) Dispatch(ctx context.Context, n *domain.Notification) {
	m.Called(ctx, n)
}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func pending(id string) domain.Notification {
	past := fixedNow.Add(-time.Minute)
	return domain.Notification{
		NotificationID: id,
		Kind:           domain.KindGlobal,
		Status:         domain.StatusPending,
		Title:          "t",
		Message:        "m",
		PublishAt:      &past,
	}
}

func TestSweep_PromotesAndDispatchesOnce(t *testing.T) {
	repo := &mockSweepStore{}
	d := &mockDispatcher{}
	s := NewSweeper(repo, d, time.Minute).WithClock(func() time.Time { return fixedNow })

	due := pending("n1")
	repo.On("ListPendingDue", mock.Anything, fixedNow).Return([]domain.Notification{due}, nil)
	repo.On("PromoteToPublished", mock.Anything, "n1").Return(true, nil)
	d.On("Dispatch", mock.Anything, mock.Anything).Return()

	s.Sweep(context.Background())

	d.AssertNumberOfCalls(t, "Dispatch", 1)
	dispatched := d.Calls[0].Arguments.Get(1).(*domain.Notification)
	assert.Equal(t, domain.StatusPublished, dispatched.Status)
}

func TestSweep_LostRaceSkipsDispatch(t *testing.T) {
	repo := &mockSweepStore{}
	d := &mockDispatcher{}
	s := NewSweeper(repo, d, time.Minute).WithClock(func() time.Time { return fixedNow })

	repo.On("ListPendingDue", mock.Anything, fixedNow).Return([]domain.Notification{pending("n1")}, nil)
	// Another sweep already promoted this record.
	repo.On("PromoteToPublished", mock.Anything, "n1").Return(false, nil)

	s.Sweep(context.Background())

	d.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestSweep_ExpiredPendingNeverPromoted(t *testing.T) {
	repo := &mockSweepStore{}
	d := &mockDispatcher{}
	s := NewSweeper(repo, d, time.Minute).WithClock(func() time.Time { return fixedNow })

	expired := pending("n1")
	pastExpiry := fixedNow.Add(-time.Second)
	expired.ExpiresAt = &pastExpiry
	repo.On("ListPendingDue", mock.Anything, fixedNow).Return([]domain.Notification{expired}, nil)

	s.Sweep(context.Background())

	repo.AssertNotCalled(t, "PromoteToPublished", mock.Anything, mock.Anything)
	d.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestSweep_PromoteErrorDoesNotStopPass(t *testing.T) {
	repo := &mockSweepStore{}
	d := &mockDispatcher{}
	s := NewSweeper(repo, d, time.Minute).WithClock(func() time.Time { return fixedNow })

	repo.On("ListPendingDue", mock.Anything, fixedNow).
		Return([]domain.Notification{pending("n1"), pending("n2")}, nil)
	repo.On("PromoteToPublished", mock.Anything, "n1").Return(false, errors.New("throttled"))
	repo.On("PromoteToPublished", mock.Anything, "n2").Return(true, nil)
	d.On("Dispatch", mock.Anything, mock.Anything).Return()

	s.Sweep(context.Background())

	d.AssertNumberOfCalls(t, "Dispatch", 1)
	dispatched := d.Calls[0].Arguments.Get(1).(*domain.Notification)
	assert.Equal(t, "n2", dispatched.NotificationID)
}

func TestSweep_ListErrorIsContained(t *testing.T) {
	repo := &mockSweepStore{}
	d := &mockDispatcher{}
	s := NewSweeper(repo, d, time.Minute).WithClock(func() time.Time { return fixedNow })

	repo.On("ListPendingDue", mock.Anything, fixedNow).
		Return([]domain.Notification(nil), errors.New("dynamo down"))

	s.Sweep(context.Background())

	d.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}
