// Package publisher runs the periodic publish sweep: pending notifications
// whose publish time has arrived are promoted to published and handed to
// the live dispatcher exactly once.
package publisher

import (
	"context"
	"log"
	"time"

	"github.com/shop-notify/internal/domain"
)

type sweepStore interface {
	// ListPendingDue returns pending notifications with publishAt <= now.
	ListPendingDue(ctx context.Context, now time.Time) ([]domain.Notification, error)
	// PromoteToPublished flips status pending -> published. Returns false
	// without error when the record was no longer pending, so a concurrent
	// promotion loses harmlessly and nothing is dispatched twice.
	PromoteToPublished(ctx context.Context, notificationID string) (bool, error)
}

type dispatcher interface {
	Dispatch(ctx context.Context, n *domain.Notification)
}

// Sweeper promotes due pending notifications on a fixed interval.
type Sweeper struct {
	repo       sweepStore
	dispatcher dispatcher
	interval   time.Duration
	now        func() time.Time
}

func NewSweeper(repo sweepStore, d dispatcher, interval time.Duration) *Sweeper {
	return &Sweeper{repo: repo, dispatcher: d, interval: interval, now: time.Now}
}

// WithClock overrides the sweeper's clock, for tests.
func (s *Sweeper) WithClock(now func() time.Time) *Sweeper {
	s.now = now
	return s
}

// Run blocks, sweeping every interval until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Printf("publish sweep running every %s", s.interval)
	for {
		select {
		case <-ctx.Done():
			log.Println("publish sweep stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep performs one pass. Iterations are independent and idempotent:
// already-published records are never re-selected and a record is
// dispatched at most once, on the pass that promotes it.
func (s *Sweeper) Sweep(ctx context.Context) {
	now := s.now()
	due, err := s.repo.ListPendingDue(ctx, now)
	if err != nil {
		log.Printf("publish sweep: list pending: %v", err)
		return
	}

	for i := range due {
		n := &due[i]
		// A pending notification whose window already closed ages out
		// without ever being surfaced.
		if n.Expired(now) {
			continue
		}
		promoted, err := s.repo.PromoteToPublished(ctx, n.NotificationID)
		if err != nil {
			log.Printf("publish sweep: promote %s: %v", n.NotificationID, err)
			continue
		}
		if !promoted {
			continue
		}
		n.Status = domain.StatusPublished
		s.dispatcher.Dispatch(ctx, n)
	}
}
