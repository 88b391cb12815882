// Package realtime holds the live delivery registry: at most one outbound
// stream per user, plus best-effort fan-out of newly published
// notifications to whoever is connected at dispatch time.
package realtime

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/shop-notify/internal/domain"
)

// FollowerSource resolves the wishlist audience of a product alert.
type FollowerSource interface {
	FollowersOf(ctx context.Context, productID string) ([]string, error)
}

// OfflinePusher forwards a dispatched notification to an out-of-process
// push channel (SNS) for clients that are not connected. Optional.
type OfflinePusher interface {
	Push(ctx context.Context, n *domain.Notification) error
}

// Registry maps each user to at most one active stream. Last connection
// wins: a new Subscribe for the same user closes the previous stream.
// All methods are safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	streams map[string]*Stream

	wishlists   FollowerSource
	push        OfflinePusher
	bufferSize  int
	maxLifetime time.Duration
}

// NewRegistry creates an empty registry. push may be nil.
func NewRegistry(wishlists FollowerSource, push OfflinePusher, bufferSize int, maxLifetime time.Duration) *Registry {
	return &Registry{
		streams:     make(map[string]*Stream),
		wishlists:   wishlists,
		push:        push,
		bufferSize:  bufferSize,
		maxLifetime: maxLifetime,
	}
}

// Subscribe opens a stream for the user, replacing any existing one. The
// stream self-removes on close and is force-closed after the registry's
// max lifetime.
func (r *Registry) Subscribe(userID string) *Stream {
	s := newStream(userID, r.bufferSize)

	r.mu.Lock()
	if prev, ok := r.streams[userID]; ok {
		prev.Close()
	}
	r.streams[userID] = s
	r.mu.Unlock()

	go r.reap(s)
	return s
}

// reap removes the stream from the table once it closes, and enforces the
// maximum lifetime.
func (r *Registry) reap(s *Stream) {
	if r.maxLifetime > 0 {
		timer := time.NewTimer(r.maxLifetime)
		defer timer.Stop()
		select {
		case <-s.Done():
		case <-timer.C:
			s.Close()
		}
	} else {
		<-s.Done()
	}
	r.remove(s)
}

// remove deletes the table entry only if it still points at s, so a
// replacement stream is never evicted by its predecessor's cleanup.
func (r *Registry) remove(s *Stream) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.streams[s.userID]; ok && cur == s {
		delete(r.streams, s.userID)
	}
}

// Unsubscribe closes the given stream. Idempotent.
func (r *Registry) Unsubscribe(s *Stream) {
	s.Close()
}

// Connected reports whether the user currently has an active stream.
func (r *Registry) Connected(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.streams[userID]
	return ok
}

// Dispatch pushes a just-published notification to every currently
// connected, eligible stream. Audience is evaluated as a snapshot at
// dispatch time; users connecting later catch up through the feed.
// Send failures deregister the subscriber and are never surfaced to the
// caller.
func (r *Registry) Dispatch(ctx context.Context, n *domain.Notification) {
	item := domain.FeedItem{Notification: *n}

	switch a := n.Audience().(type) {
	case domain.PersonalAudience:
		r.deliverTo([]string{a.UserID}, item)
	case domain.GlobalAudience:
		r.deliverTo(r.connectedSnapshot(), item)
	case domain.ProductAudience:
		followers, err := r.wishlists.FollowersOf(ctx, a.ProductID)
		if err != nil {
			log.Printf("dispatch: resolve followers of product %s: %v", a.ProductID, err)
			break
		}
		r.deliverTo(followers, item)
	default:
		log.Printf("dispatch: notification %s has no resolvable audience", n.NotificationID)
		return
	}

	if r.push != nil {
		// Offline push is advisory and must not extend dispatch latency.
		go func(n domain.Notification) {
			if err := r.push.Push(context.Background(), &n); err != nil {
				log.Printf("dispatch: offline push for %s: %v", n.NotificationID, err)
			}
		}(*n)
	}
}

func (r *Registry) connectedSnapshot() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]string, 0, len(r.streams))
	for userID := range r.streams {
		users = append(users, userID)
	}
	return users
}

func (r *Registry) deliverTo(userIDs []string, item domain.FeedItem) {
	for _, userID := range userIDs {
		r.mu.RLock()
		s, ok := r.streams[userID]
		r.mu.RUnlock()
		if !ok {
			continue
		}
		if !s.send(item) {
			// Slow or dead consumer: drop the stream, not the fan-out.
			s.Close()
		}
	}
}

// Close shuts down every active stream, e.g. on process shutdown.
func (r *Registry) Close() {
	r.mu.Lock()
	streams := make([]*Stream, 0, len(r.streams))
	for _, s := range r.streams {
		streams = append(streams, s)
	}
	r.mu.Unlock()

	for _, s := range streams {
		s.Close()
	}
}
