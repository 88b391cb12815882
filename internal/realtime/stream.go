package realtime

import (
	"sync"

	"github.com/shop-notify/internal/domain"
)

// Stream is one user's live outbound connection. Items are delivered on a
// buffered channel; senders never block on a slow reader.
type Stream struct {
	userID string
	ch     chan domain.FeedItem
	done   chan struct{}
	once   sync.Once
}

func newStream(userID string, buffer int) *Stream {
	if buffer < 1 {
		buffer = 1
	}
	return &Stream{
		userID: userID,
		ch:     make(chan domain.FeedItem, buffer),
		done:   make(chan struct{}),
	}
}

// UserID is the owning user.
func (s *Stream) UserID() string { return s.userID }

// C yields pushed notifications until the stream closes.
func (s *Stream) C() <-chan domain.FeedItem { return s.ch }

// Done is closed when the stream is closed, whether by replacement,
// lifetime expiry or transport teardown.
func (s *Stream) Done() <-chan struct{} { return s.done }

// Close is idempotent and safe under concurrent send.
func (s *Stream) Close() {
	s.once.Do(func() {
		close(s.done)
	})
}

// send delivers without blocking. Returns false when the stream is closed
// or its buffer is full; callers treat that as a dead subscriber.
func (s *Stream) send(item domain.FeedItem) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.ch <- item:
		return true
	case <-s.done:
		return false
	default:
		return false
	}
}
