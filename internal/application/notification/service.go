package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/shop-notify/internal/domain"
	"github.com/shop-notify/internal/pkg/id"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldKind             = "kind"
	fieldTitle            = "title"
	fieldMessage          = "message"
	fieldIcon             = "icon"
	fieldTargetUserID     = "target_user_id"
	fieldRelatedProductID = "related_product_id"
	fieldRelatedSaleID    = "related_sale_id"
	fieldPublishAt        = "publish_at"
	fieldExpiresAt        = "expires_at"
)

type Service interface {
	List(ctx context.Context) ([]domain.Notification, error)
	Get(ctx context.Context, notificationID string) (*domain.Notification, error)
	Create(ctx context.Context, spec domain.NotificationSpec) (*domain.Notification, error)
	Update(ctx context.Context, notificationID string, spec domain.NotificationSpec) (*domain.Notification, error)
	Patch(ctx context.Context, notificationID string, patch domain.PatchNotificationRequest) (*domain.Notification, error)
	Delete(ctx context.Context, notificationID string) error // hard delete
	MarkRead(ctx context.Context, userID, notificationID string) error
	Hide(ctx context.Context, userID, notificationID string) error
}

type notificationStore interface {
	Put(ctx context.Context, n *domain.Notification) error
	Get(ctx context.Context, notificationID string) (*domain.Notification, error)
	Update(ctx context.Context, notificationID string, updates map[string]interface{}) error
	PromoteToPublished(ctx context.Context, notificationID string) (bool, error)
	HardDelete(ctx context.Context, notificationID string) error
	Scan(ctx context.Context) ([]domain.Notification, error)
}

type readMarkStore interface {
	Put(ctx context.Context, m *domain.ReadMark) error
}

type hiddenMarkStore interface {
	Put(ctx context.Context, m *domain.HiddenMark) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type productStore interface {
	Get(ctx context.Context, productID string) (*domain.Product, error)
}

// Dispatcher receives every notification that transitions into the
// published state. Delivery is best-effort; Dispatch never returns an
// error and must not block on slow consumers.
type Dispatcher interface {
	Dispatch(ctx context.Context, n *domain.Notification)
}

// ServiceDeps bundles the stores the service needs.
type ServiceDeps struct {
	NotificationRepo notificationStore
	ReadMarkRepo     readMarkStore
	HiddenMarkRepo   hiddenMarkStore
	UserRepo         userStore
	ProductRepo      productStore
	Dispatcher       Dispatcher

	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

type service struct {
	repo        notificationStore
	readMarks   readMarkStore
	hiddenMarks hiddenMarkStore
	users       userStore
	products    productStore
	dispatcher  Dispatcher
	now         func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:        deps.NotificationRepo,
		readMarks:   deps.ReadMarkRepo,
		hiddenMarks: deps.HiddenMarkRepo,
		users:       deps.UserRepo,
		products:    deps.ProductRepo,
		dispatcher:  deps.Dispatcher,
		now:         now,
	}
}

func (s *service) List(ctx context.Context) ([]domain.Notification, error) {
	return s.repo.Scan(ctx)
}

func (s *service) Get(ctx context.Context, notificationID string) (*domain.Notification, error) {
	return s.repo.Get(ctx, notificationID)
}

func (s *service) Create(ctx context.Context, spec domain.NotificationSpec) (*domain.Notification, error) {
	if err := s.validateSpec(ctx, spec); err != nil {
		return nil, err
	}

	now := s.now()
	n := &domain.Notification{
		NotificationID: id.New(),
		Status:         domain.StatusPending,
		Title:          spec.Title,
		Message:        spec.Message,
		Icon:           spec.Icon,
		RelatedSaleID:  spec.RelatedSaleID,
		PublishAt:      spec.PublishAt,
		ExpiresAt:      spec.ExpiresAt,
		CreatedAt:      now,
	}
	applyAudience(n, spec.Audience)

	// A notification with no future publish time goes straight to
	// published so creation has the same dispatch effect as the sweep.
	published := n.Due(now)
	if published {
		n.Status = domain.StatusPublished
	}

	if err := s.repo.Put(ctx, n); err != nil {
		return nil, fmt.Errorf("persist notification: %w", err)
	}
	if published {
		s.dispatcher.Dispatch(ctx, n)
	}
	return n, nil
}

func (s *service) Update(ctx context.Context, notificationID string, spec domain.NotificationSpec) (*domain.Notification, error) {
	if err := s.validateSpec(ctx, spec); err != nil {
		return nil, err
	}
	current, err := s.repo.Get(ctx, notificationID)
	if err != nil {
		return nil, err
	}

	next := *current
	next.Title = spec.Title
	next.Message = spec.Message
	next.Icon = spec.Icon
	next.RelatedSaleID = spec.RelatedSaleID
	next.PublishAt = spec.PublishAt
	next.ExpiresAt = spec.ExpiresAt
	next.TargetUserID = nil
	next.RelatedProductID = nil
	applyAudience(&next, spec.Audience)

	return s.saveReplacement(ctx, &next)
}

func (s *service) Patch(ctx context.Context, notificationID string, patch domain.PatchNotificationRequest) (*domain.Notification, error) {
	current, err := s.repo.Get(ctx, notificationID)
	if err != nil {
		return nil, err
	}

	next := *current
	if patch.Title != nil {
		next.Title = *patch.Title
	}
	if patch.Message != nil {
		next.Message = *patch.Message
	}
	if patch.Icon != nil {
		next.Icon = *patch.Icon
	}
	if patch.RelatedSaleID != nil {
		next.RelatedSaleID = patch.RelatedSaleID
	}
	if patch.PublishAt != nil {
		next.PublishAt = patch.PublishAt
	}
	if patch.ExpiresAt != nil {
		next.ExpiresAt = patch.ExpiresAt
	}

	kind := next.Kind
	if patch.Kind != nil {
		kind = domain.Kind(*patch.Kind)
	}
	targetUserID := next.TargetUserID
	if patch.TargetUserID != nil {
		targetUserID = patch.TargetUserID
	}
	relatedProductID := next.RelatedProductID
	if patch.RelatedProductID != nil {
		relatedProductID = patch.RelatedProductID
	}
	audience, err := domain.BuildAudience(kind, targetUserID, relatedProductID)
	if err != nil {
		return nil, err
	}
	next.TargetUserID = nil
	next.RelatedProductID = nil
	applyAudience(&next, audience)

	if err := s.validateRefs(ctx, audience); err != nil {
		return nil, err
	}
	return s.saveReplacement(ctx, &next)
}

// saveReplacement persists next and replays the creation-time promotion
// rule: an edit that makes a pending notification due publishes and
// dispatches it. Status is never written from the snapshot read: the sweep
// may promote the record between our Get and this Update, and writing a
// stale pending back would re-arm it for a second dispatch. Promotion goes
// through the same conditional write the sweep uses, so whichever writer
// wins the condition owns the single dispatch.
func (s *service) saveReplacement(ctx context.Context, next *domain.Notification) (*domain.Notification, error) {
	updates := map[string]interface{}{
		fieldKind:             next.Kind,
		fieldTitle:            next.Title,
		fieldMessage:          next.Message,
		fieldIcon:             next.Icon,
		fieldTargetUserID:     next.TargetUserID,
		fieldRelatedProductID: next.RelatedProductID,
		fieldRelatedSaleID:    next.RelatedSaleID,
		fieldPublishAt:        next.PublishAt,
		fieldExpiresAt:        next.ExpiresAt,
	}
	if err := s.repo.Update(ctx, next.NotificationID, updates); err != nil {
		return nil, fmt.Errorf("update notification %s: %w", next.NotificationID, err)
	}

	if next.Status == domain.StatusPending && next.Due(s.now()) {
		promoted, err := s.repo.PromoteToPublished(ctx, next.NotificationID)
		if err != nil {
			return nil, fmt.Errorf("promote notification %s: %w", next.NotificationID, err)
		}
		// A lost condition means a concurrent sweep promoted and
		// dispatched already; the record is published either way.
		next.Status = domain.StatusPublished
		if promoted {
			s.dispatcher.Dispatch(ctx, next)
		}
	}
	return next, nil
}

func (s *service) Delete(ctx context.Context, notificationID string) error {
	if _, err := s.repo.Get(ctx, notificationID); err != nil {
		return err
	}
	return s.repo.HardDelete(ctx, notificationID)
}

// MarkRead records that the user has seen the notification. Re-marking is
// a no-op: the overlay key is (user, notification), so the put is an
// idempotent upsert.
func (s *service) MarkRead(ctx context.Context, userID, notificationID string) error {
	if _, err := s.repo.Get(ctx, notificationID); err != nil {
		return err
	}
	return s.readMarks.Put(ctx, &domain.ReadMark{
		UserID:         userID,
		NotificationID: notificationID,
		CreatedAt:      s.now(),
	})
}

// Hide removes the notification from the user's feed permanently. Same
// idempotent overlay shape as MarkRead.
func (s *service) Hide(ctx context.Context, userID, notificationID string) error {
	if _, err := s.repo.Get(ctx, notificationID); err != nil {
		return err
	}
	return s.hiddenMarks.Put(ctx, &domain.HiddenMark{
		UserID:         userID,
		NotificationID: notificationID,
		CreatedAt:      s.now(),
	})
}

func (s *service) validateSpec(ctx context.Context, spec domain.NotificationSpec) error {
	if spec.Audience == nil {
		return domain.ErrUnknownKind
	}
	if spec.Title == "" {
		return fmt.Errorf("title is required: %w", domain.ErrBadRequest)
	}
	return s.validateRefs(ctx, spec.Audience)
}

// validateRefs checks that the audience's referenced entities exist. Only
// the field the kind actually uses is checked.
func (s *service) validateRefs(ctx context.Context, audience domain.Audience) error {
	switch a := audience.(type) {
	case domain.PersonalAudience:
		if _, err := s.users.Get(ctx, a.UserID); err != nil {
			return fmt.Errorf("target user %s: %w", a.UserID, err)
		}
	case domain.ProductAudience:
		if _, err := s.products.Get(ctx, a.ProductID); err != nil {
			return fmt.Errorf("related product %s: %w", a.ProductID, err)
		}
	}
	return nil
}

func applyAudience(n *domain.Notification, audience domain.Audience) {
	n.Kind = audience.Kind()
	switch a := audience.(type) {
	case domain.PersonalAudience:
		uid := a.UserID
		n.TargetUserID = &uid
	case domain.ProductAudience:
		pid := a.ProductID
		n.RelatedProductID = &pid
	}
}
