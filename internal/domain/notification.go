package domain

import "time"

// Kind classifies who a notification is for.
type Kind string

const (
	KindPersonal     Kind = "personal"
	KindGlobal       Kind = "global"
	KindProductAlert Kind = "product_alert"
)

// PublishStatus is the stored lifecycle state. Expiry is derived at read
// time from ExpiresAt and never stored.
type PublishStatus string

const (
	StatusPending   PublishStatus = "pending"
	StatusPublished PublishStatus = "published"
)

type Notification struct {
	NotificationID   string        `json:"id" dynamodbav:"notification_id"`
	Kind             Kind          `json:"kind" dynamodbav:"kind"`
	Status           PublishStatus `json:"status" dynamodbav:"status"`
	Title            string        `json:"title" dynamodbav:"title"`
	Message          string        `json:"message" dynamodbav:"message"`
	Icon             string        `json:"icon" dynamodbav:"icon"`
	TargetUserID     *string       `json:"target_user_id,omitempty" dynamodbav:"target_user_id,omitempty"`
	RelatedProductID *string       `json:"related_product_id,omitempty" dynamodbav:"related_product_id,omitempty"`
	RelatedSaleID    *string       `json:"related_sale_id,omitempty" dynamodbav:"related_sale_id,omitempty"`
	PublishAt        *time.Time    `json:"publish_at,omitempty" dynamodbav:"publish_at,omitempty"`
	ExpiresAt        *time.Time    `json:"expires_at,omitempty" dynamodbav:"expires_at,omitempty"`
	CreatedAt        time.Time     `json:"created" dynamodbav:"created_at"`
}

// Audience is the kind-specific targeting of a notification. The union
// keeps combinations like "personal without a user" unrepresentable; the
// flat persisted record above is rebuilt from it.
type Audience interface {
	Kind() Kind
}

// PersonalAudience targets exactly one user.
type PersonalAudience struct {
	UserID string
}

func (PersonalAudience) Kind() Kind { return KindPersonal }

// GlobalAudience targets every user.
type GlobalAudience struct{}

func (GlobalAudience) Kind() Kind { return KindGlobal }

// ProductAudience targets the wishlist followers of one product.
type ProductAudience struct {
	ProductID string
}

func (ProductAudience) Kind() Kind { return KindProductAlert }

// Audience reconstructs the targeting union from the stored fields.
func (n *Notification) Audience() Audience {
	switch n.Kind {
	case KindPersonal:
		if n.TargetUserID != nil {
			return PersonalAudience{UserID: *n.TargetUserID}
		}
	case KindProductAlert:
		if n.RelatedProductID != nil {
			return ProductAudience{ProductID: *n.RelatedProductID}
		}
	case KindGlobal:
		return GlobalAudience{}
	}
	return nil
}

// VisibleTo reports whether the notification's audience includes the given
// user, where wishlist holds the product IDs the user follows. It does not
// evaluate publish state or expiry.
func (n *Notification) VisibleTo(userID string, wishlist map[string]struct{}) bool {
	switch a := n.Audience().(type) {
	case GlobalAudience:
		return true
	case PersonalAudience:
		return a.UserID == userID
	case ProductAudience:
		_, ok := wishlist[a.ProductID]
		return ok
	default:
		return false
	}
}

// Expired reports whether the notification's window has closed at the given
// instant. A nil ExpiresAt never expires.
func (n *Notification) Expired(now time.Time) bool {
	return n.ExpiresAt != nil && !n.ExpiresAt.After(now)
}

// Due reports whether the notification may be published at the given
// instant. A nil PublishAt is due immediately.
func (n *Notification) Due(now time.Time) bool {
	return n.PublishAt == nil || !n.PublishAt.After(now)
}

// NotificationSpec is the creation/replacement input for a notification.
type NotificationSpec struct {
	Audience      Audience
	Title         string
	Message       string
	Icon          string
	RelatedSaleID *string
	PublishAt     *time.Time
	ExpiresAt     *time.Time
}

// FeedItem is the per-request projection returned by the feed and pushed on
// live streams. Read and Hidden are derived from the caller's overlays and
// never stored on the notification itself.
type FeedItem struct {
	Notification
	Read   bool `json:"read"`
	Hidden bool `json:"hidden"`
}

// ReadMark records that one user has seen one notification. Absence means
// unread; it is never updated or removed.
type ReadMark struct {
	UserID         string    `json:"user_id" dynamodbav:"user_id"`
	NotificationID string    `json:"notification_id" dynamodbav:"notification_id"`
	CreatedAt      time.Time `json:"created" dynamodbav:"created_at"`
}

// HiddenMark records that one user opted a notification out of their feed.
type HiddenMark struct {
	UserID         string    `json:"user_id" dynamodbav:"user_id"`
	NotificationID string    `json:"notification_id" dynamodbav:"notification_id"`
	CreatedAt      time.Time `json:"created" dynamodbav:"created_at"`
}

// CreateNotificationRequest is the wire shape for creating a notification.
type CreateNotificationRequest struct {
	Kind             string     `json:"kind" validate:"required,oneof=personal global product_alert"`
	Title            string     `json:"title" validate:"required"`
	Message          string     `json:"message" validate:"required"`
	Icon             string     `json:"icon"`
	TargetUserID     *string    `json:"target_user_id"`
	RelatedProductID *string    `json:"related_product_id"`
	RelatedSaleID    *string    `json:"related_sale_id"`
	PublishAt        *time.Time `json:"publish_at"`
	ExpiresAt        *time.Time `json:"expires_at"`
}

// Spec converts the wire shape to a NotificationSpec, enforcing that the
// kind carries the targeting field it needs.
func (r CreateNotificationRequest) Spec() (NotificationSpec, error) {
	audience, err := BuildAudience(Kind(r.Kind), r.TargetUserID, r.RelatedProductID)
	if err != nil {
		return NotificationSpec{}, err
	}
	return NotificationSpec{
		Audience:      audience,
		Title:         r.Title,
		Message:       r.Message,
		Icon:          r.Icon,
		RelatedSaleID: r.RelatedSaleID,
		PublishAt:     r.PublishAt,
		ExpiresAt:     r.ExpiresAt,
	}, nil
}

// BuildAudience maps a kind plus its optional targeting fields to the
// Audience union. Fields the kind does not use are ignored.
func BuildAudience(kind Kind, targetUserID, relatedProductID *string) (Audience, error) {
	switch kind {
	case KindPersonal:
		if targetUserID == nil || *targetUserID == "" {
			return nil, ErrTargetUserRequired
		}
		return PersonalAudience{UserID: *targetUserID}, nil
	case KindGlobal:
		return GlobalAudience{}, nil
	case KindProductAlert:
		if relatedProductID == nil || *relatedProductID == "" {
			return nil, ErrRelatedProductRequired
		}
		return ProductAudience{ProductID: *relatedProductID}, nil
	default:
		return nil, ErrUnknownKind
	}
}

// PatchNotificationRequest is the wire shape for a partial update. Absent
// fields keep their current values.
type PatchNotificationRequest struct {
	Kind             *string    `json:"kind"`
	Title            *string    `json:"title"`
	Message          *string    `json:"message"`
	Icon             *string    `json:"icon"`
	TargetUserID     *string    `json:"target_user_id"`
	RelatedProductID *string    `json:"related_product_id"`
	RelatedSaleID    *string    `json:"related_sale_id"`
	PublishAt        *time.Time `json:"publish_at"`
	ExpiresAt        *time.Time `json:"expires_at"`
}
