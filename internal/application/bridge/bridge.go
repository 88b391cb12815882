// Package bridge turns domain events from the sale, shipping and catalog
// subsystems into notifications. It consumes the event bus after the
// producing transaction has committed; every failure here is logged and
// swallowed so notification synthesis can never affect the operation that
// raised the event.
package bridge

import (
	"context"
	"fmt"
	"log"

	"github.com/shop-notify/internal/domain"
	"github.com/shop-notify/internal/events"
)

// lowStockThreshold is the fixed boundary for low-stock alerts. An alert
// fires on the downward crossing only, not on every change below it.
const lowStockThreshold = 5

type notificationCreator interface {
	Create(ctx context.Context, spec domain.NotificationSpec) (*domain.Notification, error)
}

type followerSource interface {
	FollowersOf(ctx context.Context, productID string) ([]string, error)
}

type Bridge struct {
	notifications notificationCreator
	wishlists     followerSource
}

func New(notifications notificationCreator, wishlists followerSource) *Bridge {
	return &Bridge{notifications: notifications, wishlists: wishlists}
}

// Register subscribes the bridge to the bus.
func (b *Bridge) Register(bus *events.Bus) {
	bus.Subscribe(b.Handle)
}

// Handle routes one event to its synthesis rule.
func (b *Bridge) Handle(ctx context.Context, ev events.Event) {
	switch e := ev.(type) {
	case events.PaymentStatusChanged:
		b.handlePaymentStatusChanged(ctx, e)
	case events.ShipmentStateChanged:
		b.handleShipmentStateChanged(ctx, e)
	case events.ProductStockChanged:
		b.handleProductStockChanged(ctx, e)
	case events.ProductDiscountChanged:
		b.handleProductDiscountChanged(ctx, e)
	}
}

var paymentMessages = map[events.PaymentStatus]struct {
	message string
	icon    string
}{
	events.PaymentApproved:  {"Your payment was approved.", "check-circle"},
	events.PaymentCancelled: {"Your payment was cancelled.", "x-circle"},
	events.PaymentRejected:  {"Your payment was rejected.", "alert-circle"},
	events.PaymentRefunded:  {"Your payment was refunded.", "rotate-ccw"},
	events.PaymentPending:   {"Your payment is awaiting confirmation.", "clock"},
}

func (b *Bridge) handlePaymentStatusChanged(ctx context.Context, ev events.PaymentStatusChanged) {
	// A sale without an account attached has nobody to notify.
	if ev.UserID == "" {
		return
	}
	entry, ok := paymentMessages[ev.NewStatus]
	if !ok {
		log.Printf("event bridge: payment status changed sale=%s: unknown status %q", ev.SaleID, ev.NewStatus)
		return
	}

	title := "Payment update"
	var saleID *string
	if ev.SaleID != "" {
		title = fmt.Sprintf("Payment update for order %s", ev.SaleID)
		sid := ev.SaleID
		saleID = &sid
	}

	_, err := b.notifications.Create(ctx, domain.NotificationSpec{
		Audience:      domain.PersonalAudience{UserID: ev.UserID},
		Title:         title,
		Message:       entry.message,
		Icon:          entry.icon,
		RelatedSaleID: saleID,
	})
	if err != nil {
		log.Printf("event bridge: payment status changed sale=%s user=%s: %v", ev.SaleID, ev.UserID, err)
	}
}

var shipmentLabels = map[events.ShipmentState]string{
	events.ShipmentProcessing: "being prepared",
	events.ShipmentShipped:    "on its way",
	events.ShipmentDelivered:  "delivered",
	events.ShipmentCancelled:  "cancelled",
	events.ShipmentReturned:   "returned",
}

func (b *Bridge) handleShipmentStateChanged(ctx context.Context, ev events.ShipmentStateChanged) {
	if ev.UserID == "" {
		return
	}
	label, ok := shipmentLabels[ev.NewState]
	if !ok {
		log.Printf("event bridge: shipment state changed shipment=%s: unknown state %q", ev.ShipmentID, ev.NewState)
		return
	}

	var saleID *string
	if ev.SaleID != "" {
		sid := ev.SaleID
		saleID = &sid
	}

	_, err := b.notifications.Create(ctx, domain.NotificationSpec{
		Audience:      domain.PersonalAudience{UserID: ev.UserID},
		Title:         "Shipment update",
		Message:       fmt.Sprintf("Your order is now %s.", label),
		Icon:          "truck",
		RelatedSaleID: saleID,
	})
	if err != nil {
		log.Printf("event bridge: shipment state changed shipment=%s user=%s: %v", ev.ShipmentID, ev.UserID, err)
	}
}

func (b *Bridge) handleProductStockChanged(ctx context.Context, ev events.ProductStockChanged) {
	oldStock := events.IntValue(ev.OldStock)
	newStock := events.IntValue(ev.NewStock)

	switch {
	case oldStock == 0 && newStock > 0:
		b.createProductAlert(ctx, ev.ProductID, domain.NotificationSpec{
			Audience: domain.ProductAudience{ProductID: ev.ProductID},
			Title:    "Back in stock",
			Message:  fmt.Sprintf("%s is back in stock.", ev.ProductName),
			Icon:     "package",
		})
	case oldStock > lowStockThreshold && newStock > 0 && newStock <= lowStockThreshold:
		b.createProductAlert(ctx, ev.ProductID, domain.NotificationSpec{
			Audience: domain.ProductAudience{ProductID: ev.ProductID},
			Title:    "Almost gone",
			Message:  fmt.Sprintf("%s is running low, only %d left.", ev.ProductName, newStock),
			Icon:     "alert-triangle",
		})
	}
}

func (b *Bridge) handleProductDiscountChanged(ctx context.Context, ev events.ProductDiscountChanged) {
	newDiscount := events.FloatValue(ev.NewDiscount)
	if newDiscount <= 0 || newDiscount <= events.FloatValue(ev.OldDiscount) {
		return
	}
	b.createProductAlert(ctx, ev.ProductID, domain.NotificationSpec{
		Audience: domain.ProductAudience{ProductID: ev.ProductID},
		Title:    "Price drop",
		Message:  fmt.Sprintf("%s is now %.0f%% off.", ev.ProductName, newDiscount),
		Icon:     "tag",
	})
}

// createProductAlert writes a single shared record per event; per-user
// visibility is resolved by the feed and dispatch via the wishlist, not by
// one record per follower. A product nobody follows produces nothing.
func (b *Bridge) createProductAlert(ctx context.Context, productID string, spec domain.NotificationSpec) {
	followers, err := b.wishlists.FollowersOf(ctx, productID)
	if err != nil {
		log.Printf("event bridge: product alert product=%s: resolve followers: %v", productID, err)
		return
	}
	if len(followers) == 0 {
		return
	}
	if _, err := b.notifications.Create(ctx, spec); err != nil {
		log.Printf("event bridge: product alert product=%s: %v", productID, err)
	}
}
