// Package events carries domain events from the subsystems that own sales,
// shipments and catalog data to the notification bridge. Producers publish
// after their own write has committed; consumption happens on the bus
// goroutine so a slow or failing notification path can never affect the
// producing operation.
package events

// Type identifies the shape of an event payload.
type Type string

const (
	TypePaymentStatusChanged   Type = "PaymentStatusChanged"
	TypeShipmentStateChanged   Type = "ShipmentStateChanged"
	TypeProductStockChanged    Type = "ProductStockChanged"
	TypeProductDiscountChanged Type = "ProductDiscountChanged"
)

// Event is implemented by every payload published on the bus.
type Event interface {
	EventType() Type
}

// PaymentStatus mirrors the sale subsystem's payment states.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentApproved  PaymentStatus = "approved"
	PaymentCancelled PaymentStatus = "cancelled"
	PaymentRejected  PaymentStatus = "rejected"
	PaymentRefunded  PaymentStatus = "refunded"
)

// ShipmentState mirrors the shipping subsystem's states.
type ShipmentState string

const (
	ShipmentProcessing ShipmentState = "processing"
	ShipmentShipped    ShipmentState = "shipped"
	ShipmentDelivered  ShipmentState = "delivered"
	ShipmentCancelled  ShipmentState = "cancelled"
	ShipmentReturned   ShipmentState = "returned"
)

// PaymentStatusChanged is raised when a sale's payment moves between
// states. UserID may be empty when the sale has no account attached.
type PaymentStatusChanged struct {
	SaleID    string        `json:"sale_id"`
	OldStatus PaymentStatus `json:"old_status"`
	NewStatus PaymentStatus `json:"new_status"`
	UserID    string        `json:"user_id,omitempty"`
}

func (PaymentStatusChanged) EventType() Type { return TypePaymentStatusChanged }

// ShipmentStateChanged is raised when a shipment moves between states.
type ShipmentStateChanged struct {
	ShipmentID string        `json:"shipment_id"`
	SaleID     string        `json:"sale_id,omitempty"`
	OldState   ShipmentState `json:"old_state"`
	NewState   ShipmentState `json:"new_state"`
	UserID     string        `json:"user_id,omitempty"`
}

func (ShipmentStateChanged) EventType() Type { return TypeShipmentStateChanged }

// ProductStockChanged is raised after a product's stock level is written.
// Absent stock values are treated as zero.
type ProductStockChanged struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	OldStock    *int   `json:"old_stock,omitempty"`
	NewStock    *int   `json:"new_stock,omitempty"`
}

func (ProductStockChanged) EventType() Type { return TypeProductStockChanged }

// ProductDiscountChanged is raised after a product's discount percentage is
// written. Absent discount values are treated as zero.
type ProductDiscountChanged struct {
	ProductID   string   `json:"product_id"`
	ProductName string   `json:"product_name"`
	OldDiscount *float64 `json:"old_discount,omitempty"`
	NewDiscount *float64 `json:"new_discount,omitempty"`
}

func (ProductDiscountChanged) EventType() Type { return TypeProductDiscountChanged }

// IntValue unwraps an optional stock count, defaulting to zero.
func IntValue(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// FloatValue unwraps an optional discount percentage, defaulting to zero.
func FloatValue(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
