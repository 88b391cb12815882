package domain

import "time"

// WishlistEntry maps one user to one product they follow. The notification
// core reads these to resolve product-alert audiences; the wishlist edge
// writes them.
type WishlistEntry struct {
	ProductID string    `json:"product_id" dynamodbav:"product_id"`
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
}
