package domain

import "time"

// Role names carried in JWT claims.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is consumed read-only by this service: referential checks for
// personal notifications and role lookups. Account management lives in the
// identity service that owns the table.
type User struct {
	UserID    string    `json:"id" dynamodbav:"user_id"`
	Username  string    `json:"username" dynamodbav:"username"`
	Email     string    `json:"email" dynamodbav:"email"`
	Role      string    `json:"role" dynamodbav:"role"`
	Enable    int       `json:"enable" dynamodbav:"enable"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
}
