package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a ULID string for notification and product IDs. ULIDs are
// lexicographically sortable by creation time and safe as DynamoDB
// partition keys.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
