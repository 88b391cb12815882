package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
)

// Validation errors for kind-dependent notification targeting. All wrap
// ErrBadRequest so handlers need only one check.
var (
	ErrTargetUserRequired     = fmt.Errorf("personal notification requires target_user_id: %w", ErrBadRequest)
	ErrRelatedProductRequired = fmt.Errorf("product alert requires related_product_id: %w", ErrBadRequest)
	ErrUnknownKind            = fmt.Errorf("unknown notification kind: %w", ErrBadRequest)
)
