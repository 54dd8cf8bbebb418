package store

import "errors"

var (
	ErrConflict            = errors.New("conflict")
	ErrNotFound            = errors.New("not found")
	ErrIdempotencyConflict = errors.New("idempotency key conflict")
	ErrDailyLimitReached   = errors.New("daily appointment limit reached")
	ErrDuplicateOffer      = errors.New("offer already exists")
)
