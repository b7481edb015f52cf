package coupon

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when no active coupon matches the submitted code.
	ErrNotFound = errors.New("coupon not found")
	// ErrExpired is returned when the coupon's expiry instant has been reached.
	ErrExpired = errors.New("coupon expired")
	// ErrExhausted is returned when the coupon's usage limit is spent.
	ErrExhausted = errors.New("coupon usage limit reached")
)

// Rule captures the runtime constraints of a coupon. A zero ExpiresAt means
// the coupon never expires.
type Rule struct {
	Code            string
	DiscountPercent int32
	ExpiresAt       time.Time
	UsageLimit      int32
	UsedCount       int32
}

// Normalize canonicalizes a user-submitted code: trimmed, upper-cased.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate checks applicability at the provided instant. The checks are
// ordered so the three failure kinds stay mutually exclusive: expiry before
// exhaustion. Validation never mutates; usage is recorded at placement only.
func (r Rule) Validate(now time.Time) error {
	if !r.ExpiresAt.IsZero() && !r.ExpiresAt.After(now) {
		return ErrExpired
	}
	if r.UsedCount >= r.UsageLimit {
		return ErrExhausted
	}
	return nil
}
