package pricing

import (
	"errors"
	"time"
)

// Money represents a monetary value stored in minor units.
type Money = int64

var (
	// ErrInvalidDiscount is returned for a discount percent outside 0-100.
	ErrInvalidDiscount = errors.New("discount percent out of range")
	// ErrInvalidQuantity is returned for a line with a non-positive quantity.
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// Promo describes a product's base price plus its optional time-boxed discount.
// A zero PromoUntil means the discount has no end instant.
type Promo struct {
	BasePrice       Money
	DiscountPercent int32
	PromoUntil      time.Time
}

// Active reports whether the promotion applies at the given instant. The
// boundary is strict: a promotion ending exactly at now is already expired.
func (p Promo) Active(now time.Time) bool {
	if p.DiscountPercent <= 0 {
		return false
	}
	return p.PromoUntil.IsZero() || p.PromoUntil.After(now)
}

// ResolveUnitPrice computes the effective unit price at the given instant.
// Percent application uses integer division, rounding toward zero.
func ResolveUnitPrice(p Promo, now time.Time) (Money, error) {
	if p.DiscountPercent < 0 || p.DiscountPercent > 100 {
		return 0, ErrInvalidDiscount
	}
	if !p.Active(now) {
		return p.BasePrice, nil
	}
	return p.BasePrice * Money(100-p.DiscountPercent) / 100, nil
}

// Line is one cart entry entering a totals computation.
type Line struct {
	Qty   int32
	Promo Promo
}

// LineSnapshot captures the resolved unit price of a line at composition time.
// Order lines are built from these so later price changes never leak back in.
type LineSnapshot struct {
	Qty       int32
	UnitPrice Money
	Subtotal  Money
}

// Summary aggregates the computed totals of an order.
type Summary struct {
	Subtotal Money
	Discount Money
	Total    Money
}

// Subtotal sums qty times resolved unit price over all lines. An empty slice
// yields zero without error.
func Subtotal(lines []Line, now time.Time) (Money, error) {
	var total Money
	for _, ln := range lines {
		if ln.Qty <= 0 {
			return 0, ErrInvalidQuantity
		}
		unit, err := ResolveUnitPrice(ln.Promo, now)
		if err != nil {
			return 0, err
		}
		total += Money(ln.Qty) * unit
	}
	return total, nil
}

// Compose resolves every line at the given instant and applies an optional
// coupon percent on top of the promotion-adjusted subtotal. couponPercent of
// zero is a no-op. The returned snapshots carry the per-line unit prices the
// caller must persist verbatim.
func Compose(lines []Line, couponPercent int32, now time.Time) (Summary, []LineSnapshot, error) {
	if couponPercent < 0 || couponPercent > 100 {
		return Summary{}, nil, ErrInvalidDiscount
	}
	snapshots := make([]LineSnapshot, 0, len(lines))
	var subtotal Money
	for _, ln := range lines {
		if ln.Qty <= 0 {
			return Summary{}, nil, ErrInvalidQuantity
		}
		unit, err := ResolveUnitPrice(ln.Promo, now)
		if err != nil {
			return Summary{}, nil, err
		}
		lineSubtotal := Money(ln.Qty) * unit
		subtotal += lineSubtotal
		snapshots = append(snapshots, LineSnapshot{
			Qty:       ln.Qty,
			UnitPrice: unit,
			Subtotal:  lineSubtotal,
		})
	}
	total := subtotal * Money(100-couponPercent) / 100
	return Summary{
		Subtotal: subtotal,
		Discount: subtotal - total,
		Total:    total,
	}, snapshots, nil
}
