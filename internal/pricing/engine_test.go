package pricing

import (
	"errors"
	"testing"
	"time"
)

var now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func TestResolveUnitPriceActivePromo(t *testing.T) {
	p := Promo{BasePrice: 10_000, DiscountPercent: 20, PromoUntil: now.Add(24 * time.Hour)}
	got, err := ResolveUnitPrice(p, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 8_000 {
		t.Fatalf("expected 8000, got %d", got)
	}
}

func TestResolveUnitPriceExpiredPromo(t *testing.T) {
	p := Promo{BasePrice: 10_000, DiscountPercent: 20, PromoUntil: now.Add(-24 * time.Hour)}
	got, err := ResolveUnitPrice(p, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 10_000 {
		t.Fatalf("expected base price 10000, got %d", got)
	}
}

func TestResolveUnitPriceBoundaryIsExpired(t *testing.T) {
	p := Promo{BasePrice: 10_000, DiscountPercent: 20, PromoUntil: now}
	got, err := ResolveUnitPrice(p, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 10_000 {
		t.Fatalf("promo ending at the evaluation instant must not apply, got %d", got)
	}
}

func TestResolveUnitPriceOpenEndedPromo(t *testing.T) {
	p := Promo{BasePrice: 5_000, DiscountPercent: 10}
	got, err := ResolveUnitPrice(p, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 4_500 {
		t.Fatalf("expected 4500, got %d", got)
	}
}

func TestResolveUnitPriceZeroDiscountIsNoPromo(t *testing.T) {
	p := Promo{BasePrice: 5_000, DiscountPercent: 0, PromoUntil: now.Add(time.Hour)}
	got, err := ResolveUnitPrice(p, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 5_000 {
		t.Fatalf("expected base price 5000, got %d", got)
	}
}

func TestResolveUnitPriceRejectsOutOfRangeDiscount(t *testing.T) {
	for _, pct := range []int32{-1, 101} {
		_, err := ResolveUnitPrice(Promo{BasePrice: 1_000, DiscountPercent: pct}, now)
		if !errors.Is(err, ErrInvalidDiscount) {
			t.Fatalf("discount %d: expected ErrInvalidDiscount, got %v", pct, err)
		}
	}
}

func TestResolveUnitPriceNeverExceedsBase(t *testing.T) {
	for pct := int32(0); pct <= 100; pct++ {
		p := Promo{BasePrice: 9_999, DiscountPercent: pct, PromoUntil: now.Add(time.Hour)}
		got, err := ResolveUnitPrice(p, now)
		if err != nil {
			t.Fatalf("discount %d: unexpected error: %v", pct, err)
		}
		if got > p.BasePrice {
			t.Fatalf("discount %d: resolved %d exceeds base %d", pct, got, p.BasePrice)
		}
		if pct == 0 && got != p.BasePrice {
			t.Fatalf("zero discount must resolve to base, got %d", got)
		}
	}
}

func TestSubtotal(t *testing.T) {
	lines := []Line{
		{Qty: 2, Promo: Promo{BasePrice: 10_000, DiscountPercent: 20, PromoUntil: now.Add(time.Hour)}},
		{Qty: 1, Promo: Promo{BasePrice: 5_000}},
	}
	got, err := Subtotal(lines, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 21_000 {
		t.Fatalf("expected 21000, got %d", got)
	}
}

func TestSubtotalEmptyCart(t *testing.T) {
	got, err := Subtotal(nil, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestSubtotalRejectsNonPositiveQty(t *testing.T) {
	for _, qty := range []int32{0, -3} {
		_, err := Subtotal([]Line{{Qty: qty, Promo: Promo{BasePrice: 1_000}}}, now)
		if !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("qty %d: expected ErrInvalidQuantity, got %v", qty, err)
		}
	}
}

func TestSubtotalIdempotent(t *testing.T) {
	lines := []Line{
		{Qty: 3, Promo: Promo{BasePrice: 2_500, DiscountPercent: 15, PromoUntil: now.Add(time.Minute)}},
		{Qty: 1, Promo: Promo{BasePrice: 7_990}},
	}
	first, err := Subtotal(lines, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Subtotal(lines, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("same snapshot must yield the same subtotal: %d vs %d", first, second)
	}
}

func TestComposeWithCoupon(t *testing.T) {
	lines := []Line{
		{Qty: 2, Promo: Promo{BasePrice: 10_000, DiscountPercent: 20, PromoUntil: now.Add(time.Hour)}},
		{Qty: 1, Promo: Promo{BasePrice: 5_000}},
	}
	summary, snapshots, err := Compose(lines, 10, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Subtotal != 21_000 {
		t.Fatalf("expected subtotal 21000, got %d", summary.Subtotal)
	}
	if summary.Total != 18_900 {
		t.Fatalf("expected total 18900, got %d", summary.Total)
	}
	if summary.Discount != 2_100 {
		t.Fatalf("expected discount 2100, got %d", summary.Discount)
	}
	if len(snapshots) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(snapshots))
	}
	if snapshots[0].UnitPrice != 8_000 || snapshots[0].Subtotal != 16_000 {
		t.Fatalf("unexpected first snapshot: %+v", snapshots[0])
	}
	if snapshots[1].UnitPrice != 5_000 || snapshots[1].Subtotal != 5_000 {
		t.Fatalf("unexpected second snapshot: %+v", snapshots[1])
	}
}

func TestComposeZeroCouponIsNoOp(t *testing.T) {
	lines := []Line{{Qty: 1, Promo: Promo{BasePrice: 21_000}}}
	summary, _, err := Compose(lines, 0, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Total != summary.Subtotal {
		t.Fatalf("zero coupon must leave total equal to subtotal: %+v", summary)
	}
	if summary.Discount != 0 {
		t.Fatalf("expected zero discount, got %d", summary.Discount)
	}
}

func TestComposeRejectsOutOfRangeCoupon(t *testing.T) {
	lines := []Line{{Qty: 1, Promo: Promo{BasePrice: 1_000}}}
	for _, pct := range []int32{-5, 150} {
		_, _, err := Compose(lines, pct, now)
		if !errors.Is(err, ErrInvalidDiscount) {
			t.Fatalf("coupon %d: expected ErrInvalidDiscount, got %v", pct, err)
		}
	}
}
