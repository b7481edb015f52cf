package coupon

import (
	"errors"
	"testing"
	"time"
)

var now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func TestNormalize(t *testing.T) {
	if got := Normalize("  bemvindo10 "); got != "BEMVINDO10" {
		t.Fatalf("expected BEMVINDO10, got %q", got)
	}
}

func TestValidateApplicable(t *testing.T) {
	r := Rule{Code: "PROMO10", DiscountPercent: 10, ExpiresAt: now.Add(time.Hour), UsageLimit: 5, UsedCount: 4}
	if err := r.Validate(now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateNoExpiry(t *testing.T) {
	r := Rule{Code: "ETERNO", DiscountPercent: 5, UsageLimit: 10}
	if err := r.Validate(now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateExpired(t *testing.T) {
	r := Rule{Code: "VELHO", DiscountPercent: 10, ExpiresAt: now.Add(-time.Minute), UsageLimit: 5}
	if err := r.Validate(now); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestValidateExpiryBoundaryIsExpired(t *testing.T) {
	r := Rule{Code: "LIMITE", DiscountPercent: 10, ExpiresAt: now, UsageLimit: 5}
	if err := r.Validate(now); !errors.Is(err, ErrExpired) {
		t.Fatalf("expiry equal to now must be expired, got %v", err)
	}
}

func TestValidateExhausted(t *testing.T) {
	// Exhaustion wins over any future expiry.
	r := Rule{Code: "ESGOTADO", DiscountPercent: 10, ExpiresAt: now.Add(48 * time.Hour), UsageLimit: 1, UsedCount: 1}
	if err := r.Validate(now); !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
}

func TestValidateExpiredBeatsExhausted(t *testing.T) {
	r := Rule{Code: "AMBOS", DiscountPercent: 10, ExpiresAt: now.Add(-time.Hour), UsageLimit: 1, UsedCount: 1}
	if err := r.Validate(now); !errors.Is(err, ErrExpired) {
		t.Fatalf("expired coupon must report expiry first, got %v", err)
	}
}
