package coupon

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/lojinha-app/backend-lojinha/internal/db"
)

type stubQuerier struct {
	coupon       db.Coupon
	getErr       error
	redeemRows   int64
	redeemErr    error
	lastCode     string
	redeemCalled int
}

func (s *stubQuerier) GetActiveCouponByCode(_ context.Context, code string) (db.Coupon, error) {
	s.lastCode = code
	if s.getErr != nil {
		return db.Coupon{}, s.getErr
	}
	return s.coupon, nil
}

func (s *stubQuerier) RedeemCoupon(_ context.Context, _ pgtype.UUID) (int64, error) {
	s.redeemCalled++
	if s.redeemErr != nil {
		return 0, s.redeemErr
	}
	rows := s.redeemRows
	if rows > 0 {
		s.redeemRows--
	}
	return rows, nil
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
}

func tsz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func couponID(t *testing.T) pgtype.UUID {
	t.Helper()
	return pgtype.UUID{Bytes: uuid.MustParse("11111111-1111-1111-1111-111111111111"), Valid: true}
}

func TestValidateSuccess(t *testing.T) {
	q := &stubQuerier{coupon: db.Coupon{
		ID:              couponID(t),
		Code:            "PROMO10",
		DiscountPercent: 10,
		ExpiresAt:       tsz(fixedNow().Add(24 * time.Hour)),
		UsageLimit:      100,
		UsedCount:       3,
		Active:          true,
	}}
	svc := &Service{Q: q, Now: fixedNow}

	got, err := svc.Validate(context.Background(), "  promo10 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.DiscountPercent != 10 || got.Code != "PROMO10" {
		t.Fatalf("unexpected result: %+v", got)
	}
	if q.lastCode != "PROMO10" {
		t.Fatalf("code must be normalized before lookup, got %q", q.lastCode)
	}
}

func TestValidateNotFound(t *testing.T) {
	q := &stubQuerier{getErr: pgx.ErrNoRows}
	svc := &Service{Q: q, Now: fixedNow}

	_, err := svc.Validate(context.Background(), "NADA")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestValidateEmptyCode(t *testing.T) {
	svc := &Service{Q: &stubQuerier{}, Now: fixedNow}
	_, err := svc.Validate(context.Background(), "   ")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestValidateExpiredCoupon(t *testing.T) {
	q := &stubQuerier{coupon: db.Coupon{
		ID:              couponID(t),
		Code:            "VELHO",
		DiscountPercent: 10,
		ExpiresAt:       tsz(fixedNow().Add(-time.Hour)),
		UsageLimit:      100,
		Active:          true,
	}}
	svc := &Service{Q: q, Now: fixedNow}

	_, err := svc.Validate(context.Background(), "VELHO")
	if !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestValidateExhaustedCoupon(t *testing.T) {
	q := &stubQuerier{coupon: db.Coupon{
		ID:              couponID(t),
		Code:            "ESGOTADO",
		DiscountPercent: 10,
		ExpiresAt:       tsz(fixedNow().Add(48 * time.Hour)),
		UsageLimit:      1,
		UsedCount:       1,
		Active:          true,
	}}
	svc := &Service{Q: q, Now: fixedNow}

	_, err := svc.Validate(context.Background(), "ESGOTADO")
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
}

func TestValidateStorageErrorPassesThrough(t *testing.T) {
	boom := errors.New("connection reset")
	svc := &Service{Q: &stubQuerier{getErr: boom}, Now: fixedNow}

	_, err := svc.Validate(context.Background(), "PROMO10")
	if !errors.Is(err, boom) {
		t.Fatalf("expected storage error passthrough, got %v", err)
	}
}

func TestRedeemLastSlotRace(t *testing.T) {
	// One remaining slot: the first conditional increment wins, the second
	// affects zero rows and must surface as exhausted.
	q := &stubQuerier{redeemRows: 1}
	svc := &Service{Q: q, Now: fixedNow}
	id := couponID(t)

	if err := svc.Redeem(context.Background(), q, id); err != nil {
		t.Fatalf("first redeem must succeed, got %v", err)
	}
	if err := svc.Redeem(context.Background(), q, id); !errors.Is(err, ErrExhausted) {
		t.Fatalf("second redeem must be exhausted, got %v", err)
	}
	if q.redeemCalled != 2 {
		t.Fatalf("expected two redeem attempts, got %d", q.redeemCalled)
	}
}
