package coupon

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/lojinha-app/backend-lojinha/internal/db"
)

// Redeemer is the single mutation redemption needs. Checkout passes its
// transactional store here so the usage increment joins the placement write.
type Redeemer interface {
	RedeemCoupon(ctx context.Context, id pgtype.UUID) (int64, error)
}

// Querier captures the database methods required by the coupon service.
type Querier interface {
	Redeemer
	GetActiveCouponByCode(ctx context.Context, code string) (db.Coupon, error)
}

// Validated identifies an applicable coupon. ID is kept so placement can
// record the redemption later without a second lookup.
type Validated struct {
	ID              pgtype.UUID
	Code            string
	DiscountPercent int32
}

// Service evaluates coupon codes against the live store.
type Service struct {
	Q   Querier
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Validate resolves a submitted code and checks it is currently applicable.
// Inactive and missing coupons are indistinguishable to the caller. No state
// is mutated here.
func (s *Service) Validate(ctx context.Context, code string) (Validated, error) {
	normalized := Normalize(code)
	if normalized == "" {
		return Validated{}, ErrNotFound
	}
	c, err := s.Q.GetActiveCouponByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Validated{}, ErrNotFound
		}
		return Validated{}, err
	}
	rule := RuleFromModel(c)
	if err := rule.Validate(s.now()); err != nil {
		return Validated{}, err
	}
	return Validated{ID: c.ID, Code: c.Code, DiscountPercent: c.DiscountPercent}, nil
}

// Redeem consumes one usage slot. The increment is conditional on the limit,
// so two concurrent placements racing for the last slot resolve to exactly
// one success; the loser sees ErrExhausted.
func (s *Service) Redeem(ctx context.Context, q Redeemer, id pgtype.UUID) error {
	affected, err := q.RedeemCoupon(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrExhausted
	}
	return nil
}

// RuleFromModel adapts a stored coupon row into an evaluation rule.
func RuleFromModel(c db.Coupon) Rule {
	r := Rule{
		Code:            c.Code,
		DiscountPercent: c.DiscountPercent,
		UsageLimit:      c.UsageLimit,
		UsedCount:       c.UsedCount,
	}
	if c.ExpiresAt.Valid {
		r.ExpiresAt = c.ExpiresAt.Time
	}
	return r
}
