package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const couponColumns = `id, code, discount_percent, expires_at, usage_limit, used_count, active, created_at`

func scanCoupon(row interface{ Scan(...any) error }) (Coupon, error) {
	var c Coupon
	err := row.Scan(
		&c.ID,
		&c.Code,
		&c.DiscountPercent,
		&c.ExpiresAt,
		&c.UsageLimit,
		&c.UsedCount,
		&c.Active,
		&c.CreatedAt,
	)
	return c, err
}

// CreateCouponParams holds the fields an administrator supplies for a coupon.
type CreateCouponParams struct {
	Code            string
	DiscountPercent int32
	ExpiresAt       pgtype.Timestamptz
	UsageLimit      int32
}

// CreateCoupon inserts a coupon. Codes are stored upper-cased and unique.
func (q *Queries) CreateCoupon(ctx context.Context, arg CreateCouponParams) (Coupon, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO coupons (code, discount_percent, expires_at, usage_limit)
		VALUES (upper($1), $2, $3, $4)
		RETURNING `+couponColumns,
		arg.Code, arg.DiscountPercent, arg.ExpiresAt, arg.UsageLimit,
	)
	return scanCoupon(row)
}

// ListCoupons returns all coupons, newest first.
func (q *Queries) ListCoupons(ctx context.Context) ([]Coupon, error) {
	rows, err := q.db.Query(ctx, `SELECT `+couponColumns+` FROM coupons ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var coupons []Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, c)
	}
	return coupons, rows.Err()
}

// GetActiveCouponByCode loads an active coupon by its normalized code.
func (q *Queries) GetActiveCouponByCode(ctx context.Context, code string) (Coupon, error) {
	row := q.db.QueryRow(ctx, `
		SELECT `+couponColumns+`
		FROM coupons
		WHERE code = upper($1) AND active`,
		code,
	)
	return scanCoupon(row)
}

// RedeemCoupon increments used_count by one only while the usage limit is not
// exhausted. Zero affected rows means a concurrent redemption used the last
// slot; callers must treat that as exhausted, never retry blindly.
func (q *Queries) RedeemCoupon(ctx context.Context, id pgtype.UUID) (int64, error) {
	tag, err := q.db.Exec(ctx, `
		UPDATE coupons
		SET used_count = used_count + 1
		WHERE id = $1 AND active AND used_count < usage_limit`,
		id,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
