package db

import (
	"github.com/jackc/pgx/v5/pgtype"
)

// OrderStatus enumerates the delivery lifecycle of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusInTransit OrderStatus = "IN_TRANSIT"
	OrderStatusDelivered OrderStatus = "DELIVERED"
)

// User is a registered account.
type User struct {
	ID           pgtype.UUID
	Name         string
	Email        string
	PasswordHash string
	Roles        []string
	CreatedAt    pgtype.Timestamptz
	UpdatedAt    pgtype.Timestamptz
}

// RefreshToken is a hashed long-lived session credential.
type RefreshToken struct {
	ID        pgtype.UUID
	UserID    pgtype.UUID
	TokenHash string
	UserAgent pgtype.Text
	IP        pgtype.Text
	ExpiresAt pgtype.Timestamptz
	RevokedAt pgtype.Timestamptz
	CreatedAt pgtype.Timestamptz
}

// PasswordReset is a single-use hashed reset credential.
type PasswordReset struct {
	ID        pgtype.UUID
	UserID    pgtype.UUID
	TokenHash string
	ExpiresAt pgtype.Timestamptz
	UsedAt    pgtype.Timestamptz
	CreatedAt pgtype.Timestamptz
}

// Product is a catalog entry. Price is stored in minor currency units; an
// optional promotion is a discount percent plus an optional end instant.
type Product struct {
	ID              pgtype.UUID
	Name            string
	Slug            string
	Description     pgtype.Text
	Price           int64
	ImageURL        pgtype.Text
	DiscountPercent int32
	PromoUntil      pgtype.Timestamptz
	CreatedAt       pgtype.Timestamptz
	UpdatedAt       pgtype.Timestamptz
}

// CartLine is a single user/product row in the cart.
type CartLine struct {
	ID        pgtype.UUID
	UserID    pgtype.UUID
	ProductID pgtype.UUID
	Qty       int32
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

// CartLineDetail joins a cart line with the product fields pricing needs.
type CartLineDetail struct {
	ID              pgtype.UUID
	ProductID       pgtype.UUID
	Qty             int32
	Name            string
	Slug            string
	ImageURL        pgtype.Text
	Price           int64
	DiscountPercent int32
	PromoUntil      pgtype.Timestamptz
}

// Coupon is an administrator-owned discount code shared by all shoppers.
type Coupon struct {
	ID              pgtype.UUID
	Code            string
	DiscountPercent int32
	ExpiresAt       pgtype.Timestamptz
	UsageLimit      int32
	UsedCount       int32
	Active          bool
	CreatedAt       pgtype.Timestamptz
}

// Order is a placed order header. Monetary fields are immutable snapshots.
type Order struct {
	ID         pgtype.UUID
	UserID     pgtype.UUID
	Status     OrderStatus
	Subtotal   int64
	Discount   int64
	Total      int64
	CouponCode pgtype.Text
	CreatedAt  pgtype.Timestamptz
}

// OrderLine snapshots one cart line at placement time. UnitPrice is the
// promotion-resolved price captured at that instant, never recomputed.
type OrderLine struct {
	ID        pgtype.UUID
	OrderID   pgtype.UUID
	ProductID pgtype.UUID
	Name      string
	Qty       int32
	UnitPrice int64
	Subtotal  int64
}

// FavoriteProduct joins a favorite with its product summary.
type FavoriteProduct struct {
	ProductID       pgtype.UUID
	Name            string
	Slug            string
	ImageURL        pgtype.Text
	Price           int64
	DiscountPercent int32
	PromoUntil      pgtype.Timestamptz
	CreatedAt       pgtype.Timestamptz
}

// DomainEvent is an emitted integration event.
type DomainEvent struct {
	ID          pgtype.UUID
	Topic       string
	AggregateID pgtype.UUID
	Payload     []byte
	OccurredAt  pgtype.Timestamptz
}
