package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	"github.com/lojinha-app/backend-lojinha/internal/cart"
	"github.com/lojinha-app/backend-lojinha/internal/common"
	"github.com/lojinha-app/backend-lojinha/internal/coupon"
	"github.com/lojinha-app/backend-lojinha/internal/db"
	"github.com/lojinha-app/backend-lojinha/internal/events"
	"github.com/lojinha-app/backend-lojinha/internal/obs"
	"github.com/lojinha-app/backend-lojinha/internal/pricing"
)

var (
	// ErrNotAuthenticated is returned when placement runs without a signed-in user.
	ErrNotAuthenticated = errors.New("checkout requires an authenticated user")
	// ErrEmptyCart is returned when the cart holds no lines.
	ErrEmptyCart = errors.New("cart is empty")
)

// Placement stages, used to classify failures for logging and metrics. A
// failure at StageLines is the partial-order condition: the header write
// already happened inside the transaction, so it must stay distinguishable
// even though the rollback removes the orphan.
const (
	StageHeader = "order_header"
	StageLines  = "order_lines"
	StageCoupon = "coupon_redeem"
	StageCommit = "commit"
)

// StageError wraps a storage failure with the placement stage it occurred at.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("placement failed at %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// IsPartial reports whether the error is a partial-order failure: lines
// could not be recorded after the header write.
func IsPartial(err error) bool {
	var se *StageError
	return errors.As(err, &se) && se.Stage == StageLines
}

// Input is a placement request.
type Input struct {
	CouponCode string `json:"couponCode"`
}

// Output reports a successfully placed order.
type Output struct {
	OrderID  string        `json:"orderId"`
	Status   string        `json:"status"`
	Subtotal pricing.Money `json:"subtotal"`
	Discount pricing.Money `json:"discount"`
	Total    pricing.Money `json:"total"`
}

// Service coordinates order placement: cart validation, totals composition,
// the transactional write of header plus lines plus coupon redemption, cart
// clearing and post-commit fan-out.
type Service struct {
	Store   Store
	Coupons *coupon.Service
	Events  *events.Bus
	Log     zerolog.Logger
	Now     func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Place runs one placement attempt for the given user. The transaction
// guarantees the order header, its lines and the coupon redemption land
// together or not at all; the cart is cleared only after commit.
func (s *Service) Place(ctx context.Context, userID string, in Input) (Output, error) {
	if s == nil || s.Store == nil {
		return Output{}, errors.New("checkout service not configured")
	}
	if userID == "" {
		return Output{}, ErrNotAuthenticated
	}
	uid, err := common.ParseUUID(userID)
	if err != nil {
		return Output{}, fmt.Errorf("invalid user id: %w", ErrNotAuthenticated)
	}

	details, err := s.Store.ListCartLines(ctx, uid)
	if err != nil {
		return Output{}, err
	}
	if len(details) == 0 {
		return Output{}, ErrEmptyCart
	}

	var validated coupon.Validated
	var couponPercent int32
	if in.CouponCode != "" {
		validated, err = s.Coupons.Validate(ctx, in.CouponCode)
		if err != nil {
			return Output{}, err
		}
		couponPercent = validated.DiscountPercent
	}

	now := s.now()
	summary, snapshots, err := pricing.Compose(cart.LinesForPricing(details), couponPercent, now)
	if err != nil {
		return Output{}, err
	}

	order, err := s.persist(ctx, uid, details, summary, snapshots, validated)
	if err != nil {
		s.recordFailure(err)
		return Output{}, err
	}

	if _, err := s.Store.ClearCart(ctx, uid); err != nil {
		// The order is durable; a stale cart is an inconvenience, not a failure.
		s.Log.Warn().Err(err).Str("order_id", common.UUIDString(order.ID)).Msg("cart clear failed after placement")
	}

	s.emit(ctx, uid, order)

	if obs.OrdersPlacedTotal != nil {
		obs.OrdersPlacedTotal.WithLabelValues("success").Inc()
	}
	if obs.OrderTotalAmount != nil {
		obs.OrderTotalAmount.Observe(float64(order.Total))
	}

	return Output{
		OrderID:  common.UUIDString(order.ID),
		Status:   string(order.Status),
		Subtotal: order.Subtotal,
		Discount: order.Discount,
		Total:    order.Total,
	}, nil
}

func (s *Service) persist(
	ctx context.Context,
	uid pgtype.UUID,
	details []db.CartLineDetail,
	summary pricing.Summary,
	snapshots []pricing.LineSnapshot,
	validated coupon.Validated,
) (db.Order, error) {
	var order db.Order
	err := s.Store.InTx(ctx, func(qtx TxStore) error {
		params := db.CreateOrderParams{
			UserID:   uid,
			Subtotal: summary.Subtotal,
			Discount: summary.Discount,
			Total:    summary.Total,
		}
		if validated.Code != "" {
			params.CouponCode = pgtype.Text{String: validated.Code, Valid: true}
		}
		created, err := qtx.CreateOrder(ctx, params)
		if err != nil {
			return &StageError{Stage: StageHeader, Err: err}
		}
		order = created

		for i, d := range details {
			snap := snapshots[i]
			if err := qtx.CreateOrderLine(ctx, db.CreateOrderLineParams{
				OrderID:   order.ID,
				ProductID: d.ProductID,
				Name:      d.Name,
				Qty:       snap.Qty,
				UnitPrice: snap.UnitPrice,
				Subtotal:  snap.Subtotal,
			}); err != nil {
				return &StageError{Stage: StageLines, Err: err}
			}
		}

		if !validated.ID.Valid {
			return nil
		}
		if err := s.Coupons.Redeem(ctx, qtx, validated.ID); err != nil {
			if errors.Is(err, coupon.ErrExhausted) {
				if obs.CouponRedemptionsTotal != nil {
					obs.CouponRedemptionsTotal.WithLabelValues("exhausted").Inc()
				}
				return err
			}
			if obs.CouponRedemptionsTotal != nil {
				obs.CouponRedemptionsTotal.WithLabelValues("error").Inc()
			}
			return &StageError{Stage: StageCoupon, Err: err}
		}
		if obs.CouponRedemptionsTotal != nil {
			obs.CouponRedemptionsTotal.WithLabelValues("success").Inc()
		}
		return nil
	})
	if err != nil {
		return db.Order{}, err
	}
	return order, nil
}

func (s *Service) emit(ctx context.Context, uid pgtype.UUID, order db.Order) {
	if s.Events == nil {
		return
	}
	payload := map[string]any{
		"orderId": common.UUIDString(order.ID),
		"userId":  common.UUIDString(uid),
		"total":   order.Total,
	}
	if user, err := s.Store.GetUserByID(ctx, uid); err == nil && user.Email != "" {
		payload["email"] = user.Email
	}
	if _, err := s.Events.Emit(ctx, events.TopicOrderCreated, order.ID, payload); err != nil {
		s.Log.Warn().Err(err).Str("order_id", common.UUIDString(order.ID)).Msg("order event fan-out failed")
	}
}

func (s *Service) recordFailure(err error) {
	var se *StageError
	if errors.As(err, &se) {
		if IsPartial(err) {
			s.Log.Error().Err(se.Err).Str("stage", se.Stage).Msg("partial order failure, transaction rolled back")
		}
		if obs.OrderFailureStageTotal != nil {
			obs.OrderFailureStageTotal.WithLabelValues(se.Stage).Inc()
		}
	}
	if obs.OrdersPlacedTotal != nil {
		obs.OrdersPlacedTotal.WithLabelValues("failure").Inc()
	}
}
