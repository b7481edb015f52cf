package coupon

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/lojinha-app/backend-lojinha/internal/cart"
	"github.com/lojinha-app/backend-lojinha/internal/common"
	"github.com/lojinha-app/backend-lojinha/internal/db"
	"github.com/lojinha-app/backend-lojinha/internal/pricing"
)

// Handler exposes coupon administration plus the shopper-facing preview.
type Handler struct {
	Q        *db.Queries
	Svc      *Service
	Validate *validator.Validate
	Now      func() time.Time
}

type createPayload struct {
	Code            string     `json:"code" validate:"required,min=3,max=32"`
	DiscountPercent int32      `json:"discountPercent" validate:"required,gte=1,lte=100"`
	ExpiresAt       *time.Time `json:"expiresAt"`
	UsageLimit      int32      `json:"usageLimit" validate:"required,gte=1"`
}

type couponView struct {
	ID              string     `json:"id"`
	Code            string     `json:"code"`
	DiscountPercent int32      `json:"discountPercent"`
	ExpiresAt       *time.Time `json:"expiresAt,omitempty"`
	UsageLimit      int32      `json:"usageLimit"`
	UsedCount       int32      `json:"usedCount"`
	Active          bool       `json:"active"`
}

// Create inserts a new coupon. Admin only.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var payload createPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.Validate.Struct(payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}
	params := db.CreateCouponParams{
		Code:            Normalize(payload.Code),
		DiscountPercent: payload.DiscountPercent,
		UsageLimit:      payload.UsageLimit,
	}
	if payload.ExpiresAt != nil {
		params.ExpiresAt = pgtype.Timestamptz{Time: *payload.ExpiresAt, Valid: true}
	}
	created, err := h.Q.CreateCoupon(r.Context(), params)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			common.JSONError(w, http.StatusConflict, "DUPLICATE_CODE", "coupon code already exists", nil)
			return
		}
		common.RenderError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": toView(created)})
}

// List returns every coupon for the admin panel.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.Q.ListCoupons(r.Context())
	if err != nil {
		common.RenderError(w, err)
		return
	}
	views := make([]couponView, 0, len(coupons))
	for _, c := range coupons {
		views = append(views, toView(c))
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": views})
}

type previewRequest struct {
	Code string `json:"code" validate:"required"`
}

type previewResponse struct {
	Code            string        `json:"code"`
	DiscountPercent int32         `json:"discountPercent"`
	Subtotal        pricing.Money `json:"subtotal"`
	Discount        pricing.Money `json:"discount"`
	Total           pricing.Money `json:"total"`
}

// Preview runs a dry-run validation of a code against the caller's cart.
// Nothing is redeemed; the shopper sees what the totals would become.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}
	uid, err := common.ParseUUID(userID)
	if err != nil {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid user identity", nil)
		return
	}
	validated, err := h.Svc.Validate(r.Context(), req.Code)
	if err != nil {
		RenderValidationError(w, err)
		return
	}
	details, err := h.Q.ListCartLines(r.Context(), uid)
	if err != nil {
		common.RenderError(w, err)
		return
	}
	summary, _, err := pricing.Compose(cart.LinesForPricing(details), validated.DiscountPercent, h.now())
	if err != nil {
		common.RenderError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": previewResponse{
		Code:            validated.Code,
		DiscountPercent: validated.DiscountPercent,
		Subtotal:        summary.Subtotal,
		Discount:        summary.Discount,
		Total:           summary.Total,
	}})
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// RenderValidationError maps the coupon error taxonomy onto HTTP responses.
// Checkout reuses it so the preview and placement surfaces stay consistent.
func RenderValidationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "COUPON_NOT_FOUND", "coupon not found", nil)
	case errors.Is(err, ErrExpired):
		common.JSONError(w, http.StatusUnprocessableEntity, "COUPON_EXPIRED", "coupon expired", nil)
	case errors.Is(err, ErrExhausted):
		common.JSONError(w, http.StatusConflict, "COUPON_EXHAUSTED", "coupon usage limit reached", nil)
	default:
		common.RenderError(w, err)
	}
}

func toView(c db.Coupon) couponView {
	v := couponView{
		ID:              common.UUIDString(c.ID),
		Code:            c.Code,
		DiscountPercent: c.DiscountPercent,
		UsageLimit:      c.UsageLimit,
		UsedCount:       c.UsedCount,
		Active:          c.Active,
	}
	if c.ExpiresAt.Valid {
		t := c.ExpiresAt.Time
		v.ExpiresAt = &t
	}
	return v
}
