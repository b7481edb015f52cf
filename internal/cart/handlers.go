package cart

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/lojinha-app/backend-lojinha/internal/common"
	"github.com/lojinha-app/backend-lojinha/internal/db"
	"github.com/lojinha-app/backend-lojinha/internal/pricing"
)

// Handler wires the per-user cart to HTTP.
type Handler struct {
	Q        *db.Queries
	Validate *validator.Validate
	Now      func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (pgtype.UUID, bool) {
	raw, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return pgtype.UUID{}, false
	}
	uid, err := common.ParseUUID(raw)
	if err != nil {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid user identity", nil)
		return pgtype.UUID{}, false
	}
	return uid, true
}

// Get returns the cart with every line priced at the current instant.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.userID(w, r)
	if !ok {
		return
	}
	details, err := h.Q.ListCartLines(r.Context(), uid)
	if err != nil {
		common.RenderError(w, err)
		return
	}
	now := h.now()
	views := make([]View, 0, len(details))
	var subtotal pricing.Money
	for _, d := range details {
		promo := PromoFromDetail(d)
		unit, err := pricing.ResolveUnitPrice(promo, now)
		if err != nil {
			common.RenderError(w, err)
			return
		}
		lineSubtotal := pricing.Money(d.Qty) * unit
		subtotal += lineSubtotal
		v := View{
			ID:           common.UUIDString(d.ID),
			ProductID:    common.UUIDString(d.ProductID),
			Name:         d.Name,
			Slug:         d.Slug,
			Qty:          d.Qty,
			BasePrice:    d.Price,
			UnitPrice:    unit,
			LineSubtotal: lineSubtotal,
			PromoActive:  promo.Active(now),
			DiscountPct:  d.DiscountPercent,
		}
		if d.ImageURL.Valid {
			v.ImageURL = d.ImageURL.String
		}
		if d.PromoUntil.Valid {
			t := d.PromoUntil.Time
			v.PromoUntil = &t
		}
		views = append(views, v)
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"items":    views,
		"subtotal": subtotal,
	}})
}

type addPayload struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Qty       int32  `json:"qty" validate:"required,gte=1"`
}

// AddItem adds a product to the cart, incrementing quantity on repeat adds.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.userID(w, r)
	if !ok {
		return
	}
	var payload addPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.Validate.Struct(payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}
	productID, err := common.ParseUUID(payload.ProductID)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid product id", nil)
		return
	}
	if _, err := h.Q.GetProductByID(r.Context(), productID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "product not found", nil)
			return
		}
		common.RenderError(w, err)
		return
	}
	line, err := h.Q.UpsertCartLine(r.Context(), db.UpsertCartLineParams{
		UserID:    uid,
		ProductID: productID,
		Qty:       payload.Qty,
	})
	if err != nil {
		common.RenderError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": map[string]any{
		"id":  common.UUIDString(line.ID),
		"qty": line.Qty,
	}})
}

type updatePayload struct {
	Qty int32 `json:"qty" validate:"required,gte=1"`
}

// UpdateItem sets the absolute quantity of one cart line.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.userID(w, r)
	if !ok {
		return
	}
	itemID, err := common.ParseUUID(chi.URLParam(r, "itemID"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid item id", nil)
		return
	}
	var payload updatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.Validate.Struct(payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}
	line, err := h.Q.UpdateCartLineQty(r.Context(), db.UpdateCartLineQtyParams{
		ID:     itemID,
		UserID: uid,
		Qty:    payload.Qty,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "cart item not found", nil)
			return
		}
		common.RenderError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"id":  common.UUIDString(line.ID),
		"qty": line.Qty,
	}})
}

// RemoveItem deletes one cart line.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.userID(w, r)
	if !ok {
		return
	}
	itemID, err := common.ParseUUID(chi.URLParam(r, "itemID"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid item id", nil)
		return
	}
	affected, err := h.Q.DeleteCartLine(r.Context(), db.DeleteCartLineParams{ID: itemID, UserID: uid})
	if err != nil {
		common.RenderError(w, err)
		return
	}
	if affected == 0 {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "cart item not found", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"deleted": true}})
}
