package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/lojinha-app/backend-lojinha/internal/common"
	"github.com/lojinha-app/backend-lojinha/internal/db"
)

// Handler exposes public catalog endpoints.
type Handler struct {
	Service *Service
}

// Products handles GET /products with pagination.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	params, err := h.Service.ParseListParams(r.URL.Query())
	if err != nil {
		common.RenderError(w, err)
		return
	}
	result, err := h.Service.ListProducts(r.Context(), params)
	if err != nil {
		common.RenderError(w, err)
		return
	}
	w.Header().Set("X-Total-Count", strconv.FormatInt(result.Total, 10))
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       result.Items,
		"pagination": common.NewPagination(result.Page, result.Limit, result.Total),
	})
}

// ProductDetail handles GET /products/{slug}.
func (h *Handler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	item, err := h.Service.GetProduct(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		common.RenderError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": item})
}

// AdminHandler manages the catalog: product creation and promotion windows.
type AdminHandler struct {
	Q        *db.Queries
	Cache    *Cache
	Validate *validator.Validate
}

type createProductPayload struct {
	Name        string `json:"name" validate:"required,min=2,max=120"`
	Slug        string `json:"slug" validate:"required,min=2,max=120"`
	Description string `json:"description"`
	Price       int64  `json:"price" validate:"gte=0"`
	ImageURL    string `json:"imageUrl"`
}

// CreateProduct inserts a catalog entry.
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var payload createProductPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.Validate.Struct(payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}
	params := db.CreateProductParams{
		Name:  payload.Name,
		Slug:  payload.Slug,
		Price: payload.Price,
	}
	if payload.Description != "" {
		params.Description = pgtype.Text{String: payload.Description, Valid: true}
	}
	if payload.ImageURL != "" {
		params.ImageURL = pgtype.Text{String: payload.ImageURL, Valid: true}
	}
	created, err := h.Q.CreateProduct(r.Context(), params)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			common.JSONError(w, http.StatusConflict, "DUPLICATE_SLUG", "product slug already exists", nil)
			return
		}
		common.RenderError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": map[string]any{
		"id":   common.UUIDString(created.ID),
		"slug": created.Slug,
	}})
}

type promotionPayload struct {
	DiscountPercent int32      `json:"discountPercent" validate:"required,gte=1,lte=100"`
	PromoUntil      *time.Time `json:"promoUntil"`
}

// SetPromotion assigns a discount window to a product. A missing promoUntil
// leaves the promotion open-ended.
func (h *AdminHandler) SetPromotion(w http.ResponseWriter, r *http.Request) {
	productID, err := common.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid product id", nil)
		return
	}
	var payload promotionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.Validate.Struct(payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}
	params := db.SetProductPromotionParams{
		ID:              productID,
		DiscountPercent: payload.DiscountPercent,
	}
	if payload.PromoUntil != nil {
		params.PromoUntil = pgtype.Timestamptz{Time: *payload.PromoUntil, Valid: true}
	}
	updated, err := h.Q.SetProductPromotion(r.Context(), params)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "product not found", nil)
			return
		}
		common.RenderError(w, err)
		return
	}
	_ = h.Cache.InvalidateProduct(r.Context(), updated.Slug)
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"id":              common.UUIDString(updated.ID),
		"discountPercent": updated.DiscountPercent,
	}})
}

// ClearPromotion removes a product's discount.
func (h *AdminHandler) ClearPromotion(w http.ResponseWriter, r *http.Request) {
	productID, err := common.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid product id", nil)
		return
	}
	updated, err := h.Q.ClearProductPromotion(r.Context(), productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "product not found", nil)
			return
		}
		common.RenderError(w, err)
		return
	}
	_ = h.Cache.InvalidateProduct(r.Context(), updated.Slug)
	w.WriteHeader(http.StatusNoContent)
}
