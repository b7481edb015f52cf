package favorites

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/lojinha-app/backend-lojinha/internal/common"
)

type Handler struct {
	Svc *Service
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

type favoriteView struct {
	ProductID       string     `json:"productId"`
	Name            string     `json:"name"`
	Slug            string     `json:"slug"`
	ImageURL        string     `json:"imageUrl,omitempty"`
	Price           int64      `json:"price"`
	DiscountPercent int32      `json:"discountPercent"`
	PromoUntil      *time.Time `json:"promoUntil,omitempty"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.userID(w, r)
	if !ok {
		return
	}
	favs, err := h.Svc.List(r.Context(), uid)
	if err != nil {
		common.RenderError(w, err)
		return
	}
	views := make([]favoriteView, 0, len(favs))
	for _, f := range favs {
		v := favoriteView{
			ProductID:       common.UUIDString(f.ProductID),
			Name:            f.Name,
			Slug:            f.Slug,
			Price:           f.Price,
			DiscountPercent: f.DiscountPercent,
		}
		if f.ImageURL.Valid {
			v.ImageURL = f.ImageURL.String
		}
		if f.PromoUntil.Valid {
			t := f.PromoUntil.Time
			v.PromoUntil = &t
		}
		views = append(views, v)
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": views})
}

func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req struct {
		ProductID string `json:"productId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	productID, err := common.ParseUUID(req.ProductID)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid product id", nil)
		return
	}
	favorited, err := h.Svc.Toggle(r.Context(), uid, productID)
	if err != nil {
		common.RenderError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"favorited": favorited}})
}

func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.userID(w, r)
	if !ok {
		return
	}
	productID, err := common.ParseUUID(chi.URLParam(r, "productID"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid product id", nil)
		return
	}
	favorited, err := h.Svc.Check(r.Context(), uid, productID)
	if err != nil {
		common.RenderError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"favorited": favorited}})
}
