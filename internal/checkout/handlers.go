package checkout

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/lojinha-app/backend-lojinha/internal/common"
	"github.com/lojinha-app/backend-lojinha/internal/coupon"
)

// Handler exposes order placement over HTTP.
type Handler struct {
	Svc *Service
}

// Place handles POST /checkout.
func (h *Handler) Place(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	// An empty body is a checkout without a coupon.
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil && !errors.Is(err, io.EOF) {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	out, err := h.Svc.Place(r.Context(), userID, in)
	if err != nil {
		renderPlacementError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": out})
}

func renderPlacementError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
	case errors.Is(err, ErrEmptyCart):
		common.JSONError(w, http.StatusUnprocessableEntity, "EMPTY_CART", "cart is empty", nil)
	case errors.Is(err, coupon.ErrNotFound), errors.Is(err, coupon.ErrExpired), errors.Is(err, coupon.ErrExhausted):
		coupon.RenderValidationError(w, err)
	case IsPartial(err):
		common.JSONError(w, http.StatusInternalServerError, "PARTIAL_ORDER", "order could not be completed", nil)
	default:
		var se *StageError
		if errors.As(err, &se) {
			common.JSONError(w, http.StatusInternalServerError, "PERSISTENCE", "order could not be placed", nil)
			return
		}
		common.RenderError(w, err)
	}
}
