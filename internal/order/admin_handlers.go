package order

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/lojinha-app/backend-lojinha/internal/common"
	"github.com/lojinha-app/backend-lojinha/internal/db"
	"github.com/lojinha-app/backend-lojinha/internal/events"
)

// AdminHandler provides the courier panel: listing orders by delivery state
// and advancing them through the lifecycle.
type AdminHandler struct {
	Q      *db.Queries
	Events *events.Bus
}

// ListByStatus returns orders in the requested state, oldest first, so the
// courier works the backlog in arrival order.
func (h *AdminHandler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	status := db.OrderStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = db.OrderStatusPending
	}
	if !ValidStatus(status) {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "unsupported status", nil)
		return
	}
	orders, err := h.Q.ListOrdersByStatus(r.Context(), status)
	if err != nil {
		common.RenderError(w, err)
		return
	}
	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, toOrderView(o))
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": views})
}

type patchStatusRequest struct {
	Status string `json:"status"`
}

// PatchStatus advances an order one step through the delivery lifecycle.
// The underlying update is a compare-and-set on the expected current state,
// so two couriers racing the same transition resolve to one winner.
func (h *AdminHandler) PatchStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := common.ParseUUID(chi.URLParam(r, "orderID"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid order id", nil)
		return
	}
	var req patchStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	target := db.OrderStatus(req.Status)
	if !ValidStatus(target) {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "unsupported status", nil)
		return
	}
	current, err := h.Q.GetOrderStatus(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "order not found", nil)
			return
		}
		common.RenderError(w, err)
		return
	}
	if !CanAdvance(current, target) {
		common.JSONError(w, http.StatusConflict, "INVALID_STATE", "cannot transition to equal or previous state", nil)
		return
	}
	affected, err := h.Q.AdvanceOrderStatus(r.Context(), db.AdvanceOrderStatusParams{
		ID:   orderID,
		From: current,
		To:   target,
	})
	if err != nil {
		common.RenderError(w, err)
		return
	}
	if affected == 0 {
		common.JSONError(w, http.StatusConflict, "INVALID_STATE", "order status changed concurrently", nil)
		return
	}
	if h.Events != nil {
		_, _ = h.Events.Emit(r.Context(), events.TopicOrderStatusChanged, orderID, map[string]any{
			"orderId": common.UUIDString(orderID),
			"from":    string(current),
			"status":  string(target),
		})
	}
	w.WriteHeader(http.StatusNoContent)
}
