package order

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/lojinha-app/backend-lojinha/internal/common"
	"github.com/lojinha-app/backend-lojinha/internal/db"
)

// Handler serves a shopper's own order history.
type Handler struct {
	Q *db.Queries
}

type orderView struct {
	ID         string     `json:"id"`
	Status     string     `json:"status"`
	Subtotal   int64      `json:"subtotal"`
	Discount   int64      `json:"discount"`
	Total      int64      `json:"total"`
	CouponCode string     `json:"couponCode,omitempty"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
}

type lineView struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Qty       int32  `json:"qty"`
	UnitPrice int64  `json:"unitPrice"`
	Subtotal  int64  `json:"subtotal"`
}

func toOrderView(o db.Order) orderView {
	v := orderView{
		ID:       common.UUIDString(o.ID),
		Status:   string(o.Status),
		Subtotal: o.Subtotal,
		Discount: o.Discount,
		Total:    o.Total,
	}
	if o.CouponCode.Valid {
		v.CouponCode = o.CouponCode.String
	}
	if o.CreatedAt.Valid {
		t := o.CreatedAt.Time
		v.CreatedAt = &t
	}
	return v
}

func toLineViews(lines []db.OrderLine) []lineView {
	views := make([]lineView, 0, len(lines))
	for _, ln := range lines {
		views = append(views, lineView{
			ID:        common.UUIDString(ln.ID),
			ProductID: common.UUIDString(ln.ProductID),
			Name:      ln.Name,
			Qty:       ln.Qty,
			UnitPrice: ln.UnitPrice,
			Subtotal:  ln.Subtotal,
		})
	}
	return views
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

// List returns the caller's orders, newest first, paginated.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.userID(w, r)
	if !ok {
		return
	}
	page, perPage := common.ParsePagination(r, 20)
	total, err := h.Q.CountOrdersForUser(r.Context(), uid)
	if err != nil {
		common.RenderError(w, err)
		return
	}
	orders, err := h.Q.ListOrdersForUser(r.Context(), db.ListOrdersForUserParams{
		UserID: uid,
		Limit:  int32(perPage),
		Offset: int32((page - 1) * perPage),
	})
	if err != nil {
		common.RenderError(w, err)
		return
	}
	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, toOrderView(o))
	}
	w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       views,
		"pagination": common.NewPagination(page, perPage, total),
	})
}

// Get returns one of the caller's orders together with its line snapshots.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.userID(w, r)
	if !ok {
		return
	}
	orderID, err := common.ParseUUID(chi.URLParam(r, "orderID"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid order id", nil)
		return
	}
	o, err := h.Q.GetOrderForUser(r.Context(), db.GetOrderForUserParams{ID: orderID, UserID: uid})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "order not found", nil)
			return
		}
		common.RenderError(w, err)
		return
	}
	lines, err := h.Q.ListOrderLines(r.Context(), o.ID)
	if err != nil {
		common.RenderError(w, err)
		return
	}
	view := toOrderView(o)
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"order": view,
		"items": toLineViews(lines),
	}})
}
