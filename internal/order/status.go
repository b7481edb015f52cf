package order

import (
	"github.com/lojinha-app/backend-lojinha/internal/db"
)

// statusRank orders the delivery lifecycle. The progression is forward-only:
// PENDING, then IN_TRANSIT, then DELIVERED, one step at a time.
func statusRank(status db.OrderStatus) int {
	switch status {
	case db.OrderStatusPending:
		return 0
	case db.OrderStatusInTransit:
		return 1
	case db.OrderStatusDelivered:
		return 2
	default:
		return -1
	}
}

// ValidStatus reports whether the value names a known lifecycle state.
func ValidStatus(status db.OrderStatus) bool {
	return statusRank(status) >= 0
}

// CanAdvance reports whether target is the immediate successor of current.
// Regressions, no-ops and skipped states are all rejected.
func CanAdvance(current, target db.OrderStatus) bool {
	cr, tr := statusRank(current), statusRank(target)
	if cr < 0 || tr < 0 {
		return false
	}
	return tr == cr+1
}
