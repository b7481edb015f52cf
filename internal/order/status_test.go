package order

import (
	"testing"

	"github.com/lojinha-app/backend-lojinha/internal/db"
)

func TestCanAdvance(t *testing.T) {
	cases := []struct {
		current db.OrderStatus
		target  db.OrderStatus
		want    bool
	}{
		{db.OrderStatusPending, db.OrderStatusInTransit, true},
		{db.OrderStatusInTransit, db.OrderStatusDelivered, true},
		{db.OrderStatusPending, db.OrderStatusDelivered, false},
		{db.OrderStatusInTransit, db.OrderStatusPending, false},
		{db.OrderStatusDelivered, db.OrderStatusInTransit, false},
		{db.OrderStatusDelivered, db.OrderStatusDelivered, false},
		{db.OrderStatusPending, db.OrderStatusPending, false},
		{db.OrderStatusPending, db.OrderStatus("CANCELED"), false},
		{db.OrderStatus("BOGUS"), db.OrderStatusInTransit, false},
	}
	for _, tc := range cases {
		if got := CanAdvance(tc.current, tc.target); got != tc.want {
			t.Fatalf("%s -> %s: expected %v, got %v", tc.current, tc.target, tc.want, got)
		}
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []db.OrderStatus{db.OrderStatusPending, db.OrderStatusInTransit, db.OrderStatusDelivered} {
		if !ValidStatus(s) {
			t.Fatalf("%s must be valid", s)
		}
	}
	if ValidStatus(db.OrderStatus("SHIPPED")) {
		t.Fatalf("unknown status must be invalid")
	}
}
