package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const orderColumns = `id, user_id, status, subtotal, discount, total, coupon_code, created_at`

func scanOrder(row interface{ Scan(...any) error }) (Order, error) {
	var o Order
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.Status,
		&o.Subtotal,
		&o.Discount,
		&o.Total,
		&o.CouponCode,
		&o.CreatedAt,
	)
	return o, err
}

// CreateOrderParams persists an order header with snapshot totals.
type CreateOrderParams struct {
	UserID     pgtype.UUID
	Subtotal   int64
	Discount   int64
	Total      int64
	CouponCode pgtype.Text
}

// CreateOrder inserts an order header in PENDING state.
func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO orders (user_id, status, subtotal, discount, total, coupon_code)
		VALUES ($1, 'PENDING', $2, $3, $4, $5)
		RETURNING `+orderColumns,
		arg.UserID, arg.Subtotal, arg.Discount, arg.Total, arg.CouponCode,
	)
	return scanOrder(row)
}

// CreateOrderLineParams persists one immutable line snapshot.
type CreateOrderLineParams struct {
	OrderID   pgtype.UUID
	ProductID pgtype.UUID
	Name      string
	Qty       int32
	UnitPrice int64
	Subtotal  int64
}

// CreateOrderLine inserts an order line.
func (q *Queries) CreateOrderLine(ctx context.Context, arg CreateOrderLineParams) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO order_items (order_id, product_id, name, qty, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		arg.OrderID, arg.ProductID, arg.Name, arg.Qty, arg.UnitPrice, arg.Subtotal,
	)
	return err
}

// ListOrdersForUserParams pages through a user's order history.
type ListOrdersForUserParams struct {
	UserID pgtype.UUID
	Limit  int32
	Offset int32
}

// ListOrdersForUser returns the user's orders, newest first.
func (q *Queries) ListOrdersForUser(ctx context.Context, arg ListOrdersForUserParams) ([]Order, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`,
		arg.UserID, arg.Limit, arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

// CountOrdersForUser returns the user's total order count.
func (q *Queries) CountOrdersForUser(ctx context.Context, userID pgtype.UUID) (int64, error) {
	var total int64
	err := q.db.QueryRow(ctx, `SELECT count(*) FROM orders WHERE user_id = $1`, userID).Scan(&total)
	return total, err
}

// GetOrderForUserParams scopes an order lookup to its owner.
type GetOrderForUserParams struct {
	ID     pgtype.UUID
	UserID pgtype.UUID
}

// GetOrderForUser loads a single order owned by the user.
func (q *Queries) GetOrderForUser(ctx context.Context, arg GetOrderForUserParams) (Order, error) {
	row := q.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 AND user_id = $2`, arg.ID, arg.UserID)
	return scanOrder(row)
}

// ListOrdersByStatus returns all orders in the given state, newest first.
// Used by the courier panel.
func (q *Queries) ListOrdersByStatus(ctx context.Context, status OrderStatus) ([]Order, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE status = $1
		ORDER BY created_at DESC, id`,
		status,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

// GetOrderStatus returns just the current status of an order.
func (q *Queries) GetOrderStatus(ctx context.Context, id pgtype.UUID) (OrderStatus, error) {
	var status OrderStatus
	err := q.db.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, id).Scan(&status)
	return status, err
}

// AdvanceOrderStatusParams moves an order from an expected current status to
// the next one. The expected status guards against concurrent updates.
type AdvanceOrderStatusParams struct {
	ID   pgtype.UUID
	From OrderStatus
	To   OrderStatus
}

// AdvanceOrderStatus performs a compare-and-set status transition and
// reports how many rows were affected.
func (q *Queries) AdvanceOrderStatus(ctx context.Context, arg AdvanceOrderStatusParams) (int64, error) {
	tag, err := q.db.Exec(ctx, `
		UPDATE orders SET status = $3 WHERE id = $1 AND status = $2`,
		arg.ID, arg.From, arg.To,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListOrderLines returns the immutable line snapshots of an order.
func (q *Queries) ListOrderLines(ctx context.Context, orderID pgtype.UUID) ([]OrderLine, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, order_id, product_id, name, qty, unit_price, subtotal
		FROM order_items
		WHERE order_id = $1
		ORDER BY id`,
		orderID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []OrderLine
	for rows.Next() {
		var l OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Name, &l.Qty, &l.UnitPrice, &l.Subtotal); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func collectOrders(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]Order, error) {
	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
