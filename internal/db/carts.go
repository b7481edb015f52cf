package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

// UpsertCartLineParams adds a product to a user's cart, incrementing the
// quantity when the line already exists.
type UpsertCartLineParams struct {
	UserID    pgtype.UUID
	ProductID pgtype.UUID
	Qty       int32
}

// UpsertCartLine inserts or increments a cart line and returns the stored row.
func (q *Queries) UpsertCartLine(ctx context.Context, arg UpsertCartLineParams) (CartLine, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO cart_items (user_id, product_id, qty)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET qty = cart_items.qty + EXCLUDED.qty, updated_at = now()
		RETURNING id, user_id, product_id, qty, created_at, updated_at`,
		arg.UserID, arg.ProductID, arg.Qty,
	)
	var line CartLine
	err := row.Scan(&line.ID, &line.UserID, &line.ProductID, &line.Qty, &line.CreatedAt, &line.UpdatedAt)
	return line, err
}

// UpdateCartLineQtyParams sets the absolute quantity of a cart line.
type UpdateCartLineQtyParams struct {
	ID     pgtype.UUID
	UserID pgtype.UUID
	Qty    int32
}

// UpdateCartLineQty sets a line's quantity, scoped to its owner.
func (q *Queries) UpdateCartLineQty(ctx context.Context, arg UpdateCartLineQtyParams) (CartLine, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE cart_items
		SET qty = $3, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, product_id, qty, created_at, updated_at`,
		arg.ID, arg.UserID, arg.Qty,
	)
	var line CartLine
	err := row.Scan(&line.ID, &line.UserID, &line.ProductID, &line.Qty, &line.CreatedAt, &line.UpdatedAt)
	return line, err
}

// DeleteCartLineParams removes a single cart line, scoped to its owner.
type DeleteCartLineParams struct {
	ID     pgtype.UUID
	UserID pgtype.UUID
}

// DeleteCartLine removes one line and reports how many rows were affected.
func (q *Queries) DeleteCartLine(ctx context.Context, arg DeleteCartLineParams) (int64, error) {
	tag, err := q.db.Exec(ctx, `DELETE FROM cart_items WHERE id = $1 AND user_id = $2`, arg.ID, arg.UserID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListCartLines returns the user's cart joined with product pricing fields.
func (q *Queries) ListCartLines(ctx context.Context, userID pgtype.UUID) ([]CartLineDetail, error) {
	rows, err := q.db.Query(ctx, `
		SELECT ci.id, ci.product_id, ci.qty,
		       p.name, p.slug, p.image_url, p.price, p.discount_percent, p.promo_until
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at, ci.id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []CartLineDetail
	for rows.Next() {
		var l CartLineDetail
		if err := rows.Scan(
			&l.ID, &l.ProductID, &l.Qty,
			&l.Name, &l.Slug, &l.ImageURL, &l.Price, &l.DiscountPercent, &l.PromoUntil,
		); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// ClearCart deletes every cart line owned by the user.
func (q *Queries) ClearCart(ctx context.Context, userID pgtype.UUID) (int64, error) {
	tag, err := q.db.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteStaleCartLines removes lines untouched since the cutoff instant.
func (q *Queries) DeleteStaleCartLines(ctx context.Context, cutoff pgtype.Timestamptz) (int64, error) {
	tag, err := q.db.Exec(ctx, `DELETE FROM cart_items WHERE updated_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
