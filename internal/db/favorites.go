package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

// FavoriteKeyParams identifies one user/product favorite pair.
type FavoriteKeyParams struct {
	UserID    pgtype.UUID
	ProductID pgtype.UUID
}

// AddFavorite marks a product as a favorite. Inserting twice is a no-op.
func (q *Queries) AddFavorite(ctx context.Context, arg FavoriteKeyParams) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO favorites (user_id, product_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, product_id) DO NOTHING`,
		arg.UserID, arg.ProductID,
	)
	return err
}

// RemoveFavorite unmarks a favorite and reports whether a row was removed.
func (q *Queries) RemoveFavorite(ctx context.Context, arg FavoriteKeyParams) (int64, error) {
	tag, err := q.db.Exec(ctx, `
		DELETE FROM favorites WHERE user_id = $1 AND product_id = $2`,
		arg.UserID, arg.ProductID,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// CheckFavorite reports whether the product is in the user's favorites.
func (q *Queries) CheckFavorite(ctx context.Context, arg FavoriteKeyParams) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM favorites WHERE user_id = $1 AND product_id = $2
		)`,
		arg.UserID, arg.ProductID,
	).Scan(&exists)
	return exists, err
}

// ListFavorites returns the user's favorited products, newest first.
func (q *Queries) ListFavorites(ctx context.Context, userID pgtype.UUID) ([]FavoriteProduct, error) {
	rows, err := q.db.Query(ctx, `
		SELECT p.id, p.name, p.slug, p.image_url, p.price, p.discount_percent, p.promo_until, f.created_at
		FROM favorites f
		JOIN products p ON p.id = f.product_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []FavoriteProduct
	for rows.Next() {
		var fp FavoriteProduct
		if err := rows.Scan(&fp.ProductID, &fp.Name, &fp.Slug, &fp.ImageURL, &fp.Price, &fp.DiscountPercent, &fp.PromoUntil, &fp.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, fp)
	}
	return items, rows.Err()
}
