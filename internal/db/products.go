package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const productColumns = `id, name, slug, description, price, image_url, discount_percent, promo_until, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (Product, error) {
	var p Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Slug,
		&p.Description,
		&p.Price,
		&p.ImageURL,
		&p.DiscountPercent,
		&p.PromoUntil,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

// CreateProductParams holds the fields required to insert a product.
type CreateProductParams struct {
	Name            string
	Slug            string
	Description     pgtype.Text
	Price           int64
	ImageURL        pgtype.Text
	DiscountPercent int32
	PromoUntil      pgtype.Timestamptz
}

// CreateProduct inserts a catalog product and returns the stored row.
func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO products (name, slug, description, price, image_url, discount_percent, promo_until)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+productColumns,
		arg.Name, arg.Slug, arg.Description, arg.Price, arg.ImageURL, arg.DiscountPercent, arg.PromoUntil,
	)
	return scanProduct(row)
}

// ListProductsParams controls catalog pagination.
type ListProductsParams struct {
	Limit  int32
	Offset int32
}

// ListProducts returns a page of products ordered by creation time.
func (q *Queries) ListProducts(ctx context.Context, arg ListProductsParams) ([]Product, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2`,
		arg.Limit, arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// CountProducts returns the total number of catalog products.
func (q *Queries) CountProducts(ctx context.Context) (int64, error) {
	var total int64
	err := q.db.QueryRow(ctx, `SELECT count(*) FROM products`).Scan(&total)
	return total, err
}

// GetProductBySlug loads a single product by slug.
func (q *Queries) GetProductBySlug(ctx context.Context, slug string) (Product, error) {
	row := q.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE slug = $1`, slug)
	return scanProduct(row)
}

// GetProductByID loads a single product by identifier.
func (q *Queries) GetProductByID(ctx context.Context, id pgtype.UUID) (Product, error) {
	row := q.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

// SetProductPromotionParams assigns a time-boxed promotion to a product.
type SetProductPromotionParams struct {
	ID              pgtype.UUID
	DiscountPercent int32
	PromoUntil      pgtype.Timestamptz
}

// SetProductPromotion assigns a discount percent and optional end instant.
func (q *Queries) SetProductPromotion(ctx context.Context, arg SetProductPromotionParams) (Product, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE products
		SET discount_percent = $2, promo_until = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+productColumns,
		arg.ID, arg.DiscountPercent, arg.PromoUntil,
	)
	return scanProduct(row)
}

// ClearProductPromotion removes any promotion from the product.
func (q *Queries) ClearProductPromotion(ctx context.Context, id pgtype.UUID) (Product, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE products
		SET discount_percent = 0, promo_until = NULL, updated_at = now()
		WHERE id = $1
		RETURNING `+productColumns,
		id,
	)
	return scanProduct(row)
}
