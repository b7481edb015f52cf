package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/lojinha-app/backend-lojinha/internal/cart"
	"github.com/lojinha-app/backend-lojinha/internal/common"
	"github.com/lojinha-app/backend-lojinha/internal/db"
	"github.com/lojinha-app/backend-lojinha/internal/pricing"
)

type queryProvider interface {
	ListProducts(ctx context.Context, arg db.ListProductsParams) ([]db.Product, error)
	CountProducts(ctx context.Context) (int64, error)
	GetProductBySlug(ctx context.Context, slug string) (db.Product, error)
}

// Service assembles catalog payloads: stored products plus their effective
// price at the evaluation instant.
type Service struct {
	queries      queryProvider
	cache        *Cache
	defaultLimit int
	maxLimit     int
	now          func() time.Time
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Queries      queryProvider
	Cache        *Cache
	DefaultLimit int
	MaxLimit     int
	Now          func() time.Time
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Queries == nil {
		return nil, errors.New("catalog: queries provider is required")
	}
	defaultLimit := cfg.DefaultLimit
	if defaultLimit < 1 {
		defaultLimit = 20
	}
	maxLimit := cfg.MaxLimit
	if maxLimit < defaultLimit {
		maxLimit = 100
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		queries:      cfg.Queries,
		cache:        cfg.Cache,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		now:          now,
	}, nil
}

// ListParams captures pagination for product listing.
type ListParams struct {
	Page  int
	Limit int
}

// ParseListParams reads pagination from the query string, clamped to limits.
func (s *Service) ParseListParams(values url.Values) (ListParams, error) {
	params := ListParams{Page: 1, Limit: s.defaultLimit}
	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return ListParams{}, common.BadRequest("invalid page", fmt.Errorf("parse page %q", raw))
		}
		params.Page = page
	}
	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return ListParams{}, common.BadRequest("invalid limit", fmt.Errorf("parse limit %q", raw))
		}
		if limit > s.maxLimit {
			limit = s.maxLimit
		}
		params.Limit = limit
	}
	return params, nil
}

// Item is one catalog entry with its promotion resolved.
type Item struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Slug            string     `json:"slug"`
	Description     string     `json:"description,omitempty"`
	ImageURL        string     `json:"imageUrl,omitempty"`
	Price           int64      `json:"price"`
	EffectivePrice  int64      `json:"effectivePrice"`
	DiscountPercent int32      `json:"discountPercent"`
	PromoActive     bool       `json:"promoActive"`
	PromoUntil      *time.Time `json:"promoUntil,omitempty"`
}

// ListResult contains list data and pagination metadata.
type ListResult struct {
	Items []Item `json:"items"`
	Total int64  `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

// ListProducts returns a page of the catalog, served from cache when warm.
// Cached payloads carry resolved prices, so the TTL bounds how stale an
// expired promotion can appear.
func (s *Service) ListProducts(ctx context.Context, params ListParams) (ListResult, error) {
	key := fmt.Sprintf("%sp%d:l%d", keyProductList, params.Page, params.Limit)
	var cached ListResult
	if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}
	total, err := s.queries.CountProducts(ctx)
	if err != nil {
		return ListResult{}, fmt.Errorf("catalog: count products: %w", err)
	}
	rows, err := s.queries.ListProducts(ctx, db.ListProductsParams{
		Limit:  int32(params.Limit),
		Offset: int32((params.Page - 1) * params.Limit),
	})
	if err != nil {
		return ListResult{}, fmt.Errorf("catalog: list products: %w", err)
	}
	now := s.now()
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		item, err := s.toItem(row, now)
		if err != nil {
			return ListResult{}, err
		}
		items = append(items, item)
	}
	result := ListResult{Items: items, Total: total, Page: params.Page, Limit: params.Limit}
	_ = s.cache.SetJSON(ctx, key, result)
	return result, nil
}

// GetProduct returns one product by slug with its promotion resolved.
func (s *Service) GetProduct(ctx context.Context, slug string) (Item, error) {
	if slug == "" {
		return Item{}, common.BadRequest("slug is required", nil)
	}
	key := keyProductDetail + slug
	var cached Item
	if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}
	row, err := s.queries.GetProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, common.NotFound("product not found", err)
		}
		return Item{}, fmt.Errorf("catalog: get product: %w", err)
	}
	item, err := s.toItem(row, s.now())
	if err != nil {
		return Item{}, err
	}
	_ = s.cache.SetJSON(ctx, key, item)
	return item, nil
}

func (s *Service) toItem(row db.Product, now time.Time) (Item, error) {
	promo := cart.PromoFromProduct(row)
	effective, err := pricing.ResolveUnitPrice(promo, now)
	if err != nil {
		return Item{}, fmt.Errorf("catalog: resolve price for %s: %w", row.Slug, err)
	}
	item := Item{
		ID:              common.UUIDString(row.ID),
		Name:            row.Name,
		Slug:            row.Slug,
		Price:           row.Price,
		EffectivePrice:  effective,
		DiscountPercent: row.DiscountPercent,
		PromoActive:     promo.Active(now),
	}
	if row.Description.Valid {
		item.Description = row.Description.String
	}
	if row.ImageURL.Valid {
		item.ImageURL = row.ImageURL.String
	}
	if row.PromoUntil.Valid {
		t := row.PromoUntil.Time
		item.PromoUntil = &t
	}
	return item, nil
}
