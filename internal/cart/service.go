package cart

import (
	"time"

	"github.com/lojinha-app/backend-lojinha/internal/db"
	"github.com/lojinha-app/backend-lojinha/internal/pricing"
)

// LinesForPricing adapts stored cart rows into pricing inputs. The coupon
// preview and checkout share this so every surface prices a cart identically.
func LinesForPricing(details []db.CartLineDetail) []pricing.Line {
	lines := make([]pricing.Line, 0, len(details))
	for _, d := range details {
		lines = append(lines, pricing.Line{
			Qty:   d.Qty,
			Promo: PromoFromDetail(d),
		})
	}
	return lines
}

// PromoFromDetail extracts the promotion inputs of one cart row.
func PromoFromDetail(d db.CartLineDetail) pricing.Promo {
	p := pricing.Promo{
		BasePrice:       d.Price,
		DiscountPercent: d.DiscountPercent,
	}
	if d.PromoUntil.Valid {
		p.PromoUntil = d.PromoUntil.Time
	}
	return p
}

// PromoFromProduct extracts the promotion inputs of a catalog row.
func PromoFromProduct(p db.Product) pricing.Promo {
	promo := pricing.Promo{
		BasePrice:       p.Price,
		DiscountPercent: p.DiscountPercent,
	}
	if p.PromoUntil.Valid {
		promo.PromoUntil = p.PromoUntil.Time
	}
	return promo
}

// View is one cart row rendered with its resolved price at a given instant.
type View struct {
	ID           string        `json:"id"`
	ProductID    string        `json:"productId"`
	Name         string        `json:"name"`
	Slug         string        `json:"slug"`
	ImageURL     string        `json:"imageUrl,omitempty"`
	Qty          int32         `json:"qty"`
	BasePrice    pricing.Money `json:"basePrice"`
	UnitPrice    pricing.Money `json:"unitPrice"`
	LineSubtotal pricing.Money `json:"lineSubtotal"`
	PromoActive  bool          `json:"promoActive"`
	PromoUntil   *time.Time    `json:"promoUntil,omitempty"`
	DiscountPct  int32         `json:"discountPercent"`
}
