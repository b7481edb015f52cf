package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/lojinha-app/backend-lojinha/internal/db"
)

type stubQueries struct {
	products []db.Product
	total    int64
}

func (s *stubQueries) ListProducts(_ context.Context, _ db.ListProductsParams) ([]db.Product, error) {
	return s.products, nil
}

func (s *stubQueries) CountProducts(_ context.Context) (int64, error) {
	return s.total, nil
}

func (s *stubQueries) GetProductBySlug(_ context.Context, slug string) (db.Product, error) {
	for _, p := range s.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return db.Product{}, pgx.ErrNoRows
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
}

func testProduct(slug string, price int64, discount int32, promoUntil time.Time) db.Product {
	p := db.Product{
		ID:              pgtype.UUID{Bytes: uuid.New(), Valid: true},
		Name:            "Produto " + slug,
		Slug:            slug,
		Price:           price,
		DiscountPercent: discount,
	}
	if !promoUntil.IsZero() {
		p.PromoUntil = pgtype.Timestamptz{Time: promoUntil, Valid: true}
	}
	return p
}

func newTestHandler(t *testing.T, q *stubQueries) *Handler {
	t.Helper()
	svc, err := NewService(ServiceConfig{
		Queries: q,
		Cache:   NewCache(nil, 0),
		Now:     fixedNow,
	})
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	return &Handler{Service: svc}
}

func TestProductsListResolvesEffectivePrices(t *testing.T) {
	q := &stubQueries{
		products: []db.Product{
			testProduct("camiseta", 10_000, 20, fixedNow().Add(24*time.Hour)),
			testProduct("caneca", 5_000, 20, fixedNow().Add(-24*time.Hour)),
			testProduct("adesivo", 500, 0, time.Time{}),
		},
		total: 3,
	}
	h := newTestHandler(t, q)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rec := httptest.NewRecorder()
	h.Products(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Data []Item `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) != 3 {
		t.Fatalf("expected 3 items, got %d", len(body.Data))
	}
	if body.Data[0].EffectivePrice != 8_000 || !body.Data[0].PromoActive {
		t.Fatalf("active promo must discount: %+v", body.Data[0])
	}
	if body.Data[1].EffectivePrice != 5_000 || body.Data[1].PromoActive {
		t.Fatalf("expired promo must not discount: %+v", body.Data[1])
	}
	if body.Data[2].EffectivePrice != 500 {
		t.Fatalf("no promo must keep base price: %+v", body.Data[2])
	}
	if rec.Header().Get("X-Total-Count") != "3" {
		t.Fatalf("expected total header 3, got %q", rec.Header().Get("X-Total-Count"))
	}
}

func TestProductsRejectsBadPagination(t *testing.T) {
	h := newTestHandler(t, &stubQueries{})
	req := httptest.NewRequest(http.MethodGet, "/products?page=zero", nil)
	rec := httptest.NewRecorder()
	h.Products(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestProductDetail(t *testing.T) {
	q := &stubQueries{products: []db.Product{testProduct("camiseta", 10_000, 10, time.Time{})}}
	h := newTestHandler(t, q)

	router := chi.NewRouter()
	router.Get("/products/{slug}", h.ProductDetail)

	req := httptest.NewRequest(http.MethodGet, "/products/camiseta", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Data Item `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.EffectivePrice != 9_000 {
		t.Fatalf("open-ended promo must discount: %+v", body.Data)
	}
}

func TestCreateProductPayloadAllowsFreePrice(t *testing.T) {
	validate := validator.New()
	payload := createProductPayload{Name: "Adesivo Brinde", Slug: "adesivo-brinde", Price: 0}
	if err := validate.Struct(payload); err != nil {
		t.Fatalf("a free product must validate: %v", err)
	}
	payload.Price = -1
	if err := validate.Struct(payload); err == nil {
		t.Fatal("a negative price must be rejected")
	}
}

func TestProductDetailNotFound(t *testing.T) {
	h := newTestHandler(t, &stubQueries{})

	router := chi.NewRouter()
	router.Get("/products/{slug}", h.ProductDetail)

	req := httptest.NewRequest(http.MethodGet, "/products/nada", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
