package common

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParsePaginationDefaults(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/orders", nil)
	page, perPage := ParsePagination(r, 20)
	if page != 1 || perPage != 20 {
		t.Fatalf("expected defaults 1/20, got %d/%d", page, perPage)
	}
}

func TestParsePaginationReadsQuery(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/orders?page=3&limit=50", nil)
	page, perPage := ParsePagination(r, 20)
	if page != 3 || perPage != 50 {
		t.Fatalf("expected 3/50, got %d/%d", page, perPage)
	}
}

func TestParsePaginationClampsAndRejectsGarbage(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/orders?page=-2&limit=9999", nil)
	page, perPage := ParsePagination(r, 20)
	if page != 1 {
		t.Fatalf("non-positive page must fall back to 1, got %d", page)
	}
	if perPage != MaxPerPage {
		t.Fatalf("limit must clamp to %d, got %d", MaxPerPage, perPage)
	}

	r = httptest.NewRequest(http.MethodGet, "/orders?page=abc&limit=xyz", nil)
	page, perPage = ParsePagination(r, 20)
	if page != 1 || perPage != 20 {
		t.Fatalf("garbage values must fall back to defaults, got %d/%d", page, perPage)
	}
}

func TestNewPaginationTotalPages(t *testing.T) {
	p := NewPagination(2, 20, 41)
	if p.TotalPages != 3 {
		t.Fatalf("41 items at 20 per page is 3 pages, got %d", p.TotalPages)
	}
	if NewPagination(1, 20, 0).TotalPages != 0 {
		t.Fatalf("no items means no pages")
	}
}
