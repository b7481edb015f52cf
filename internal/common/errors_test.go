package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("row not found")
	err := NotFound("product not found", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause to surface")
	}
	if !IsAppError(fmt.Errorf("lookup: %w", err)) {
		t.Fatalf("IsAppError must see through wrapping")
	}
}

func TestSharedConstructors(t *testing.T) {
	cases := []struct {
		err    *AppError
		code   string
		status int
	}{
		{BadRequest("bad", nil), "BAD_REQUEST", http.StatusBadRequest},
		{NotFound("missing", nil), "NOT_FOUND", http.StatusNotFound},
		{Unauthorized("who", nil), "UNAUTHORIZED", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		if tc.err.Code != tc.code || tc.err.HTTPStatus != tc.status {
			t.Fatalf("expected %s/%d, got %s/%d", tc.code, tc.status, tc.err.Code, tc.err.HTTPStatus)
		}
	}
}
