package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/lcorp/storefront/pkg/errors"
	"github.com/lcorp/storefront/pkg/pagination"
)

type loginBody struct {
	Username string `json:"username" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

func TestDecodeJSONBodyReportsFieldsByJSONName(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"quantity":0}`))
	var body loginBody
	err := DecodeJSONBody(req, &body)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	typed := pkgerrors.As(err)
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field map, got %T", typed.Details())
	}
	if details["username"] != "is required" || details["quantity"] != "must be greater than 0" {
		t.Fatalf("unexpected details %v", details)
	}
}

func TestDecodeJSONRejectsMissingAndUnknown(t *testing.T) {
	var body loginBody
	if err := DecodeJSON(httptest.NewRequest(http.MethodPost, "/", http.NoBody), &body); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for empty body, got %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"ana","extra":1}`))
	if err := DecodeJSON(req, &body); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for unknown field, got %v", err)
	}
}

func TestParsePage(t *testing.T) {
	params, err := ParsePage(httptest.NewRequest(http.MethodGet, "/?cursor=abc", nil))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if params.Limit != pagination.DefaultLimit || params.Cursor != "abc" {
		t.Fatalf("unexpected params %+v", params)
	}
	for _, raw := range []string{"0", "101", "ten"} {
		if _, err := ParsePage(httptest.NewRequest(http.MethodGet, "/?limit="+raw, nil)); err == nil {
			t.Fatalf("expected error for limit %q", raw)
		}
	}
}

func TestParsePathID(t *testing.T) {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("productID", "17")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	id, err := ParsePathID(req, "productID")
	if err != nil || id != 17 {
		t.Fatalf("expected 17, got %d (%v)", id, err)
	}
	if _, err := ParsePathID(req, "orderID"); err == nil {
		t.Fatal("expected error for a missing parameter")
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  lamp  ", 100); got != "lamp" {
		t.Fatalf("unexpected %q", got)
	}
	if got := SanitizeString("abcdef", 3); got != "abc" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestSanitizeStringKeepsRunesWhole(t *testing.T) {
	cases := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"café crème", 4, "café"},
		{"日本語テキスト", 3, "日本語"},
		{"naïve", 3, "naï"},
		{"ok", 5, "ok"},
		{" 日本 ", 2, "日本"},
		{"🙂🙂🙂", 1, "🙂"},
	}
	for _, tc := range cases {
		got := SanitizeString(tc.in, tc.maxLen)
		if got != tc.want {
			t.Fatalf("SanitizeString(%q, %d) = %q, want %q", tc.in, tc.maxLen, got, tc.want)
		}
		if !utf8.ValidString(got) {
			t.Fatalf("SanitizeString(%q, %d) produced invalid UTF-8 %q", tc.in, tc.maxLen, got)
		}
	}
}
