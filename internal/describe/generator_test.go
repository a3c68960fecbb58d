package describe_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/msoohome/storefront/internal/describe"
)

func TestHTTPGenerator_Describe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"  A lovely curtain for any living room.  "}`))
	}))
	defer srv.Close()

	g := describe.NewHTTPGenerator(srv.URL, "test-key", nil)
	got := g.Describe(context.Background(), "Luxury Velvet Curtains", "Curtains")
	if got != "A lovely curtain for any living room." {
		t.Fatalf("unexpected description: %q", got)
	}
}

func TestHTTPGenerator_MissingKeyFallsBack(t *testing.T) {
	g := describe.NewHTTPGenerator("http://localhost:0", "", nil)
	got := g.Describe(context.Background(), "Luxury Velvet Curtains", "Curtains")
	if got != describe.FallbackNotConfigured {
		t.Fatalf("expected not-configured fallback, got %q", got)
	}
}

func TestHTTPGenerator_ErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	g := describe.NewHTTPGenerator(srv.URL, "test-key", nil)
	got := g.Describe(context.Background(), "Luxury Velvet Curtains", "Curtains")
	if got != describe.FallbackFailed {
		t.Fatalf("expected failure fallback, got %q", got)
	}
}

func TestHTTPGenerator_EmptyBodyFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"text":"   "}`))
	}))
	defer srv.Close()

	g := describe.NewHTTPGenerator(srv.URL, "test-key", nil)
	if got := g.Describe(context.Background(), "X", "Curtains"); got != describe.FallbackFailed {
		t.Fatalf("expected failure fallback, got %q", got)
	}
}

func TestStaticGenerator(t *testing.T) {
	g := &describe.StaticGenerator{}
	if got := g.Describe(context.Background(), "X", "Beddings"); got != describe.FallbackNotConfigured {
		t.Fatalf("expected not-configured fallback, got %q", got)
	}

	g.Text = "Soft and durable."
	if got := g.Describe(context.Background(), "X", "Beddings"); got != "Soft and durable." {
		t.Fatalf("unexpected text: %q", got)
	}
}
