package middleware

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/airqo/platform/api/internal/tenant"
)

// ============================================================================
// Chain Tests
// ============================================================================

func TestChain_AppliesInOrder(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("H"))
	})
	tag := func(s string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(s))
				next.ServeHTTP(w, r)
			})
		}
	}

	rr := httptest.NewRecorder()
	Chain(handler, tag("1"), tag("2")).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Body.String() != "12H" {
		t.Errorf("expected '12H', got %q", rr.Body.String())
	}
}

// ============================================================================
// RequestID Tests
// ============================================================================

func TestRequestID(t *testing.T) {
	t.Parallel()

	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || rr.Header().Get("X-Request-ID") != seen {
		t.Errorf("expected generated id in context and header, got %q / %q", seen, rr.Header().Get("X-Request-ID"))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-42")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "req-42" {
		t.Errorf("expected client id to be kept, got %q", seen)
	}
}

// ============================================================================
// Recovery Tests
// ============================================================================

func TestRecovery_WritesEnvelope(t *testing.T) {
	t.Parallel()

	handler := Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("database exploded")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}

	var body struct {
		Success bool              `json:"success"`
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Success {
		t.Error("expected success=false")
	}
	if body.Errors["message"] != "database exploded" {
		t.Errorf("expected panic message under errors.message, got %v", body.Errors)
	}
}

// ============================================================================
// Tenant Tests
// ============================================================================

func newResolver(t *testing.T, allowed ...string) *tenant.Resolver {
	t.Helper()
	r, err := tenant.NewResolver("airqo", allowed)
	if err != nil {
		t.Fatalf("resolver: %v", err)
	}
	return r
}

func TestTenant(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		query  string
		status int
		want   tenant.ID
	}{
		{name: "absent uses default", query: "", status: http.StatusOK, want: "airqo"},
		{name: "normalized", query: "?tenant=KCCA", status: http.StatusOK, want: "kcca"},
		{name: "invalid", query: "?tenant=" + "%24where", status: http.StatusBadRequest},
		{name: "not allowed", query: "?tenant=mak", status: http.StatusBadRequest},
	}

	mw := Tenant(newResolver(t, "airqo", "kcca"))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got tenant.ID
			called := false
			handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				got, _ = tenant.FromContext(r.Context())
			}))

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/users"+tt.query, nil))

			if rr.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rr.Code)
			}
			if tt.status != http.StatusOK {
				if called {
					t.Error("handler must not run for a rejected tenant")
				}
				if !strings.Contains(rr.Body.String(), `"tenant"`) {
					t.Errorf("expected errors.tenant, got %s", rr.Body.String())
				}
				return
			}
			if got != tt.want {
				t.Errorf("expected tenant %q, got %q", tt.want, got)
			}
		})
	}
}

func TestLogger_SeesResolvedTenant(t *testing.T) {
	t.Parallel()

	var holder *tenantHolder
	handler := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		holder, _ = r.Context().Value(tenantHolderKey).(*tenantHolder)
		w.WriteHeader(http.StatusTeapot)
	}), Logger, Tenant(newResolver(t)))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/?tenant=kcca", nil))

	if rr.Code != http.StatusTeapot {
		t.Errorf("expected status to pass through, got %d", rr.Code)
	}
	if holder == nil || holder.id != "kcca" {
		t.Errorf("expected logger holder to carry kcca, got %+v", holder)
	}
}

// ============================================================================
// CORS and Compress Tests
// ============================================================================

func TestCORS_Preflight(t *testing.T) {
	t.Parallel()

	handler := CORS([]string{"https://platform.airqo.net"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("preflight must not reach the handler")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://platform.airqo.net")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "https://platform.airqo.net" {
		t.Errorf("unexpected origin header %q", rr.Header().Get("Access-Control-Allow-Origin"))
	}
	if !strings.Contains(rr.Header().Get("Access-Control-Allow-Methods"), "PUT") {
		t.Error("expected PUT to be allowed")
	}
}

func TestCompress(t *testing.T) {
	t.Parallel()

	handler := Compress(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true}`))
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Header().Get("Content-Encoding") != "gzip" {
		t.Fatal("expected gzip encoding")
	}
	gz, err := gzip.NewReader(rr.Body)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	body, _ := io.ReadAll(gz)
	if string(body) != `{"success":true}` {
		t.Errorf("unexpected body %q", body)
	}
}
