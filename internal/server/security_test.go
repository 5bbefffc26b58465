package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agbru/bootload/internal/lifecycle"
	"github.com/agbru/bootload/internal/metrics"
)

// serve sends req through the server's full route table.
func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func TestRoutes_HardeningHeaders(t *testing.T) {
	t.Parallel()
	want := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Referrer-Policy":         "no-referrer",
		"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
		"Cache-Control":           "no-store",
	}
	for _, path := range []string{"/healthz", "/metrics"} {
		for _, method := range []string{http.MethodGet, http.MethodPost} {
			t.Run(method+path, func(t *testing.T) {
				t.Parallel()
				rec := serve(newTestServer(lifecycle.Loading), httptest.NewRequest(method, path, http.NoBody))
				for k, v := range want {
					if got := rec.Header().Get(k); got != v {
						t.Errorf("%s = %q, want %q", k, got, v)
					}
				}
			})
		}
	}
}

func TestRoutes_GetOnly(t *testing.T) {
	t.Parallel()
	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodPost, "/healthz", http.StatusMethodNotAllowed},
		{http.MethodDelete, "/healthz", http.StatusMethodNotAllowed},
		{http.MethodPost, "/metrics", http.StatusMethodNotAllowed},
		{http.MethodPut, "/metrics", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.method+tt.path, func(t *testing.T) {
			t.Parallel()
			rec := serve(newTestServer(lifecycle.Succeeded), httptest.NewRequest(tt.method, tt.path, http.NoBody))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestRoutes_CORS(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		config     SecurityConfig
		origin     string
		wantOrigin string
	}{
		{"default allows any origin", DefaultSecurityConfig(), "https://grafana.example", "*"},
		{"listed origin echoed", SecurityConfig{
			EnableCORS:     true,
			AllowedOrigins: []string{"https://grafana.example"},
			AllowedMethods: []string{http.MethodGet},
		}, "https://grafana.example", "https://grafana.example"},
		{"unlisted origin refused", SecurityConfig{
			EnableCORS:     true,
			AllowedOrigins: []string{"https://grafana.example"},
		}, "https://evil.example", ""},
		{"missing origin refused", SecurityConfig{
			EnableCORS:     true,
			AllowedOrigins: []string{"https://grafana.example"},
		}, "", ""},
		{"disabled", SecurityConfig{AllowedOrigins: []string{"*"}}, "https://grafana.example", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := New("127.0.0.1:0", metrics.NewRecorder(), nil,
				WithLogger(newTestLogger()), WithSecurityConfig(tt.config))
			req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := serve(s, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			if tt.wantOrigin == "" && rec.Header().Get("Access-Control-Allow-Methods") != "" {
				t.Error("refused origin should not see allowed methods")
			}
		})
	}
}

func TestRoutes_Preflight(t *testing.T) {
	t.Parallel()
	for _, path := range []string{"/healthz", "/metrics"} {
		t.Run(path, func(t *testing.T) {
			t.Parallel()
			recorder := metrics.NewRecorder()
			s := New("127.0.0.1:0", recorder, nil, WithLogger(newTestLogger()))
			req := httptest.NewRequest(http.MethodOptions, path, http.NoBody)
			req.Header.Set("Origin", "https://grafana.example")
			req.Header.Set("Access-Control-Request-Method", http.MethodGet)

			rec := serve(s, req)

			if rec.Code != http.StatusNoContent {
				t.Errorf("status = %d, want 204", rec.Code)
			}
			if rec.Body.Len() != 0 {
				t.Errorf("preflight body = %q, want empty", rec.Body.String())
			}
			if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "GET, OPTIONS" {
				t.Errorf("Access-Control-Allow-Methods = %q, want %q", got, "GET, OPTIONS")
			}
			if got := rec.Header().Get("Access-Control-Max-Age"); got != "3600" {
				t.Errorf("Access-Control-Max-Age = %q, want 3600", got)
			}
			if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
				t.Errorf("X-Frame-Options = %q, want DENY", got)
			}
		})
	}
}
