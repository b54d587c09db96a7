package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/digistore/internal/middleware"
)

type recordedHTTPMetric struct {
	method string
	status int
}

type mockHTTPMetrics struct {
	recorded []recordedHTTPMetric
}

func (m *mockHTTPMetrics) RecordHTTPRequest(method string, statusCode int, _ time.Duration) {
	m.recorded = append(m.recorded, recordedHTTPMetric{method: method, status: statusCode})
}

func newTestRouter(deps *RouterDeps) http.Handler {
	if deps.AuthService == nil {
		deps.AuthService = &mockAuthService{}
	}
	if deps.CatalogService == nil {
		deps.CatalogService = &mockCatalogService{}
	}
	if deps.OrderService == nil {
		deps.OrderService = &mockOrderService{}
	}
	return NewRouter(deps)
}

func TestRouter_Health(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		wantStatus int
		wantBody   string
	}{
		{"DB正常", nil, http.StatusOK, `"status":"ok"`},
		{"DB障害", errors.New("connection refused"), http.StatusServiceUnavailable, `"status":"unavailable"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&RouterDeps{HealthChecker: &mockHealthChecker{err: tt.pingErr}})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("body = %s, want %s", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRouter_MetricsEndpointAndRecording(t *testing.T) {
	recorder := &mockHTTPMetrics{}
	router := newTestRouter(&RouterDeps{
		HTTPMetrics: recorder,
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("# metrics"))
		}),
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK || w.Body.String() != "# metrics" {
		t.Errorf("metrics: status = %d, body = %q", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/categories", nil))

	if len(recorder.recorded) != 2 {
		t.Fatalf("recorded %d requests, want 2", len(recorder.recorded))
	}
	if recorder.recorded[1] != (recordedHTTPMetric{method: http.MethodGet, status: http.StatusOK}) {
		t.Errorf("recorded = %+v", recorder.recorded[1])
	}
}

func TestRouter_PreflightAndSecurityHeaders(t *testing.T) {
	router := newTestRouter(&RouterDeps{CORSAllowedOrigin: "https://shop.example.com"})

	req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if got := w.Header().Get("Access-Control-Allow-Headers"); !strings.Contains(got, "Authorization") {
		t.Errorf("Access-Control-Allow-Headers = %q, want Authorization", got)
	}
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
}

func TestRouter_AuthRateLimitPerIP(t *testing.T) {
	router := newTestRouter(&RouterDeps{AuthRateLimit: 1})

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("{"))
		req.RemoteAddr = "203.0.113.9:4000"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	if code := send(); code != http.StatusBadRequest {
		t.Errorf("1st: status = %d, want 400", code)
	}
	if code := send(); code != http.StatusTooManyRequests {
		t.Errorf("2nd: status = %d, want 429", code)
	}
}

func TestRouter_UnknownRoute_Returns404(t *testing.T) {
	router := newTestRouter(&RouterDeps{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

var _ middleware.HTTPMetricsRecorder = (*mockHTTPMetrics)(nil)
