package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHealthz(t *testing.T) {
	healthy := true
	h := Handler(func(context.Context) error {
		if healthy {
			return nil
		}
		return errors.New("store down")
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthy status = %d", rec.Code)
	}

	healthy = false
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	body, _ := io.ReadAll(rec.Body)
	if rec.Code != http.StatusServiceUnavailable || !strings.Contains(string(body), "store down") {
		t.Fatalf("unhealthy = %d %q", rec.Code, body)
	}
}

func TestMetricsExposed(t *testing.T) {
	Logins.WithLabelValues("ok").Inc()

	rec := httptest.NewRecorder()
	Handler(func(context.Context) error { return nil }).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), `cayo_logins_total{result="ok"}`) {
		t.Fatal("login counter not exposed")
	}
}
