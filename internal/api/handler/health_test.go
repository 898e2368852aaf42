package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLiveness(t *testing.T) {
	rec := invoke(newTestEcho(), NewHealthHandler().Liveness, httptest.NewRequest(http.MethodGet, "/health", nil), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadiness(t *testing.T) {
	ok := DependencyCheck{Name: "mongodb", Ping: func(context.Context) error { return nil }}
	down := DependencyCheck{Name: "redis", Ping: func(context.Context) error { return errors.New("connection refused") }}

	rec := invoke(newTestEcho(), NewReadinessHandler(ok).Readiness, httptest.NewRequest(http.MethodGet, "/health/ready", nil), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = invoke(newTestEcho(), NewReadinessHandler(ok, down).Readiness, httptest.NewRequest(http.MethodGet, "/health/ready", nil), "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	var resp readinessResponse
	decodeBody(t, rec, &resp)
	if resp.Status != "degraded" || resp.Dependencies["redis"].Error == "" || resp.Dependencies["mongodb"].Status != "ok" {
		t.Fatalf("unexpected readiness body: %+v", resp)
	}
}
