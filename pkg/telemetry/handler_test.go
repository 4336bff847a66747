package telemetry

import (
	"context"
	"net/http/httptest"
	"testing"
)

func TestMetricsHandlerServesExposition(t *testing.T) {
	provider, err := NewProvider(context.Background(), DefaultConfig())
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	defer provider.Shutdown(context.Background())

	handler := provider.MetricsHandler()
	if handler == nil {
		t.Fatal("MetricsHandler() = nil with metrics enabled")
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 200 {
		t.Errorf("GET /metrics status = %d, want 200", rec.Code)
	}
}

func TestMetricsHandlerNilWhenMetricsDisabled(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{
		ServiceName:   "test-service",
		EnableMetrics: false,
	})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	if provider.MetricsHandler() != nil {
		t.Error("MetricsHandler() should be nil when metrics are disabled")
	}
}
