package instrumentation

import (
	"context"
	"testing"
	"time"
)

func newTestProvider(t *testing.T, ctx context.Context, detailedLabels bool) *Provider {
	t.Helper()
	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: "prometheus",
		TracingExporter: "none",
		DetailedLabels:  detailedLabels,
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	t.Cleanup(func() { _ = provider.Shutdown(ctx) })
	return provider
}

func TestMetrics_RecordHTTPRequest(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider := newTestProvider(t, ctx, false)

	metrics := provider.Metrics()
	if metrics == nil {
		t.Fatal("expected metrics to be non-nil")
	}

	// Should not panic
	metrics.RecordHTTPRequest(ctx, "GET", "/mcp", 200, 100*time.Millisecond)
	metrics.RecordHTTPRequest(ctx, "POST", "/mcp", 500, 50*time.Millisecond)
}

func TestMetrics_RecordStoreOperation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider := newTestProvider(t, ctx, false)

	metrics := provider.Metrics()

	// Should not panic
	metrics.RecordStoreOperation(ctx, OperationCreate, StatusSuccess, 2*time.Millisecond)
	metrics.RecordStoreOperation(ctx, OperationQuery, StatusError, 5*time.Millisecond)
	metrics.RecordStoreOperation(ctx, OperationDelete, StatusSuccess, 1*time.Millisecond)
}

func TestMetrics_RecordDispatchOperation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider := newTestProvider(t, ctx, false)

	metrics := provider.Metrics()

	// Should not panic
	metrics.RecordDispatchOperation(ctx, OperationAdd, StatusSuccess, "")
	metrics.RecordDispatchOperation(ctx, OperationComplete, StatusError, "not-found")
	metrics.RecordDispatchOperation(ctx, OperationUpdate, StatusError, "permission-denied")
}

func TestMetrics_RecordToolInvocation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider := newTestProvider(t, ctx, false)

	metrics := provider.Metrics()

	// Should not panic
	metrics.RecordToolInvocation(ctx, "add_task", StatusSuccess, 100*time.Millisecond)
	metrics.RecordToolInvocation(ctx, "complete_task", StatusError, 500*time.Millisecond)
}

func TestMetrics_RecordToolInvocationWithOwner(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Test without detailed labels
	provider := newTestProvider(t, ctx, false)

	metrics := provider.Metrics()

	// Should not panic - owner should be ignored
	metrics.RecordToolInvocationWithOwner(ctx, "add_task", StatusSuccess, BucketOwner(7), 100*time.Millisecond)
}

func TestMetrics_RecordToolInvocationWithOwner_DetailedLabels(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Test with detailed labels
	provider := newTestProvider(t, ctx, true)

	metrics := provider.Metrics()

	// Should not panic - owner should be included
	metrics.RecordToolInvocationWithOwner(ctx, "add_task", StatusSuccess, BucketOwner(7), 100*time.Millisecond)
}

func TestMetrics_ActiveSessions(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider := newTestProvider(t, ctx, false)

	metrics := provider.Metrics()

	// Should not panic
	metrics.IncrementActiveSessions(ctx)
	metrics.IncrementActiveSessions(ctx)
	metrics.DecrementActiveSessions(ctx)
}

func TestMetrics_NoOp_WhenDisabled(t *testing.T) {
	ctx := context.Background()

	provider, err := NewProvider(ctx, Config{
		ServiceName:    "test-service",
		ServiceVersion: "1.0.0",
		Enabled:        false,
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}

	metrics := provider.Metrics()
	if metrics == nil {
		t.Fatal("expected metrics to be non-nil even when disabled")
	}

	// All these should not panic even with nil underlying metrics
	metrics.RecordHTTPRequest(ctx, "GET", "/mcp", 200, 100*time.Millisecond)
	metrics.RecordStoreOperation(ctx, OperationQuery, StatusSuccess, 200*time.Millisecond)
	metrics.RecordDispatchOperation(ctx, OperationAdd, StatusSuccess, "")
	metrics.RecordToolInvocation(ctx, "test_tool", StatusSuccess, 100*time.Millisecond)
	metrics.RecordToolInvocationWithOwner(ctx, "test_tool", StatusSuccess, BucketOwner(7), 100*time.Millisecond)
	metrics.IncrementActiveSessions(ctx)
	metrics.DecrementActiveSessions(ctx)
}
