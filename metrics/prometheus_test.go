package metrics

import (
	"context"
	"testing"

	"github.com/goliatone/go-frontrun/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusRecorder_CountsServiceOperations(t *testing.T) {
	registry := prometheus.NewRegistry()
	recorder := NewPrometheusRecorder(registry)

	svc, err := core.NewService(core.DefaultConfig(), core.WithMetricsRecorder(recorder))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()
	created, err := svc.CreateRequest(ctx, core.CreateRequestInput{
		Caller:         "ST1OWNER",
		TargetRef:      "STX123456",
		TargetContract: "TestContract",
		Description:    "watch",
		Bounty:         1,
	})
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if _, err := svc.CancelRequest(ctx, core.CancelRequestInput{Caller: "ST1STRANGER", ID: created.ID}); err == nil {
		t.Fatalf("expected stranger cancel to fail")
	}

	if got := testutil.ToFloat64(recorder.operations.WithLabelValues("create_request", "success", "")); got != 1 {
		t.Fatalf("expected one successful create, got %v", got)
	}
	if got := testutil.ToFloat64(recorder.operations.WithLabelValues("cancel_request", "failure", core.ErrorUnauthorized)); got != 1 {
		t.Fatalf("expected one unauthorized cancel, got %v", got)
	}
	if got := testutil.CollectAndCount(recorder.durations); got != 2 {
		t.Fatalf("expected 2 duration series, got %d", got)
	}
}

func TestPrometheusRecorder_IgnoresForeignNames(t *testing.T) {
	registry := prometheus.NewRegistry()
	recorder := NewPrometheusRecorder(registry)

	recorder.IncCounter(context.Background(), "other.thing.total", 1, nil)
	recorder.IncCounter(context.Background(), "frontrun..total", 1, nil)
	recorder.ObserveHistogram(context.Background(), "frontrun.create_request.total", 3, nil)

	if got := testutil.CollectAndCount(recorder.operations); got != 0 {
		t.Fatalf("expected no counter series, got %d", got)
	}
	if got := testutil.CollectAndCount(recorder.durations); got != 0 {
		t.Fatalf("expected no histogram series, got %d", got)
	}
}

func TestOperationFromName(t *testing.T) {
	operation, ok := operationFromName(" frontrun.list_requests_by_owner.duration_ms ", durationSuffix)
	if !ok || operation != "list_requests_by_owner" {
		t.Fatalf("unexpected operation %q (%v)", operation, ok)
	}
	if _, ok := operationFromName("frontrun.create_request.total", durationSuffix); ok {
		t.Fatalf("expected suffix mismatch to be rejected")
	}
}
