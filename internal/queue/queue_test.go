package queue

import (
	"testing"
	"time"

	"github.com/checkout-next/internal/config"
	"github.com/checkout-next/internal/constants"
)

func TestDisabledClientSkipsEnqueue(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("disabled client should report disabled")
	}
	if err := client.EnqueueCheckoutReconcile(CheckoutReconcilePayload{TransactionID: 1}); err != nil {
		t.Fatalf("disabled enqueue should be a no-op, got %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close disabled client failed: %v", err)
	}
}

func TestCheckoutReconcileTaskRoundTrip(t *testing.T) {
	occurred := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	task, err := NewCheckoutReconcileTask(CheckoutReconcilePayload{
		Reason:        constants.ReconciliationReasonStockReduce,
		TransactionID: 3,
		OrderID:       9,
		UserID:        2,
		Detail:        "inventory unreachable",
		OccurredAt:    occurred,
	})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if task.Type() != TaskCheckoutReconcile {
		t.Fatalf("unexpected task type: %s", task.Type())
	}
	payload, err := ParseCheckoutReconcilePayload(task.Payload())
	if err != nil {
		t.Fatalf("parse payload failed: %v", err)
	}
	if payload.TransactionID != 3 || payload.OrderID != 9 || !payload.OccurredAt.Equal(occurred) {
		t.Fatalf("payload mismatch: %+v", payload)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(&config.QueueConfig{Host: " redis ", Port: 6380, DB: 2})
	if opt.Addr != "redis:6380" || opt.DB != 2 {
		t.Fatalf("unexpected redis opt: %+v", opt)
	}
	if cfg.Concurrency != 10 {
		t.Fatalf("default concurrency want 10 got %d", cfg.Concurrency)
	}
	if cfg.Queues[CriticalQueue] != 2 || cfg.Queues[DefaultQueue] != 1 {
		t.Fatalf("unexpected default queues: %+v", cfg.Queues)
	}
}
