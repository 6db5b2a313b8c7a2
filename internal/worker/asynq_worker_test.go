package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/checkout-next/internal/constants"
	"github.com/checkout-next/internal/models"
	"github.com/checkout-next/internal/provider"
	"github.com/checkout-next/internal/queue"
	"github.com/checkout-next/internal/repository"
	"github.com/checkout-next/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

var workerDBSeq atomic.Int64

func newTestConsumer(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:worker_%d?mode=memory&cache=shared", workerDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrateWith(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	repo := repository.NewReconciliationRepository(db)
	container := &provider.Container{
		DB:                    db,
		ReconciliationRepo:    repo,
		ReconciliationService: service.NewReconciliationService(repo, nil),
	}
	return NewConsumer(container), db
}

func reconcileTask(t *testing.T, payload queue.CheckoutReconcilePayload) *asynq.Task {
	t.Helper()
	task, err := queue.NewCheckoutReconcileTask(payload)
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	return task
}

func TestHandleCheckoutReconcileRecordsOnce(t *testing.T) {
	consumer, db := newTestConsumer(t)
	payload := queue.CheckoutReconcilePayload{
		Reason:        constants.ReconciliationReasonStockReduce,
		TransactionID: 11,
		OrderID:       3,
		UserID:        7,
		Detail:        "inventory unavailable",
	}

	for i := 0; i < 2; i++ {
		if err := consumer.handleCheckoutReconcile(context.Background(), reconcileTask(t, payload)); err != nil {
			t.Fatalf("handle task #%d failed: %v", i+1, err)
		}
	}

	var issues []models.ReconciliationIssue
	if err := db.Find(&issues).Error; err != nil {
		t.Fatalf("load issues failed: %v", err)
	}
	if len(issues) != 1 {
		t.Fatalf("issues want 1 got %d", len(issues))
	}
	if issues[0].Status != constants.ReconciliationStatusOpen || issues[0].OrderID != 3 {
		t.Fatalf("unexpected issue: %+v", issues[0])
	}
}

func TestHandleCheckoutReconcileSkipsBadPayload(t *testing.T) {
	consumer, _ := newTestConsumer(t)

	err := consumer.handleCheckoutReconcile(context.Background(), asynq.NewTask(queue.TaskCheckoutReconcile, []byte("{bad")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("malformed payload want SkipRetry got %v", err)
	}

	err = consumer.handleCheckoutReconcile(context.Background(), reconcileTask(t, queue.CheckoutReconcilePayload{TransactionID: 1}))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("missing reason want SkipRetry got %v", err)
	}
}

func TestNewServiceRequiresQueue(t *testing.T) {
	if _, err := NewService(nil, &Consumer{}); err == nil {
		t.Fatalf("expected error when queue config is nil")
	}
}
