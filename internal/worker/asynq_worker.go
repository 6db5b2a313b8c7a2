package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/checkout-next/internal/logger"
	"github.com/checkout-next/internal/provider"
	"github.com/checkout-next/internal/queue"
	"github.com/checkout-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskCheckoutReconcile, c.handleCheckoutReconcile)
}

func (c *Consumer) handleCheckoutReconcile(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_checkout_reconcile_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseCheckoutReconcilePayload(task.Payload())
	if err != nil {
		logger.Warnw("worker_checkout_reconcile_unmarshal_failed", "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if c.ReconciliationService == nil {
		logger.Warnw("worker_checkout_reconcile_skip_service_nil", "transaction_id", payload.TransactionID)
		return nil
	}
	issue, err := c.ReconciliationService.Record(payload)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			logger.Debugw("worker_checkout_reconcile_skip_invalid_payload",
				"transaction_id", payload.TransactionID,
				"reason", payload.Reason,
			)
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}
		logger.Warnw("worker_checkout_reconcile_record_failed",
			"transaction_id", payload.TransactionID,
			"reason", payload.Reason,
			"error", err,
		)
		return err
	}
	logger.Debugw("worker_checkout_reconcile_recorded", "issue_id", issue.ID, "transaction_id", issue.TransactionID)
	return nil
}
