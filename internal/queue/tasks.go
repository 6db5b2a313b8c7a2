package queue

import (
	"encoding/json"
	"time"

	"github.com/checkout-next/internal/constants"

	"github.com/hibiken/asynq"
)

// TaskCheckoutReconcile 结账扇出部分失败后的对账登记任务
const TaskCheckoutReconcile = constants.TaskCheckoutReconcile

// CheckoutReconcilePayload 对账任务载荷
type CheckoutReconcilePayload struct {
	Reason        string    `json:"reason"`
	TransactionID uint      `json:"transaction_id"`
	OrderID       uint      `json:"order_id"`
	UserID        uint      `json:"user_id"`
	Detail        string    `json:"detail"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewCheckoutReconcileTask 创建对账任务
func NewCheckoutReconcileTask(payload CheckoutReconcilePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCheckoutReconcile, body), nil
}

// ParseCheckoutReconcilePayload 解析对账任务载荷
func ParseCheckoutReconcilePayload(body []byte) (CheckoutReconcilePayload, error) {
	var payload CheckoutReconcilePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return payload, err
	}
	return payload, nil
}
