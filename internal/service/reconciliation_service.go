package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/checkout-next/internal/constants"
	"github.com/checkout-next/internal/logger"
	"github.com/checkout-next/internal/models"
	"github.com/checkout-next/internal/queue"
	"github.com/checkout-next/internal/repository"
)

// CheckoutReconciler 结账扇出部分失败时的登记入口
type CheckoutReconciler interface {
	Report(ctx context.Context, payload queue.CheckoutReconcilePayload) error
}

// ReconciliationService 对账记录服务（仅登记，不做自动补偿）
type ReconciliationService struct {
	repo        repository.ReconciliationRepository
	queueClient *queue.Client
}

// NewReconciliationService 创建对账记录服务
func NewReconciliationService(repo repository.ReconciliationRepository, queueClient *queue.Client) *ReconciliationService {
	return &ReconciliationService{
		repo:        repo,
		queueClient: queueClient,
	}
}

// Report 队列可用时异步登记，否则同步写入
func (s *ReconciliationService) Report(_ context.Context, payload queue.CheckoutReconcilePayload) error {
	if payload.OccurredAt.IsZero() {
		payload.OccurredAt = time.Now()
	}
	if s.queueClient != nil && s.queueClient.Enabled() {
		if err := s.queueClient.EnqueueCheckoutReconcile(payload); err != nil {
			logger.Warnw("reconcile_enqueue_failed",
				"transaction_id", payload.TransactionID,
				"reason", payload.Reason,
				"error", err,
			)
		} else {
			return nil
		}
	}
	_, err := s.Record(payload)
	return err
}

// Record 写入对账记录，同一流水同一原因的未处理记录只保留一条
func (s *ReconciliationService) Record(payload queue.CheckoutReconcilePayload) (*models.ReconciliationIssue, error) {
	reason := strings.TrimSpace(payload.Reason)
	if reason == "" {
		return nil, ErrInvalidInput
	}
	if payload.TransactionID > 0 {
		existing, err := s.repo.FindOpen(reason, payload.TransactionID)
		if err != nil {
			return nil, persistenceError("find open reconciliation issue", err)
		}
		if existing != nil {
			return existing, nil
		}
	}
	issue := &models.ReconciliationIssue{
		Reason:        reason,
		TransactionID: payload.TransactionID,
		OrderID:       payload.OrderID,
		UserID:        payload.UserID,
		Detail:        payload.Detail,
		Status:        constants.ReconciliationStatusOpen,
	}
	if !payload.OccurredAt.IsZero() {
		issue.CreatedAt = payload.OccurredAt
	}
	if err := s.repo.Create(issue); err != nil {
		return nil, persistenceError("create reconciliation issue", err)
	}
	logger.Warnw("reconcile_issue_recorded",
		"issue_id", issue.ID,
		"reason", issue.Reason,
		"transaction_id", issue.TransactionID,
		"order_id", issue.OrderID,
		"user_id", issue.UserID,
	)
	return issue, nil
}

// List 对账记录列表
func (s *ReconciliationService) List(filter repository.ReconciliationListFilter) ([]models.ReconciliationIssue, int64, error) {
	issues, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, persistenceError("list reconciliation issues", err)
	}
	return issues, total, nil
}

// Resolve 人工确认处理完成
func (s *ReconciliationService) Resolve(id uint) (*models.ReconciliationIssue, error) {
	issue, err := s.repo.GetByID(id)
	if err != nil {
		return nil, persistenceError("get reconciliation issue", err)
	}
	if issue == nil {
		return nil, fmt.Errorf("%w: %d", ErrReconciliationNotFound, id)
	}
	if issue.Status == constants.ReconciliationStatusResolved {
		return issue, nil
	}
	now := time.Now()
	if _, err := s.repo.MarkResolved(id, now); err != nil {
		return nil, persistenceError("resolve reconciliation issue", err)
	}
	issue.Status = constants.ReconciliationStatusResolved
	issue.ResolvedAt = &now
	logger.Infow("reconcile_issue_resolved", "issue_id", id)
	return issue, nil
}
