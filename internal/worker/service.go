package worker

import (
	"context"
	"errors"
	"time"

	"github.com/checkout-next/internal/config"
	"github.com/checkout-next/internal/constants"
	"github.com/checkout-next/internal/logger"
	"github.com/checkout-next/internal/queue"
	"github.com/checkout-next/internal/repository"

	"github.com/hibiken/asynq"
)

const (
	openIssueAuditInterval = 5 * time.Minute
)

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.ReconciliationService != nil {
		go s.runOpenIssueAuditLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runOpenIssueAuditLoop 定期输出未处理对账记录数量
func (s *Service) runOpenIssueAuditLoop(ctx context.Context) {
	runOnce := func() {
		_, total, err := s.consumer.ReconciliationService.List(repository.ReconciliationListFilter{
			Status:   constants.ReconciliationStatusOpen,
			Page:     1,
			PageSize: 1,
		})
		if err != nil {
			logger.Warnw("worker_reconcile_audit_failed", "error", err)
			return
		}
		if total > 0 {
			logger.Warnw("worker_reconcile_open_issues", "open_total", total)
		}
	}
	runOnce()

	ticker := time.NewTicker(openIssueAuditInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
