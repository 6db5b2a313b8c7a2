package service

import (
	"context"
	"fmt"

	"github.com/checkout-next/internal/cache"
	"github.com/checkout-next/internal/logger"
	"github.com/checkout-next/internal/models"
	"github.com/checkout-next/internal/repository"
)

// GetOrderByOrderID 获取订单详情，优先读取快照缓存
func (s *OrderService) GetOrderByOrderID(ctx context.Context, orderID uint) (*models.Order, error) {
	if orderID == 0 {
		return nil, ErrInvalidInput
	}
	if cached, hit, err := cache.GetOrderSnapshot(ctx, orderID); err != nil {
		logger.Warnw("order_snapshot_cache_get_failed", "order_id", orderID, "error", err)
	} else if hit {
		return cached, nil
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, persistenceError("get order", err)
	}
	if order == nil {
		return nil, fmt.Errorf("%w: %d", ErrOrderNotFound, orderID)
	}
	if err := cache.SetOrderSnapshot(ctx, order, s.cacheTTL); err != nil {
		logger.Warnw("order_snapshot_cache_set_failed", "order_id", orderID, "error", err)
	}
	return order, nil
}

// GetOrderByUser 获取用户自己的订单
func (s *OrderService) GetOrderByUser(userID, orderID uint) (*models.Order, error) {
	if userID == 0 {
		return nil, ErrInvalidUserID
	}
	order, err := s.orderRepo.GetByUserAndID(userID, orderID)
	if err != nil {
		return nil, persistenceError("get order", err)
	}
	if order == nil {
		return nil, fmt.Errorf("%w: order %d of user %d", ErrOrderNotFound, orderID, userID)
	}
	return order, nil
}

// ListOrdersByUser 获取用户订单列表
func (s *OrderService) ListOrdersByUser(userID uint, page, pageSize int) ([]models.Order, int64, error) {
	if userID == 0 {
		return nil, 0, ErrInvalidUserID
	}
	return s.ListOrders(repository.OrderListFilter{UserID: userID, Page: page, PageSize: pageSize})
}

// ListOrders 订单列表（管理端）
func (s *OrderService) ListOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	orders, total, err := s.orderRepo.List(filter)
	if err != nil {
		return nil, 0, persistenceError("list orders", err)
	}
	return orders, total, nil
}
